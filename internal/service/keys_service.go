package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	config "github.com/iadityaojha/Ai-Based-Multiple-Social-Media-Automation/configs"
	"github.com/iadityaojha/Ai-Based-Multiple-Social-Media-Automation/internal/models"
	"github.com/iadityaojha/Ai-Based-Multiple-Social-Media-Automation/internal/repository"
	"github.com/iadityaojha/Ai-Based-Multiple-Social-Media-Automation/internal/transfer"
	"github.com/iadityaojha/Ai-Based-Multiple-Social-Media-Automation/pkg/utils"
)

// ApiKeyService stores per-user provider credentials. Values are encrypted
// with AES-GCM before they reach the database and only ever listed masked.
type ApiKeyService interface {
	Create(ctx context.Context, userID int64, kc *transfer.ApiKeyCreation) (*transfer.ApiKeyInfo, error)
	Update(ctx context.Context, userID, keyID int64, ku *transfer.ApiKeyUpdate) (*transfer.ApiKeyInfo, error)
	List(ctx context.Context, userID int64) ([]*transfer.ApiKeyInfo, error)
	Status(ctx context.Context, userID int64) (*transfer.ApiKeyStatus, error)
	RemoveAPIKey(ctx context.Context, userID, keyID int64) error
	DecryptedKey(ctx context.Context, userID int64, keyType string) (string, map[string]string, bool, error)
}

type apiKeyService struct {
	k      repository.ApiKeyRepository
	encKey []byte
}

func NewApiKeyService(cfg config.Config, k repository.ApiKeyRepository) ApiKeyService {
	secret := cfg.EncryptionKey
	if secret == "" {
		secret = cfg.SecretKey
	}
	return &apiKeyService{
		k:      k,
		encKey: utils.DeriveKey(secret),
	}
}

func (s *apiKeyService) Create(ctx context.Context, userID int64, kc *transfer.ApiKeyCreation) (*transfer.ApiKeyInfo, error) {
	if !models.IsValidKeyType(kc.KeyType) {
		err := fmt.Errorf("invalid key type: %s", kc.KeyType)
		slog.Info(err.Error())
		return nil, err
	}

	if len(kc.ApiKey) < 10 {
		err := errors.New("api key value is too short")
		slog.Info(err.Error())
		return nil, err
	}

	_, exists, err := s.k.GetByUserIDAndType(ctx, userID, kc.KeyType)
	if err != nil {
		return nil, err
	}
	if exists {
		err = fmt.Errorf("a %s key already exists, update or delete it first", kc.KeyType)
		slog.Info(err.Error())
		return nil, err
	}

	encryptedKey, err := utils.Encrypt([]byte(kc.ApiKey), s.encKey)
	if err != nil {
		return nil, fmt.Errorf("encryption failed: %w", err)
	}

	var encryptedCredentials *string
	if len(kc.Credentials) > 0 {
		raw, err := json.Marshal(kc.Credentials)
		if err != nil {
			return nil, err
		}
		enc, err := utils.Encrypt(raw, s.encKey)
		if err != nil {
			return nil, fmt.Errorf("encryption failed: %w", err)
		}
		encryptedCredentials = &enc
	}

	keyName := kc.KeyName
	if keyName == "" {
		keyName = fmt.Sprintf("My %s key", kc.KeyType)
	}

	apiKey := &models.UserApiKey{
		UserID:               userID,
		KeyType:              kc.KeyType,
		EncryptedKey:         encryptedKey,
		EncryptedCredentials: encryptedCredentials,
		KeyName:              keyName,
		IsValid:              true,
	}

	id, err := s.k.Create(ctx, apiKey)
	if err != nil {
		return nil, fmt.Errorf("error saving API key")
	}
	apiKey.ID = id
	apiKey.CreatedAt = time.Now()

	return s.toInfo(apiKey, kc.ApiKey), nil
}

func (s *apiKeyService) Update(ctx context.Context, userID, keyID int64, ku *transfer.ApiKeyUpdate) (*transfer.ApiKeyInfo, error) {
	isValid, err := s.k.CheckByUserID(ctx, keyID, userID)
	if err != nil {
		return nil, err
	}
	if !isValid {
		err = errors.New("key doesn't exist")
		slog.Info(err.Error())
		return nil, err
	}

	apiKey, _, err := s.k.GetByID(ctx, keyID)
	if err != nil {
		return nil, err
	}

	if ku.KeyName != "" {
		apiKey.KeyName = ku.KeyName
	}

	plaintext := ""
	if ku.ApiKey != "" {
		encryptedKey, err := utils.Encrypt([]byte(ku.ApiKey), s.encKey)
		if err != nil {
			return nil, fmt.Errorf("encryption failed: %w", err)
		}
		apiKey.EncryptedKey = encryptedKey
		apiKey.IsValid = true
		plaintext = ku.ApiKey
	}

	if len(ku.Credentials) > 0 {
		raw, err := json.Marshal(ku.Credentials)
		if err != nil {
			return nil, err
		}
		enc, err := utils.Encrypt(raw, s.encKey)
		if err != nil {
			return nil, fmt.Errorf("encryption failed: %w", err)
		}
		apiKey.EncryptedCredentials = &enc
	}

	if err := s.k.Update(ctx, apiKey); err != nil {
		return nil, fmt.Errorf("error updating API key")
	}

	if plaintext == "" {
		plaintext, _ = utils.Decrypt(apiKey.EncryptedKey, s.encKey)
	}
	return s.toInfo(apiKey, plaintext), nil
}

func (s *apiKeyService) List(ctx context.Context, userID int64) ([]*transfer.ApiKeyInfo, error) {
	apiKeys, err := s.k.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error getting API keys")
	}

	infos := make([]*transfer.ApiKeyInfo, 0, len(apiKeys))
	for _, key := range apiKeys {
		decrypted, err := utils.Decrypt(key.EncryptedKey, s.encKey)
		if err != nil {
			decrypted = ""
		}
		infos = append(infos, s.toInfo(key, decrypted))
	}
	return infos, nil
}

func (s *apiKeyService) Status(ctx context.Context, userID int64) (*transfer.ApiKeyStatus, error) {
	apiKeys, err := s.k.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error getting API keys")
	}

	var status transfer.ApiKeyStatus
	for _, key := range apiKeys {
		if !key.IsValid {
			continue
		}
		switch key.KeyType {
		case models.KeyTypeOpenAI:
			status.OpenAI = true
		case models.KeyTypeGemini:
			status.Gemini = true
		case models.KeyTypeAnthropic:
			status.Anthropic = true
		case models.KeyTypeLinkedin:
			status.Linkedin = true
		case models.KeyTypeInstagram:
			status.Instagram = true
		case models.KeyTypeFacebook:
			status.Facebook = true
		}
	}
	return &status, nil
}

func (s *apiKeyService) RemoveAPIKey(ctx context.Context, userID, keyID int64) error {
	var err error

	if userID == 0 {
		err = errors.New("UserID is not valid")
		slog.Info(err.Error())
		return err
	}

	if keyID == 0 {
		err = errors.New("KeyID is not valid")
		slog.Info(err.Error())
		return err
	}

	isValid, err := s.k.CheckByUserID(ctx, keyID, userID)
	if err != nil {
		return err
	}

	if !isValid {
		err = errors.New("key doesn't exist")
		slog.Info(err.Error())
		return err
	}

	err = s.k.Remove(ctx, keyID)
	if err != nil {
		return err
	}
	return nil
}

// DecryptedKey returns the plaintext key and credentials of the given type, or
// found=false when the user has no valid key of that type.
func (s *apiKeyService) DecryptedKey(ctx context.Context, userID int64, keyType string) (string, map[string]string, bool, error) {
	record, exists, err := s.k.GetByUserIDAndType(ctx, userID, keyType)
	if err != nil {
		return "", nil, false, err
	}
	if !exists || !record.IsValid {
		return "", nil, false, nil
	}

	key, err := utils.Decrypt(record.EncryptedKey, s.encKey)
	if err != nil {
		return "", nil, false, fmt.Errorf("could not decrypt stored key: %w", err)
	}

	credentials := map[string]string{}
	if record.EncryptedCredentials != nil {
		raw, err := utils.Decrypt(*record.EncryptedCredentials, s.encKey)
		if err == nil {
			if err := json.Unmarshal([]byte(raw), &credentials); err != nil {
				slog.Info(err.Error())
			}
		}
	}

	if err := s.k.UpdateUsage(ctx, record.ID, time.Now()); err != nil {
		slog.Info(err.Error())
	}

	return key, credentials, true, nil
}

func (s *apiKeyService) toInfo(key *models.UserApiKey, plaintext string) *transfer.ApiKeyInfo {
	info := &transfer.ApiKeyInfo{
		ID:        key.ID,
		KeyType:   key.KeyType,
		KeyName:   key.KeyName,
		MaskedKey: utils.MaskKey(plaintext, 4),
		IsValid:   key.IsValid,
		CreatedAt: key.CreatedAt.Format(time.RFC3339),
	}
	if key.LastUsed != nil {
		info.LastUsed = key.LastUsed.Format(time.RFC3339)
	}
	return info
}
