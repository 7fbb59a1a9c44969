package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "github.com/iadityaojha/Ai-Based-Multiple-Social-Media-Automation/configs"
	"github.com/iadityaojha/Ai-Based-Multiple-Social-Media-Automation/internal/models"
	"github.com/iadityaojha/Ai-Based-Multiple-Social-Media-Automation/internal/transfer"
	"github.com/iadityaojha/Ai-Based-Multiple-Social-Media-Automation/pkg/utils"
)

type fakeApiKeyRepo struct {
	keys   map[int64]*models.UserApiKey
	nextID int64
}

func newFakeApiKeyRepo() *fakeApiKeyRepo {
	return &fakeApiKeyRepo{keys: make(map[int64]*models.UserApiKey), nextID: 1}
}

func (f *fakeApiKeyRepo) GetByID(ctx context.Context, id int64) (*models.UserApiKey, bool, error) {
	key, ok := f.keys[id]
	if !ok {
		return nil, false, nil
	}
	return key, true, nil
}

func (f *fakeApiKeyRepo) GetByUserIDAndType(ctx context.Context, userID int64, keyType string) (*models.UserApiKey, bool, error) {
	for _, key := range f.keys {
		if key.UserID == userID && key.KeyType == keyType {
			return key, true, nil
		}
	}
	return nil, false, nil
}

func (f *fakeApiKeyRepo) GetByUserID(ctx context.Context, userID int64) ([]*models.UserApiKey, error) {
	var out []*models.UserApiKey
	for _, key := range f.keys {
		if key.UserID == userID {
			out = append(out, key)
		}
	}
	return out, nil
}

func (f *fakeApiKeyRepo) Create(ctx context.Context, apiKey *models.UserApiKey) (int64, error) {
	id := f.nextID
	f.nextID++
	cp := *apiKey
	cp.ID = id
	cp.CreatedAt = time.Now()
	f.keys[id] = &cp
	return id, nil
}

func (f *fakeApiKeyRepo) Update(ctx context.Context, apiKey *models.UserApiKey) error {
	f.keys[apiKey.ID] = apiKey
	return nil
}

func (f *fakeApiKeyRepo) UpdateUsage(ctx context.Context, id int64, lastUsed time.Time) error {
	if key, ok := f.keys[id]; ok {
		key.LastUsed = &lastUsed
	}
	return nil
}

func (f *fakeApiKeyRepo) CheckByUserID(ctx context.Context, keyID, userID int64) (bool, error) {
	key, ok := f.keys[keyID]
	return ok && key.UserID == userID, nil
}

func (f *fakeApiKeyRepo) Remove(ctx context.Context, id int64) error {
	delete(f.keys, id)
	return nil
}

func testConfig() config.Config {
	return config.Config{
		SecretKey:     "test-secret",
		EncryptionKey: "test-encryption-key",
	}
}

func TestApiKeyCreateEncryptsAndMasks(t *testing.T) {
	repo := newFakeApiKeyRepo()
	s := NewApiKeyService(testConfig(), repo)

	info, err := s.Create(context.Background(), 1, &transfer.ApiKeyCreation{
		KeyType: models.KeyTypeOpenAI,
		ApiKey:  "sk-verysecretvalue01",
	})
	require.NoError(t, err)

	assert.Equal(t, models.KeyTypeOpenAI, info.KeyType)
	assert.True(t, info.IsValid)
	assert.NotContains(t, info.MaskedKey, "verysecret")
	assert.Contains(t, info.MaskedKey, "e01")

	stored := repo.keys[info.ID]
	require.NotNil(t, stored)
	assert.NotEqual(t, "sk-verysecretvalue01", stored.EncryptedKey)

	decrypted, err := utils.Decrypt(stored.EncryptedKey, utils.DeriveKey("test-encryption-key"))
	require.NoError(t, err)
	assert.Equal(t, "sk-verysecretvalue01", decrypted)
}

func TestApiKeyCreateRejectsInvalidInput(t *testing.T) {
	repo := newFakeApiKeyRepo()
	s := NewApiKeyService(testConfig(), repo)

	_, err := s.Create(context.Background(), 1, &transfer.ApiKeyCreation{
		KeyType: "carrier-pigeon",
		ApiKey:  "sk-verysecretvalue01",
	})
	assert.Error(t, err)

	_, err = s.Create(context.Background(), 1, &transfer.ApiKeyCreation{
		KeyType: models.KeyTypeOpenAI,
		ApiKey:  "short",
	})
	assert.Error(t, err)
}

func TestApiKeyCreateDuplicateType(t *testing.T) {
	repo := newFakeApiKeyRepo()
	s := NewApiKeyService(testConfig(), repo)

	kc := &transfer.ApiKeyCreation{KeyType: models.KeyTypeGemini, ApiKey: "gm-1234567890"}
	_, err := s.Create(context.Background(), 1, kc)
	require.NoError(t, err)

	_, err = s.Create(context.Background(), 1, kc)
	assert.Error(t, err)

	// A different user can hold the same type.
	_, err = s.Create(context.Background(), 2, kc)
	assert.NoError(t, err)
}

func TestApiKeyStatus(t *testing.T) {
	repo := newFakeApiKeyRepo()
	s := NewApiKeyService(testConfig(), repo)

	_, err := s.Create(context.Background(), 1, &transfer.ApiKeyCreation{KeyType: models.KeyTypeOpenAI, ApiKey: "sk-1234567890"})
	require.NoError(t, err)
	_, err = s.Create(context.Background(), 1, &transfer.ApiKeyCreation{KeyType: models.KeyTypeLinkedin, ApiKey: "li-1234567890"})
	require.NoError(t, err)

	status, err := s.Status(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, status.OpenAI)
	assert.True(t, status.Linkedin)
	assert.False(t, status.Gemini)
	assert.False(t, status.Facebook)
}

func TestDecryptedKeyRoundtrip(t *testing.T) {
	repo := newFakeApiKeyRepo()
	s := NewApiKeyService(testConfig(), repo)

	_, err := s.Create(context.Background(), 1, &transfer.ApiKeyCreation{
		KeyType:     models.KeyTypeLinkedin,
		ApiKey:      "li-token-9876543210",
		Credentials: map[string]string{"org_id": "12345"},
	})
	require.NoError(t, err)

	key, creds, found, err := s.DecryptedKey(context.Background(), 1, models.KeyTypeLinkedin)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "li-token-9876543210", key)
	assert.Equal(t, "12345", creds["org_id"])

	// Usage timestamp is updated.
	stored, _, _ := repo.GetByUserIDAndType(context.Background(), 1, models.KeyTypeLinkedin)
	require.NotNil(t, stored.LastUsed)

	_, _, found, err = s.DecryptedKey(context.Background(), 1, models.KeyTypeFacebook)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestDecryptedKeySkipsInvalidKey(t *testing.T) {
	repo := newFakeApiKeyRepo()
	s := NewApiKeyService(testConfig(), repo)

	_, err := s.Create(context.Background(), 1, &transfer.ApiKeyCreation{
		KeyType: models.KeyTypeOpenAI,
		ApiKey:  "sk-1234567890",
	})
	require.NoError(t, err)

	stored, found, err := repo.GetByUserIDAndType(context.Background(), 1, models.KeyTypeOpenAI)
	require.NoError(t, err)
	require.True(t, found)
	stored.IsValid = false

	_, _, found, err = s.DecryptedKey(context.Background(), 1, models.KeyTypeOpenAI)
	require.NoError(t, err)
	assert.False(t, found)

	// Reads never flip validity back on.
	assert.False(t, stored.IsValid)
	assert.Nil(t, stored.LastUsed)
}

func TestRemoveAPIKeyOwnership(t *testing.T) {
	repo := newFakeApiKeyRepo()
	s := NewApiKeyService(testConfig(), repo)

	info, err := s.Create(context.Background(), 1, &transfer.ApiKeyCreation{KeyType: models.KeyTypeOpenAI, ApiKey: "sk-1234567890"})
	require.NoError(t, err)

	// Another user cannot delete it.
	err = s.RemoveAPIKey(context.Background(), 2, info.ID)
	assert.Error(t, err)

	err = s.RemoveAPIKey(context.Background(), 1, info.ID)
	require.NoError(t, err)

	_, exists, _ := repo.GetByID(context.Background(), info.ID)
	assert.False(t, exists)
}
