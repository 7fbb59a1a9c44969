package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/iadityaojha/Ai-Based-Multiple-Social-Media-Automation/internal/models"
)

type ApiKeyRepository interface {
	GetByID(ctx context.Context, id int64) (*models.UserApiKey, bool, error)
	GetByUserIDAndType(ctx context.Context, userID int64, keyType string) (*models.UserApiKey, bool, error)
	GetByUserID(ctx context.Context, userID int64) ([]*models.UserApiKey, error)
	Create(ctx context.Context, apiKey *models.UserApiKey) (int64, error)
	Update(ctx context.Context, apiKey *models.UserApiKey) error
	UpdateUsage(ctx context.Context, id int64, lastUsed time.Time) error
	CheckByUserID(ctx context.Context, keyID, userID int64) (bool, error)
	Remove(ctx context.Context, id int64) error
}

type apiKeyRepository struct {
	db *sql.DB
}

func NewApiKeyRepository(db *sql.DB) ApiKeyRepository {
	return &apiKeyRepository{db: db}
}

const apiKeyColumns = `id, user_id, key_type, encrypted_key, encrypted_credentials, key_name, is_valid, last_used, created_at, updated_at`

func scanApiKey(row interface{ Scan(...any) error }) (*models.UserApiKey, error) {
	var k models.UserApiKey
	err := row.Scan(&k.ID, &k.UserID, &k.KeyType, &k.EncryptedKey, &k.EncryptedCredentials,
		&k.KeyName, &k.IsValid, &k.LastUsed, &k.CreatedAt, &k.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &k, nil
}

func (r *apiKeyRepository) GetByID(ctx context.Context, id int64) (*models.UserApiKey, bool, error) {
	query := `SELECT ` + apiKeyColumns + ` FROM user_api_keys WHERE id = $1`
	key, err := scanApiKey(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}
	return key, true, nil
}

func (r *apiKeyRepository) GetByUserIDAndType(ctx context.Context, userID int64, keyType string) (*models.UserApiKey, bool, error) {
	query := `SELECT ` + apiKeyColumns + ` FROM user_api_keys WHERE user_id = $1 AND key_type = $2`
	key, err := scanApiKey(r.db.QueryRowContext(ctx, query, userID, keyType))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}
	return key, true, nil
}

func (r *apiKeyRepository) GetByUserID(ctx context.Context, userID int64) ([]*models.UserApiKey, error) {
	query := `SELECT ` + apiKeyColumns + ` FROM user_api_keys WHERE user_id = $1 ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var apiKeys []*models.UserApiKey
	for rows.Next() {
		key, err := scanApiKey(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		apiKeys = append(apiKeys, key)
	}
	return apiKeys, nil
}

func (r *apiKeyRepository) Create(ctx context.Context, apiKey *models.UserApiKey) (int64, error) {
	query := `
		INSERT INTO user_api_keys (user_id, key_type, encrypted_key, encrypted_credentials, key_name, is_valid)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRowContext(ctx, query, apiKey.UserID, apiKey.KeyType, apiKey.EncryptedKey,
		apiKey.EncryptedCredentials, apiKey.KeyName, apiKey.IsValid).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return id, nil
}

func (r *apiKeyRepository) Update(ctx context.Context, apiKey *models.UserApiKey) error {
	query := `
		UPDATE user_api_keys
		SET encrypted_key = $1,
			encrypted_credentials = $2,
			key_name = $3,
			is_valid = $4,
			updated_at = $5
		WHERE id = $6
	`
	_, err := r.db.ExecContext(ctx, query, apiKey.EncryptedKey, apiKey.EncryptedCredentials,
		apiKey.KeyName, apiKey.IsValid, time.Now(), apiKey.ID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

// UpdateUsage stamps last_used only. Validity is never touched by reads.
func (r *apiKeyRepository) UpdateUsage(ctx context.Context, id int64, lastUsed time.Time) error {
	query := `UPDATE user_api_keys SET last_used = $1, updated_at = $2 WHERE id = $3`
	_, err := r.db.ExecContext(ctx, query, lastUsed, time.Now(), id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *apiKeyRepository) CheckByUserID(ctx context.Context, keyID, userID int64) (bool, error) {
	query := "SELECT 1 FROM user_api_keys WHERE id = $1 AND user_id = $2"

	var result int
	err := r.db.QueryRowContext(ctx, query, keyID, userID).Scan(&result)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		slog.Info(err.Error())
		return false, err
	}

	return result == 1, nil
}

func (r *apiKeyRepository) Remove(ctx context.Context, id int64) error {
	query := `DELETE FROM user_api_keys WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
