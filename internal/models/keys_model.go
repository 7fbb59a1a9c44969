package models

import "time"

type UserApiKey struct {
	ID                   int64      `db:"id" json:"id"`
	UserID               int64      `db:"user_id" json:"user_id"`
	KeyType              string     `db:"key_type" json:"key_type"`
	EncryptedKey         string     `db:"encrypted_key" json:"-"`
	EncryptedCredentials *string    `db:"encrypted_credentials" json:"-"`
	KeyName              string     `db:"key_name" json:"key_name"`
	IsValid              bool       `db:"is_valid" json:"is_valid"`
	LastUsed             *time.Time `db:"last_used" json:"last_used"`
	CreatedAt            time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time  `db:"updated_at" json:"updated_at"`
}

const (
	KeyTypeOpenAI    = "openai"
	KeyTypeGemini    = "gemini"
	KeyTypeAnthropic = "anthropic"
	KeyTypeLinkedin  = "linkedin"
	KeyTypeInstagram = "instagram"
	KeyTypeFacebook  = "facebook"
)

func IsValidKeyType(keyType string) bool {
	switch keyType {
	case KeyTypeOpenAI, KeyTypeGemini, KeyTypeAnthropic,
		KeyTypeLinkedin, KeyTypeInstagram, KeyTypeFacebook:
		return true
	}
	return false
}
