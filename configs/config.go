package config

import (
	"os"
	"strconv"
)

type R2 struct {
	AccountID  string
	AccessKey  string
	SecretKey  string
	BucketName string
}

type LLM struct {
	DefaultModel string
	Temperature  float64
}

type Config struct {
	GoogleClientID       string
	GoogleClientSecret   string
	GoogleRedirectURI    string
	LinkedinClientID     string
	LinkedinRedirectURI  string
	InstagramClientID    string
	InstagramRedirectURI string
	FacebookClientID     string
	FacebookRedirectURI  string
	PostgresURI          string
	RedisURI             string
	FrontendURL          string
	R2                   R2
	LLM                  LLM
	SecretKey            string
	EncryptionKey        string
	CookieName           string
	CheckInterval        int // seconds between scheduler ticks
	MaxRetryAttempts     int
}

func LoadConfig() *Config {
	return &Config{
		GoogleClientID:       getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret:   getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURI:    getEnv("GOOGLE_REDIRECT_URI", "http://localhost:3000/login/callback"),
		LinkedinClientID:     getEnv("LINKEDIN_CLIENT_ID", ""),
		LinkedinRedirectURI:  getEnv("LINKEDIN_REDIRECT_URI", ""),
		InstagramClientID:    getEnv("INSTAGRAM_CLIENT_ID", ""),
		InstagramRedirectURI: getEnv("INSTAGRAM_REDIRECT_URI", ""),
		FacebookClientID:     getEnv("FACEBOOK_CLIENT_ID", ""),
		FacebookRedirectURI:  getEnv("FACEBOOK_REDIRECT_URI", ""),
		PostgresURI:          getEnv("POSTGRES_URI", ""),
		RedisURI:             getEnv("REDIS_URI", "127.0.0.1:6379"),
		FrontendURL:          getEnv("FRONTEND_URL", "http://localhost:5173"),
		R2: R2{
			AccountID:  getEnv("R2_ACCOUNT_ID", ""),
			AccessKey:  getEnv("R2_ACCESS_KEY", ""),
			SecretKey:  getEnv("R2_SECRET_KEY", ""),
			BucketName: getEnv("R2_BUCKET_NAME", ""),
		},
		LLM: LLM{
			DefaultModel: getEnv("DEFAULT_LLM_MODEL", "gpt-4o-mini"),
			Temperature:  getEnvFloat("DEFAULT_LLM_TEMPERATURE", 0.7),
		},
		SecretKey:        getEnv("SECRET_KEY", ""),
		EncryptionKey:    getEnv("ENCRYPTION_KEY", ""),
		CookieName:       getEnv("COOKIE_NAME", "session_token"),
		CheckInterval:    getEnvInt("SCHEDULER_CHECK_INTERVAL", 60),
		MaxRetryAttempts: getEnvInt("MAX_RETRY_ATTEMPTS", 3),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
