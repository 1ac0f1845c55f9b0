package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port string

	// Database configuration
	DBType               string // mysql, postgres, sqlite, sqlserver, etc.
	DBHost               string
	DBPort               string
	DBDatabase           string
	DBAppUser            string
	DBAppPassword        string
	DBAppConnectionLimit int
	DBAdminUser          string
	DBAdminPassword      string
	DBAdminConnectionLimit int

	// Authorizer configuration
	AuthzURL      string
	AuthzClientID string

	// Legacy token auth (HMAC bearer tokens issued by the retired stack)
	LegacyTokenSecret string

	// Wizard draft store
	RedisURL string
	DraftTTL time.Duration

	// Object storage (direct upload fallback)
	StorageEndpoint  string
	StorageAccessKey string
	StorageSecretKey string
	StorageBucket    string
	StorageUseSSL    bool
	StoragePublicURL string

	// Primary upload route (legacy media service, optional)
	MediaUploadURL string

	// Upload limits
	MaxUploadBytes int64

	// AI suggestions
	GenAIKey   string
	GenAIModel string
}

// Load loads configuration from environment variables. A .env file in the
// working directory is applied first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:                   getEnv("PORT", "3000"),
		DBType:                 getEnv("DB_TYPE", "mysql"),
		DBHost:                 getEnv("DB_HOST", "localhost"),
		DBPort:                 getEnv("DB_PORT", "3306"),
		DBDatabase:             getEnv("DB_DATABASE", ""),
		DBAppUser:              getEnv("DB_APP_USER", ""),
		DBAppPassword:          getEnv("DB_APP_PASSWORD", ""),
		DBAppConnectionLimit:   getEnvAsInt("DB_APP_CONNECTION_LIMIT", 5),
		DBAdminUser:            getEnv("DB_ADMIN_USER", ""),
		DBAdminPassword:        getEnv("DB_ADMIN_PASSWORD", ""),
		DBAdminConnectionLimit: getEnvAsInt("DB_ADMIN_CONNECTION_LIMIT", 2),
		AuthzURL:               getEnv("AUTHZ_URL", ""),
		AuthzClientID:          getEnv("AUTHZ_CLIENT_ID", ""),
		LegacyTokenSecret:      getEnv("LEGACY_TOKEN_SECRET", ""),
		RedisURL:               getEnv("REDIS_URL", "redis://localhost:6379/0"),
		DraftTTL:               time.Duration(getEnvAsInt("DRAFT_TTL_HOURS", 72)) * time.Hour,
		StorageEndpoint:        getEnv("STORAGE_ENDPOINT", ""),
		StorageAccessKey:       getEnv("STORAGE_ACCESS_KEY", ""),
		StorageSecretKey:       getEnv("STORAGE_SECRET_KEY", ""),
		StorageBucket:          getEnv("STORAGE_BUCKET", "sop-media"),
		StorageUseSSL:          getEnvAsBool("STORAGE_USE_SSL", false),
		StoragePublicURL:       getEnv("STORAGE_PUBLIC_URL", ""),
		MediaUploadURL:         getEnv("MEDIA_UPLOAD_URL", ""),
		MaxUploadBytes:         int64(getEnvAsInt("MAX_UPLOAD_MB", 100)) * 1024 * 1024,
		GenAIKey:               getEnv("GENAI_API_KEY", ""),
		GenAIModel:             getEnv("GENAI_MODEL", "gemini-2.0-flash"),
	}

	// Validate required fields
	if cfg.DBDatabase == "" {
		return nil, fmt.Errorf("DB_DATABASE is required")
	}
	if cfg.DBAppUser == "" && cfg.DBType != "sqlite" {
		return nil, fmt.Errorf("DB_APP_USER is required")
	}
	if cfg.AuthzURL == "" {
		return nil, fmt.Errorf("AUTHZ_URL is required")
	}
	if cfg.AuthzClientID == "" {
		return nil, fmt.Errorf("AUTHZ_CLIENT_ID is required")
	}

	return cfg, nil
}

// StorageConfigured reports whether the direct-to-storage fallback can run.
func (c *Config) StorageConfigured() bool {
	return c.StorageEndpoint != "" && c.StorageAccessKey != "" && c.StorageSecretKey != ""
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsBool gets an environment variable as a bool or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
