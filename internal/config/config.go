package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration
type Config struct {
	// Server
	Port        string
	Environment string

	// Database
	DatabaseURL string

	// Auth
	JWTSecret          string
	JWTExpirationHours int

	// Storage
	StoragePath   string
	StorageAppURL string

	// Workers
	WorkerCount int

	// CORS
	AllowedOrigins []string

	// Email
	ResendAPIKey string
	FromEmail    string

	// Monitoring
	SentryDSN string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		Environment:        getEnv("ENVIRONMENT", "development"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		JWTExpirationHours: getEnvInt("JWT_EXPIRATION_HOURS", 24),
		StoragePath:        getEnv("STORAGE_PATH", "./storage"),
		StorageAppURL:      getEnv("STORAGE_APP_URL", "http://localhost:8080/uploads"),
		WorkerCount:        getEnvInt("WORKER_COUNT", 5),
		AllowedOrigins:     getEnvList("ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		ResendAPIKey:       os.Getenv("RESEND_API_KEY"),
		FromEmail:          getEnv("FROM_EMAIL", "noreply@pawhome.tw"),
		SentryDSN:          os.Getenv("SENTRY_DSN"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

// IsProduction returns true when running in the production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return fallback
}
