package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	NodeEnv   string
	Port      string
	JWTSecret string
	Database  DatabaseConfig
	Editor    EditorConfig
	ERP       ERPConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Database string
}

// EditorConfig holds floor-plan editing session settings
type EditorConfig struct {
	AutosaveWindowMS  int // debounce window for persisting session snapshots
	SessionTTLMinutes int // idle editing sessions older than this are evicted
}

// ERPConfig holds the XML-RPC price list connection settings. Sync is
// disabled when URL is empty.
type ERPConfig struct {
	URL          string
	Database     string
	Username     string
	Password     string
	SyncInterval int // in minutes
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return &Config{
		NodeEnv:   getEnv("NODE_ENV", "development"),
		Port:      getEnv("PORT", "3310"),
		JWTSecret: jwtSecret,
		Database: DatabaseConfig{
			Host:     getEnv("PG_HOST", "localhost"),
			Port:     getEnv("PG_PORT", "5432"),
			Username: getEnv("PG_USERNAME", "postgres"),
			Password: os.Getenv("PG_PASSWORD"),
			Database: getEnv("PG_DATABASE", "voltsite"),
		},
		Editor: EditorConfig{
			AutosaveWindowMS:  getEnvInt("EDITOR_AUTOSAVE_MS", 50),
			SessionTTLMinutes: getEnvInt("EDITOR_SESSION_TTL_MIN", 30),
		},
		ERP: ERPConfig{
			URL:          os.Getenv("ERP_URL"),
			Database:     os.Getenv("ERP_DATABASE"),
			Username:     os.Getenv("ERP_USERNAME"),
			Password:     os.Getenv("ERP_PASSWORD"),
			SyncInterval: getEnvInt("ERP_SYNC_INTERVAL_MIN", 60),
		},
	}, nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable with default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
