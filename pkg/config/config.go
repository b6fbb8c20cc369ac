package config

import (
	"fmt"
	"os"
	"strconv"

	// Load environment variables from .env files when present.
	_ "github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Database      DatabaseConfig
	Import        ImportConfig
	Classify      ClassifyConfig
	Decrypt       DecryptConfig
	Observability ObservabilityConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// ImportConfig tunes the import pipeline.
type ImportConfig struct {
	DefaultCurrency string
	ChunkSize       int
	Concurrency     int
	CacheTTLMinutes int
}

// ClassifyConfig points at the remote classification service.
type ClassifyConfig struct {
	BaseURL string
	Token   string
}

// DecryptConfig points at the spreadsheet decryption service.
type DecryptConfig struct {
	BaseURL string
}

type ObservabilityConfig struct {
	MetricsEnabled bool
	MetricsPort    int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Database: DatabaseConfig{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnvAsInt("POSTGRES_PORT", 5432),
			User:     getEnv("POSTGRES_USER", "postgres"),
			Password: getEnv("POSTGRES_PASSWORD", "postgres"),
			Database: getEnv("POSTGRES_DB", "ledgerline-dev"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		},
		Import: ImportConfig{
			DefaultCurrency: getEnv("IMPORT_DEFAULT_CURRENCY", "INR"),
			ChunkSize:       getEnvAsInt("IMPORT_CHUNK_SIZE", 2500),
			Concurrency:     getEnvAsInt("IMPORT_CONCURRENCY", 3),
			CacheTTLMinutes: getEnvAsInt("IMPORT_CACHE_TTL_MINUTES", 10),
		},
		Classify: ClassifyConfig{
			BaseURL: getEnv("CLASSIFY_BASE_URL", ""),
			Token:   getEnv("CLASSIFY_TOKEN", ""),
		},
		Decrypt: DecryptConfig{
			BaseURL: getEnv("DECRYPT_BASE_URL", ""),
		},
		Observability: ObservabilityConfig{
			MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
			MetricsPort:    getEnvAsInt("METRICS_PORT", 9090),
		},
	}

	return cfg, nil
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}
