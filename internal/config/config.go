// Package config provides application configuration loaded from environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	DatabaseURL string
	Port        string
	LogLevel    string

	// OpenAI credential used for both embeddings and image generation.
	OpenAIAPIKey string

	// Requested embedding dimension; must match the vector column in the catalog table.
	EmbeddingDimensions int

	// Object storage (S3-compatible) connection.
	StorageEndpoint  string
	StorageAccessKey string
	StorageSecretKey string
	StorageBucket    string
	StorageUseSSL    bool
	// StoragePublicBaseURL overrides the URL objects are served from (e.g. a CDN).
	// When empty, public URLs are built from the endpoint and bucket.
	StoragePublicBaseURL string

	// GoTrue-compatible auth provider.
	AuthURL     string
	AuthAnonKey string
	// AuthRedirectURL is where the OAuth callback sends the browser after code exchange.
	AuthRedirectURL string

	// Timeout for outbound HTTP calls (image download, download proxy, auth provider).
	HTTPClientTimeout time.Duration
}

// required lists environment variables that must be present at startup.
// Missing values are a fatal startup error, never a per-request error.
var required = []string{
	"DATABASE_URL",
	"OPENAI_API_KEY",
	"STORAGE_ENDPOINT",
	"STORAGE_ACCESS_KEY",
	"STORAGE_SECRET_KEY",
	"STORAGE_BUCKET",
	"AUTH_URL",
	"AUTH_ANON_KEY",
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
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

// getEnvAsBool retrieves an environment variable as a bool or returns a default value.
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

// Load reads configuration from environment variables and returns a Config struct.
// It automatically loads .env file if it exists. All variables in required must be
// set; Load returns an error naming the first missing one so the process can fail
// before accepting traffic.
func Load() (*Config, error) {
	// Load .env file if it exists. Skip logging when absent (e.g. env from secrets/parameter store).
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("Failed to load .env file", "error", err)
	}

	for _, key := range required {
		if os.Getenv(key) == "" {
			return nil, fmt.Errorf("%s environment variable is required but not set", key)
		}
	}

	dims := getEnvAsInt("EMBEDDING_DIMENSIONS", 1536)
	if dims <= 0 {
		return nil, errors.New("EMBEDDING_DIMENSIONS must be a positive integer")
	}

	timeoutSec := getEnvAsInt("HTTP_CLIENT_TIMEOUT_SECONDS", 30)
	if timeoutSec <= 0 {
		return nil, errors.New("HTTP_CLIENT_TIMEOUT_SECONDS must be a positive integer")
	}

	cfg := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Port:        getEnv("PORT", "8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		OpenAIAPIKey:        os.Getenv("OPENAI_API_KEY"),
		EmbeddingDimensions: dims,

		StorageEndpoint:      os.Getenv("STORAGE_ENDPOINT"),
		StorageAccessKey:     os.Getenv("STORAGE_ACCESS_KEY"),
		StorageSecretKey:     os.Getenv("STORAGE_SECRET_KEY"),
		StorageBucket:        os.Getenv("STORAGE_BUCKET"),
		StorageUseSSL:        getEnvAsBool("STORAGE_USE_SSL", true),
		StoragePublicBaseURL: os.Getenv("STORAGE_PUBLIC_BASE_URL"),

		AuthURL:         os.Getenv("AUTH_URL"),
		AuthAnonKey:     os.Getenv("AUTH_ANON_KEY"),
		AuthRedirectURL: getEnv("AUTH_REDIRECT_URL", "/"),

		HTTPClientTimeout: time.Duration(timeoutSec) * time.Second,
	}

	return cfg, nil
}
