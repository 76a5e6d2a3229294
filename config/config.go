// Package config reads process settings from the environment, after loading
// an optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

var ErrMissingSecret = errors.New("JWT_SECRET is required")

type Config struct {
	JWTSecret     string // HMAC key for session tokens
	MongoURL      string // empty selects the in-memory stores
	MongoDatabase string
	Port          string
	LogLevel      string
}

// Load reads the configuration and fails if it is unusable. Variables already
// set in the environment win over the .env file. A missing .env is fine; one
// that cannot be read or parsed is an error.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg := &Config{
		JWTSecret:     os.Getenv("JWT_SECRET"),
		MongoURL:      os.Getenv("MONGO_URL"),
		MongoDatabase: getEnv("MONGO_DATABASE", "bookshelf"),
		Port:          getEnv("PORT", "3000"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return ErrMissingSecret
	}
	return nil
}

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
