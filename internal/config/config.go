// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the settings needed to run the API server.
type Config struct {
	// Port is the TCP port the HTTP server listens on.
	Port int
	// DatabaseURL is the Postgres connection string.
	DatabaseURL string
	// APIKey, when set, enables authentication: clients exchange it for a
	// JWT at /auth/token and send the token on subsequent requests.
	APIKey string
	// ScoringConcurrency bounds how many candidates are scored at once.
	ScoringConcurrency int
	// JWT configures token signing. Only required when APIKey is set.
	JWT JWTConfig
}

// JWTConfig holds settings for JWT token generation and validation.
type JWTConfig struct {
	Secret          string
	ExpirationHours int
}

// Load reads configuration from the environment. DATABASE_URL is required;
// everything else has a sensible default.
func Load() (*Config, error) {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required but not set")
	}

	port, err := envInt("PORT", 8000)
	if err != nil {
		return nil, err
	}

	concurrency, err := envInt("SCORING_CONCURRENCY", 4)
	if err != nil {
		return nil, err
	}
	if concurrency < 1 {
		concurrency = 1
	}

	cfg := &Config{
		Port:               port,
		DatabaseURL:        databaseURL,
		APIKey:             os.Getenv("API_KEY"),
		ScoringConcurrency: concurrency,
	}

	if cfg.APIKey != "" {
		jwtCfg, err := loadJWT()
		if err != nil {
			return nil, err
		}
		cfg.JWT = *jwtCfg
	}

	return cfg, nil
}

func loadJWT() (*JWTConfig, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required when API_KEY is set")
	}

	hours, err := envInt("JWT_EXPIRATION_HOURS", 24)
	if err != nil {
		return nil, err
	}
	if hours < 1 {
		return nil, fmt.Errorf("JWT_EXPIRATION_HOURS must be at least 1 hour, got: %d", hours)
	}

	return &JWTConfig{Secret: secret, ExpirationHours: hours}, nil
}

func envInt(name string, fallback int) (int, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", name, err)
	}
	return v, nil
}
