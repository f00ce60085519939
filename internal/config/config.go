package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env string

	DatabaseURL   string
	MigrationsDir string

	HTTPPort int

	GatewayTimeout time.Duration
	GatewayLatency time.Duration
}

// Load reads configuration from the environment, with an optional .env
// file for local development.
func Load() (Config, error) {
	_ = godotenv.Load() // missing .env is fine

	cfg := Config{
		Env:            getEnv("APP_ENV", "development"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		MigrationsDir:  getEnv("MIGRATIONS_DIR", "internal/migrations"),
		HTTPPort:       8080,
		GatewayTimeout: 5 * time.Second,
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required")
	}

	if raw := os.Getenv("HTTP_PORT"); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid HTTP_PORT %q: %w", raw, err)
		}
		cfg.HTTPPort = port
	}

	if raw := os.Getenv("GATEWAY_TIMEOUT"); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid GATEWAY_TIMEOUT %q: %w", raw, err)
		}
		cfg.GatewayTimeout = timeout
	}

	if raw := os.Getenv("GATEWAY_LATENCY"); raw != "" {
		latency, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid GATEWAY_LATENCY %q: %w", raw, err)
		}
		cfg.GatewayLatency = latency
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
