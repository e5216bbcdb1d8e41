package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime settings, sourced from the environment with
// sensible defaults for a single-host deployment.
type Config struct {
	Port     string
	DBPath   string
	LogLevel string

	SessionTTL time.Duration

	// SeedDemo controls whether a fresh database is populated with the
	// demo household on first boot.
	SeedDemo bool
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; a missing file is not an error.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:       getEnv("HOMEBUDGET_PORT", "8080"),
		DBPath:     getEnv("HOMEBUDGET_DB_PATH", "homebudget.db"),
		LogLevel:   getEnv("HOMEBUDGET_LOG_LEVEL", "info"),
		SessionTTL: getEnvDuration("HOMEBUDGET_SESSION_TTL", 90*24*time.Hour),
		SeedDemo:   getEnvBool("HOMEBUDGET_SEED_DEMO", true),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
