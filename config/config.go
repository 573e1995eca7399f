package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config carries everything the process needs from the environment.
type Config struct {
	Port             string
	DatabaseURL      string
	JWTSecret        string
	NotifyWebhookURL string
	SweepInterval    time.Duration
	CORSOrigins      []string
}

// Load reads .env when present, then the environment. DATABASE_URL and
// JWT_SECRET are mandatory; everything else has a default.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:             getenv("PORT", "8080"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		NotifyWebhookURL: os.Getenv("NOTIFY_WEBHOOK_URL"),
		SweepInterval:    3 * time.Minute,
		CORSOrigins:      splitList(getenv("CORS_ORIGINS", "http://localhost:8080")),
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("config: DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("config: JWT_SECRET is required")
	}

	if raw := os.Getenv("SWEEP_INTERVAL"); raw != "" {
		interval, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("config: parse SWEEP_INTERVAL: %w", err)
		}
		if interval < time.Minute {
			return Config{}, fmt.Errorf("config: SWEEP_INTERVAL below one minute")
		}
		cfg.SweepInterval = interval
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
