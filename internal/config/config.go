package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config centralises runtime configuration for the API process.
type Config struct {
	Addr            string
	TokenSecret     string
	TokenIssuer     string
	TokenTTL        time.Duration
	DatabaseDSN     string
	AllowedOrigins  []string
	MaxBodyBytes    int64
	RateLimitPerSec int
	RateLimitBurst  int
	SystemPrompt    string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
}

// Load reads configuration from AUTHGATE_* environment variables. The token
// signing secret has no default: a process without AUTHGATE_TOKEN_SECRET
// refuses to start.
func Load() (Config, error) {
	cfg := Config{
		Addr:            getEnv("AUTHGATE_ADDR", ":8080"),
		TokenSecret:     strings.TrimSpace(os.Getenv("AUTHGATE_TOKEN_SECRET")),
		TokenIssuer:     getEnv("AUTHGATE_TOKEN_ISSUER", "authgate"),
		TokenTTL:        getDurationEnv("AUTHGATE_TOKEN_TTL", 15*time.Minute),
		DatabaseDSN:     os.Getenv("AUTHGATE_PG_DSN"),
		AllowedOrigins:  splitCSV(getEnv("AUTHGATE_CORS_ORIGINS", "*")),
		MaxBodyBytes:    getInt64Env("AUTHGATE_MAX_BODY_BYTES", 1<<20),
		RateLimitPerSec: getIntEnv("AUTHGATE_RATE_LIMIT_PER_SEC", 20),
		RateLimitBurst:  getIntEnv("AUTHGATE_RATE_LIMIT_BURST", 40),
		SystemPrompt:    getEnv("AUTHGATE_SYSTEM_PROMPT", "You are a log analysis assistant."),
		ReadTimeout:     getDurationEnv("AUTHGATE_HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    getDurationEnv("AUTHGATE_HTTP_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:     getDurationEnv("AUTHGATE_HTTP_IDLE_TIMEOUT", 60*time.Second),
	}

	if cfg.TokenSecret == "" {
		return Config{}, fmt.Errorf("AUTHGATE_TOKEN_SECRET is required")
	}
	if cfg.TokenTTL <= 0 {
		return Config{}, fmt.Errorf("AUTHGATE_TOKEN_TTL must be positive")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}

func getInt64Env(key string, fallback int64) int64 {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		if n, err := strconv.ParseInt(val, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func splitCSV(value string) []string {
	parts := []string{}
	for _, part := range strings.Split(value, ",") {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	if len(parts) == 0 {
		return []string{"*"}
	}
	return parts
}
