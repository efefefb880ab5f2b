package config

import (
	"os"
	"strings"
	"time"
)

type Config struct {
	Env                 string
	HTTPAddr            string
	BackendBaseURL      string
	BackendTimeout      time.Duration
	PollInterval        time.Duration
	DefaultStatusFilter string
	CorsAllowedOrigins  []string
}

func Load() Config {
	cfg := Config{
		Env:                 getEnv("APP_ENV", "development"),
		HTTPAddr:            getEnv("HTTP_ADDR", ":8085"),
		BackendBaseURL:      getEnv("BACKEND_BASE_URL", "http://localhost:8080"),
		BackendTimeout:      getEnvDuration("BACKEND_TIMEOUT", 10*time.Second),
		PollInterval:        getEnvDuration("POLL_INTERVAL", 3*time.Second),
		DefaultStatusFilter: getEnv("DEFAULT_STATUS_FILTER", "NEW"),
		CorsAllowedOrigins:  splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "")),
	}

	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 3 * time.Second
	}

	return cfg
}

func getEnv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

func splitCSV(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
