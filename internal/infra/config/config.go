package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	CredentialsFile    string
	HebcalBaseURL      string
	SinkWriteDelay     time.Duration
	FetchRetryAttempts int
	FetchRetryMinWait  time.Duration
	FetchRetryMaxWait  time.Duration
	LogLevel           string
	Environment        string
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var err error

	cfg.CredentialsFile = os.Getenv("GOOGLE_CREDENTIALS_FILE")
	if cfg.CredentialsFile == "" {
		cfg.CredentialsFile = "credentials.json"
	}

	cfg.HebcalBaseURL = os.Getenv("HEBCAL_BASE_URL")
	if cfg.HebcalBaseURL == "" {
		cfg.HebcalBaseURL = "https://www.hebcal.com"
	}

	cfg.SinkWriteDelay, err = durationMSFromEnv("SINK_WRITE_DELAY_MS", 1000)
	if err != nil {
		return nil, err
	}

	attemptsStr := os.Getenv("FETCH_RETRY_ATTEMPTS")
	if attemptsStr == "" {
		cfg.FetchRetryAttempts = 3
	} else {
		cfg.FetchRetryAttempts, err = strconv.Atoi(attemptsStr)
		if err != nil || cfg.FetchRetryAttempts < 1 {
			return nil, fmt.Errorf("invalid FETCH_RETRY_ATTEMPTS: %q", attemptsStr)
		}
	}

	cfg.FetchRetryMinWait, err = durationMSFromEnv("FETCH_RETRY_MIN_WAIT_MS", 4000)
	if err != nil {
		return nil, err
	}
	cfg.FetchRetryMaxWait, err = durationMSFromEnv("FETCH_RETRY_MAX_WAIT_MS", 10000)
	if err != nil {
		return nil, err
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	return cfg, nil
}

func durationMSFromEnv(key string, defaultMS int) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return time.Duration(defaultMS) * time.Millisecond, nil
	}
	ms, err := strconv.Atoi(raw)
	if err != nil || ms < 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return time.Duration(ms) * time.Millisecond, nil
}
