package config

import (
	"errors"
	"os"
	"time"
)

// Config holds the service process settings, populated from environment
// variables. Dataset-specific settings live in the Profile loaded from the
// YAML file DATASET_PROFILE points at.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	DatasetProfile  string
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		DatasetProfile:  envOrDefault("DATASET_PROFILE", "dataset.yaml"),
		ShutdownTimeout: shutdownTimeout,
	}

	return cfg, nil
}

// envOrDefault returns the value of the environment variable key, or def
// when the variable is unset or empty.
func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseShutdownTimeout() (time.Duration, error) {
	s := envOrDefault("SHUTDOWN_TIMEOUT", "10s")
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, errors.New("invalid SHUTDOWN_TIMEOUT")
	}
	return d, nil
}
