// Package config loads server configuration from the environment.
package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	Env            string
	ListenAddr     string
	DatabaseURL    string
	AssessWorkers  int
	ThresholdDir   string
	DefaultCountry string
	CollectTimeout time.Duration
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func Load() (Config, error) {
	cfg := Config{
		Env:            getenv("APP_ENV", "development"),
		ListenAddr:     getenv("LISTEN_ADDR", ":8080"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		AssessWorkers:  getenvInt("ASSESS_WORKERS", 2),
		ThresholdDir:   getenv("THRESHOLD_DIR", ""),
		DefaultCountry: getenv("DEFAULT_COUNTRY", "default"),
		CollectTimeout: getenvDuration("COLLECT_TIMEOUT", 30*time.Second),
	}
	if cfg.DatabaseURL == "" {
		// Not fatal for early local runs; warn via error value so callers can decide.
		return cfg, fmt.Errorf("DATABASE_URL not set")
	}
	return cfg, nil
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		var out int
		_, err := fmt.Sscanf(v, "%d", &out)
		if err == nil {
			return out
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
