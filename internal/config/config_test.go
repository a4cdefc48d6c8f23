package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/envrisk")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, 2, cfg.AssessWorkers)
	assert.Equal(t, "default", cfg.DefaultCountry)
	assert.Equal(t, 30*time.Second, cfg.CollectTimeout)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/envrisk")
	t.Setenv("APP_ENV", "production")
	t.Setenv("LISTEN_ADDR", ":9999")
	t.Setenv("ASSESS_WORKERS", "8")
	t.Setenv("THRESHOLD_DIR", "/etc/envrisk")
	t.Setenv("DEFAULT_COUNTRY", "fr")
	t.Setenv("COLLECT_TIMEOUT", "5s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, ":9999", cfg.ListenAddr)
	assert.Equal(t, 8, cfg.AssessWorkers)
	assert.Equal(t, "/etc/envrisk", cfg.ThresholdDir)
	assert.Equal(t, "fr", cfg.DefaultCountry)
	assert.Equal(t, 5*time.Second, cfg.CollectTimeout)
}

func TestLoadMissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	cfg, err := Load()
	assert.Error(t, err)
	assert.Empty(t, cfg.DatabaseURL)
}

func TestLoadIgnoresBadNumbers(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/envrisk")
	t.Setenv("ASSESS_WORKERS", "many")
	t.Setenv("COLLECT_TIMEOUT", "soon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.AssessWorkers)
	assert.Equal(t, 30*time.Second, cfg.CollectTimeout)
}
