package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "http://localhost:3000", cfg.BackendURL)
	assert.Zero(t, cfg.BackendTimeout)
	assert.Equal(t, SessionMemory, cfg.SessionBackend)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 10*time.Minute, cfg.SessionSweepInterval)
	assert.Equal(t, devSecret, cfg.SessionSecret)
	assert.Equal(t, 1.0, cfg.IntakeRate)
	assert.Equal(t, 5, cfg.IntakeBurst)
	assert.False(t, cfg.MigrateOnStart)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("SESSION_BACKEND", "redis")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("BACKEND_TIMEOUT", "5s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.SessionSecret)
	assert.Equal(t, SessionRedis, cfg.SessionBackend)
	assert.Equal(t, 5*time.Second, cfg.BackendTimeout)
}

func TestLoadParseError(t *testing.T) {
	t.Setenv("INTAKE_BURST", "lots")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env:")
}

func TestValidateRequiresBackendSettings(t *testing.T) {
	t.Setenv("SESSION_BACKEND", "postgres")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")

	t.Setenv("SESSION_BACKEND", "etcd")
	_, err = Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown SESSION_BACKEND")
}

func TestValidateRequiresSecretOutsideDevelopment(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	cfg, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_SECRET")
	assert.Empty(t, cfg.SessionSecret)
}
