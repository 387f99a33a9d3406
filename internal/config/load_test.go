package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tasktrackhq/tasktrack-api/internal/config"
)

// setRequiredEnv sets the env vars without which validation fails.
// Tests using t.Setenv cannot run in parallel.
func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TASKTRACK_DATABASE_URL", "postgres://localhost:5432/tasktrack_test")
	t.Setenv("TASKTRACK_AUTH_JWT_SECRET", "test-secret-key-thats-at-least-32-chars")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, 10, cfg.Database.MaxOpenConns)
	assert.Equal(t, 5, cfg.Database.MaxIdleConns)
	assert.Equal(t, 43200, cfg.Auth.TokenLifetimeMinutes)
	assert.Equal(t, 129600, cfg.Auth.RefreshTokenLifetimeMinutes)
	assert.Equal(t, bcrypt.DefaultCost, cfg.Auth.BcryptCost)
}

func TestLoadEnvOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TASKTRACK_SERVER_PORT", "9090")
	t.Setenv("TASKTRACK_SERVER_LOG_LEVEL", "debug")
	t.Setenv("TASKTRACK_AUTH_TOKEN_LIFETIME_MINUTES", "15")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, 15, cfg.Auth.TokenLifetimeMinutes)
}

func TestLoadValidation(t *testing.T) {
	t.Run("missing database URL", func(t *testing.T) {
		t.Setenv("TASKTRACK_AUTH_JWT_SECRET", "test-secret-key-thats-at-least-32-chars")
		t.Setenv("TASKTRACK_DATABASE_URL", "")

		_, err := config.Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid configuration")
	})

	t.Run("short JWT secret", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("TASKTRACK_AUTH_JWT_SECRET", "too-short")

		_, err := config.Load()
		require.Error(t, err)
	})

	t.Run("unknown log level", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("TASKTRACK_SERVER_LOG_LEVEL", "verbose")

		_, err := config.Load()
		require.Error(t, err)
	})
}
