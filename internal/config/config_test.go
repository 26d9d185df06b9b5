package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("APP_ENV", "dev")

		cfg, err := Load()
		require.NoError(t, err)
		assert.False(t, cfg.IsProduction)
		assert.Equal(t, ":8080", cfg.HTTPAddr)
		assert.Equal(t, 15*time.Minute, cfg.JWTAccessTokenTTL)
		assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
		assert.Equal(t, time.Minute, cfg.ListCacheTTL)
	})

	t.Run("Missing Secret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("Production Requires Database And Redis", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("APP_ENV", PROD_STRING)
		t.Setenv("DB_DSN", "")
		_, err := Load()
		assert.ErrorContains(t, err, "DB_DSN")

		t.Setenv("DB_DSN", "postgres://localhost/doshub")
		t.Setenv("REDIS_ADDR", "")
		_, err = Load()
		assert.ErrorContains(t, err, "REDIS_ADDR")
	})

	t.Run("Invalid Durations", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("APP_ENV", "dev")
		t.Setenv("REQUEST_TIMEOUT", "soon")
		_, err := Load()
		assert.ErrorContains(t, err, "REQUEST_TIMEOUT")
	})

	t.Run("Admin Credentials Come In Pairs", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("APP_ENV", "dev")
		t.Setenv("ADMIN_EMAIL", "admin@doshub.ph")
		t.Setenv("ADMIN_PASSWORD", "")
		_, err := Load()
		assert.Error(t, err)
	})
}
