package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("JWT_ACCESS_TTL", "")
	t.Setenv("DB_DRIVER", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 24*time.Hour, cfg.JWT.AccessTTL)
	assert.Equal(t, 24*time.Hour, cfg.JWT.VerificationTTL)
	assert.Equal(t, 200, cfg.RateLimit.Max)
	assert.Equal(t, 15*time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.True(t, cfg.UsesDefaultJWTSecret())
}

func TestLoadConfigRejectsDefaultSecretInProduction(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestGetDuration(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected time.Duration
	}{
		{"go duration", "2h", 2 * time.Hour},
		{"seconds", "90", 90 * time.Second},
		{"garbage falls back", "soon", time.Minute},
		{"empty falls back", "", time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_DURATION", tt.value)
			assert.Equal(t, tt.expected, getDuration("TEST_DURATION", time.Minute))
		})
	}
}

func TestValidateRejectsUnknownDriver(t *testing.T) {
	cfg := &Config{
		App:      AppConfig{Env: "development"},
		Database: DatabaseConfig{Driver: "mongo"},
		JWT:      JWTConfig{Secret: "s", AccessTTL: time.Hour, VerificationTTL: time.Hour},
	}
	assert.Error(t, cfg.Validate())
}
