package config

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppConfig_Defaults(t *testing.T) {
	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()

	assert.Equal(t, AuthModeDirect, cfg.Auth.Mode)
	assert.Equal(t, 604800*time.Second, cfg.Auth.Session.Lifetime)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "localhost", cfg.Postgres.Host)
	assert.Equal(t, 5432, cfg.Postgres.Port)
	assert.True(t, cfg.Postgres.RunMigrationsOnStart)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 5*time.Minute, cfg.Cache.SnapshotTTL)
	assert.Equal(t, "uploads", cfg.Uploads.Dir)
}

func TestAppConfig_SessionLifetimeFromEnv(t *testing.T) {
	t.Setenv("SESSION_LIFETIME", "1h")

	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()

	assert.Equal(t, time.Hour, cfg.Auth.Session.Lifetime)
}

func TestAuthConfig_SanitizeLifetimeGuardrail(t *testing.T) {
	cfg := AuthConfig{Session: SessionConfig{Lifetime: -time.Minute}}
	cfg.Sanitize()
	assert.Equal(t, 604800*time.Second, cfg.Session.Lifetime)
}

func TestAuthMode_UnmarshalText(t *testing.T) {
	var m AuthMode
	require.NoError(t, m.UnmarshalText([]byte("OIDC")))
	assert.Equal(t, AuthModeOIDC, m)

	require.NoError(t, m.UnmarshalText([]byte("direct")))
	assert.Equal(t, AuthModeDirect, m)

	assert.Error(t, m.UnmarshalText([]byte("saml")))
}

func TestAppConfig_DevModeFromAppEnv(t *testing.T) {
	t.Setenv("APP_ENV", "development")

	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()

	assert.True(t, cfg.IsDev)
}

func TestUploadConfig_Sanitize(t *testing.T) {
	u := UploadConfig{Dir: "", MaxBytes: 0}
	u.Sanitize()
	assert.Equal(t, "uploads", u.Dir)
	assert.Equal(t, int64(10<<20), u.MaxBytes)
}
