package config

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredAuthEnv(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-jwt-secret")
	t.Setenv("COOKIE_SECRETS", "newest,older")
}

func TestAppConfig_Defaults(t *testing.T) {
	setRequiredAuthEnv(t)

	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()

	assert.False(t, cfg.IsDev)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "localhost", cfg.Postgres.Host)
	assert.Equal(t, 5432, cfg.Postgres.Port)
	assert.True(t, cfg.Postgres.RunMigrationsOnStart)

	assert.Equal(t, "test-jwt-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, []string{"newest", "older"}, cfg.Auth.CookieSecrets)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "__session", cfg.Auth.CookieName)
	assert.Equal(t, DefaultBcryptCost, cfg.Auth.BcryptCost)
}

func TestAppConfig_MissingJWTSecretFails(t *testing.T) {
	t.Setenv("COOKIE_SECRETS", "only")

	var cfg AppConfig
	err := env.Parse(&cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestAppConfig_MissingCookieSecretsFails(t *testing.T) {
	t.Setenv("JWT_SECRET", "only")

	var cfg AppConfig
	err := env.Parse(&cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "COOKIE_SECRETS")
}

func TestAuthConfig_SanitizeAlignsSessionMaxAgeToTokenTTL(t *testing.T) {
	a := AuthConfig{TokenTTL: 30 * time.Minute}
	a.Sanitize()

	assert.Equal(t, 30*time.Minute, a.SessionMaxAge)
}

func TestAuthConfig_SanitizeKeepsExplicitSessionMaxAge(t *testing.T) {
	a := AuthConfig{TokenTTL: time.Hour, SessionMaxAge: 24 * time.Hour}
	a.Sanitize()

	assert.Equal(t, 24*time.Hour, a.SessionMaxAge)
}

func TestAuthConfig_SanitizeClampsBcryptCost(t *testing.T) {
	a := AuthConfig{BcryptCost: 99}
	a.Sanitize()
	assert.Equal(t, DefaultBcryptCost, a.BcryptCost)

	a = AuthConfig{BcryptCost: 1}
	a.Sanitize()
	assert.Equal(t, DefaultBcryptCost, a.BcryptCost)
}

func TestAppConfig_DevModeFromNodeEnv(t *testing.T) {
	setRequiredAuthEnv(t)
	t.Setenv("NODE_ENV", "development")

	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()

	assert.True(t, cfg.IsDev)
}
