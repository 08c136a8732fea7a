package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost/test")
	t.Setenv("JWT_SECRET_KEY", "secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SERVER_PORT", "")
	t.Setenv("CORS_ORIGINS", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	assert.False(t, cfg.R2Configured())
}

func TestLoadMissingRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET_KEY", "secret")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")

	t.Setenv("DATABASE_URL", "postgres://localhost/test")
	t.Setenv("JWT_SECRET_KEY", "")
	_, err = Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET_KEY")
}

func TestLoadPortValidation(t *testing.T) {
	setRequiredEnv(t)

	t.Setenv("SERVER_PORT", "abc")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("SERVER_PORT", "70000")
	_, err = Load()
	assert.Error(t, err)
}

func TestLoadCORSOrigins(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSOrigins)
}
