// ABOUTME: Tests for environment-driven configuration loading
package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBase(t *testing.T) {
	t.Helper()
	t.Setenv("FARMBASE_API_URL", "https://api.example.com/api/v1")
	t.Setenv("FARMBASE_ORG", "")
	t.Setenv("FARMBASE_AUTH_PROVIDER", "")
	t.Setenv("FARMBASE_AUTH_URL", "")
	t.Setenv("FARMBASE_TIMEOUT", "")
	t.Setenv("FARMBASE_TELEMETRY_DSN", "")
	t.Setenv("FARMBASE_LOG_LEVEL", "")
	t.Setenv("FARMBASE_EXPERIMENTAL", "")
}

func TestLoadDefaults(t *testing.T) {
	setBase(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com/api/v1", cfg.APIBaseURL)
	assert.Equal(t, "default", cfg.Organization)
	assert.Equal(t, AuthProviderBasic, cfg.AuthProvider)
	assert.Equal(t, 20*time.Second, cfg.Timeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.ExperimentalFeatures)
}

func TestLoadMissingAPIURLNamesVariable(t *testing.T) {
	setBase(t)
	t.Setenv("FARMBASE_API_URL", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FARMBASE_API_URL")
}

func TestLoadExternalAuthRequiresAuthURL(t *testing.T) {
	setBase(t)
	t.Setenv("FARMBASE_AUTH_PROVIDER", AuthProviderExternal)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FARMBASE_AUTH_URL")

	t.Setenv("FARMBASE_AUTH_URL", "https://id.example.com")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, AuthProviderExternal, cfg.AuthProvider)
	assert.Equal(t, "https://id.example.com", cfg.AuthURL)
}

func TestLoadParsesTimeout(t *testing.T) {
	setBase(t)
	t.Setenv("FARMBASE_TIMEOUT", "45s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, cfg.Timeout)
}

func TestLoadRejectsBadTimeout(t *testing.T) {
	setBase(t)
	t.Setenv("FARMBASE_TIMEOUT", "soon")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FARMBASE_TIMEOUT")
}

func TestLoadOverrides(t *testing.T) {
	setBase(t)
	t.Setenv("FARMBASE_ORG", "acme")
	t.Setenv("FARMBASE_LOG_LEVEL", "debug")
	t.Setenv("FARMBASE_EXPERIMENTAL", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "acme", cfg.Organization)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.ExperimentalFeatures)
}
