package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, envDev, cfg.Env)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, defaultPerPage, cfg.API.PerPage)
	assert.False(t, cfg.API.Debug)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("AVANTO_API_URL", "https://api.example.fi")
	t.Setenv("AVANTO_API_DEBUG", "true")
	t.Setenv("AVANTO_API_PERPAGE", "25")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.fi", cfg.API.URL)
	assert.True(t, cfg.API.Debug)
	assert.Equal(t, 25, cfg.API.PerPage)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
env: production
api:
  url: https://file.example.fi
  perpage: 5
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "https://file.example.fi", cfg.API.URL)
	assert.Equal(t, 5, cfg.API.PerPage)
}

func TestLoad_EnvBeatsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api:\n  url: https://file.example.fi\n"), 0o600))
	t.Setenv("AVANTO_API_URL", "https://env.example.fi")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://env.example.fi", cfg.API.URL)
}

func TestLoad_MissingFileIsFine(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, envDev, cfg.Env)
}

func TestLoad_ProductionRequiresURL(t *testing.T) {
	t.Setenv("AVANTO_ENV", "production")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AVANTO_API_URL")
}

func TestLoad_RejectsUnknownEnv(t *testing.T) {
	t.Setenv("AVANTO_ENV", "staging")

	_, err := Load("")
	require.Error(t, err)
}
