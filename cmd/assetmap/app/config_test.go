package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "default", cfg.Policy)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.Equal(t, "gemini-2.5-flash", cfg.GeminiModel)
	assert.Equal(t, "Turkish", cfg.NarrativeLanguage)
	assert.Equal(t, "auto", cfg.LogFormat)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "/api/v1", cfg.Server.PathPrefix)
	assert.Equal(t, int64(64<<20), cfg.Server.MaxUploadBytes)
	assert.Empty(t, cfg.ConfigFile)
}

func TestLoadConfigEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("ASSETMAP_POLICY", "strict")
	t.Setenv("ASSETMAP_SERVER_PORT", "9090")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "google-key")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "strict", cfg.Policy)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "google-key", cfg.GeminiAPIKey)
}

func TestLoadConfigFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	path := filepath.Join(dir, "assetmap.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`policy: strict
concurrency: 2
narrative:
  language: English
server:
  port: 3000
  auth: true
  api_key: secret
  narrative_ttl: 10m
`), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.ConfigFile)
	assert.Equal(t, "strict", cfg.Policy)
	assert.Equal(t, 2, cfg.Concurrency)
	assert.Equal(t, "English", cfg.NarrativeLanguage)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.True(t, cfg.Server.AuthEnabled)
	assert.Equal(t, "secret", cfg.Server.APIKey)
	assert.Equal(t, 10*time.Minute, cfg.Server.NarrativeTTL)
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestUpdateFromFlags(t *testing.T) {
	cfg := &Config{Format: "table"}
	cfg.UpdateFromFlags(true, false, true, "json", "")

	assert.True(t, cfg.Verbose)
	assert.True(t, cfg.NoColor)
	assert.Equal(t, "json", cfg.Format)
	assert.Empty(t, cfg.LogLevel)
}
