package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_Load_MissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := NewLoader(filepath.Join(t.TempDir(), "does-not-exist.json")).Load()
	require.NoError(t, err)

	assert.Equal(t, 8085, cfg.Server.Port)
	assert.NotEmpty(t, cfg.DataDir)
	assert.NotEmpty(t, cfg.ProfileStore.DBPath)
	assert.NotEmpty(t, cfg.Logging.File)
}

func TestLoader_Load_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lumi.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"server": {"port": 9999},
		"logging": {"level": "debug"},
		"data_dir": "`+dir+`"
	}`), 0644))

	cfg, err := NewLoader(path).Load()
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Derived paths follow the configured data dir.
	assert.Equal(t, filepath.Join(dir, "learners.db"), cfg.ProfileStore.DBPath)
	assert.Equal(t, filepath.Join(dir, "lumi.log"), cfg.Logging.File)
}

func TestLoader_Load_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lumi.json")
	require.NoError(t, os.WriteFile(path, []byte(`{broken`), 0644))

	_, err := NewLoader(path).Load()
	assert.Error(t, err)
}
