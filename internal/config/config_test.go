package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, 10, cfg.TimeoutSeconds)
	assert.Equal(t, 5, cfg.Concurrency)
}

func TestLoadFrom(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"timeout_seconds": 30,
		"concurrency": 2,
		"history_path": "/tmp/keycheck-test/history.db",
		"base_urls": {"openai": "http://localhost:9999"}
	}`), 0o644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.TimeoutSeconds)
	assert.Equal(t, 2, cfg.Concurrency)
	assert.Equal(t, "/tmp/keycheck-test/history.db", cfg.HistoryPath)
	assert.Equal(t, "http://localhost:9999", cfg.BaseURLs["openai"])
}

func TestLoadFromZeroFieldsFallBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"timeout_seconds": 0, "concurrency": -1}`), 0o644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.TimeoutSeconds)
	assert.Equal(t, 5, cfg.Concurrency)
}

func TestLoadFromMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{broken`), 0o644))

	cfg, err := LoadFrom(path)
	assert.Error(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestResolveHistoryPath(t *testing.T) {
	var cfg Config
	assert.Equal(t, DefaultHistoryPath(), cfg.ResolveHistoryPath())

	cfg.HistoryPath = "/somewhere/else.db"
	assert.Equal(t, "/somewhere/else.db", cfg.ResolveHistoryPath())
}
