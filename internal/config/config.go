// Package config loads keycheck settings from a JSON file under the user's
// config directory. A missing file yields defaults.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Config is the persisted tool configuration.
type Config struct {
	TimeoutSeconds   int               `json:"timeout_seconds"`
	Concurrency      int               `json:"concurrency"`
	HistoryPath      string            `json:"history_path,omitempty"`
	ProviderInfoPath string            `json:"provider_info_path,omitempty"`
	BaseURLs         map[string]string `json:"base_urls,omitempty"` // provider name → endpoint override
}

// DefaultConfig returns the settings used when no file exists.
func DefaultConfig() Config {
	return Config{
		TimeoutSeconds: 10,
		Concurrency:    5,
	}
}

// ConfigDir is where settings and the history database live.
func ConfigDir() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(os.Getenv("APPDATA"), "keycheck")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "keycheck")
}

// ConfigPath is the settings file location.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "settings.json")
}

// DefaultHistoryPath is where validation history is stored unless
// overridden.
func DefaultHistoryPath() string {
	return filepath.Join(ConfigDir(), "history.db")
}

// Load reads settings from the default location.
func Load() (Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads settings from path, falling back to defaults for a missing
// file and for zero-valued fields.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parsing config: %w", err)
	}

	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = DefaultConfig().TimeoutSeconds
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConfig().Concurrency
	}
	return cfg, nil
}

// Save writes settings to the default location, creating the directory as
// needed.
func Save(cfg Config) error {
	if err := os.MkdirAll(ConfigDir(), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(ConfigPath(), data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// ResolveHistoryPath returns the configured or default history location.
func (c Config) ResolveHistoryPath() string {
	if c.HistoryPath != "" {
		return c.HistoryPath
	}
	return DefaultHistoryPath()
}
