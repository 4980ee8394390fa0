// Package config handles configuration loading and validation for taskdeck.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Store backends.
const (
	BackendSQLite   = "sqlite"
	BackendJSONFile = "jsonfile"
	BackendMemory   = "memory"
)

// Config holds the application configuration. It is constructed explicitly
// and injected; nothing reads ambient globals.
type Config struct {
	Store   StoreConfig `yaml:"store"`
	TUI     TUIConfig   `yaml:"tui"`
	DataDir string      `yaml:"-"` // set by caller, not from config file
}

// StoreConfig selects and tunes the task store backend.
type StoreConfig struct {
	// Backend is one of sqlite, jsonfile, memory.
	Backend string `yaml:"backend"`
	// Path overrides the backend's default file location under DataDir.
	Path string `yaml:"path"`
}

// TUIConfig holds presentation settings.
type TUIConfig struct {
	Theme string `yaml:"theme"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Store: StoreConfig{
			Backend: BackendSQLite,
		},
		TUI: TUIConfig{
			Theme: "tokyonight",
		},
	}
}

// Load reads the config file at path, applying defaults for anything unset.
// A missing file is not an error; defaults are used. The dataDir is stamped
// onto the returned config.
func Load(path string, dataDir string) (Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, cfg.Validate()
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	cfg.DataDir = dataDir

	if cfg.Store.Backend == "" {
		cfg.Store.Backend = BackendSQLite
	}

	return cfg, cfg.Validate()
}
