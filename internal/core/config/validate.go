package config

import (
	"fmt"
	"os"

	"github.com/hay-kot/criterio"
)

// Validate performs structural validation of the configuration.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("store.backend", c.Store.Backend, knownBackend),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
	)
}

func knownBackend(backend string) error {
	switch backend {
	case BackendSQLite, BackendJSONFile, BackendMemory:
		return nil
	}
	return fmt.Errorf("unknown backend %q: must be one of sqlite, jsonfile, memory", backend)
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't
// exist yet (it will be created on first use).
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s exists but is not a directory", path)
	}
	return nil
}
