package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/colonyops/taskdeck/pkg/randid"
)

const identityFile = "identity"

// LoadIdentity returns the stable user id for this installation, generating
// and persisting one on first run. It stands in for the authenticated
// principal; the rest of the application treats the id as opaque. Components
// must not subscribe to the store until an identity has been loaded.
func LoadIdentity(dataDir string) (string, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return "", fmt.Errorf("create data dir: %w", err)
	}

	path := filepath.Join(dataDir, identityFile)

	data, err := os.ReadFile(path)
	if err == nil {
		id := strings.TrimSpace(string(data))
		if id != "" {
			return id, nil
		}
	}
	if err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("read identity: %w", err)
	}

	id := randid.Generate(20)
	if err := os.WriteFile(path, []byte(id+"\n"), 0o600); err != nil {
		return "", fmt.Errorf("persist identity: %w", err)
	}

	return id, nil
}
