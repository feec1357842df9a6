// Package kvstore provides the durable get/set string capability used for the
// known-set and UI preferences. A missing key reads as the empty string.
package kvstore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store is a string key/value store.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendBolt   = "bolt"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Open creates the store for backend at path. The memory backend ignores path.
func Open(backend, path string) (Store, error) {
	backend = strings.ToLower(strings.TrimSpace(backend))
	if backend == "" {
		backend = BackendBolt
	}
	if backend == BackendMemory {
		return NewMemory(), nil
	}

	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%s store requires a path", backend)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}

	switch backend {
	case BackendBolt:
		return OpenBolt(path)
	case BackendFile:
		return OpenFile(path)
	case BackendSQLite:
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
}
