/*
Package storage implements the persistent key-value layer for per-visitor state.

Values are text (JSON documents in practice) addressed by a logical scope and a
key. Three backends are provided: SQLite (default, via modernc.org/sqlite, a
pure Go, CGo-free implementation), bbolt, and an in-memory map.

Every backend degrades gracefully: if the underlying database cannot be
opened, the backend is disabled and every operation returns ErrUnavailable
instead of failing loudly. Callers treat that as "persistence is off".
*/
package storage

import (
	"errors"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// ErrUnavailable is returned by every operation of a disabled backend.
var ErrUnavailable = errors.New("storage unavailable")

// KV is the capability the personalization engine consumes.
type KV interface {
	// Get returns the value stored under (scope, key). ok is false when absent.
	Get(scope, key string) (value string, ok bool, err error)

	// Set stores value under (scope, key), replacing any previous value.
	Set(scope, key, value string) error

	// Remove deletes (scope, key). Removing an absent key is not an error.
	Remove(scope, key string) error
}

// Storage is a KV backend with a lifecycle.
type Storage interface {
	KV

	// Init opens the backend and runs migrations.
	Init() error

	// Available reports whether the backend is usable.
	Available() bool

	// Close releases the backend.
	Close() error
}

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendBolt   = "bolt"
	BackendMemory = "memory"
)

// DefaultDir returns ~/.calc-hub, or "" if the home directory is unknown.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".calc-hub")
}

// Open constructs and initializes the named backend at path.
//
// An empty path selects the backend's default file under DefaultDir. Init
// failures are logged and the (disabled) backend is still returned.
func Open(backend, path string, logger *zap.Logger) Storage {
	if logger == nil {
		logger = zap.NewNop()
	}

	var s Storage
	switch backend {
	case BackendMemory:
		s = NewMemory()
	case BackendBolt:
		if path == "" {
			path = defaultPath("state.bolt")
		}
		s = NewBolt(path, logger)
	default:
		if backend != "" && backend != BackendSQLite {
			logger.Warn("unknown storage backend, using sqlite", zap.String("backend", backend))
		}
		if path == "" {
			path = defaultPath("state.db")
		}
		s = NewSQLite(path, logger)
	}

	if err := s.Init(); err != nil {
		logger.Warn("storage initialization failed, persistence disabled",
			zap.String("backend", backend), zap.Error(err))
	}
	return s
}

func defaultPath(name string) string {
	dir := DefaultDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, name)
}
