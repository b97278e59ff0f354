package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"
)

// BoltStorage implements Storage on a bbolt file, one bucket per scope.
type BoltStorage struct {
	db       *bolt.DB
	path     string
	enabled  bool
	logger   *zap.Logger
	mu       sync.Mutex
	initOnce sync.Once
}

// NewBolt creates a bbolt backend at path. Call Init before use.
func NewBolt(path string, logger *zap.Logger) *BoltStorage {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BoltStorage{
		path:    path,
		enabled: path != "",
		logger:  logger,
	}
}

// Init opens the database file. A file locked by another process fails
// after one second instead of blocking.
func (b *BoltStorage) Init() error {
	if !b.enabled {
		return ErrUnavailable
	}

	var initErr error
	b.initOnce.Do(func() {
		if err := os.MkdirAll(filepath.Dir(b.path), 0755); err != nil {
			initErr = fmt.Errorf("failed to create db directory: %w", err)
			b.enabled = false
			return
		}

		db, err := bolt.Open(b.path, 0600, &bolt.Options{Timeout: time.Second})
		if err != nil {
			initErr = fmt.Errorf("failed to open bolt database: %w", err)
			b.enabled = false
			return
		}
		b.db = db
	})

	return initErr
}

// Available reports whether the database is open.
func (b *BoltStorage) Available() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.enabled && b.db != nil
}

// Get returns the value stored under (scope, key).
func (b *BoltStorage) Get(scope, key string) (string, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.enabled || b.db == nil {
		return "", false, ErrUnavailable
	}

	var (
		value string
		ok    bool
	)
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(scope))
		if bucket == nil {
			return nil
		}
		if raw := bucket.Get([]byte(key)); raw != nil {
			// raw is only valid inside the transaction.
			value = string(raw)
			ok = true
		}
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s/%s: %w", scope, key, err)
	}
	return value, ok, nil
}

// Set stores value under (scope, key).
func (b *BoltStorage) Set(scope, key, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.enabled || b.db == nil {
		return ErrUnavailable
	}

	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(scope))
		if err != nil {
			return err
		}
		return bucket.Put([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("failed to write %s/%s: %w", scope, key, err)
	}
	return nil
}

// Remove deletes (scope, key).
func (b *BoltStorage) Remove(scope, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.enabled || b.db == nil {
		return ErrUnavailable
	}

	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(scope))
		if bucket == nil {
			return nil
		}
		return bucket.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("failed to remove %s/%s: %w", scope, key, err)
	}
	return nil
}

// Close closes the database file.
func (b *BoltStorage) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.db == nil {
		return nil
	}
	if err := b.db.Close(); err != nil {
		return fmt.Errorf("failed to close bolt database: %w", err)
	}
	b.db = nil
	b.enabled = false
	return nil
}
