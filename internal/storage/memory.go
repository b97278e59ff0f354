package storage

import "sync"

// MemoryStorage is a process-local backend. It is used for tests and for the
// "memory" backend, where nothing outlives the process.
type MemoryStorage struct {
	mu        sync.Mutex
	data      map[string]map[string]string
	available bool
}

// NewMemory creates an empty, available in-memory backend.
func NewMemory() *MemoryStorage {
	return &MemoryStorage{
		data:      make(map[string]map[string]string),
		available: true,
	}
}

// Init is a no-op.
func (m *MemoryStorage) Init() error {
	return nil
}

// Available reports whether the backend accepts operations.
func (m *MemoryStorage) Available() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.available
}

// SetAvailable toggles availability, simulating a denied or missing store.
// Data is kept while unavailable.
func (m *MemoryStorage) SetAvailable(available bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.available = available
}

// Get returns the value stored under (scope, key).
func (m *MemoryStorage) Get(scope, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.available {
		return "", false, ErrUnavailable
	}
	value, ok := m.data[scope][key]
	return value, ok, nil
}

// Set stores value under (scope, key).
func (m *MemoryStorage) Set(scope, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.available {
		return ErrUnavailable
	}
	bucket, ok := m.data[scope]
	if !ok {
		bucket = make(map[string]string)
		m.data[scope] = bucket
	}
	bucket[key] = value
	return nil
}

// Remove deletes (scope, key).
func (m *MemoryStorage) Remove(scope, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.available {
		return ErrUnavailable
	}
	delete(m.data[scope], key)
	return nil
}

// Close is a no-op.
func (m *MemoryStorage) Close() error {
	return nil
}

// Len returns the number of keys in scope, for tests.
func (m *MemoryStorage) Len(scope string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data[scope])
}
