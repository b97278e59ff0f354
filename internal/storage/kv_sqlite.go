package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Get returns the value stored under (scope, key).
func (s *SQLiteStorage) Get(scope, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.enabled || s.db == nil {
		return "", false, ErrUnavailable
	}

	var value string
	err := s.db.QueryRow("SELECT value FROM kv WHERE scope = ? AND key = ?", scope, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s/%s: %w", scope, key, err)
	}
	return value, true, nil
}

// Set stores value under (scope, key).
func (s *SQLiteStorage) Set(scope, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.enabled || s.db == nil {
		return ErrUnavailable
	}

	query := `
		INSERT INTO kv (scope, key, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(scope, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := s.db.Exec(query, scope, key, value, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("failed to write %s/%s: %w", scope, key, err)
	}
	return nil
}

// Remove deletes (scope, key).
func (s *SQLiteStorage) Remove(scope, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.enabled || s.db == nil {
		return ErrUnavailable
	}

	if _, err := s.db.Exec("DELETE FROM kv WHERE scope = ? AND key = ?", scope, key); err != nil {
		return fmt.Errorf("failed to remove %s/%s: %w", scope, key, err)
	}
	return nil
}
