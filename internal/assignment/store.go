package assignment

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/khanglvm/calc-hub/internal/storage"
	"go.uber.org/zap"
)

// Store persists testID -> variantID per visitor in the assignments scope.
//
// Each visitor's assignments are one JSON object keyed by visitor id, so a
// write either replaces the whole table or fails.
type Store struct {
	kv     storage.KV
	logger *zap.Logger
	mu     sync.Mutex
}

// NewStore creates an assignment store over kv.
func NewStore(kv storage.KV, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{kv: kv, logger: logger}
}

// Get returns the stored variant for (visitorID, testID).
func (s *Store) Get(visitorID, testID string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	table, err := s.load(visitorID)
	if err != nil {
		return "", false, err
	}
	variantID, ok := table[testID]
	return variantID, ok, nil
}

// Put records variantID for (visitorID, testID), replacing any previous value.
func (s *Store) Put(visitorID, testID, variantID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	table, err := s.load(visitorID)
	if err != nil {
		return err
	}
	table[testID] = variantID
	return s.save(visitorID, table)
}

// All returns a copy of every assignment of visitorID.
func (s *Store) All(visitorID string) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(visitorID)
}

// Remove clears the assignment of one test.
func (s *Store) Remove(visitorID, testID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	table, err := s.load(visitorID)
	if err != nil {
		return err
	}
	if _, ok := table[testID]; !ok {
		return nil
	}
	delete(table, testID)
	if len(table) == 0 {
		return s.kv.Remove(storage.ScopeAssignments, visitorID)
	}
	return s.save(visitorID, table)
}

// Clear removes every assignment of visitorID.
func (s *Store) Clear(visitorID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kv.Remove(storage.ScopeAssignments, visitorID)
}

// load reads the visitor's table. A corrupt document is logged and treated as
// empty; the next successful write replaces it.
func (s *Store) load(visitorID string) (map[string]string, error) {
	raw, ok, err := s.kv.Get(storage.ScopeAssignments, visitorID)
	if err != nil {
		return nil, err
	}
	table := make(map[string]string)
	if !ok {
		return table, nil
	}
	if err := json.Unmarshal([]byte(raw), &table); err != nil {
		s.logger.Warn("discarding corrupt assignment table",
			zap.String("visitor", visitorID), zap.Error(err))
		return make(map[string]string), nil
	}
	if table == nil {
		// The document was JSON null.
		table = make(map[string]string)
	}
	return table, nil
}

func (s *Store) save(visitorID string, table map[string]string) error {
	data, err := json.Marshal(table)
	if err != nil {
		return fmt.Errorf("failed to encode assignments: %w", err)
	}
	return s.kv.Set(storage.ScopeAssignments, visitorID, string(data))
}
