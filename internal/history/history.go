/*
Package history keeps a visitor's capped, newest-first log of tool visits.

The log is stored as one JSON list in the usage-history scope. Writes
prepend and truncate to Capacity, so the oldest visits are evicted first.
When storage is unavailable the store keeps working from an in-process copy
for the lifetime of the Store.
*/
package history

import (
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/khanglvm/calc-hub/internal/clock"
	"github.com/khanglvm/calc-hub/internal/storage"
	"go.uber.org/zap"
)

// Capacity is the maximum number of retained visits.
const Capacity = 50

// UsageEvent is one tool visit.
type UsageEvent struct {
	ToolID    string    `json:"toolId"`
	Timestamp time.Time `json:"timestamp"`
}

// ToolCount is a tool with its number of visits in the retained history.
type ToolCount struct {
	ToolID string `json:"toolId"`
	Count  int    `json:"count"`
}

// record is the persisted form; timestamps are Unix milliseconds.
type record struct {
	ToolID    string `json:"toolId"`
	Timestamp int64  `json:"timestamp"`
}

// Store is one visitor's usage history.
type Store struct {
	kv       storage.KV
	key      string
	clock    clock.Clock
	logger   *zap.Logger
	mu       sync.Mutex
	fallback []UsageEvent
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used to timestamp visits.
func WithClock(c clock.Clock) Option {
	return func(s *Store) {
		s.clock = c
	}
}

// WithLogger sets the store logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// NewStore creates the history of visitorID over kv.
func NewStore(kv storage.KV, visitorID string, opts ...Option) *Store {
	s := &Store{kv: kv, key: visitorID}
	for _, opt := range opts {
		opt(s)
	}
	s.clock = clock.OrReal(s.clock)
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// Record prepends a visit to toolID stamped with the current time and evicts
// anything beyond Capacity. Empty tool ids are ignored.
func (s *Store) Record(toolID string) {
	if toolID == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	events := s.load()
	next := make([]UsageEvent, 0, min(len(events)+1, Capacity))
	next = append(next, UsageEvent{ToolID: toolID, Timestamp: s.clock.Now()})
	next = append(next, events...)
	if len(next) > Capacity {
		next = next[:Capacity]
	}

	s.fallback = next
	if err := s.save(next); err != nil {
		s.logger.Debug("usage history not persisted", zap.String("tool", toolID), zap.Error(err))
	}
}

// History returns every retained visit, newest first.
func (s *Store) History() []UsageEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// RecentDistinct returns up to limit tool ids, newest first, each at its
// most recent occurrence.
func (s *Store) RecentDistinct(limit int) []string {
	if limit <= 0 {
		return []string{}
	}

	seen := make(map[string]bool)
	recent := make([]string, 0, limit)
	for _, e := range s.History() {
		if seen[e.ToolID] {
			continue
		}
		seen[e.ToolID] = true
		recent = append(recent, e.ToolID)
		if len(recent) == limit {
			break
		}
	}
	return recent
}

// Frequent returns up to limit tools by visit count, highest first. Equal
// counts keep the order in which tools are first seen scanning newest first.
func (s *Store) Frequent(limit int) []ToolCount {
	if limit <= 0 {
		return []ToolCount{}
	}

	counts := make([]ToolCount, 0)
	index := make(map[string]int)
	for _, e := range s.History() {
		if i, ok := index[e.ToolID]; ok {
			counts[i].Count++
			continue
		}
		index[e.ToolID] = len(counts)
		counts = append(counts, ToolCount{ToolID: e.ToolID, Count: 1})
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	if len(counts) > limit {
		counts = counts[:limit]
	}
	return counts
}

// Clear removes the visitor's history.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.fallback = nil
	if err := s.kv.Remove(storage.ScopeUsageHistory, s.key); err != nil {
		s.logger.Debug("usage history not cleared in storage", zap.Error(err))
	}
}

// load reads the persisted history, falling back to the in-process copy when
// storage cannot be read.
func (s *Store) load() []UsageEvent {
	raw, ok, err := s.kv.Get(storage.ScopeUsageHistory, s.key)
	if err != nil {
		return append([]UsageEvent(nil), s.fallback...)
	}
	if !ok {
		s.fallback = nil
		return []UsageEvent{}
	}

	var records []record
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		s.logger.Warn("discarding corrupt usage history", zap.Error(err))
		return []UsageEvent{}
	}

	events := make([]UsageEvent, 0, min(len(records), Capacity))
	for _, r := range records {
		if r.ToolID == "" {
			continue
		}
		events = append(events, UsageEvent{ToolID: r.ToolID, Timestamp: time.UnixMilli(r.Timestamp)})
		if len(events) == Capacity {
			break
		}
	}
	s.fallback = events
	return append([]UsageEvent(nil), events...)
}

func (s *Store) save(events []UsageEvent) error {
	records := make([]record, len(events))
	for i, e := range events {
		records[i] = record{ToolID: e.ToolID, Timestamp: e.Timestamp.UnixMilli()}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return err
	}
	return s.kv.Set(storage.ScopeUsageHistory, s.key, string(data))
}
