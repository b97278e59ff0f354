package tracking

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/khanglvm/calc-hub/internal/storage"
)

// Sink receives batches of events.
type Sink interface {
	Write(events []Event) error
}

// Sink names accepted by NewSink.
const (
	SinkLog     = "log"
	SinkStorage = "storage"
)

// NewSink returns the sink with the given name.
func NewSink(name string, kv storage.KV, logger *zap.Logger) (Sink, error) {
	switch name {
	case SinkLog:
		return NewLogSink(logger), nil
	case SinkStorage, "":
		return NewStorageSink(kv, logger), nil
	default:
		return nil, fmt.Errorf("unknown tracking sink %q", name)
	}
}

// LogSink writes each event as a structured log entry.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink creates a sink logging at Info level.
func NewLogSink(logger *zap.Logger) *LogSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSink{logger: logger.Named("events")}
}

// Write logs events.
func (s *LogSink) Write(events []Event) error {
	for _, e := range events {
		fields := []zap.Field{
			zap.String("kind", string(e.Kind)),
			zap.String("visitor", e.VisitorID),
			zap.Time("at", e.Timestamp),
		}
		if e.TestID != "" {
			fields = append(fields, zap.String("test", e.TestID), zap.String("variant", e.VariantID))
		}
		if e.ToolID != "" {
			fields = append(fields, zap.String("tool", e.ToolID))
		}
		if len(e.Shown) > 0 {
			fields = append(fields, zap.Strings("shown", e.Shown))
		}
		if e.ContextHash != "" {
			fields = append(fields, zap.String("context", e.ContextHash))
		}
		s.logger.Info("event", fields...)
	}
	return nil
}

// StorageCapacity is the number of events StorageSink retains.
const StorageCapacity = 500

const storageKey = "log"

// StorageSink keeps the most recent events in the events scope so they can be
// exported later. Oldest events are evicted beyond StorageCapacity.
type StorageSink struct {
	kv     storage.KV
	logger *zap.Logger
	mu     sync.Mutex
}

// NewStorageSink creates a sink over kv.
func NewStorageSink(kv storage.KV, logger *zap.Logger) *StorageSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StorageSink{kv: kv, logger: logger}
}

// Write appends events, oldest first.
func (s *StorageSink) Write(events []Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := s.load()
	if err != nil {
		return err
	}

	stored = append(stored, events...)
	if len(stored) > StorageCapacity {
		stored = stored[len(stored)-StorageCapacity:]
	}

	data, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("failed to encode events: %w", err)
	}
	if err := s.kv.Set(storage.ScopeEvents, storageKey, string(data)); err != nil {
		return fmt.Errorf("failed to store events: %w", err)
	}
	return nil
}

// Events returns the retained events, oldest first.
func (s *StorageSink) Events() ([]Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Clear removes every retained event.
func (s *StorageSink) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Remove(storage.ScopeEvents, storageKey); err != nil && !errors.Is(err, storage.ErrUnavailable) {
		return fmt.Errorf("failed to clear events: %w", err)
	}
	return nil
}

func (s *StorageSink) load() ([]Event, error) {
	raw, ok, err := s.kv.Get(storage.ScopeEvents, storageKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read events: %w", err)
	}
	if !ok {
		return []Event{}, nil
	}

	var events []Event
	if err := json.Unmarshal([]byte(raw), &events); err != nil {
		s.logger.Warn("discarding corrupt event log", zap.Error(err))
		return []Event{}, nil
	}
	if events == nil {
		events = []Event{}
	}
	return events, nil
}
