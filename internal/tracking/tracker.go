package tracking

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	// eventQueueSize is the buffer size for the event queue.
	// If full, events are dropped (non-blocking).
	eventQueueSize = 1000

	// batchFlushSize is the number of events that triggers an immediate flush.
	batchFlushSize = 10

	// flushInterval is how often pending events are flushed.
	flushInterval = 50 * time.Millisecond
)

// Tracker delivers events to a sink in the background with non-blocking writes.
type Tracker struct {
	sink       Sink
	logger     *zap.Logger
	eventQueue chan Event
	stopChan   chan struct{}
	stopOnce   sync.Once
	wg         sync.WaitGroup
	enabled    bool
	mu         sync.RWMutex
}

// NewTracker creates a tracker and starts its background worker. A nil sink
// creates a disabled tracker.
func NewTracker(sink Sink, logger *zap.Logger) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}

	t := &Tracker{
		sink:       sink,
		logger:     logger,
		eventQueue: make(chan Event, eventQueueSize),
		stopChan:   make(chan struct{}),
		enabled:    sink != nil,
	}

	t.wg.Add(1)
	go t.processEvents()

	return t
}

// Track queues an event (non-blocking).
// If the queue is full, the event is dropped and a warning is logged.
func (t *Tracker) Track(event Event) {
	if !t.isEnabled() {
		return
	}

	select {
	case t.eventQueue <- event:
	default:
		t.logger.Warn("tracking queue full, dropping event",
			zap.String("kind", string(event.Kind)),
			zap.String("visitor", event.VisitorID))
	}
}

// Stop shuts down the tracker, flushing queued events. Events tracked after
// Stop are ignored.
func (t *Tracker) Stop() {
	t.stopOnce.Do(func() {
		t.mu.Lock()
		t.enabled = false
		t.mu.Unlock()

		close(t.stopChan)
		t.wg.Wait()
	})
}

// Disable drops every event tracked from now on. Queued events are still
// delivered on Stop.
func (t *Tracker) Disable() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.enabled = false
}

// IsEnabled returns whether tracking is enabled.
func (t *Tracker) IsEnabled() bool {
	return t.isEnabled()
}

func (t *Tracker) isEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled && t.sink != nil
}

// QueueSize returns the current number of events in the queue.
func (t *Tracker) QueueSize() int {
	return len(t.eventQueue)
}

// processEvents runs in the background, batching and flushing events.
func (t *Tracker) processEvents() {
	defer t.wg.Done()

	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	batch := make([]Event, 0, batchFlushSize)

	for {
		select {
		case event := <-t.eventQueue:
			batch = append(batch, event)
			if len(batch) >= batchFlushSize {
				t.flush(batch)
				batch = make([]Event, 0, batchFlushSize)
			}

		case <-ticker.C:
			if len(batch) > 0 {
				t.flush(batch)
				batch = make([]Event, 0, batchFlushSize)
			}

		case <-t.stopChan:
			// Drain whatever is still queued, then flush and exit
			for {
				select {
				case event := <-t.eventQueue:
					batch = append(batch, event)
					if len(batch) >= batchFlushSize {
						t.flush(batch)
						batch = make([]Event, 0, batchFlushSize)
					}
				default:
					t.flush(batch)
					return
				}
			}
		}
	}
}

// flush writes a batch of events to the sink.
func (t *Tracker) flush(events []Event) {
	if len(events) == 0 || t.sink == nil {
		return
	}

	if err := t.sink.Write(events); err != nil {
		t.logger.Warn("failed to write tracking events", zap.Int("events", len(events)), zap.Error(err))
	}
}
