package experiments

import (
	"time"

	"github.com/khanglvm/calc-hub/internal/clock"
	"go.uber.org/zap"
)

// Registry holds the configured tests. It is immutable after construction.
type Registry struct {
	tests    []Test
	byID     map[string]int
	invalid  map[string]bool
	problems []error
	clock    clock.Clock
	logger   *zap.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithClock sets the clock used for window checks.
func WithClock(c clock.Clock) Option {
	return func(r *Registry) {
		r.clock = c
	}
}

// WithLogger sets the logger used to report configuration problems.
func WithLogger(l *zap.Logger) Option {
	return func(r *Registry) {
		r.logger = l
	}
}

// NewRegistry builds a registry from tests in declaration order.
//
// Malformed tests are kept (FindByID still returns them) but flagged invalid
// and never served for assignment. Duplicate ids keep the first definition.
// Problems are logged and available from Problems.
func NewRegistry(tests []Test, opts ...Option) *Registry {
	r := &Registry{
		byID:    make(map[string]int, len(tests)),
		invalid: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.clock = clock.OrReal(r.clock)
	if r.logger == nil {
		r.logger = zap.NewNop()
	}

	for _, t := range tests {
		if _, dup := r.byID[t.ID]; dup {
			r.report(&ConfigError{TestID: t.ID, Reason: "duplicate test id, keeping first definition"})
			continue
		}
		if err := Check(t); err != nil {
			r.report(err)
			if t.ID == "" {
				continue
			}
			r.invalid[t.ID] = true
		}
		r.byID[t.ID] = len(r.tests)
		r.tests = append(r.tests, t.clone())
	}

	return r
}

func (r *Registry) report(err error) {
	r.problems = append(r.problems, err)
	r.logger.Warn("experiment configuration problem, test disabled", zap.Error(err))
}

// ListEnabled returns the tests that are enabled, valid and inside their
// active window right now, in declaration order.
func (r *Registry) ListEnabled() []Test {
	now := r.clock.Now()
	enabled := make([]Test, 0, len(r.tests))
	for _, t := range r.tests {
		if r.isActive(t, now) {
			enabled = append(enabled, t.clone())
		}
	}
	return enabled
}

// FindByID returns the test with the given id, valid or not.
func (r *Registry) FindByID(id string) (Test, bool) {
	idx, ok := r.byID[id]
	if !ok {
		return Test{}, false
	}
	return r.tests[idx].clone(), true
}

// Active returns the test if it can currently be assigned: known, enabled,
// valid and inside its window.
func (r *Registry) Active(id string) (Test, bool) {
	idx, ok := r.byID[id]
	if !ok {
		return Test{}, false
	}
	t := r.tests[idx]
	if !r.isActive(t, r.clock.Now()) {
		return Test{}, false
	}
	return t.clone(), true
}

// IsValid reports whether the test with id passed load-time checks.
func (r *Registry) IsValid(id string) bool {
	_, known := r.byID[id]
	return known && !r.invalid[id]
}

// All returns every registered test in declaration order.
func (r *Registry) All() []Test {
	all := make([]Test, len(r.tests))
	for i, t := range r.tests {
		all[i] = t.clone()
	}
	return all
}

// Problems returns the configuration problems found at construction.
func (r *Registry) Problems() []error {
	return append([]error(nil), r.problems...)
}

// Status describes a test's current state for display.
func (r *Registry) Status(id string) string {
	idx, ok := r.byID[id]
	if !ok {
		return "unknown"
	}
	t := r.tests[idx]
	switch {
	case r.invalid[id]:
		return "invalid"
	case !t.Enabled:
		return "disabled"
	case !t.InWindow(r.clock.Now()):
		return "out-of-window"
	default:
		return "active"
	}
}

func (r *Registry) isActive(t Test, now time.Time) bool {
	return t.Enabled && !r.invalid[t.ID] && t.InWindow(now)
}
