package assignment

import (
	"github.com/khanglvm/calc-hub/internal/experiments"
	"go.uber.org/zap"
)

// Source says where a decision came from.
type Source string

const (
	// SourceDefault means the caller's default was returned: the test is
	// unknown, disabled, invalid or outside its window.
	SourceDefault Source = "default"

	// SourceStored means an existing assignment was returned.
	SourceStored Source = "stored"

	// SourceBucketed means a new assignment was drawn.
	SourceBucketed Source = "bucketed"
)

// Decision is the outcome of one assignment request.
type Decision struct {
	TestID    string `json:"testId"`
	VariantID string `json:"variantId"`
	Source    Source `json:"source"`

	// Persisted is false when a bucketed assignment could not be stored.
	Persisted bool `json:"persisted"`
}

// Engine assigns visitors to variants.
type Engine struct {
	registry *experiments.Registry
	store    *Store
	bucketer Bucketer
	logger   *zap.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithBucketer replaces the default HashBucketer.
func WithBucketer(b Bucketer) EngineOption {
	return func(e *Engine) {
		e.bucketer = b
	}
}

// WithLogger sets the engine logger.
func WithLogger(l *zap.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = l
	}
}

// NewEngine creates an engine over a registry and an assignment store.
func NewEngine(registry *experiments.Registry, store *Store, opts ...EngineOption) *Engine {
	e := &Engine{
		registry: registry,
		store:    store,
		bucketer: HashBucketer{},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = zap.NewNop()
	}
	return e
}

// Assign returns the variant visitorID sees for testID.
func (e *Engine) Assign(testID, visitorID, defaultVariantID string) string {
	return e.Decide(testID, visitorID, defaultVariantID).VariantID
}

// Decide is Assign with provenance.
//
// Inactive tests return defaultVariantID without touching the store. An
// existing assignment is returned unchanged even if the test's weights or
// variants have since changed. Otherwise one draw is bucketed and persisted;
// if the store is unavailable the variant is still returned, unpersisted.
func (e *Engine) Decide(testID, visitorID, defaultVariantID string) Decision {
	fallback := Decision{TestID: testID, VariantID: defaultVariantID, Source: SourceDefault}

	if visitorID == "" {
		return fallback
	}
	test, ok := e.registry.Active(testID)
	if !ok {
		return fallback
	}

	variantID, found, err := e.store.Get(visitorID, testID)
	if err != nil {
		e.logger.Debug("assignment lookup failed, bucketing without persistence",
			zap.String("test", testID), zap.Error(err))
	}
	if found {
		return Decision{TestID: testID, VariantID: variantID, Source: SourceStored, Persisted: true}
	}

	variant, ok := Pick(test.Variants, e.bucketer.Draw(visitorID, testID))
	if !ok {
		return fallback
	}

	decision := Decision{TestID: testID, VariantID: variant.ID, Source: SourceBucketed, Persisted: true}
	if err := e.store.Put(visitorID, testID, variant.ID); err != nil {
		decision.Persisted = false
		e.logger.Debug("assignment not persisted",
			zap.String("test", testID), zap.String("variant", variant.ID), zap.Error(err))
	}
	return decision
}

// AssignAll decides every currently active test for visitorID, using each
// test's first variant as its default.
func (e *Engine) AssignAll(visitorID string) []Decision {
	tests := e.registry.ListEnabled()
	decisions := make([]Decision, 0, len(tests))
	for _, t := range tests {
		decisions = append(decisions, e.Decide(t.ID, visitorID, t.Variants[0].ID))
	}
	return decisions
}
