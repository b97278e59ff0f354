/*
Package personalize is the surface the rendering layer talks to.

A Service ties one visitor to the assignment engine, the usage history and
the recommendation engine, and reports what it served to the event tracker.
None of its operations return errors: every failure degrades to a default
and is logged.
*/
package personalize

import (
	"errors"

	"go.uber.org/zap"

	"github.com/khanglvm/calc-hub/internal/assignment"
	"github.com/khanglvm/calc-hub/internal/clock"
	"github.com/khanglvm/calc-hub/internal/history"
	"github.com/khanglvm/calc-hub/internal/recommend"
	"github.com/khanglvm/calc-hub/internal/search"
	"github.com/khanglvm/calc-hub/internal/tracking"
)

// ErrSearchUnavailable is returned by Search when no index is configured.
var ErrSearchUnavailable = errors.New("search index not configured")

// Options holds the service dependencies. Assignments, History and
// Recommender are required; the rest are optional.
type Options struct {
	VisitorID   string
	Assignments *assignment.Engine
	History     *history.Store
	Recommender *recommend.Engine

	// Index enables Search.
	Index *search.Indexer

	// Tracker receives exposure, visit and recommendation events.
	Tracker *tracking.Tracker

	Clock  clock.Clock
	Logger *zap.Logger
}

// Service serves one visitor.
type Service struct {
	visitorID   string
	assignments *assignment.Engine
	history     *history.Store
	recommender *recommend.Engine
	index       *search.Indexer
	tracker     *tracking.Tracker
	clock       clock.Clock
	logger      *zap.Logger
}

// New creates a service from opts.
func New(opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		visitorID:   opts.VisitorID,
		assignments: opts.Assignments,
		history:     opts.History,
		recommender: opts.Recommender,
		index:       opts.Index,
		tracker:     opts.Tracker,
		clock:       clock.OrReal(opts.Clock),
		logger:      logger,
	}
}

// VisitorID returns the visitor the service records usage for.
func (s *Service) VisitorID() string {
	return s.visitorID
}

// Assign returns the variant visitorID sees for testID, or defaultVariantID
// when the test is not active. Served variants are reported as exposures.
func (s *Service) Assign(testID, visitorID, defaultVariantID string) string {
	return s.Decide(testID, visitorID, defaultVariantID).VariantID
}

// Decide is Assign with provenance.
func (s *Service) Decide(testID, visitorID, defaultVariantID string) assignment.Decision {
	d := s.assignments.Decide(testID, visitorID, defaultVariantID)
	if d.Source != assignment.SourceDefault {
		s.track(tracking.NewExposureEvent(visitorID, testID, d.VariantID, s.clock.Now()))
	}
	return d
}

// AssignAll decides every active test for visitorID.
func (s *Service) AssignAll(visitorID string) []assignment.Decision {
	decisions := s.assignments.AssignAll(visitorID)
	for _, d := range decisions {
		if d.Source != assignment.SourceDefault {
			s.track(tracking.NewExposureEvent(visitorID, d.TestID, d.VariantID, s.clock.Now()))
		}
	}
	return decisions
}

// RecordUsage records a visit to toolID.
func (s *Service) RecordUsage(toolID string) {
	if toolID == "" {
		return
	}
	s.history.Record(toolID)
	s.track(tracking.NewVisitEvent(s.visitorID, toolID, s.clock.Now()))
}

// Recommend returns related tools for toolID, truncated to limit. A limit of
// zero or less returns the full list.
func (s *Service) Recommend(toolID string, ctx recommend.Context, limit int) []recommend.Recommendation {
	recs := recommend.Truncate(s.recommender.Recommend(toolID, ctx), limit)
	s.trackShown(toolID, ctx, recs)
	return recs
}

// RecommendPersonalized is Recommend with the visitor's history blended in
// after the curated and rule-based entries. Unknown tools get an empty list,
// history included.
func (s *Service) RecommendPersonalized(toolID string, ctx recommend.Context, limit int) []recommend.Recommendation {
	if !s.recommender.Knows(toolID) {
		return []recommend.Recommendation{}
	}
	recs := s.recommender.Recommend(toolID, ctx)
	recs = recommend.Blend(recs, s.history.History(), toolID, s.clock.Now(), 0)
	recs = recommend.Truncate(recs, limit)
	s.trackShown(toolID, ctx, recs)
	return recs
}

// Search finds catalog tools matching query, boosting the tools this
// visitor uses most.
func (s *Service) Search(query string, limit int) ([]search.SearchResult, error) {
	if s.index == nil {
		return nil, ErrSearchUnavailable
	}

	popularity := make(map[string]float64)
	for _, c := range s.history.Frequent(history.Capacity) {
		popularity[c.ToolID] = float64(c.Count)
	}

	return s.index.SearchHybrid(query, limit, popularity, search.DefaultFusionConfig)
}

func (s *Service) trackShown(toolID string, ctx recommend.Context, recs []recommend.Recommendation) {
	if len(recs) == 0 {
		return
	}
	shown := make([]string, len(recs))
	for i, r := range recs {
		shown[i] = r.ToolID
	}
	s.track(tracking.NewRecommendationEvent(s.visitorID, toolID, shown, ctx, s.clock.Now()))
}

func (s *Service) track(e tracking.Event) {
	if s.tracker == nil {
		return
	}
	s.tracker.Track(e)
}
