/*
Package tracking emits analytics events in the background.

Callers hand events to a Tracker, which queues them without blocking and
writes them in batches to a Sink. Sinks are the boundary to whatever
analytics transport receives the events.
*/
package tracking

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// Kind identifies what an event records.
type Kind string

const (
	// KindExposure records that a visitor was shown a variant.
	KindExposure Kind = "exposure"

	// KindVisit records that a visitor opened a tool.
	KindVisit Kind = "visit"

	// KindRecommendation records the related tools shown on a tool page.
	KindRecommendation Kind = "recommendation"
)

// Event is a single analytics event.
type Event struct {
	Kind      Kind      `json:"kind"`
	VisitorID string    `json:"visitorId"`
	Timestamp time.Time `json:"timestamp"`

	// TestID and VariantID are set on exposure events.
	TestID    string `json:"testId,omitempty"`
	VariantID string `json:"variantId,omitempty"`

	// ToolID is the tool being visited or recommended from.
	ToolID string `json:"toolId,omitempty"`

	// Shown lists the recommended tool ids, in display order.
	Shown []string `json:"shown,omitempty"`

	// ContextHash is the SHA256 hash of the calculation context, never the values.
	ContextHash string `json:"contextHash,omitempty"`
}

// NewExposureEvent creates an exposure event.
func NewExposureEvent(visitorID, testID, variantID string, at time.Time) Event {
	return Event{
		Kind:      KindExposure,
		VisitorID: visitorID,
		Timestamp: at,
		TestID:    testID,
		VariantID: variantID,
	}
}

// NewVisitEvent creates a tool visit event.
func NewVisitEvent(visitorID, toolID string, at time.Time) Event {
	return Event{
		Kind:      KindVisit,
		VisitorID: visitorID,
		Timestamp: at,
		ToolID:    toolID,
	}
}

// NewRecommendationEvent creates an event for the tools recommended on toolID.
func NewRecommendationEvent(visitorID, toolID string, shown []string, context map[string]any, at time.Time) Event {
	return Event{
		Kind:        KindRecommendation,
		VisitorID:   visitorID,
		Timestamp:   at,
		ToolID:      toolID,
		Shown:       append([]string(nil), shown...),
		ContextHash: hashContext(context),
	}
}

// hashContext creates a SHA256 hash of context for privacy.
func hashContext(context map[string]any) string {
	if len(context) == 0 {
		return ""
	}
	// encoding/json sorts map keys, so equal contexts hash equally
	data, err := json.Marshal(context)
	if err != nil {
		return ""
	}
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
