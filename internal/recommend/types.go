/*
Package recommend builds the related-tools list shown next to a calculator.

Recommendations come from the curated affinity graph, plus context rules that
react to the calculation result the visitor just produced. The output keeps
insertion order and is deduplicated by tool id; priority is a rendering hint,
not a sort key. Usage history can be blended in afterwards with Blend.
*/
package recommend

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Priority is a rendering hint for a recommendation.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Recommendation is one suggested tool. It is derived, never persisted.
type Recommendation struct {
	ToolID   string   `json:"toolId"`
	Reason   string   `json:"reason"`
	Priority Priority `json:"priority"`
}

// Context carries calculation result fields, keyed by field name.
//
// Recognized keys are documented on each Rule (amount, bmi, savings, bill).
// Unrecognized keys are ignored. Values may be any Go number, a json.Number
// or a numeric string.
type Context map[string]any

// Number returns the numeric value of key.
func (c Context) Number(key string) (float64, bool) {
	raw, ok := c[key]
	if !ok || raw == nil {
		return 0, false
	}

	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// Truncate returns at most limit recommendations. A limit of zero or less
// means no limit.
func Truncate(recs []Recommendation, limit int) []Recommendation {
	if limit <= 0 || len(recs) <= limit {
		return recs
	}
	return recs[:limit]
}
