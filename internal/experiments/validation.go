package experiments

import (
	"fmt"
	"math"
)

// WeightTolerance is how far a test's weight sum may drift from 1.0.
const WeightTolerance = 1e-3

// ConfigError describes why a test definition is malformed.
type ConfigError struct {
	TestID string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.TestID == "" {
		return "invalid test: " + e.Reason
	}
	return fmt.Sprintf("invalid test %q: %s", e.TestID, e.Reason)
}

// Validate reports whether the variant weights of t sum to 1.0 within
// WeightTolerance. A test without variants is never valid.
func Validate(t Test) bool {
	if len(t.Variants) == 0 {
		return false
	}
	return math.Abs(weightSum(t.Variants)-1.0) <= WeightTolerance
}

// Check runs Validate plus the structural checks applied when a registry is
// built. It returns a *ConfigError describing the first problem found.
func Check(t Test) error {
	if t.ID == "" {
		return &ConfigError{Reason: "empty id"}
	}
	if len(t.Variants) == 0 {
		return &ConfigError{TestID: t.ID, Reason: "no variants"}
	}

	seen := make(map[string]bool, len(t.Variants))
	for i, v := range t.Variants {
		if v.ID == "" {
			return &ConfigError{TestID: t.ID, Reason: fmt.Sprintf("variant %d: empty id", i)}
		}
		if seen[v.ID] {
			return &ConfigError{TestID: t.ID, Reason: fmt.Sprintf("duplicate variant %q", v.ID)}
		}
		seen[v.ID] = true

		if v.Weight <= 0 || v.Weight > 1 || math.IsNaN(v.Weight) {
			return &ConfigError{TestID: t.ID, Reason: fmt.Sprintf("variant %q: weight %v outside (0,1]", v.ID, v.Weight)}
		}
	}

	if !Validate(t) {
		return &ConfigError{TestID: t.ID, Reason: fmt.Sprintf("variant weights sum to %.4f, want 1.0", weightSum(t.Variants))}
	}

	if t.Start != nil && t.End != nil && !t.End.After(*t.Start) {
		return &ConfigError{TestID: t.ID, Reason: "end is not after start"}
	}

	return nil
}

func weightSum(variants []Variant) float64 {
	sum := 0.0
	for _, v := range variants {
		sum += v.Weight
	}
	return sum
}
