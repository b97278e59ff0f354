package recommend

import (
	"fmt"
	"math"
)

// Comparison is how a rule compares a context field with its threshold.
type Comparison string

const (
	Above   Comparison = ">"
	AtLeast Comparison = ">="
	Below   Comparison = "<"
	AtMost  Comparison = "<="
)

// Rule appends Target when the visitor is on Source and the context field
// Field crosses Threshold.
type Rule struct {
	Source     string
	Field      string
	Comparison Comparison
	Threshold  float64
	Target     string
	Reason     string
}

// Matches reports whether the rule fires for toolID with ctx.
func (r Rule) Matches(toolID string, ctx Context) bool {
	if toolID != r.Source || ctx == nil {
		return false
	}
	value, ok := ctx.Number(r.Field)
	if !ok || math.IsNaN(value) {
		return false
	}

	switch r.Comparison {
	case Above:
		return value > r.Threshold
	case AtLeast:
		return value >= r.Threshold
	case Below:
		return value < r.Threshold
	case AtMost:
		return value <= r.Threshold
	default:
		return false
	}
}

func (r Rule) String() string {
	return fmt.Sprintf("%s: %s %s %g -> %s", r.Source, r.Field, r.Comparison, r.Threshold, r.Target)
}

// DefaultRules returns the built-in context rules in evaluation order.
//
// Recognized context keys:
//   - amount: loan principal on /loan-calculator
//   - bmi: computed BMI on /bmi-calculator
//   - savings: savings balance on /savings-calculator
//   - bill: bill total on /tip-calculator
func DefaultRules() []Rule {
	return []Rule{
		{
			Source:     "/loan-calculator",
			Field:      "amount",
			Comparison: Above,
			Threshold:  100000,
			Target:     "/bmi-calculator",
			Reason:     "Big financial commitments are stressful; check in on your health too",
		},
		{
			Source:     "/loan-calculator",
			Field:      "amount",
			Comparison: Above,
			Threshold:  100000,
			Target:     "/mortgage-calculator",
			Reason:     "Borrowing this much for a home? Include taxes and insurance",
		},
		{
			Source:     "/bmi-calculator",
			Field:      "bmi",
			Comparison: AtLeast,
			Threshold:  25,
			Target:     "/calorie-calculator",
			Reason:     "Plan daily calories toward a healthy weight",
		},
		{
			Source:     "/savings-calculator",
			Field:      "savings",
			Comparison: AtLeast,
			Threshold:  10000,
			Target:     "/compound-interest-calculator",
			Reason:     "See how these savings grow with compound interest",
		},
		{
			Source:     "/tip-calculator",
			Field:      "bill",
			Comparison: AtLeast,
			Threshold:  100,
			Target:     "/split-bill-calculator",
			Reason:     "Large bill? Split it with the group",
		},
	}
}
