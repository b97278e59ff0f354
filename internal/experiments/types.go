/*
Package experiments defines A/B tests and the registry that serves them.

A Test is pure configuration: an ordered list of weighted Variants plus an
enabled flag and an optional active window. The Registry validates tests when
it is built and treats malformed ones as disabled, so configuration mistakes
never reach a visitor.
*/
package experiments

import "time"

// Test is one experiment.
type Test struct {
	// ID uniquely identifies the test (e.g., "result-layout").
	ID string `json:"id" yaml:"id"`

	// Name is a human-readable display name.
	Name string `json:"name" yaml:"name"`

	// Description explains what the test measures.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Enabled turns the test on or off regardless of its window.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Start is when the test becomes active. Nil means no lower bound.
	Start *time.Time `json:"start,omitempty" yaml:"start,omitempty"`

	// End is when the test stops being active (exclusive). Nil means no upper bound.
	End *time.Time `json:"end,omitempty" yaml:"end,omitempty"`

	// Variants are the treatment arms in declaration order.
	Variants []Variant `json:"variants" yaml:"variants"`
}

// Variant is one treatment arm of a test.
type Variant struct {
	// ID is unique within the parent test.
	ID string `json:"id" yaml:"id"`

	// Name is a human-readable display name.
	Name string `json:"name" yaml:"name"`

	// Weight is the share of visitors bucketed into this variant, in (0,1].
	Weight float64 `json:"weight" yaml:"weight"`

	// Description is optional.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// InWindow reports whether now falls inside the test's active window.
// The start instant is inclusive and the end instant exclusive.
func (t Test) InWindow(now time.Time) bool {
	if t.Start != nil && now.Before(*t.Start) {
		return false
	}
	if t.End != nil && !now.Before(*t.End) {
		return false
	}
	return true
}

// Variant returns the variant with the given id.
func (t Test) Variant(id string) (Variant, bool) {
	for _, v := range t.Variants {
		if v.ID == id {
			return v, true
		}
	}
	return Variant{}, false
}

// clone returns a deep copy so registry contents cannot be mutated by callers.
func (t Test) clone() Test {
	c := t
	if t.Start != nil {
		start := *t.Start
		c.Start = &start
	}
	if t.End != nil {
		end := *t.End
		c.End = &end
	}
	c.Variants = append([]Variant(nil), t.Variants...)
	return c
}
