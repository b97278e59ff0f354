/*
Package assignment buckets visitors into experiment variants and keeps each
visitor's assignments stable across sessions.

The Engine consults the experiments Registry, reads and writes the
per-visitor Store, and draws new assignments from a Bucketer. The default
Bucketer hashes (visitor, test) so that assignment is reproducible without
any ambient randomness.
*/
package assignment

import (
	"github.com/cespare/xxhash/v2"
	"github.com/khanglvm/calc-hub/internal/experiments"
)

// Bucketer produces the single draw in [0,1) used for a new assignment.
type Bucketer interface {
	Draw(visitorID, testID string) float64
}

// BucketFunc adapts a function to Bucketer.
type BucketFunc func(visitorID, testID string) float64

// Draw calls f.
func (f BucketFunc) Draw(visitorID, testID string) float64 {
	return f(visitorID, testID)
}

// HashBucketer derives the draw from an xxhash64 of visitor and test id.
type HashBucketer struct{}

// Draw maps the top 53 bits of the hash onto [0,1).
func (HashBucketer) Draw(visitorID, testID string) float64 {
	d := xxhash.New()
	_, _ = d.WriteString(visitorID)
	// Separator keeps ("ab","c") and ("a","bc") apart.
	_, _ = d.Write([]byte{0})
	_, _ = d.WriteString(testID)
	return float64(d.Sum64()>>11) / (1 << 53)
}

// Pick walks variants in declared order, accumulating weight, and returns
// the first whose cumulative weight meets or exceeds draw. If rounding leaves
// draw above the total, the last variant is returned.
func Pick(variants []experiments.Variant, draw float64) (experiments.Variant, bool) {
	if len(variants) == 0 {
		return experiments.Variant{}, false
	}
	cumulative := 0.0
	for _, v := range variants {
		cumulative += v.Weight
		if cumulative >= draw {
			return v, true
		}
	}
	return variants[len(variants)-1], true
}
