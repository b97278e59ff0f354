/*
Package benchmark simulates visitor traffic against an experiment to check
that bucketing honors the configured variant weights.

Simulated visitors get synthetic ids ("visitor-0", "visitor-1", ...), so a
run is reproducible: the same test and visitor count always produce the same
split.
*/
package benchmark

import (
	"fmt"
	"math"
	"strings"

	"github.com/khanglvm/calc-hub/internal/assignment"
	"github.com/khanglvm/calc-hub/internal/experiments"
)

// DefaultVisitors is the number of simulated visitors when none is given.
const DefaultVisitors = 10000

// VariantShare is the observed traffic for one variant.
type VariantShare struct {
	VariantID string  `json:"variantId"`
	Weight    float64 `json:"weight"`
	Assigned  int     `json:"assigned"`
	Share     float64 `json:"share"`

	// Deviation is Share minus Weight.
	Deviation float64 `json:"deviation"`
}

// SimulationResult contains the split observed for one test.
type SimulationResult struct {
	TestID       string         `json:"testId"`
	Visitors     int            `json:"visitors"`
	Variants     []VariantShare `json:"variants"`
	MaxDeviation float64        `json:"maxDeviation"`
}

// Simulate buckets visitors synthetic visitors into test with bucketer.
// A nil bucketer uses assignment.HashBucketer.
func Simulate(test experiments.Test, bucketer assignment.Bucketer, visitors int) (*SimulationResult, error) {
	if len(test.Variants) == 0 {
		return nil, fmt.Errorf("test %q has no variants", test.ID)
	}
	if visitors <= 0 {
		visitors = DefaultVisitors
	}
	if bucketer == nil {
		bucketer = assignment.HashBucketer{}
	}

	counts := make(map[string]int, len(test.Variants))
	for i := 0; i < visitors; i++ {
		v, _ := assignment.Pick(test.Variants, bucketer.Draw(visitorID(i), test.ID))
		counts[v.ID]++
	}

	result := &SimulationResult{TestID: test.ID, Visitors: visitors}
	for _, v := range test.Variants {
		share := float64(counts[v.ID]) / float64(visitors)
		vs := VariantShare{
			VariantID: v.ID,
			Weight:    v.Weight,
			Assigned:  counts[v.ID],
			Share:     share,
			Deviation: share - v.Weight,
		}
		result.Variants = append(result.Variants, vs)
		result.MaxDeviation = math.Max(result.MaxDeviation, math.Abs(vs.Deviation))
	}
	return result, nil
}

func visitorID(i int) string {
	return fmt.Sprintf("visitor-%d", i)
}

// FormatResult formats the simulation result for display.
func FormatResult(result *SimulationResult) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Bucketing simulation: %s (%d visitors)\n\n", result.TestID, result.Visitors))
	sb.WriteString(fmt.Sprintf("  %-20s %8s %10s %8s %10s\n", "VARIANT", "WEIGHT", "ASSIGNED", "SHARE", "DEVIATION"))
	for _, v := range result.Variants {
		sb.WriteString(fmt.Sprintf("  %-20s %7.1f%% %10d %7.1f%% %+9.2f%%\n",
			v.VariantID, v.Weight*100, v.Assigned, v.Share*100, v.Deviation*100))
	}
	sb.WriteString(fmt.Sprintf("\n  Max deviation: %.2f%%\n", result.MaxDeviation*100))

	return sb.String()
}
