package recommend

import "github.com/khanglvm/calc-hub/internal/affinity"

// Engine combines the affinity graph with context rules.
type Engine struct {
	graph *affinity.Graph
	rules []Rule
}

// NewEngine creates an engine. Rules are evaluated in the given order.
func NewEngine(graph *affinity.Graph, rules []Rule) *Engine {
	return &Engine{
		graph: graph,
		rules: append([]Rule(nil), rules...),
	}
}

// Rules returns the engine's rules in evaluation order.
func (e *Engine) Rules() []Rule {
	return append([]Rule(nil), e.rules...)
}

// Knows reports whether toolID has curated relations. Recommend returns an
// empty list for any other tool.
func (e *Engine) Knows(toolID string) bool {
	return e.graph.Has(toolID)
}

// Recommend returns the recommendations for toolID.
//
// Static edges come first with priority by position (high, medium, then
// low). Each matching rule then appends its target with medium priority
// unless the tool is already listed. Unknown tools yield an empty list. The
// result is never truncated here.
func (e *Engine) Recommend(toolID string, ctx Context) []Recommendation {
	if !e.Knows(toolID) {
		return []Recommendation{}
	}

	related := e.graph.RelatedTo(toolID)
	recs := make([]Recommendation, 0, len(related)+len(e.rules))
	present := make(map[string]bool, len(related))

	for i, r := range related {
		if present[r.ToolID] {
			continue
		}
		present[r.ToolID] = true
		recs = append(recs, Recommendation{
			ToolID:   r.ToolID,
			Reason:   r.Reason,
			Priority: positionPriority(i),
		})
	}

	for _, rule := range e.rules {
		if present[rule.Target] || rule.Target == toolID || !rule.Matches(toolID, ctx) {
			continue
		}
		present[rule.Target] = true
		recs = append(recs, Recommendation{
			ToolID:   rule.Target,
			Reason:   rule.Reason,
			Priority: PriorityMedium,
		})
	}

	return recs
}

func positionPriority(i int) Priority {
	switch i {
	case 0:
		return PriorityHigh
	case 1:
		return PriorityMedium
	default:
		return PriorityLow
	}
}
