/*
Package affinity holds the curated tool-to-tool relation graph.

Edges are directed and ordered: the first related tool of a source is its
strongest relation. The graph is static data; it is not derived from usage.
*/
package affinity

import "sort"

// RelatedTool is a directed edge from a source tool to ToolID.
type RelatedTool struct {
	ToolID string `json:"toolId"`
	Reason string `json:"reason"`
}

// Graph maps a source tool id to its ordered related tools.
type Graph struct {
	edges map[string][]RelatedTool
}

// NewGraph builds a graph from edges. The input is copied.
func NewGraph(edges map[string][]RelatedTool) *Graph {
	g := &Graph{edges: make(map[string][]RelatedTool, len(edges))}
	for source, related := range edges {
		g.edges[source] = append([]RelatedTool(nil), related...)
	}
	return g
}

// RelatedTo returns the related tools of toolID in curation order. Unknown
// tools yield an empty slice.
func (g *Graph) RelatedTo(toolID string) []RelatedTool {
	related, ok := g.edges[toolID]
	if !ok {
		return []RelatedTool{}
	}
	return append([]RelatedTool(nil), related...)
}

// Has reports whether toolID is a source in the graph.
func (g *Graph) Has(toolID string) bool {
	_, ok := g.edges[toolID]
	return ok
}

// Sources returns every source tool id, sorted.
func (g *Graph) Sources() []string {
	sources := make([]string, 0, len(g.edges))
	for source := range g.edges {
		sources = append(sources, source)
	}
	sort.Strings(sources)
	return sources
}
