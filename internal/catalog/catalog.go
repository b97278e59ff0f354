/*
Package catalog describes the calculator tools the engine recommends.

The catalog is static metadata. It feeds the search index and is used to
check that affinity edges and context rules only point at real tools.
*/
package catalog

import (
	"fmt"
	"sort"

	"github.com/khanglvm/calc-hub/internal/affinity"
	"github.com/khanglvm/calc-hub/internal/recommend"
)

// Tool categories.
const (
	CategoryEveryday = "everyday"
	CategoryFinance  = "finance"
	CategoryHealth   = "health"
)

// Tool is one calculator page.
type Tool struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// Catalog is an ordered, read-only set of tools.
type Catalog struct {
	tools []Tool
	byID  map[string]int
}

// New builds a catalog. Later duplicates of an id are ignored.
func New(tools []Tool) *Catalog {
	c := &Catalog{
		tools: make([]Tool, 0, len(tools)),
		byID:  make(map[string]int, len(tools)),
	}
	for _, t := range tools {
		if _, dup := c.byID[t.ID]; dup || t.ID == "" {
			continue
		}
		c.byID[t.ID] = len(c.tools)
		c.tools = append(c.tools, t)
	}
	return c
}

// Get returns the tool with the given id.
func (c *Catalog) Get(id string) (Tool, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Tool{}, false
	}
	return c.tools[i], true
}

// Has reports whether id is in the catalog.
func (c *Catalog) Has(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// All returns every tool in catalog order.
func (c *Catalog) All() []Tool {
	return append([]Tool(nil), c.tools...)
}

// Len returns the number of tools.
func (c *Catalog) Len() int {
	return len(c.tools)
}

// Categories returns the distinct categories, sorted.
func (c *Catalog) Categories() []string {
	seen := make(map[string]bool)
	for _, t := range c.tools {
		seen[t.Category] = true
	}
	categories := make([]string, 0, len(seen))
	for category := range seen {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	return categories
}

// CheckGraph lists every reference in graph and rules to a tool missing from
// the catalog. An empty result means the recommendation data is consistent.
func (c *Catalog) CheckGraph(graph *affinity.Graph, rules []recommend.Rule) []string {
	var problems []string

	for _, source := range graph.Sources() {
		if !c.Has(source) {
			problems = append(problems, fmt.Sprintf("affinity source %s is not in the catalog", source))
		}
		for _, r := range graph.RelatedTo(source) {
			if !c.Has(r.ToolID) {
				problems = append(problems, fmt.Sprintf("affinity edge %s -> %s points at an unknown tool", source, r.ToolID))
			}
		}
	}

	for _, rule := range rules {
		if !c.Has(rule.Source) {
			problems = append(problems, fmt.Sprintf("rule %q has unknown source", rule.String()))
		}
		if !c.Has(rule.Target) {
			problems = append(problems, fmt.Sprintf("rule %q has unknown target", rule.String()))
		}
	}

	return problems
}
