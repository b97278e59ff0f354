/*
Package search implements keyword search across the calculator catalog.

This package provides BM25 search over tool names, descriptions and
categories, and a hybrid ranking that boosts the visitor's popular tools.
*/
package search

import "github.com/khanglvm/calc-hub/internal/catalog"

// SearchResult represents a single search result with relevance score.
type SearchResult struct {
	Tool  catalog.Tool `json:"tool"`
	Score float64      `json:"score"`
}

// toolDocument returns t as stored in the search index.
func toolDocument(t catalog.Tool) map[string]interface{} {
	return map[string]interface{}{
		"id":          t.ID,
		"name":        t.Name,
		"description": t.Description,
		"category":    t.Category,
	}
}
