package search

import (
	"fmt"

	"github.com/blevesearch/bleve/v2"

	"github.com/khanglvm/calc-hub/internal/catalog"
)

var resultFields = []string{"id", "name", "description", "category"}

// SearchBM25 performs BM25 keyword search using Bleve.
func (i *Indexer) SearchBM25(query string, limit int) ([]SearchResult, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if limit <= 0 {
		limit = 10
	}

	searchRequest := bleve.NewSearchRequestOptions(i.buildMatchQuery(query), limit, 0, false)
	searchRequest.Fields = resultFields

	results, err := i.bleveIndex.Search(searchRequest)
	if err != nil {
		return nil, fmt.Errorf("bleve search failed: %w", err)
	}

	return convertBleveResults(results), nil
}

// convertBleveResults converts Bleve search results to our SearchResult format.
func convertBleveResults(results *bleve.SearchResult) []SearchResult {
	searchResults := make([]SearchResult, 0, len(results.Hits))

	for _, hit := range results.Hits {
		id, _ := hit.Fields["id"].(string)
		if id == "" {
			id = hit.ID
		}
		name, _ := hit.Fields["name"].(string)
		description, _ := hit.Fields["description"].(string)
		category, _ := hit.Fields["category"].(string)

		searchResults = append(searchResults, SearchResult{
			Tool: catalog.Tool{
				ID:          id,
				Name:        name,
				Description: description,
				Category:    category,
			},
			Score: hit.Score,
		})
	}

	return searchResults
}

// SearchByCategory performs BM25 search scoped to a single category.
func (i *Indexer) SearchByCategory(query, category string, limit int) ([]SearchResult, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if limit <= 0 {
		limit = 10
	}

	// (match query) AND (category filter)
	categoryQuery := bleve.NewTermQuery(category)
	categoryQuery.SetField("category")
	conjunctionQuery := bleve.NewConjunctionQuery(i.buildMatchQuery(query), categoryQuery)

	searchRequest := bleve.NewSearchRequestOptions(conjunctionQuery, limit, 0, false)
	searchRequest.Fields = resultFields

	results, err := i.bleveIndex.Search(searchRequest)
	if err != nil {
		return nil, fmt.Errorf("bleve search failed: %w", err)
	}

	return convertBleveResults(results), nil
}

// GetAllTools retrieves all indexed tools (up to limit).
func (i *Indexer) GetAllTools(limit int) ([]SearchResult, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}

	searchRequest := bleve.NewSearchRequestOptions(bleve.NewMatchAllQuery(), limit, 0, false)
	searchRequest.Fields = resultFields

	results, err := i.bleveIndex.Search(searchRequest)
	if err != nil {
		return nil, fmt.Errorf("bleve search failed: %w", err)
	}

	return convertBleveResults(results), nil
}
