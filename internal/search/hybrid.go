package search

import (
	"sort"
)

// FusionConfig defines weights for hybrid score fusion.
type FusionConfig struct {
	KeywordWeight    float64
	PopularityWeight float64
}

// DefaultFusionConfig ranks mostly by text relevance (70% keyword, 30% popularity).
var DefaultFusionConfig = FusionConfig{
	KeywordWeight:    0.7,
	PopularityWeight: 0.3,
}

// SearchHybrid performs BM25 search and re-ranks the matches by popularity.
//
// popularity maps tool id to any non-negative usage measure, such as visit
// counts from the visitor's history. Only keyword matches are returned;
// popularity never adds a tool that did not match the query.
func (i *Indexer) SearchHybrid(query string, limit int, popularity map[string]float64, config FusionConfig) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 10
	}

	// Over-fetch so that popular tools just below the cut can move up
	bm25Results, err := i.SearchBM25(query, limit*2)
	if err != nil {
		return nil, err
	}

	if len(popularity) == 0 || len(bm25Results) == 0 {
		if len(bm25Results) > limit {
			bm25Results = bm25Results[:limit]
		}
		return bm25Results, nil
	}

	fusedResults := fuseScores(bm25Results, popularity, config)

	sort.SliceStable(fusedResults, func(i, j int) bool {
		return fusedResults[i].Score > fusedResults[j].Score
	})

	if len(fusedResults) > limit {
		fusedResults = fusedResults[:limit]
	}

	return fusedResults, nil
}

// fuseScores combines normalized BM25 scores with normalized popularity.
// Input order is preserved.
func fuseScores(bm25Results []SearchResult, popularity map[string]float64, config FusionConfig) []SearchResult {
	keyword := normalizeScores(bm25Results)

	popular := make([]SearchResult, len(bm25Results))
	for i, result := range bm25Results {
		popular[i] = SearchResult{Tool: result.Tool, Score: popularity[result.Tool.ID]}
	}
	popular = normalizeScores(popular)

	fusedResults := make([]SearchResult, len(bm25Results))
	for i := range bm25Results {
		fusedResults[i] = SearchResult{
			Tool:  bm25Results[i].Tool,
			Score: config.KeywordWeight*keyword[i].Score + config.PopularityWeight*popular[i].Score,
		}
	}

	return fusedResults
}

// normalizeScores normalizes scores to [0, 1] range.
func normalizeScores(results []SearchResult) []SearchResult {
	if len(results) == 0 {
		return results
	}

	minScore := results[0].Score
	maxScore := results[0].Score

	for _, result := range results {
		if result.Score < minScore {
			minScore = result.Score
		}
		if result.Score > maxScore {
			maxScore = result.Score
		}
	}

	// Avoid division by zero - when all scores are equal, set all to 1.0
	if maxScore == minScore {
		normalized := make([]SearchResult, len(results))
		for i, result := range results {
			normalized[i] = result
			normalized[i].Score = 1.0
		}
		return normalized
	}

	normalized := make([]SearchResult, len(results))
	for i, result := range results {
		normalized[i] = result
		normalized[i].Score = (result.Score - minScore) / (maxScore - minScore)
	}

	return normalized
}
