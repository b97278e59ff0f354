package search

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/index/scorch"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
	"go.uber.org/zap"

	"github.com/khanglvm/calc-hub/internal/catalog"
)

// Indexer manages the search index for the tool catalog.
type Indexer struct {
	bleveIndex bleve.Index
	mu         sync.RWMutex
	indexPath  string
	logger     *zap.Logger
}

// NewIndexer creates a new search indexer with in-memory Bleve index.
func NewIndexer(logger *zap.Logger) (*Indexer, error) {
	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create bleve index: %w", err)
	}

	return &Indexer{
		bleveIndex: index,
		logger:     orNop(logger),
	}, nil
}

// NewIndexerWithPath creates a new indexer with persistent disk storage.
func NewIndexerWithPath(indexPath string, logger *zap.Logger) (*Indexer, error) {
	if err := os.MkdirAll(filepath.Dir(indexPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create index directory: %w", err)
	}

	index, err := bleve.NewUsing(indexPath, buildIndexMapping(), scorch.Name, scorch.Name, nil)
	if err != nil {
		// If index exists, open it
		index, err = bleve.Open(indexPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open/create index: %w", err)
		}
	}

	return &Indexer{
		bleveIndex: index,
		indexPath:  indexPath,
		logger:     orNop(logger),
	}, nil
}

// NewCatalogIndex creates an in-memory index holding every tool of c.
func NewCatalogIndex(c *catalog.Catalog, logger *zap.Logger) (*Indexer, error) {
	indexer, err := NewIndexer(logger)
	if err != nil {
		return nil, err
	}
	if err := indexer.SyncCatalog(c); err != nil {
		indexer.Close()
		return nil, err
	}
	return indexer, nil
}

// OpenCatalogIndex opens the on-disk index at indexPath and brings it in line
// with c.
func OpenCatalogIndex(indexPath string, c *catalog.Catalog, logger *zap.Logger) (*Indexer, error) {
	indexer, err := NewIndexerWithPath(indexPath, logger)
	if err != nil {
		return nil, err
	}
	if err := indexer.SyncCatalog(c); err != nil {
		indexer.Close()
		return nil, err
	}
	return indexer, nil
}

// SyncCatalog makes the index hold exactly the tools of c. Tools that left
// the catalog are removed, every other tool is (re)indexed.
func (i *Indexer) SyncCatalog(c *catalog.Catalog) error {
	count, err := i.Count()
	if err != nil {
		return err
	}

	var stale []string
	if count > 0 {
		indexed, err := i.GetAllTools(int(count))
		if err != nil {
			return err
		}
		for _, r := range indexed {
			if !c.Has(r.Tool.ID) {
				stale = append(stale, r.Tool.ID)
			}
		}
	}
	if len(stale) > 0 {
		i.logger.Debug("removing tools no longer in the catalog", zap.Strings("tools", stale))
		if err := i.RemoveTools(stale...); err != nil {
			return err
		}
	}

	return i.IndexTools(c.All())
}

func orNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

// buildIndexMapping creates the Bleve index mapping.
func buildIndexMapping() mapping.IndexMapping {
	toolMapping := bleve.NewDocumentMapping()

	// ID: stored for retrieval only
	idFieldMapping := bleve.NewTextFieldMapping()
	idFieldMapping.Index = false
	idFieldMapping.IncludeInAll = false
	toolMapping.AddFieldMappingsAt("id", idFieldMapping)

	toolMapping.AddFieldMappingsAt("name", bleve.NewTextFieldMapping())
	toolMapping.AddFieldMappingsAt("description", bleve.NewTextFieldMapping())

	// Category: single token so it can be used as an exact filter
	categoryFieldMapping := bleve.NewTextFieldMapping()
	categoryFieldMapping.Analyzer = keyword.Name
	toolMapping.AddFieldMappingsAt("category", categoryFieldMapping)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.AddDocumentMapping("_default", toolMapping)

	return indexMapping
}

// IndexTools adds or replaces tools in the index, keyed by tool id.
func (i *Indexer) IndexTools(tools []catalog.Tool) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	batch := i.bleveIndex.NewBatch()

	for _, tool := range tools {
		if err := batch.Index(tool.ID, toolDocument(tool)); err != nil {
			i.logger.Warn("failed to index tool", zap.String("tool", tool.ID), zap.Error(err))
		}
	}

	if err := i.bleveIndex.Batch(batch); err != nil {
		return fmt.Errorf("failed to batch index tools: %w", err)
	}

	return nil
}

// RemoveTools deletes tools from the index by id.
func (i *Indexer) RemoveTools(ids ...string) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	batch := i.bleveIndex.NewBatch()
	for _, id := range ids {
		batch.Delete(id)
	}

	if err := i.bleveIndex.Batch(batch); err != nil {
		return fmt.Errorf("failed to batch delete: %w", err)
	}

	return nil
}

// Count returns the total number of indexed tools.
func (i *Indexer) Count() (uint64, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	docCount, err := i.bleveIndex.DocCount()
	if err != nil {
		return 0, fmt.Errorf("failed to get doc count: %w", err)
	}

	return docCount, nil
}

// Close closes the index and releases resources.
func (i *Indexer) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.bleveIndex != nil {
		return i.bleveIndex.Close()
	}

	return nil
}

// buildMatchQuery creates a match query for BM25 search.
func (i *Indexer) buildMatchQuery(searchText string) query.Query {
	return bleve.NewMatchQuery(searchText)
}
