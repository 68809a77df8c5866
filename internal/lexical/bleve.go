package lexical

import (
	"context"
	"fmt"
	"os"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/hyperjump/kotae/internal/models"
)

// BleveIndex implements LexicalIndex using Bleve.
type BleveIndex struct {
	index bleve.Index
}

// bleveChunk is the shape stored in the index. Content and source are stored
// fields so Search can return them without consulting external storage.
type bleveChunk struct {
	Content string `json:"content"`
	Source  string `json:"source"`
}

// NewBleveIndex creates or opens a Bleve index at path.
// If the path already exists, the existing index is opened and reused so that
// lexical search works with incremental sync (unchanged sources are not re-indexed).
// If you change the index mapping in code, remove the index directory to force a full re-index.
func NewBleveIndex(path string) (*BleveIndex, error) {
	im := bleve.NewIndexMapping()

	chunkMapping := bleve.NewDocumentMapping()
	contentMapping := bleve.NewTextFieldMapping()
	// Standard analyzer (lowercase + tokenize, no stemming) so queries like "bayes"
	// match the exact word; English analyzer stems e.g. "Bayesian" -> "bayesi".
	contentMapping.Analyzer = standard.Name
	contentMapping.Store = true
	chunkMapping.AddFieldMappingsAt("content", contentMapping)
	sourceMapping := bleve.NewKeywordFieldMapping()
	sourceMapping.Store = true
	chunkMapping.AddFieldMappingsAt("source", sourceMapping)
	im.AddDocumentMapping("chunk", chunkMapping)
	im.DefaultType = "chunk"
	im.DefaultMapping = chunkMapping

	if _, err := os.Stat(path); err == nil {
		index, openErr := bleve.Open(path)
		if openErr != nil {
			return nil, fmt.Errorf("failed to open Bleve index: %w", openErr)
		}
		return &BleveIndex{index: index}, nil
	}

	index, err := bleve.New(path, im)
	if err != nil {
		return nil, fmt.Errorf("failed to create Bleve index: %w", err)
	}
	return &BleveIndex{index: index}, nil
}

// Index indexes a chunk under its ID.
func (b *BleveIndex) Index(ctx context.Context, chunk *models.Chunk) error {
	return b.index.Index(chunk.ID, bleveChunk{Content: chunk.Content, Source: chunk.Source})
}

// Search runs a match query over chunk content and returns up to limit
// candidates with their stored content and source.
func (b *BleveIndex) Search(ctx context.Context, query string, limit int) ([]*Candidate, error) {
	q := bleve.NewMatchQuery(query)
	q.SetField("content")
	req := bleve.NewSearchRequest(q)
	req.Size = limit
	req.Fields = []string{"content", "source"}
	results, err := b.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("Bleve search failed: %w", err)
	}
	out := make([]*Candidate, 0, len(results.Hits))
	for _, hit := range results.Hits {
		c := &Candidate{ID: hit.ID, Score: hit.Score}
		if v, ok := hit.Fields["content"].(string); ok {
			c.Content = v
		}
		if v, ok := hit.Fields["source"].(string); ok {
			c.Source = v
		}
		out = append(out, c)
	}
	return out, nil
}

// Delete removes a chunk from the index.
func (b *BleveIndex) Delete(ctx context.Context, id string) error {
	return b.index.Delete(id)
}

// Close closes the Bleve index.
func (b *BleveIndex) Close() error {
	return b.index.Close()
}

// DocCount returns the total number of chunks in the index.
func (b *BleveIndex) DocCount() (uint64, error) {
	return b.index.DocCount()
}
