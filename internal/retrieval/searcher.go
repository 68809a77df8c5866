package retrieval

import (
	"context"

	"github.com/hyperjump/kotae/internal/lexical"
	"github.com/hyperjump/kotae/internal/models"
	"github.com/hyperjump/kotae/internal/storage"
	"github.com/hyperjump/kotae/internal/vector"
)

// ChunkVectorSearcher adapts the vector index to VectorSearcher by joining
// hit IDs back to chunk content in storage. Hits whose chunk row is missing
// (deleted between index save and now) are skipped.
type ChunkVectorSearcher struct {
	index   vector.VectorIndex
	storage storage.Storage
}

// NewChunkVectorSearcher creates a vector searcher over index and storage.
func NewChunkVectorSearcher(index vector.VectorIndex, store storage.Storage) *ChunkVectorSearcher {
	return &ChunkVectorSearcher{index: index, storage: store}
}

var _ VectorSearcher = (*ChunkVectorSearcher)(nil)

// SearchVector returns up to k documents nearest to vec, descending by similarity.
func (s *ChunkVectorSearcher) SearchVector(ctx context.Context, vec []float32, k int) ([]*models.RetrievedDocument, error) {
	hits, err := s.index.Search(ctx, vec, k)
	if err != nil {
		return nil, err
	}
	docs := make([]*models.RetrievedDocument, 0, len(hits))
	for _, hit := range hits {
		chunk, err := s.storage.GetChunk(ctx, hit.ID)
		if err != nil {
			continue
		}
		docs = append(docs, &models.RetrievedDocument{
			Content:    chunk.Content,
			Source:     hit.Source,
			Similarity: hit.Similarity,
		})
	}
	return docs, nil
}

// BleveLexicalSearcher adapts the lexical index to LexicalSearcher. Lexical
// matches carry similarity 0 until fusion assigns them a rank-based score.
type BleveLexicalSearcher struct {
	index lexical.LexicalIndex
}

// NewBleveLexicalSearcher creates a lexical searcher over index.
func NewBleveLexicalSearcher(index lexical.LexicalIndex) *BleveLexicalSearcher {
	return &BleveLexicalSearcher{index: index}
}

var _ LexicalSearcher = (*BleveLexicalSearcher)(nil)

// SearchText returns up to k coarse text matches for query.
func (s *BleveLexicalSearcher) SearchText(ctx context.Context, query string, k int) ([]*models.RetrievedDocument, error) {
	candidates, err := s.index.Search(ctx, query, k)
	if err != nil {
		return nil, err
	}
	docs := make([]*models.RetrievedDocument, 0, len(candidates))
	for _, c := range candidates {
		docs = append(docs, &models.RetrievedDocument{
			Content:    c.Content,
			Source:     c.Source,
			Similarity: 0,
		})
	}
	return docs, nil
}
