// Package lexical provides full-text candidate generation for hybrid retrieval.
package lexical

import (
	"context"

	"github.com/hyperjump/kotae/internal/models"
)

// Candidate is a single lexical search hit. Content and Source are read back
// from the index's stored fields so candidates can join the fused result set
// without a storage round-trip.
type Candidate struct {
	ID      string
	Content string
	Source  string
	Score   float64
}

// LexicalIndex defines full-text indexing and search over chunks.
type LexicalIndex interface {
	Index(ctx context.Context, chunk *models.Chunk) error
	Search(ctx context.Context, query string, limit int) ([]*Candidate, error)
	Delete(ctx context.Context, id string) error
	Close() error
	// DocCount returns the total number of chunks in the index.
	DocCount() (uint64, error)
}
