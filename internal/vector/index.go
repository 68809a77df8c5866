// Package vector provides vector index and similarity search over chunk embeddings.
package vector

import "context"

// Entry is one indexed embedding: the chunk ID, its source document name,
// and the (normalized) embedding vector.
type Entry struct {
	ID     string
	Source string
	Vector []float32
}

// Result is a single nearest-neighbor hit, descending by Similarity.
type Result struct {
	ID         string
	Source     string
	Similarity float64 // inner product; equals cosine similarity for normalized vectors
}

// VectorIndex defines embedding storage and nearest-neighbor search.
type VectorIndex interface {
	Add(ctx context.Context, entries []Entry) error
	Search(ctx context.Context, query []float32, k int) ([]*Result, error)
	Remove(ctx context.Context, ids []string) error
	Save(path string) error
	Load(path string) error
	Size() int
	Close() error
}
