// Package storage defines the persistence interface for documents and chunks.
package storage

import (
	"context"

	"github.com/hyperjump/kotae/internal/models"
)

// Storage defines document and chunk persistence operations. Chunks cascade
// with their document; deleting by source removes both.
type Storage interface {
	// Document operations
	CreateDocument(ctx context.Context, doc *models.Document) error
	GetDocument(ctx context.Context, id string) (*models.Document, error)
	GetDocumentBySource(ctx context.Context, source string) (*models.Document, error)
	ListDocuments(ctx context.Context, offset, limit int) ([]*models.Document, error)

	// Chunk operations
	BatchCreateChunks(ctx context.Context, chunks []*models.Chunk) error
	GetChunk(ctx context.Context, id string) (*models.Chunk, error)
	GetChunksByDocumentID(ctx context.Context, docID string) ([]*models.Chunk, error)

	// Cascading deletion by source key. ChunkIDsBySource lets callers clear
	// the vector and lexical indexes before the rows go away.
	ChunkIDsBySource(ctx context.Context, source string) ([]string, error)
	DeleteBySource(ctx context.Context, source string) error

	// Stats
	CountDocuments(ctx context.Context) (int64, error)
	CountChunks(ctx context.Context) (int64, error)

	Close() error
}
