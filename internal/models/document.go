// Package models defines core data structures for documents, chunks, and retrieval results.
package models

import "time"

// Document represents an ingested source document.
type Document struct {
	ID         string    `json:"id" db:"id"`
	Source     string    `json:"source" db:"source"`
	Content    string    `json:"content" db:"content"`
	ChunkCount int       `json:"chunk_count" db:"chunk_count"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// Chunk is a bounded retrievable slice of a document's text. Chunks are
// created in bulk by the splitter at ingestion time and are immutable;
// they are deleted only when their source document is deleted.
type Chunk struct {
	ID         string    `json:"id" db:"id"`
	DocumentID string    `json:"document_id" db:"document_id"`
	Source     string    `json:"source" db:"source"`
	Content    string    `json:"content" db:"content"`
	Ordinal    int       `json:"ordinal" db:"ordinal"`
	Embedding  []float32 `json:"-" db:"-"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// DocumentInput is the input for ingesting a document.
type DocumentInput struct {
	ID      string `json:"id,omitempty"`
	Source  string `json:"source"`
	Content string `json:"content"`
}
