// Package ingest turns raw documents into chunked, embedded, indexed content.
package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hyperjump/kotae/internal/config"
	"github.com/hyperjump/kotae/internal/embedding"
	"github.com/hyperjump/kotae/internal/extract"
	"github.com/hyperjump/kotae/internal/lexical"
	"github.com/hyperjump/kotae/internal/models"
	"github.com/hyperjump/kotae/internal/sourceid"
	"github.com/hyperjump/kotae/internal/storage"
	"github.com/hyperjump/kotae/internal/textsplit"
	"github.com/hyperjump/kotae/internal/vector"
)

// dirConcurrency bounds parallel file ingestion during directory walks.
const dirConcurrency = 4

// Ingestor chunks, embeds, and indexes documents into storage, the vector
// index, and the lexical index.
type Ingestor struct {
	storage      storage.Storage
	embedder     embedding.Embedder
	vectorIndex  vector.VectorIndex
	lexicalIndex lexical.LexicalIndex
	config       *config.SearchConfig
	extractor    *extract.Extractor
	logger       *zap.Logger
}

// Option configures an Ingestor.
type Option func(*Ingestor)

// WithLogger sets a logger for debug output (file ingested, source deleted, etc.).
func WithLogger(l *zap.Logger) Option {
	return func(ing *Ingestor) { ing.logger = l }
}

// NewIngestor creates an ingestor with the given dependencies.
func NewIngestor(
	store storage.Storage,
	embedder embedding.Embedder,
	vectorIndex vector.VectorIndex,
	lexicalIndex lexical.LexicalIndex,
	cfg *config.SearchConfig,
	opts ...Option,
) *Ingestor {
	ing := &Ingestor{
		storage:      store,
		embedder:     embedder,
		vectorIndex:  vectorIndex,
		lexicalIndex: lexicalIndex,
		config:       cfg,
		extractor:    extract.NewExtractor(),
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(ing)
	}
	return ing
}

// IngestDocument ingests one document: chunk, embed, store, index. An
// existing document with the same source is replaced. Content identical to
// the stored version is skipped.
func (ing *Ingestor) IngestDocument(ctx context.Context, input *models.DocumentInput) error {
	if input.Source == "" {
		return fmt.Errorf("document source is required")
	}
	if existing, err := ing.storage.GetDocumentBySource(ctx, input.Source); err == nil {
		if existing.Content == input.Content {
			ing.logger.Debug("ingest skipping unchanged source", zap.String("source", input.Source))
			return nil
		}
		if err := ing.DeleteSource(ctx, input.Source); err != nil {
			return fmt.Errorf("failed to replace existing source: %w", err)
		}
	}

	docID := input.ID
	if docID == "" {
		docID = sourceid.DocID(input.Source)
	}

	pieces := textsplit.Split(input.Content, ing.config.ChunkSize, ing.config.ChunkOverlap)
	chunks := make([]*models.Chunk, 0, len(pieces))
	for i, content := range pieces {
		chunks = append(chunks, &models.Chunk{
			ID:         uuid.New().String(),
			DocumentID: docID,
			Source:     input.Source,
			Content:    content,
			Ordinal:    i,
		})
	}

	texts := make([]string, len(chunks))
	for i, ch := range chunks {
		texts[i] = ch.Content
	}
	embeddings, err := ing.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to generate embeddings: %w", err)
	}
	for i := range chunks {
		chunks[i].Embedding = embeddings[i]
	}

	doc := &models.Document{
		ID:         docID,
		Source:     input.Source,
		Content:    input.Content,
		ChunkCount: len(chunks),
	}
	if err := ing.storage.CreateDocument(ctx, doc); err != nil {
		return fmt.Errorf("failed to store document: %w", err)
	}
	if err := ing.storage.BatchCreateChunks(ctx, chunks); err != nil {
		return fmt.Errorf("failed to store chunks: %w", err)
	}

	entries := make([]vector.Entry, len(chunks))
	for i, ch := range chunks {
		entries[i] = vector.Entry{ID: ch.ID, Source: ch.Source, Vector: ch.Embedding}
	}
	if err := ing.vectorIndex.Add(ctx, entries); err != nil {
		return fmt.Errorf("failed to index vectors: %w", err)
	}
	for _, ch := range chunks {
		if err := ing.lexicalIndex.Index(ctx, ch); err != nil {
			return fmt.Errorf("failed to index chunk text: %w", err)
		}
	}

	ing.logger.Debug("ingest document indexed",
		zap.String("source", input.Source),
		zap.String("doc_id", docID),
		zap.Int("chunks", len(chunks)))
	return nil
}

// IngestFile extracts text from a file (plain text, PDF, DOCX, XLSX, and
// friends) and ingests it with the cleaned absolute path as its source key.
// If allowedExts is non-empty, the file's extension must be in the list
// (case-insensitive).
func (ing *Ingestor) IngestFile(ctx context.Context, path string, allowedExts []string) error {
	source, err := sourceid.FileSource(path)
	if err != nil {
		return fmt.Errorf("resolve source path: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(source))
	if len(allowedExts) > 0 && !extensionAllowed(ext, allowedExts) {
		return fmt.Errorf("extension %q not in allowed list", ext)
	}
	info, err := os.Stat(source)
	if err != nil {
		return fmt.Errorf("stat file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("not a regular file: %s", source)
	}
	content, err := ing.extractor.Extract(source)
	if err != nil {
		return fmt.Errorf("extract file: %w", err)
	}
	return ing.IngestDocument(ctx, &models.DocumentInput{
		Source:  source,
		Content: content,
	})
}

// IngestDirectory walks dir recursively and ingests each regular file whose
// extension is in allowedExts (if non-empty; otherwise all files). Files are
// ingested concurrently with bounded parallelism. Returns the number of files
// ingested and the first error encountered, if any.
func (ing *Ingestor) IngestDirectory(ctx context.Context, dir string, allowedExts []string) (int, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return 0, fmt.Errorf("absolute path: %w", err)
	}
	info, err := os.Stat(absDir)
	if err != nil {
		return 0, fmt.Errorf("stat directory: %w", err)
	}
	if !info.IsDir() {
		return 0, fmt.Errorf("not a directory: %s", absDir)
	}

	var paths []string
	err = filepath.WalkDir(absDir, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if len(allowedExts) > 0 && !extensionAllowed(ext, allowedExts) {
			return nil
		}
		// Resolve symlinks so we only ingest regular files.
		finfo, statErr := os.Stat(path)
		if statErr != nil || !finfo.Mode().IsRegular() {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return 0, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(dirConcurrency)
	for _, path := range paths {
		path := path
		g.Go(func() error {
			return ing.IngestFile(gctx, path, allowedExts)
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	return len(paths), nil
}

// DeleteSource removes a document and its chunks from all indices and storage.
func (ing *Ingestor) DeleteSource(ctx context.Context, source string) error {
	chunkIDs, err := ing.storage.ChunkIDsBySource(ctx, source)
	if err != nil {
		return fmt.Errorf("failed to list chunks: %w", err)
	}
	if err := ing.vectorIndex.Remove(ctx, chunkIDs); err != nil {
		return fmt.Errorf("failed to delete from vector index: %w", err)
	}
	for _, id := range chunkIDs {
		if err := ing.lexicalIndex.Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to delete from lexical index: %w", err)
		}
	}
	if err := ing.storage.DeleteBySource(ctx, source); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	ing.logger.Debug("ingest source deleted", zap.String("source", source))
	return nil
}

// DeleteFile removes a previously ingested file by path.
func (ing *Ingestor) DeleteFile(ctx context.Context, path string) error {
	source, err := sourceid.FileSource(path)
	if err != nil {
		return fmt.Errorf("resolve source path: %w", err)
	}
	return ing.DeleteSource(ctx, source)
}

func extensionAllowed(ext string, allowed []string) bool {
	extNorm := strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, a := range allowed {
		if strings.ToLower(strings.TrimPrefix(a, ".")) == extNorm {
			return true
		}
	}
	return false
}
