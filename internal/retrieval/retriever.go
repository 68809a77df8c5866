// Package retrieval composes vector search, lexical search, BM25 scoring and
// LLM re-ranking into hybrid document retrieval.
package retrieval

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/hyperjump/kotae/internal/bm25"
	"github.com/hyperjump/kotae/internal/config"
	"github.com/hyperjump/kotae/internal/embedding"
	"github.com/hyperjump/kotae/internal/models"
)

// Options controls a single retrieval call. The zero value means defaults.
type Options struct {
	// Limit is the maximum number of documents to return (default from config).
	Limit int
	// Context holds prior conversation turns, most recent last. When non-empty
	// the embedded search query is augmented with it; lexical search always
	// uses the raw query.
	Context []string
}

// VectorSearcher returns nearest-neighbor documents for an embedded query,
// descending by similarity.
type VectorSearcher interface {
	SearchVector(ctx context.Context, vector []float32, k int) ([]*models.RetrievedDocument, error)
}

// LexicalSearcher returns coarse text-match candidates; ranking quality does
// not matter because BM25 re-scores them.
type LexicalSearcher interface {
	SearchText(ctx context.Context, query string, k int) ([]*models.RetrievedDocument, error)
}

// Reranker reorders candidates by LLM relevance. Advisory: implementations
// never fail, they fall back to the given order.
type Reranker interface {
	Rerank(ctx context.Context, query string, docs []*models.RetrievedDocument, topK int) []*models.RetrievedDocument
}

// Retriever runs hybrid (vector + lexical + BM25 + RRF) retrieval.
type Retriever struct {
	embedder embedding.Embedder
	vectors  VectorSearcher
	lexical  LexicalSearcher
	reranker Reranker
	config   *config.SearchConfig
	logger   *zap.Logger
}

// NewRetriever creates a retriever with the given collaborators. reranker may
// be nil to disable re-ranking; logger may be nil.
func NewRetriever(
	embedder embedding.Embedder,
	vectors VectorSearcher,
	lexical LexicalSearcher,
	reranker Reranker,
	cfg *config.SearchConfig,
	logger *zap.Logger,
) *Retriever {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Retriever{
		embedder: embedder,
		vectors:  vectors,
		lexical:  lexical,
		reranker: reranker,
		config:   cfg,
		logger:   logger,
	}
}

// FindRelevantContent returns up to opts.Limit documents relevant to query,
// ordered by the final ranking signal. Collaborator failures (embedding,
// vector search, lexical search) propagate; re-ranking failures do not.
func (r *Retriever) FindRelevantContent(ctx context.Context, query string, opts *Options) ([]*models.RetrievedDocument, error) {
	limit := r.config.DefaultLimit
	var prior []string
	if opts != nil {
		if opts.Limit > 0 {
			limit = opts.Limit
		}
		prior = opts.Context
	}
	if r.config.MaxLimit > 0 && limit > r.config.MaxLimit {
		limit = r.config.MaxLimit
	}

	searchQuery := buildSearchQuery(query, prior)

	var (
		vectorDocs  []*models.RetrievedDocument
		lexicalDocs []*models.RetrievedDocument
		errChan     = make(chan error, 2)
		wg          sync.WaitGroup
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		queryEmbedding, err := r.embedder.Embed(ctx, searchQuery)
		if err != nil {
			errChan <- fmt.Errorf("embedding failed: %w", err)
			return
		}
		results, err := r.vectors.SearchVector(ctx, queryEmbedding, limit*2)
		if err != nil {
			errChan <- fmt.Errorf("vector search failed: %w", err)
			return
		}
		vectorDocs = results
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		results, err := r.lexical.SearchText(ctx, query, r.config.LexicalPoolSize)
		if err != nil {
			errChan <- fmt.Errorf("lexical search failed: %w", err)
			return
		}
		lexicalDocs = results
	}()

	wg.Wait()
	close(errChan)
	for err := range errChan {
		if err != nil {
			return nil, err
		}
	}

	// Pure vector fallback: no lexical candidates means nothing to fuse.
	if len(lexicalDocs) == 0 {
		if limit > len(vectorDocs) {
			limit = len(vectorDocs)
		}
		return vectorDocs[:limit], nil
	}

	ranked := scoreLexical(query, lexicalDocs)
	fused := fuse(vectorDocs, ranked, limit)

	if r.reranker != nil && len(fused) >= r.config.RerankMinCandidates {
		return r.reranker.Rerank(ctx, query, fused, limit), nil
	}
	return fused, nil
}

// scoreLexical orders lexical candidates by BM25 score against the raw query,
// dropping zero-score candidates.
func scoreLexical(query string, docs []*models.RetrievedDocument) []*models.RetrievedDocument {
	contents := make([]string, len(docs))
	for i, d := range docs {
		contents[i] = d.Content
	}
	results := bm25.Scores(query, contents)
	out := make([]*models.RetrievedDocument, len(results))
	for i, res := range results {
		out[i] = docs[res.Index]
	}
	return out
}

// buildSearchQuery augments query with prior conversation turns for embedding.
func buildSearchQuery(query string, context []string) string {
	if len(context) == 0 {
		return query
	}
	return fmt.Sprintf("prior context: %s | current question: %s", strings.Join(context, " | "), query)
}
