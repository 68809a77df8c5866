// Package rerank reorders retrieval candidates using an LLM relevance judgment.
//
// Re-ranking is advisory: every failure mode (generation error, timeout,
// unparsable response) degrades to the original candidate order. Rerank never
// returns an error.
package rerank

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/kotae/internal/llm"
	"github.com/hyperjump/kotae/internal/models"
)

// DefaultTimeout bounds the generation call per rerank.
const DefaultTimeout = 5 * time.Second

// unscored sinks documents the model did not score below any real 0-10 score.
const unscored = -1.0

// Reranker scores candidates 0-10 against the query via a text generator and
// sorts them by that score.
type Reranker struct {
	gen     llm.Generator
	timeout time.Duration
	logger  *zap.Logger
}

// NewReranker creates a Reranker. A zero timeout means DefaultTimeout; a nil
// logger means no logging.
func NewReranker(gen llm.Generator, timeout time.Duration, logger *zap.Logger) *Reranker {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reranker{gen: gen, timeout: timeout, logger: logger}
}

// Rerank returns up to topK documents reordered by LLM relevance score.
// Candidates with 2 or fewer documents skip the model call. On any failure the
// original order is returned truncated to topK.
func (r *Reranker) Rerank(ctx context.Context, query string, docs []*models.RetrievedDocument, topK int) []*models.RetrievedDocument {
	if topK <= 0 || topK > len(docs) {
		topK = len(docs)
	}
	if len(docs) == 0 {
		return nil
	}
	if len(docs) <= 2 {
		return docs[:topK]
	}

	scores, err := r.score(ctx, query, docs)
	if err != nil {
		r.logger.Warn("rerank fell back to original order", zap.Error(err))
		return docs[:topK]
	}

	type scored struct {
		doc   *models.RetrievedDocument
		score float64
	}
	ranked := make([]scored, len(docs))
	for i, d := range docs {
		ranked[i] = scored{doc: d, score: scores[i]}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	out := make([]*models.RetrievedDocument, topK)
	for i := range out {
		out[i] = ranked[i].doc
	}
	return out
}

// score asks the generator for per-document relevance scores. The returned
// slice is aligned with docs; documents the model did not score validly hold
// the unscored sentinel.
func (r *Reranker) score(ctx context.Context, query string, docs []*models.RetrievedDocument) ([]float64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	response, err := r.gen.Generate(ctx, buildPrompt(query, docs))
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}

	start := strings.Index(response, "[")
	end := strings.LastIndex(response, "]")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("no JSON array in response")
	}

	var entries []json.RawMessage
	if err := json.Unmarshal([]byte(response[start:end+1]), &entries); err != nil {
		return nil, fmt.Errorf("parse score array: %w", err)
	}

	scores := make([]float64, len(docs))
	for i := range scores {
		scores[i] = unscored
	}
	for _, raw := range entries {
		var entry struct {
			Index *int     `json:"index"`
			Score *float64 `json:"score"`
		}
		// Entries missing either field, or otherwise malformed, are dropped;
		// the rest still count.
		if err := json.Unmarshal(raw, &entry); err != nil {
			continue
		}
		if entry.Index == nil || entry.Score == nil {
			continue
		}
		if *entry.Index < 0 || *entry.Index >= len(docs) {
			continue
		}
		scores[*entry.Index] = *entry.Score
	}
	return scores, nil
}

func buildPrompt(query string, docs []*models.RetrievedDocument) string {
	var sb strings.Builder
	sb.WriteString("Rate the relevance of each document to the user's question on a 0-10 scale.\n\n")
	sb.WriteString("User question: ")
	sb.WriteString(query)
	sb.WriteString("\n\n")
	for i, d := range docs {
		source := d.Source
		if source == "" {
			source = "unknown"
		}
		fmt.Fprintf(&sb, "[Document %d] (source: %s)\n%s\n\n", i, source, d.Content)
	}
	sb.WriteString("Return the relevance scores as a JSON array where each item has the form ")
	sb.WriteString(`{"index": document number, "score": score}.` + "\n")
	sb.WriteString("Respond with ONLY the JSON array in exactly this format, no other text.\n")
	sb.WriteString(`[{"index": 0, "score": 7}, {"index": 1, "score": 3}, ...]`)
	return sb.String()
}
