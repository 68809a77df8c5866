package benchmark

import (
	"context"
	"fmt"
	"testing"

	"github.com/hyperjump/kotae/internal/bm25"
	"github.com/hyperjump/kotae/internal/embedding"
	"github.com/hyperjump/kotae/internal/textsplit"
	"github.com/hyperjump/kotae/internal/vector"
)

func BenchmarkBM25Scores(b *testing.B) {
	docs := make([]string, 100)
	for i := range docs {
		docs[i] = fmt.Sprintf("document %d covers backup retention schedules and restore runbooks for cluster %d", i, i%7)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = bm25.Scores("backup restore runbook", docs)
	}
}

func BenchmarkMemoryIndexSearch(b *testing.B) {
	idx, _ := vector.NewMemoryIndex(384)
	ctx := context.Background()
	entries := make([]vector.Entry, 1000)
	for i := range entries {
		vec := make([]float32, 384)
		vec[0] = float32(i) / 1000
		entries[i] = vector.Entry{
			ID:     fmt.Sprintf("chunk-%d", i),
			Source: fmt.Sprintf("docs/file-%d.md", i%50),
			Vector: vec,
		}
	}
	_ = idx.Add(ctx, entries)
	query := make([]float32, 384)
	query[0] = 1.0
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = idx.Search(ctx, query, 10)
	}
}

func BenchmarkSplit(b *testing.B) {
	var doc string
	for i := 0; i < 40; i++ {
		doc += fmt.Sprintf("## Section %d\n\nThis section describes operational procedure number %d in enough detail to fill a paragraph of text. ", i, i)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = textsplit.Split(doc, 500, 100)
	}
}

func BenchmarkMockEmbedder_Embed(b *testing.B) {
	e := embedding.NewMockEmbedder(384)
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = e.Embed(ctx, "benchmark query text for embedding")
	}
}
