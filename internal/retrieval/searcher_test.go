package retrieval

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/hyperjump/kotae/internal/lexical"
	"github.com/hyperjump/kotae/internal/models"
	"github.com/hyperjump/kotae/internal/storage"
	"github.com/hyperjump/kotae/internal/vector"
)

func TestChunkVectorSearcher_JoinsContent(t *testing.T) {
	ctx := context.Background()
	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	doc := &models.Document{ID: "d1", Source: "a.md", Content: "full text"}
	if err := store.CreateDocument(ctx, doc); err != nil {
		t.Fatal(err)
	}
	if err := store.BatchCreateChunks(ctx, []*models.Chunk{
		{ID: "c1", DocumentID: "d1", Source: "a.md", Content: "first chunk", Ordinal: 0},
		{ID: "c2", DocumentID: "d1", Source: "a.md", Content: "second chunk", Ordinal: 1},
	}); err != nil {
		t.Fatal(err)
	}

	idx, _ := vector.NewMemoryIndex(2)
	_ = idx.Add(ctx, []vector.Entry{
		{ID: "c1", Source: "a.md", Vector: []float32{1, 0}},
		{ID: "c2", Source: "a.md", Vector: []float32{0, 1}},
		{ID: "ghost", Source: "a.md", Vector: []float32{0.9, 0.1}},
	})

	s := NewChunkVectorSearcher(idx, store)
	docs, err := s.SearchVector(ctx, []float32{1, 0}, 3)
	if err != nil {
		t.Fatal(err)
	}
	// "ghost" has no chunk row and is skipped.
	if len(docs) != 2 {
		t.Fatalf("len = %d, want 2", len(docs))
	}
	if docs[0].Content != "first chunk" || docs[0].Source != "a.md" {
		t.Errorf("top doc = %+v", docs[0])
	}
	if docs[0].Similarity <= docs[1].Similarity {
		t.Error("results should be descending by similarity")
	}
}

func TestBleveLexicalSearcher(t *testing.T) {
	ctx := context.Background()
	idx, err := lexical.NewBleveIndex(filepath.Join(t.TempDir(), "bleve"))
	if err != nil {
		t.Fatal(err)
	}
	defer idx.Close()

	chunk := &models.Chunk{ID: "c1", Source: "b.md", Content: "tokai bank records"}
	if err := idx.Index(ctx, chunk); err != nil {
		t.Fatal(err)
	}

	s := NewBleveLexicalSearcher(idx)
	docs, err := s.SearchText(ctx, "tokai", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 {
		t.Fatalf("len = %d, want 1", len(docs))
	}
	if docs[0].Content != "tokai bank records" || docs[0].Source != "b.md" {
		t.Errorf("doc = %+v", docs[0])
	}
	if docs[0].Similarity != 0 {
		t.Errorf("lexical similarity = %f, want 0", docs[0].Similarity)
	}
}
