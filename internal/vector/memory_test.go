package vector

import (
	"context"
	"path/filepath"
	"testing"
)

func TestMemoryIndex_AddSearch(t *testing.T) {
	idx, err := NewMemoryIndex(3)
	if err != nil {
		t.Fatal(err)
	}
	defer idx.Close()
	ctx := context.Background()

	entries := []Entry{
		{ID: "a", Source: "doc1", Vector: []float32{1, 0, 0}},
		{ID: "b", Source: "doc1", Vector: []float32{0, 1, 0}},
		{ID: "c", Source: "doc2", Vector: []float32{0.7, 0.7, 0}},
	}
	if err := idx.Add(ctx, entries); err != nil {
		t.Fatal(err)
	}
	if idx.Size() != 3 {
		t.Errorf("Size = %d, want 3", idx.Size())
	}

	results, err := idx.Search(ctx, []float32{1, 0, 0}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].ID != "a" || results[0].Source != "doc1" {
		t.Errorf("top result = %+v, want id a source doc1", results[0])
	}
	if results[1].ID != "c" {
		t.Errorf("second result = %+v, want id c", results[1])
	}
	if results[0].Similarity < results[1].Similarity {
		t.Error("results not sorted descending")
	}
}

func TestMemoryIndex_DimensionMismatch(t *testing.T) {
	idx, _ := NewMemoryIndex(3)
	ctx := context.Background()
	if err := idx.Add(ctx, []Entry{{ID: "x", Vector: []float32{1, 2}}}); err == nil {
		t.Error("expected error adding wrong-dimension vector")
	}
	if _, err := idx.Search(ctx, []float32{1}, 5); err == nil {
		t.Error("expected error searching with wrong-dimension query")
	}
}

func TestMemoryIndex_Remove(t *testing.T) {
	idx, _ := NewMemoryIndex(2)
	ctx := context.Background()
	_ = idx.Add(ctx, []Entry{
		{ID: "a", Source: "s", Vector: []float32{1, 0}},
		{ID: "b", Source: "s", Vector: []float32{0, 1}},
	})
	if err := idx.Remove(ctx, []string{"a"}); err != nil {
		t.Fatal(err)
	}
	if idx.Size() != 1 {
		t.Errorf("Size = %d after remove, want 1", idx.Size())
	}
	results, _ := idx.Search(ctx, []float32{1, 0}, 5)
	for _, r := range results {
		if r.ID == "a" {
			t.Error("removed entry still returned")
		}
	}
}

func TestMemoryIndex_SaveLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "idx", "vectors.bin")
	ctx := context.Background()

	idx, _ := NewMemoryIndex(2)
	_ = idx.Add(ctx, []Entry{
		{ID: "a", Source: "guide.md", Vector: []float32{0.6, 0.8}},
		{ID: "b", Source: "notes.txt", Vector: []float32{1, 0}},
	})
	if err := idx.Save(path); err != nil {
		t.Fatal(err)
	}

	loaded, _ := NewMemoryIndex(2)
	if err := loaded.Load(path); err != nil {
		t.Fatal(err)
	}
	if loaded.Size() != 2 {
		t.Fatalf("loaded Size = %d, want 2", loaded.Size())
	}
	results, err := loaded.Search(ctx, []float32{0.6, 0.8}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if results[0].ID != "a" || results[0].Source != "guide.md" {
		t.Errorf("loaded top result = %+v", results[0])
	}
}

func TestMemoryIndex_LoadMissingFile(t *testing.T) {
	idx, _ := NewMemoryIndex(2)
	if err := idx.Load(filepath.Join(t.TempDir(), "nope.bin")); err != nil {
		t.Errorf("missing file should not error: %v", err)
	}
	if idx.Size() != 0 {
		t.Errorf("index should stay empty, got %d", idx.Size())
	}
}

func TestMemoryIndex_LoadDimensionMismatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "v.bin")
	ctx := context.Background()
	idx, _ := NewMemoryIndex(2)
	_ = idx.Add(ctx, []Entry{{ID: "a", Vector: []float32{1, 0}}})
	if err := idx.Save(path); err != nil {
		t.Fatal(err)
	}
	other, _ := NewMemoryIndex(3)
	if err := other.Load(path); err == nil {
		t.Error("expected dimension mismatch error")
	}
}

func TestSimilarityHelpers(t *testing.T) {
	if got := InnerProduct([]float32{1, 0}, []float32{1, 0}); got != 1 {
		t.Errorf("InnerProduct = %f", got)
	}
	if got := InnerProduct([]float32{1}, []float32{1, 0}); got != 0 {
		t.Errorf("mismatched lengths should give 0, got %f", got)
	}
	if got := CosineSimilarity([]float32{2, 0}, []float32{2, 0}); got != 1 {
		t.Errorf("CosineSimilarity should clamp to 1, got %f", got)
	}
	if got := L2Norm([]float32{3, 4}); got != 5 {
		t.Errorf("L2Norm = %f, want 5", got)
	}
}
