package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/hyperjump/kotae/internal/config"
	"github.com/hyperjump/kotae/internal/embedding"
	"github.com/hyperjump/kotae/internal/ingest"
	"github.com/hyperjump/kotae/internal/lexical"
	"github.com/hyperjump/kotae/internal/models"
	"github.com/hyperjump/kotae/internal/retrieval"
	"github.com/hyperjump/kotae/internal/storage"
	"github.com/hyperjump/kotae/internal/vector"
)

func newTestServer(t *testing.T) (*Server, *ingest.Ingestor) {
	t.Helper()
	dir := t.TempDir()

	store, err := storage.NewSQLiteStorage(filepath.Join(dir, "db.sqlite"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = store.Close() })

	lex, err := lexical.NewBleveIndex(filepath.Join(dir, "bleve"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = lex.Close() })

	embedder := embedding.NewMockEmbedder(16)
	vecIdx, err := vector.NewMemoryIndex(16)
	if err != nil {
		t.Fatal(err)
	}

	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	cfg.Storage.DatabasePath = filepath.Join(dir, "db.sqlite")
	cfg.Storage.BleveIndexPath = filepath.Join(dir, "bleve")
	cfg.Storage.VectorIndexPath = filepath.Join(dir, "vectors.bin")

	ingestor := ingest.NewIngestor(store, embedder, vecIdx, lex, &cfg.Search)
	retriever := retrieval.NewRetriever(
		embedder,
		retrieval.NewChunkVectorSearcher(vecIdx, store),
		retrieval.NewBleveLexicalSearcher(lex),
		nil,
		&cfg.Search,
		nil,
	)
	return NewServer(retriever, ingestor, store, cfg, zap.NewNop()), ingestor
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestHandleQuery(t *testing.T) {
	srv, ingestor := newTestServer(t)
	router := srv.Router()

	err := ingestor.IngestDocument(context.Background(), &models.DocumentInput{
		Source:  "kb/deploy.md",
		Content: "Deployments run through the staging pipeline before production.",
	})
	if err != nil {
		t.Fatal(err)
	}

	w := doJSON(t, router, http.MethodPost, "/api/v1/query",
		map[string]any{"query": "staging pipeline", "options": map[string]any{"limit": 3}})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp queryResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Count == 0 || len(resp.Results) == 0 {
		t.Fatal("expected results for matching query")
	}
	if resp.Results[0].Source != "kb/deploy.md" {
		t.Errorf("result source = %q", resp.Results[0].Source)
	}
}

func TestHandleQuery_LegacyNumericOptions(t *testing.T) {
	srv, _ := newTestServer(t)
	router := srv.Router()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/query",
		bytes.NewBufferString(`{"query": "anything", "options": 2}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("bare-number options should be accepted, got %d: %s", w.Code, w.Body.String())
	}
}

func TestHandleQuery_EmptyResultIsOK(t *testing.T) {
	srv, _ := newTestServer(t)
	w := doJSON(t, srv.Router(), http.MethodPost, "/api/v1/query", map[string]any{"query": "nothing here"})
	if w.Code != http.StatusOK {
		t.Fatalf("empty result must be 200, got %d", w.Code)
	}
	var resp queryResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Count != 0 || resp.Results == nil {
		t.Errorf("want empty (non-null) results array, got %+v", resp)
	}
}

func TestHandleQuery_Validation(t *testing.T) {
	srv, _ := newTestServer(t)
	router := srv.Router()

	w := doJSON(t, router, http.MethodPost, "/api/v1/query", map[string]any{"query": ""})
	if w.Code != http.StatusBadRequest {
		t.Errorf("empty query: status = %d, want 400", w.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/query", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed body: status = %d, want 400", rec.Code)
	}
}

func TestHandleIngestAndDelete(t *testing.T) {
	srv, _ := newTestServer(t)
	router := srv.Router()

	w := doJSON(t, router, http.MethodPost, "/api/v1/documents",
		map[string]any{"source": "api/doc.md", "content": "uploaded via the api"})
	if w.Code != http.StatusCreated {
		t.Fatalf("ingest status = %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodPost, "/api/v1/documents", map[string]any{"content": "no source"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing source: status = %d, want 400", w.Code)
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/documents?source=api%2Fdoc.md", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d: %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/documents", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("delete without source: status = %d, want 400", rec.Code)
	}
}

func TestHandleStatus(t *testing.T) {
	srv, ingestor := newTestServer(t)
	if err := ingestor.IngestDocument(context.Background(), &models.DocumentInput{
		Source: "s.md", Content: "some content",
	}); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var out map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out["documents"].(float64) != 1 {
		t.Errorf("documents = %v", out["documents"])
	}
	if _, ok := out["config"]; !ok {
		t.Error("status should include config")
	}
}

func TestHandleHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("health status = %d", rec.Code)
	}
}

func TestQueryOptionsUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		want    queryOptions
		wantErr bool
	}{
		{"object", `{"limit": 7, "context": ["a"]}`, queryOptions{Limit: 7, Context: []string{"a"}}, false},
		{"bare number", `3`, queryOptions{Limit: 3}, false},
		{"null", `null`, queryOptions{}, false},
		{"string", `"five"`, queryOptions{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got queryOptions
			err := json.Unmarshal([]byte(tt.json), &got)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if got.Limit != tt.want.Limit || len(got.Context) != len(tt.want.Context) {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}
