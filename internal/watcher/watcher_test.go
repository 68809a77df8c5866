package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

// recorder collects callback invocations under a lock.
type recorder struct {
	mu      sync.Mutex
	ingests []string
	removes []string
}

func (r *recorder) onIngest(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ingests = append(r.ingests, path)
}

func (r *recorder) onRemove(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removes = append(r.removes, path)
}

func (r *recorder) ingested() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.ingests...)
}

func (r *recorder) removed() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.removes...)
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(20 * time.Millisecond)
	}
	return cond()
}

func TestWatcher_IngestOnWrite(t *testing.T) {
	dir := t.TempDir()
	rec := &recorder{}

	w := NewWatcher([]string{dir}, []string{".md"}, true, rec.onIngest, rec.onRemove, WithDebounce(50*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	path := filepath.Join(dir, "note.md")
	if err := os.WriteFile(path, []byte("hello"), 0644); err != nil {
		t.Fatal(err)
	}

	if !waitFor(t, 3*time.Second, func() bool { return len(rec.ingested()) >= 1 }) {
		t.Fatal("expected an ingest callback for .md write")
	}
	if got := rec.ingested()[0]; filepath.Base(got) != "note.md" {
		t.Errorf("ingested %q", got)
	}
}

func TestWatcher_ExtensionFilter(t *testing.T) {
	dir := t.TempDir()
	rec := &recorder{}

	w := NewWatcher([]string{dir}, []string{".md"}, true, rec.onIngest, rec.onRemove, WithDebounce(50*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(dir, "skip.bin"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "take.md"), []byte("y"), 0644); err != nil {
		t.Fatal(err)
	}

	if !waitFor(t, 3*time.Second, func() bool { return len(rec.ingested()) >= 1 }) {
		t.Fatal("expected ingest for take.md")
	}
	for _, p := range rec.ingested() {
		if filepath.Ext(p) != ".md" {
			t.Errorf("ingested filtered-out file %q", p)
		}
	}
}

func TestWatcher_RemoveCallback(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gone.md")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	rec := &recorder{}
	w := NewWatcher([]string{dir}, []string{".md"}, true, rec.onIngest, rec.onRemove, WithDebounce(50*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if !waitFor(t, 3*time.Second, func() bool { return len(rec.removed()) >= 1 }) {
		t.Fatal("expected a remove callback")
	}
	if got := rec.removed()[0]; filepath.Base(got) != "gone.md" {
		t.Errorf("removed %q", got)
	}
}

func TestWatcher_SyncExistingFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "pre.md"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "pre.bin"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	rec := &recorder{}
	w := NewWatcher([]string{dir}, []string{".md"}, true, rec.onIngest, rec.onRemove)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	w.SyncExistingFiles()
	got := rec.ingested()
	if len(got) != 1 || filepath.Base(got[0]) != "pre.md" {
		t.Errorf("SyncExistingFiles ingested %v, want just pre.md", got)
	}
}

func TestWatcher_CreatesMissingRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "not-yet")
	w := NewWatcher([]string{root}, nil, true, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if _, err := os.Stat(root); err != nil {
		t.Errorf("missing root should be created: %v", err)
	}
	dirs := w.Directories()
	if len(dirs) != 1 {
		t.Errorf("Directories() = %v", dirs)
	}
}

func TestWatcher_StopIdempotent(t *testing.T) {
	w := NewWatcher([]string{t.TempDir()}, nil, false, nil, nil)
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	w.Stop()
	w.Stop()
}

func TestWatcher_StopDuringEvents(t *testing.T) {
	// Stop clears the fsnotify handle while events may still be in flight;
	// the run loop must keep its own reference and exit cleanly.
	dir := t.TempDir()
	rec := &recorder{}
	w := NewWatcher([]string{dir}, []string{".md"}, false, rec.onIngest, rec.onRemove)
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			path := filepath.Join(dir, "doc.md")
			_ = os.WriteFile(path, []byte("event"), 0644)
			_ = os.Remove(path)
		}
	}()
	time.Sleep(2 * time.Millisecond)
	w.Stop()
	<-done
}
