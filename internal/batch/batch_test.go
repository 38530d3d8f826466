package batch

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/Yasabs10/panelreader"
	"github.com/Yasabs10/panelreader/detect"
	"github.com/Yasabs10/panelreader/model"
)

// countingSource counts Boxes calls so cache behavior is observable.
type countingSource struct {
	mu    sync.Mutex
	calls int
	boxes []model.Box
}

func (c *countingSource) Boxes(_ context.Context, _ string) ([]model.Box, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return c.boxes, nil
}

func (c *countingSource) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// failingSource fails for one specific path.
type failingSource struct {
	badPath string
	boxes   []model.Box
}

func (f *failingSource) Boxes(_ context.Context, path string) ([]model.Box, error) {
	if path == f.badPath {
		return nil, fmt.Errorf("detector crashed on %s", path)
	}
	return f.boxes, nil
}

func writePage(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewGray(image.Rect(0, 0, 100, 100))); err != nil {
		t.Fatal(err)
	}
	return path
}

func geometryOnlyOptions() panelreader.Options {
	opts := panelreader.DefaultOptions()
	opts.ShrinkWrap = false
	opts.SnapGutters = false
	return opts
}

func TestRunner_Run(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writePage(t, dir, "page1.png"),
		writePage(t, dir, "page2.png"),
		writePage(t, dir, "page3.png"),
	}

	src := &countingSource{boxes: []model.Box{
		model.NewBox(0, 0, 40, 40),
		model.NewBox(50, 0, 90, 40),
	}}
	runner := New(src, geometryOnlyOptions(), Config{Concurrency: 2})

	results, err := runner.Run(context.Background(), paths)
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if len(results) != len(paths) {
		t.Fatalf("got %d results, want %d", len(results), len(paths))
	}
	for i, res := range results {
		if res.Path != paths[i] {
			t.Errorf("result %d path = %q, want %q (input order)", i, res.Path, paths[i])
		}
		if res.Err != nil {
			t.Errorf("page %s failed: %v", res.Path, res.Err)
		}
		if res.Order == nil || res.Order.PanelCount() != 2 {
			t.Errorf("page %s: unexpected order %+v", res.Path, res.Order)
		}
	}
}

func TestRunner_CacheHitSkipsDetection(t *testing.T) {
	dir := t.TempDir()
	path := writePage(t, dir, "page1.png")

	src := &countingSource{boxes: []model.Box{model.NewBox(0, 0, 40, 40)}}
	runner := New(src, geometryOnlyOptions(), Config{Concurrency: 1})

	for range 2 {
		if _, err := runner.Run(context.Background(), []string{path}); err != nil {
			t.Fatalf("Run() failed: %v", err)
		}
	}
	if got := src.callCount(); got != 1 {
		t.Errorf("detector called %d times, want 1 (second run cached)", got)
	}
}

func TestRunner_DisableCache(t *testing.T) {
	dir := t.TempDir()
	path := writePage(t, dir, "page1.png")

	src := &countingSource{boxes: []model.Box{model.NewBox(0, 0, 40, 40)}}
	runner := New(src, geometryOnlyOptions(), Config{Concurrency: 1, DisableCache: true})

	for range 2 {
		if _, err := runner.Run(context.Background(), []string{path}); err != nil {
			t.Fatalf("Run() failed: %v", err)
		}
	}
	if got := src.callCount(); got != 2 {
		t.Errorf("detector called %d times, want 2 with cache disabled", got)
	}
}

func TestRunner_PerPageFailureDoesNotAbort(t *testing.T) {
	dir := t.TempDir()
	good := writePage(t, dir, "page1.png")
	bad := writePage(t, dir, "page2.png")

	src := &failingSource{
		badPath: bad,
		boxes:   []model.Box{model.NewBox(0, 0, 40, 40)},
	}
	runner := New(src, geometryOnlyOptions(), Config{Concurrency: 2})

	results, err := runner.Run(context.Background(), []string{good, bad})
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if results[0].Err != nil {
		t.Errorf("good page failed: %v", results[0].Err)
	}
	if results[1].Err == nil {
		t.Error("bad page reported no error")
	}
}

func TestRunner_MissingImage(t *testing.T) {
	src := &countingSource{boxes: []model.Box{model.NewBox(0, 0, 40, 40)}}
	runner := New(src, geometryOnlyOptions(), Config{})

	results, err := runner.Run(context.Background(), []string{"/nonexistent/page.png"})
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if results[0].Err == nil {
		t.Error("missing image reported no error")
	}
}

func TestRunner_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	path := writePage(t, dir, "page1.png")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := &countingSource{boxes: []model.Box{model.NewBox(0, 0, 40, 40)}}
	runner := New(src, geometryOnlyOptions(), Config{})

	if _, err := runner.Run(ctx, []string{path}); err == nil {
		t.Fatal("Run() ignored cancelled context")
	}
}
