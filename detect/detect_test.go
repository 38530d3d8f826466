package detect

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestParseBoxes(t *testing.T) {
	data := []byte(`{"boxes": [[0, 0, 100, 50.5], [10, 10, 90, 40]]}`)

	boxes, err := parseBoxes(data)
	if err != nil {
		t.Fatalf("parseBoxes() failed: %v", err)
	}
	if len(boxes) != 2 {
		t.Fatalf("parseBoxes() returned %d boxes, want 2", len(boxes))
	}
	if boxes[0].X2 != 100 || boxes[0].Y2 != 50.5 {
		t.Errorf("box 0 = %+v", boxes[0])
	}
}

func TestParseBoxes_SkipsDegenerate(t *testing.T) {
	data := []byte(`{"boxes": [[0, 0, 100, 50], [30, 30, 30, 60], [50, 50, 40, 60]]}`)

	boxes, err := parseBoxes(data)
	if err != nil {
		t.Fatalf("parseBoxes() failed: %v", err)
	}
	if len(boxes) != 1 {
		t.Errorf("parseBoxes() kept %d boxes, want 1 (degenerate boxes skipped)", len(boxes))
	}
}

func TestParseBoxes_InvalidJSON(t *testing.T) {
	if _, err := parseBoxes([]byte("not json")); err == nil {
		t.Error("parseBoxes() on invalid JSON should fail")
	}
}

func TestParseBoxes_Empty(t *testing.T) {
	boxes, err := parseBoxes([]byte(`{"boxes": []}`))
	if err != nil {
		t.Fatalf("parseBoxes() failed: %v", err)
	}
	if len(boxes) != 0 {
		t.Errorf("parseBoxes() returned %d boxes, want 0", len(boxes))
	}
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "detections.json")
	if err := os.WriteFile(path, []byte(`{"boxes": [[1, 2, 3, 4]]}`), 0o644); err != nil {
		t.Fatal(err)
	}

	src := NewFileSource(path)
	boxes, err := src.Boxes(context.Background(), "ignored.png")
	if err != nil {
		t.Fatalf("Boxes() failed: %v", err)
	}
	if len(boxes) != 1 {
		t.Fatalf("Boxes() returned %d boxes, want 1", len(boxes))
	}
}

func TestFileSource_Missing(t *testing.T) {
	src := NewFileSource(filepath.Join(t.TempDir(), "missing.json"))
	if _, err := src.Boxes(context.Background(), ""); err == nil {
		t.Error("Boxes() on missing file should fail")
	}
}

func TestStaticSource(t *testing.T) {
	src := NewStaticSource(nil)
	boxes, err := src.Boxes(context.Background(), "")
	if err != nil {
		t.Fatalf("Boxes() failed: %v", err)
	}
	if len(boxes) != 0 {
		t.Errorf("Boxes() returned %d boxes, want 0", len(boxes))
	}
}
