package layout

import (
	"math"
	"testing"

	"github.com/Yasabs10/panelreader/model"
)

func TestNewMerger(t *testing.T) {
	m := NewMerger()
	if m == nil {
		t.Fatal("NewMerger() returned nil")
	}
	if m.config.OverlapThreshold != 0.3 {
		t.Errorf("OverlapThreshold = %f, want 0.3", m.config.OverlapThreshold)
	}
	if m.config.ContainmentThreshold != 0.9 {
		t.Errorf("ContainmentThreshold = %f, want 0.9", m.config.ContainmentThreshold)
	}
}

func TestMerger_Merge_Empty(t *testing.T) {
	m := NewMerger()
	if got := m.Merge(nil); len(got) != 0 {
		t.Errorf("Merge(nil) returned %d boxes, want 0", len(got))
	}

	single := []model.Box{model.NewBox(0, 0, 10, 10)}
	if got := m.Merge(single); len(got) != 1 {
		t.Errorf("Merge of single box returned %d boxes, want 1", len(got))
	}
}

func TestMerger_Merge_Containment(t *testing.T) {
	m := NewMerger()

	// B is 100% inside A; the merged result is A, unchanged.
	a := model.NewBox(0, 0, 100, 100)
	b := model.NewBox(10, 10, 50, 50)

	got := m.Merge([]model.Box{a, b})
	if len(got) != 1 {
		t.Fatalf("Merge returned %d boxes, want 1", len(got))
	}
	if got[0] != a {
		t.Errorf("merged box = %+v, want %+v", got[0], a)
	}
}

func TestMerger_Merge_SameRowOverlap(t *testing.T) {
	m := NewMerger()

	// Same row, heavy horizontal overlap: merge to the union.
	a := model.NewBox(0, 0, 60, 50)
	b := model.NewBox(40, 0, 100, 50)

	got := m.Merge([]model.Box{a, b})
	if len(got) != 1 {
		t.Fatalf("Merge returned %d boxes, want 1", len(got))
	}
	want := model.NewBox(0, 0, 100, 50)
	if got[0] != want {
		t.Errorf("merged box = %+v, want %+v", got[0], want)
	}
}

func TestMerger_Merge_DisjointRowsUntouched(t *testing.T) {
	m := NewMerger()

	boxes := []model.Box{
		model.NewBox(0, 0, 100, 50),
		model.NewBox(0, 100, 100, 150),
		model.NewBox(0, 200, 100, 250),
	}

	got := m.Merge(boxes)
	if len(got) != 3 {
		t.Errorf("Merge of disjoint boxes returned %d boxes, want 3", len(got))
	}
}

func TestMerger_Merge_SlightSameRowOverlapKept(t *testing.T) {
	m := NewMerger()

	// Same row but only ~8% overlap of the smaller box: below the 0.3
	// threshold, so both panels survive.
	a := model.NewBox(0, 0, 100, 100)
	b := model.NewBox(92, 0, 192, 100)

	got := m.Merge([]model.Box{a, b})
	if len(got) != 2 {
		t.Errorf("Merge returned %d boxes, want 2", len(got))
	}
}

func TestMerger_Merge_Idempotent(t *testing.T) {
	m := NewMerger()

	boxes := []model.Box{
		model.NewBox(0, 0, 60, 50),
		model.NewBox(40, 5, 100, 55),
		model.NewBox(10, 12, 48, 44),
		model.NewBox(0, 120, 100, 170),
		model.NewBox(150, 120, 250, 170),
	}

	once := m.Merge(boxes)
	twice := m.Merge(once)

	if len(once) != len(twice) {
		t.Fatalf("merge not idempotent: %d boxes then %d boxes", len(once), len(twice))
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Errorf("box %d changed on re-merge: %+v vs %+v", i, once[i], twice[i])
		}
	}
}

func TestMerger_Merge_PreservesUnionArea(t *testing.T) {
	m := NewMerger()

	boxes := []model.Box{
		model.NewBox(0, 0, 60, 50),
		model.NewBox(40, 5, 100, 55),
		model.NewBox(0, 120, 100, 170),
	}

	before := coveredArea(boxes)
	after := coveredArea(m.Merge(boxes))

	// Merge replaces pairs with their exact union, so covered area can
	// only grow, never shrink.
	if after < before-1e-9 {
		t.Errorf("covered area shrank from %f to %f", before, after)
	}
}

func TestMerger_Merge_InputUnmodified(t *testing.T) {
	m := NewMerger()

	boxes := []model.Box{
		model.NewBox(0, 0, 60, 50),
		model.NewBox(40, 0, 100, 50),
	}
	orig := make([]model.Box, len(boxes))
	copy(orig, boxes)

	m.Merge(boxes)

	for i := range boxes {
		if boxes[i] != orig[i] {
			t.Errorf("input box %d was modified: %+v vs %+v", i, boxes[i], orig[i])
		}
	}
}

func TestMerger_Merge_TooManyBoxes(t *testing.T) {
	config := DefaultMergeConfig()
	config.MaxBoxes = 4
	m := NewMergerWithConfig(config)

	boxes := make([]model.Box, 5)
	for i := range boxes {
		boxes[i] = model.NewBox(float64(i*10), 0, float64(i*10+40), 50)
	}

	got := m.Merge(boxes)
	if len(got) != 5 {
		t.Errorf("Merge above MaxBoxes returned %d boxes, want input unchanged (5)", len(got))
	}
}

// coveredArea rasterizes boxes onto a coarse grid to approximate the
// area of their union.
func coveredArea(boxes []model.Box) float64 {
	if len(boxes) == 0 {
		return 0
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, b := range boxes {
		minX = math.Min(minX, b.X1)
		minY = math.Min(minY, b.Y1)
		maxX = math.Max(maxX, b.X2)
		maxY = math.Max(maxY, b.Y2)
	}

	area := 0.0
	for y := minY; y < maxY; y++ {
		for x := minX; x < maxX; x++ {
			for _, b := range boxes {
				if x >= b.X1 && x < b.X2 && y >= b.Y1 && y < b.Y2 {
					area++
					break
				}
			}
		}
	}
	return area
}
