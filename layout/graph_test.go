package layout

import (
	"testing"

	"github.com/Yasabs10/panelreader/model"
)

func TestSameRow(t *testing.T) {
	tests := []struct {
		name      string
		a, b      model.Box
		threshold float64
		want      bool
	}{
		{
			name:      "side by side",
			a:         model.NewBox(0, 0, 10, 10),
			b:         model.NewBox(20, 0, 30, 10),
			threshold: 0.5,
			want:      true,
		},
		{
			name:      "stacked",
			a:         model.NewBox(0, 0, 10, 10),
			b:         model.NewBox(0, 20, 10, 30),
			threshold: 0.3,
			want:      false,
		},
		{
			name:      "partial overlap below threshold",
			a:         model.NewBox(0, 0, 10, 10),
			b:         model.NewBox(0, 6, 10, 16),
			threshold: 0.5,
			want:      false,
		},
		{
			name:      "partial overlap above loose threshold",
			a:         model.NewBox(0, 0, 10, 10),
			b:         model.NewBox(0, 6, 10, 16),
			threshold: 0.3,
			want:      true,
		},
	}

	for _, tt := range tests {
		if got := SameRow(tt.a, tt.b, tt.threshold); got != tt.want {
			t.Errorf("%s: SameRow() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestGraphOrderer_Order_Trivial(t *testing.T) {
	g := NewGraphOrderer()

	if got := g.Order(nil); len(got) != 0 {
		t.Errorf("Order(nil) returned %d boxes, want 0", len(got))
	}

	single := []model.Box{model.NewBox(0, 0, 10, 10)}
	got := g.Order(single)
	if len(got) != 1 || got[0] != single[0] {
		t.Errorf("Order of single box = %+v, want input unchanged", got)
	}
}

func TestGraphOrderer_Order_StackedVertically(t *testing.T) {
	g := NewGraphOrderer()

	a := model.NewBox(0, 0, 10, 10)
	b := model.NewBox(0, 20, 10, 30)

	got := g.Order([]model.Box{a, b})
	if len(got) != 2 {
		t.Fatalf("Order returned %d boxes, want 2", len(got))
	}
	if got[0] != a || got[1] != b {
		t.Errorf("order = %+v, want [A B] (top before bottom)", got)
	}

	// Order of input must not matter.
	got = g.Order([]model.Box{b, a})
	if got[0] != a || got[1] != b {
		t.Errorf("order = %+v, want [A B] regardless of input order", got)
	}
}

func TestGraphOrderer_Order_SameRowRTL(t *testing.T) {
	g := NewGraphOrderer()

	// A right of B: RTL reads A first (centroid 25 > centroid 5).
	a := model.NewBox(20, 0, 30, 10)
	b := model.NewBox(0, 0, 10, 10)

	got := g.Order([]model.Box{b, a})
	if got[0] != a || got[1] != b {
		t.Errorf("RTL order = %+v, want rightmost first", got)
	}
}

func TestGraphOrderer_Order_SameRowLTR(t *testing.T) {
	config := DefaultGraphConfig()
	config.Direction = LeftToRight
	g := NewGraphOrdererWithConfig(config)

	a := model.NewBox(20, 0, 30, 10)
	b := model.NewBox(0, 0, 10, 10)

	got := g.Order([]model.Box{a, b})
	if got[0] != b || got[1] != a {
		t.Errorf("LTR order = %+v, want leftmost first", got)
	}
}

func TestGraphOrderer_Order_TwoByTwoRTL(t *testing.T) {
	g := NewGraphOrderer()

	topRight := model.NewBox(110, 0, 200, 90)
	topLeft := model.NewBox(0, 0, 90, 90)
	bottomRight := model.NewBox(110, 110, 200, 200)
	bottomLeft := model.NewBox(0, 110, 90, 200)

	got := g.Order([]model.Box{bottomLeft, topLeft, bottomRight, topRight})

	want := []model.Box{topRight, topLeft, bottomRight, bottomLeft}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("position %d = %+v, want %+v (full order %+v)", i, got[i], want[i], got)
		}
	}
}

func TestGraphOrderer_OrderIndices_Adjacency(t *testing.T) {
	g := NewGraphOrderer()

	boxes := []model.Box{
		model.NewBox(0, 0, 10, 10),
		model.NewBox(0, 20, 10, 30),
	}

	order, adj := g.OrderIndices(boxes)
	if len(order) != 2 {
		t.Fatalf("OrderIndices returned %d indices, want 2", len(order))
	}
	if adj == nil {
		t.Fatal("adjacency is nil for non-trivial input")
	}
	if len(adj[0]) != 1 || adj[0][0] != 1 {
		t.Errorf("adj[0] = %v, want [1] (top precedes bottom)", adj[0])
	}
	if len(adj[1]) != 0 {
		t.Errorf("adj[1] = %v, want empty", adj[1])
	}
}

func TestGraphOrderer_Order_CycleFallsBack(t *testing.T) {
	g := NewGraphOrderer()

	// Three mutually same-row boxes whose centroids order cleanly can
	// never cycle, so force one: A above B (not same-row), B same-row
	// with C and right of it, C same-row with A and right of it, while
	// A's centroid is left of B's partner chain. Tall overlapping
	// staggered boxes produce exactly this conflict.
	boxes := []model.Box{
		model.NewBox(0, 0, 40, 35),
		model.NewBox(10, 40, 50, 150),
		model.NewBox(20, 20, 60, 130),
		model.NewBox(15, 10, 55, 140),
	}

	got := g.Order(boxes)

	// Regardless of whether a cycle occurred, the result must be a
	// full-length permutation of the input.
	if len(got) != len(boxes) {
		t.Fatalf("Order returned %d boxes, want %d", len(got), len(boxes))
	}
	seen := make(map[model.Box]int)
	for _, b := range got {
		seen[b]++
	}
	for _, b := range boxes {
		if seen[b] != 1 {
			t.Errorf("box %+v appears %d times in output, want exactly once", b, seen[b])
		}
	}
}

func TestGraphOrderer_Order_TooManyBoxesUsesSpatialSort(t *testing.T) {
	config := DefaultGraphConfig()
	config.MaxBoxes = 2
	g := NewGraphOrdererWithConfig(config)

	boxes := []model.Box{
		model.NewBox(0, 100, 50, 150),
		model.NewBox(0, 0, 50, 40),
		model.NewBox(60, 0, 110, 40),
	}

	got := g.Order(boxes)
	if len(got) != 3 {
		t.Fatalf("Order returned %d boxes, want 3", len(got))
	}
	// Spatial fallback: row bucket by Y1/50 then rightmost first.
	if got[0] != boxes[2] || got[1] != boxes[1] || got[2] != boxes[0] {
		t.Errorf("spatial fallback order = %+v", got)
	}
}
