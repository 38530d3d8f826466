package model

import (
	"image"
	"math"
	"testing"
)

func TestBox_Dimensions(t *testing.T) {
	b := NewBox(10, 20, 110, 70)

	if b.Width() != 100 {
		t.Errorf("Width() = %f, want 100", b.Width())
	}
	if b.Height() != 50 {
		t.Errorf("Height() = %f, want 50", b.Height())
	}
	if b.Area() != 5000 {
		t.Errorf("Area() = %f, want 5000", b.Area())
	}
	if b.CenterX() != 60 {
		t.Errorf("CenterX() = %f, want 60", b.CenterX())
	}
	if b.CenterY() != 45 {
		t.Errorf("CenterY() = %f, want 45", b.CenterY())
	}
}

func TestBox_IsValid(t *testing.T) {
	tests := []struct {
		name string
		box  Box
		want bool
	}{
		{"normal", NewBox(0, 0, 10, 10), true},
		{"zero width", NewBox(5, 0, 5, 10), false},
		{"zero height", NewBox(0, 5, 10, 5), false},
		{"inverted", NewBox(10, 10, 0, 0), false},
	}

	for _, tt := range tests {
		if got := tt.box.IsValid(); got != tt.want {
			t.Errorf("%s: IsValid() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestBox_Intersection(t *testing.T) {
	a := NewBox(0, 0, 10, 10)
	b := NewBox(5, 5, 15, 15)

	inter := a.Intersection(b)
	want := NewBox(5, 5, 10, 10)
	if inter != want {
		t.Errorf("Intersection() = %+v, want %+v", inter, want)
	}

	disjoint := NewBox(20, 20, 30, 30)
	if got := a.Intersection(disjoint); got != (Box{}) {
		t.Errorf("Intersection() of disjoint boxes = %+v, want zero Box", got)
	}
}

func TestBox_Union(t *testing.T) {
	a := NewBox(0, 0, 10, 10)
	b := NewBox(5, 5, 15, 15)

	got := a.Union(b)
	want := NewBox(0, 0, 15, 15)
	if got != want {
		t.Errorf("Union() = %+v, want %+v", got, want)
	}
}

func TestBox_IoU(t *testing.T) {
	a := NewBox(0, 0, 10, 10)

	if got := a.IoU(a); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("IoU() of identical boxes = %f, want 1.0", got)
	}

	b := NewBox(20, 20, 30, 30)
	if got := a.IoU(b); got != 0 {
		t.Errorf("IoU() of disjoint boxes = %f, want 0", got)
	}

	// Half overlap: intersection 50, union 150
	c := NewBox(5, 0, 15, 10)
	want := 50.0 / 150.0
	if got := a.IoU(c); math.Abs(got-want) > 1e-9 {
		t.Errorf("IoU() = %f, want %f", got, want)
	}
}

func TestBox_ContainmentRatio(t *testing.T) {
	outer := NewBox(0, 0, 100, 100)
	inner := NewBox(10, 10, 50, 50)

	if got := outer.ContainmentRatio(inner); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("ContainmentRatio() = %f, want 1.0 for fully nested box", got)
	}
	// Symmetric: order of receiver and argument must not matter.
	if got := inner.ContainmentRatio(outer); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("ContainmentRatio() reversed = %f, want 1.0", got)
	}
}

func TestBox_OverlapRatio(t *testing.T) {
	a := NewBox(0, 0, 10, 10)
	b := NewBox(5, 0, 15, 10)

	// Intersection 50, min area 100
	if got := a.OverlapRatio(b); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("OverlapRatio() = %f, want 0.5", got)
	}
}

func TestBox_Rect(t *testing.T) {
	b := NewBox(0.4, 0.6, 10.5, 19.9)
	want := image.Rect(0, 1, 11, 20)
	if got := b.Rect(); got != want {
		t.Errorf("Rect() = %v, want %v", got, want)
	}
}

func TestNewReadingOrder(t *testing.T) {
	boxes := []Box{
		NewBox(100, 0, 200, 50),
		NewBox(0, 0, 90, 50),
	}

	result := NewReadingOrder(boxes)

	if result.PanelCount() != 2 {
		t.Fatalf("PanelCount() = %d, want 2", result.PanelCount())
	}
	if result.Panels[0].Index != 1 || result.Panels[1].Index != 2 {
		t.Errorf("panel indices = %d, %d; want 1, 2", result.Panels[0].Index, result.Panels[1].Index)
	}
	if result.Panels[0].BBox != [4]int{100, 0, 200, 50} {
		t.Errorf("BBox = %v, want [100 0 200 50]", result.Panels[0].BBox)
	}
}

func TestNewReadingOrder_Empty(t *testing.T) {
	result := NewReadingOrder(nil)
	if result.Panels == nil {
		t.Error("Panels should be an empty slice, not nil, so JSON output is [] rather than null")
	}
	if result.PanelCount() != 0 {
		t.Errorf("PanelCount() = %d, want 0", result.PanelCount())
	}
}

func TestReadingOrder_Boxes_RoundTrip(t *testing.T) {
	boxes := []Box{NewBox(1, 2, 3, 4), NewBox(5, 6, 7, 8)}
	got := NewReadingOrder(boxes).Boxes()

	if len(got) != len(boxes) {
		t.Fatalf("Boxes() returned %d boxes, want %d", len(got), len(boxes))
	}
	for i := range boxes {
		if got[i] != boxes[i] {
			t.Errorf("box %d = %+v, want %+v", i, got[i], boxes[i])
		}
	}
}
