package model

import (
	"image"
	"math"
)

// Box represents an axis-aligned rectangle in image-pixel space.
// The origin is the top-left corner of the image and Y increases
// downward, so (X1, Y1) is the top-left corner of the box and
// (X2, Y2) is the bottom-right corner.
type Box struct {
	X1 float64
	Y1 float64
	X2 float64
	Y2 float64
}

// NewBox creates a box from two corner coordinates.
func NewBox(x1, y1, x2, y2 float64) Box {
	return Box{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

// FromRect converts a stdlib image.Rectangle into a Box.
func FromRect(r image.Rectangle) Box {
	return Box{
		X1: float64(r.Min.X),
		Y1: float64(r.Min.Y),
		X2: float64(r.Max.X),
		Y2: float64(r.Max.Y),
	}
}

// Width returns the horizontal extent of the box.
func (b Box) Width() float64 {
	return b.X2 - b.X1
}

// Height returns the vertical extent of the box.
func (b Box) Height() float64 {
	return b.Y2 - b.Y1
}

// CenterX returns the X coordinate of the box centroid.
func (b Box) CenterX() float64 {
	return (b.X1 + b.X2) / 2
}

// CenterY returns the Y coordinate of the box centroid.
func (b Box) CenterY() float64 {
	return (b.Y1 + b.Y2) / 2
}

// Area returns the area of the box in square pixels.
func (b Box) Area() float64 {
	return b.Width() * b.Height()
}

// IsValid reports whether the box has strictly positive extent on both
// axes. Degenerate boxes must not enter the ordering or refinement
// stages.
func (b Box) IsValid() bool {
	return b.X1 < b.X2 && b.Y1 < b.Y2
}

// Intersects reports whether two boxes share any area.
func (b Box) Intersects(other Box) bool {
	return b.X1 < other.X2 && other.X1 < b.X2 &&
		b.Y1 < other.Y2 && other.Y1 < b.Y2
}

// Intersection returns the overlapping region of two boxes, or the
// zero Box when they do not intersect.
func (b Box) Intersection(other Box) Box {
	if !b.Intersects(other) {
		return Box{}
	}
	return Box{
		X1: math.Max(b.X1, other.X1),
		Y1: math.Max(b.Y1, other.Y1),
		X2: math.Min(b.X2, other.X2),
		Y2: math.Min(b.Y2, other.Y2),
	}
}

// Union returns the smallest box that encloses both boxes. This is the
// merge operation used by the box merger: component-wise min of the
// top-left corner and max of the bottom-right corner.
func (b Box) Union(other Box) Box {
	return Box{
		X1: math.Min(b.X1, other.X1),
		Y1: math.Min(b.Y1, other.Y1),
		X2: math.Max(b.X2, other.X2),
		Y2: math.Max(b.Y2, other.Y2),
	}
}

// YOverlap returns the length of the vertical overlap between two
// boxes. The result is negative when the boxes are vertically disjoint.
func (b Box) YOverlap(other Box) float64 {
	return math.Min(b.Y2, other.Y2) - math.Max(b.Y1, other.Y1)
}

// XOverlap returns the length of the horizontal overlap between two
// boxes, clamped to zero when the boxes are horizontally disjoint.
func (b Box) XOverlap(other Box) float64 {
	overlap := math.Min(b.X2, other.X2) - math.Max(b.X1, other.X1)
	if overlap < 0 {
		return 0
	}
	return overlap
}

// IoU returns the intersection-over-union of two boxes, a value in
// [0, 1]. It is part of the documented contract surface as a general
// similarity measure; the merge decision itself is driven by
// ContainmentRatio and OverlapRatio.
func (b Box) IoU(other Box) float64 {
	inter := b.Intersection(other)
	if !inter.IsValid() {
		return 0
	}
	interArea := inter.Area()
	union := b.Area() + other.Area() - interArea
	if union <= 0 {
		return 0
	}
	return interArea / union
}

// OverlapRatio returns the intersection area divided by the smaller
// box's area, a value in [0, 1].
func (b Box) OverlapRatio(other Box) float64 {
	inter := b.Intersection(other)
	if !inter.IsValid() {
		return 0
	}
	minArea := math.Min(b.Area(), other.Area())
	if minArea <= 0 {
		return 0
	}
	return inter.Area() / minArea
}

// ContainmentRatio returns the largest fraction of either box's area
// covered by the intersection. A value of 1 means one box lies fully
// inside the other.
func (b Box) ContainmentRatio(other Box) float64 {
	inter := b.Intersection(other)
	if !inter.IsValid() {
		return 0
	}
	interArea := inter.Area()
	ratio := 0.0
	if a := b.Area(); a > 0 {
		ratio = interArea / a
	}
	if a := other.Area(); a > 0 && interArea/a > ratio {
		ratio = interArea / a
	}
	return ratio
}

// Inset returns the box shrunk by margin pixels on every side.
func (b Box) Inset(margin float64) Box {
	return Box{
		X1: b.X1 + margin,
		Y1: b.Y1 + margin,
		X2: b.X2 - margin,
		Y2: b.Y2 - margin,
	}
}

// Rect converts the box to a stdlib image.Rectangle, rounding each
// coordinate to the nearest integer.
func (b Box) Rect() image.Rectangle {
	return image.Rect(
		int(math.Round(b.X1)),
		int(math.Round(b.Y1)),
		int(math.Round(b.X2)),
		int(math.Round(b.Y2)),
	)
}
