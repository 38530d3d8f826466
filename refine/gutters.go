package refine

import (
	"image"
	"log/slog"
	"math"
	"sort"

	"gocv.io/x/gocv"

	"github.com/Yasabs10/panelreader/layout"
	"github.com/Yasabs10/panelreader/model"
)

// GutterConfig holds configuration for the gutter refinement pass.
type GutterConfig struct {
	// Direction decides which edge of a wide strip panel is trailing.
	Direction layout.ReadingDirection

	// WhiteThreshold is the grayscale value at or above which a pixel
	// counts as gutter whitespace.
	WhiteThreshold float64

	// HoughThreshold is the accumulator vote threshold for the
	// probabilistic line detector.
	HoughThreshold int

	// MinLengthDivisor sets the minimum detected line length as a
	// fraction of the relevant image dimension (dimension / divisor,
	// floored at MinLineLength).
	MinLengthDivisor int

	// MinLineLength is the absolute floor on detected line length.
	MinLineLength int

	// MaxLineGap is the largest break tolerated inside one line.
	MaxLineGap int

	// OrientationTolerance is the largest endpoint delta, in pixels,
	// along the perpendicular axis for a line to count as vertical or
	// horizontal.
	OrientationTolerance int

	// SnapDivisor sets the proximity window for edge snapping as a
	// fraction of the relevant image dimension.
	SnapDivisor int

	// WideAspect is the width/height ratio above which a panel is
	// treated as a horizontal strip whose leading edge already
	// reaches the page margin.
	WideAspect float64
}

// DefaultGutterConfig returns sensible default configuration.
func DefaultGutterConfig() GutterConfig {
	return GutterConfig{
		Direction:            layout.RightToLeft,
		WhiteThreshold:       240,
		HoughThreshold:       30,
		MinLengthDivisor:     15,
		MinLineLength:        30,
		MaxLineGap:           20,
		OrientationTolerance: 15,
		SnapDivisor:          15,
		WideAspect:           2.0,
	}
}

// GutterRefiner detects whitespace separator lines between panels and
// snaps panel edges to just inside the nearest detected gutter.
type GutterRefiner struct {
	config GutterConfig
}

// NewGutterRefiner creates a gutter refiner with default configuration.
func NewGutterRefiner() *GutterRefiner {
	return &GutterRefiner{config: DefaultGutterConfig()}
}

// NewGutterRefinerWithConfig creates a gutter refiner with custom
// configuration.
func NewGutterRefinerWithConfig(config GutterConfig) *GutterRefiner {
	return &GutterRefiner{config: config}
}

// Refine snaps every box's edges toward detected gutters. With one box
// or none there is nothing to separate and the input comes back
// unchanged, as it does when detection fails or finds no lines. The
// input slice is never modified.
func (g *GutterRefiner) Refine(boxes []model.Box, img *image.Gray) []model.Box {
	if len(boxes) <= 1 {
		return boxes
	}

	mat, err := grayToMat(img)
	if err != nil {
		slog.Warn("gutter refinement skipped", "err", err)
		return boxes
	}
	defer mat.Close()

	vertical, horizontal := g.detectGutters(mat)
	if len(vertical) == 0 && len(horizontal) == 0 {
		return boxes
	}
	slog.Debug("gutters detected", "vertical", len(vertical), "horizontal", len(horizontal))

	width, height := mat.Cols(), mat.Rows()
	out := make([]model.Box, len(boxes))
	for i, b := range boxes {
		out[i] = g.snapBox(b, vertical, horizontal, width, height)
	}
	return out
}

// detectGutters binarizes the page and runs probabilistic line
// detection twice, once tuned for vertical separators and once for
// horizontal ones. Each qualifying line contributes its mean
// coordinate along the perpendicular axis; positions are deduplicated
// into sorted integer sets per axis.
func (g *GutterRefiner) detectGutters(page gocv.Mat) (vertical, horizontal []int) {
	width, height := page.Cols(), page.Rows()

	// Separator strokes and panel borders are the non-white pixels.
	mask := gocv.NewMat()
	defer mask.Close()
	gocv.Threshold(page, &mask, float32(g.config.WhiteThreshold), 255, gocv.ThresholdBinaryInv)

	theta := float32(math.Pi / 180)
	verticalSet := map[int]bool{}
	horizontalSet := map[int]bool{}

	for _, minLength := range []int{g.minLength(width), g.minLength(height)} {
		lines := gocv.NewMat()
		gocv.HoughLinesPWithParams(mask, &lines, 1, theta,
			g.config.HoughThreshold, float32(minLength), float32(g.config.MaxLineGap))

		for i := 0; i < lines.Rows(); i++ {
			v := lines.GetVeciAt(i, 0)
			x1, y1, x2, y2 := int(v[0]), int(v[1]), int(v[2]), int(v[3])
			dx := abs(x2 - x1)
			dy := abs(y2 - y1)
			switch {
			case dx < g.config.OrientationTolerance:
				verticalSet[(x1+x2)/2] = true
			case dy < g.config.OrientationTolerance:
				horizontalSet[(y1+y2)/2] = true
			}
		}
		lines.Close()
	}

	return sortedKeys(verticalSet), sortedKeys(horizontalSet)
}

// snapBox adjusts a single box's edges toward the nearest qualifying
// gutters. Edges only move when a gutter lies within the proximity
// window on the correct side; the edge lands just inside the gutter
// centerline.
func (g *GutterRefiner) snapBox(box model.Box, vertical, horizontal []int, width, height int) model.Box {
	xWindow := float64(width / g.config.SnapDivisor)
	yWindow := float64(height / g.config.SnapDivisor)
	rtl := g.config.Direction == layout.RightToLeft

	wide := box.Height() > 0 && box.Width()/box.Height() > g.config.WideAspect

	adjustLeft, adjustRight := true, true
	if wide {
		// A wide strip already reaches the page margin on its leading
		// side; only the trailing edge in reading direction snaps.
		if rtl {
			adjustLeft = false
		} else {
			adjustRight = false
		}
	}

	out := box
	if adjustRight {
		if gutter, ok := nearestAbove(vertical, box.X2, xWindow); ok {
			out.X2 = float64(gutter - 1)
		}
	}
	if adjustLeft {
		if gutter, ok := nearestBelow(vertical, box.X1, xWindow); ok {
			out.X1 = float64(gutter + 1)
		}
	}

	// Top and bottom snap for every panel regardless of aspect ratio.
	if gutter, ok := nearestBelow(horizontal, box.Y1, yWindow); ok {
		out.Y1 = float64(gutter + 1)
	}
	if gutter, ok := nearestAbove(horizontal, box.Y2, yWindow); ok {
		out.Y2 = float64(gutter - 1)
	}

	if !out.IsValid() {
		return box
	}
	return out
}

// minLength returns the minimum detectable line length for an image
// dimension.
func (g *GutterRefiner) minLength(dimension int) int {
	length := dimension / g.config.MinLengthDivisor
	if length < g.config.MinLineLength {
		length = g.config.MinLineLength
	}
	return length
}

// nearestAbove returns the smallest gutter position strictly greater
// than edge and within the window.
func nearestAbove(gutters []int, edge, window float64) (int, bool) {
	for _, p := range gutters {
		if float64(p) > edge {
			if float64(p)-edge < window {
				return p, true
			}
			return 0, false
		}
	}
	return 0, false
}

// nearestBelow returns the largest gutter position strictly less than
// edge and within the window.
func nearestBelow(gutters []int, edge, window float64) (int, bool) {
	for i := len(gutters) - 1; i >= 0; i-- {
		if float64(gutters[i]) < edge {
			if edge-float64(gutters[i]) < window {
				return gutters[i], true
			}
			return 0, false
		}
	}
	return 0, false
}

func sortedKeys(set map[int]bool) []int {
	if len(set) == 0 {
		return nil
	}
	keys := make([]int, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
