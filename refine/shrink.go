package refine

import (
	"image"
	"log/slog"

	"gocv.io/x/gocv"

	"github.com/Yasabs10/panelreader/model"
)

// ShrinkConfig holds configuration for the content shrink-wrap pass.
type ShrinkConfig struct {
	// InkThreshold is the grayscale value below which a pixel counts
	// as ink. Anything at or above it is background.
	InkThreshold float64

	// KernelDivisor scales the closing kernel with panel size: the
	// kernel side starts at min(width, height) / KernelDivisor.
	KernelDivisor int

	// MinKernel and MaxKernel clamp the closing kernel side. Larger
	// panels get a larger kernel to bridge fragmented linework
	// without over-closing small panels.
	MinKernel int
	MaxKernel int
}

// DefaultShrinkConfig returns sensible default configuration.
func DefaultShrinkConfig() ShrinkConfig {
	return ShrinkConfig{
		InkThreshold:  245,
		KernelDivisor: 50,
		MinKernel:     3,
		MaxKernel:     7,
	}
}

// ShrinkWrapper tightens each panel box to the bounding rectangle of
// the non-background pixels inside it.
type ShrinkWrapper struct {
	config ShrinkConfig
}

// NewShrinkWrapper creates a shrink wrapper with default configuration.
func NewShrinkWrapper() *ShrinkWrapper {
	return &ShrinkWrapper{config: DefaultShrinkConfig()}
}

// NewShrinkWrapperWithConfig creates a shrink wrapper with custom
// configuration.
func NewShrinkWrapperWithConfig(config ShrinkConfig) *ShrinkWrapper {
	return &ShrinkWrapper{config: config}
}

// Wrap shrink-wraps every box against the grayscale page. Boxes whose
// crop contains no ink, or that fall outside the image, come back
// unchanged. The input slice is never modified.
func (s *ShrinkWrapper) Wrap(boxes []model.Box, img *image.Gray) []model.Box {
	mat, err := grayToMat(img)
	if err != nil {
		slog.Warn("shrink-wrap skipped", "err", err)
		return boxes
	}
	defer mat.Close()

	out := make([]model.Box, len(boxes))
	for i, b := range boxes {
		out[i] = s.wrapOne(b, mat)
	}
	return out
}

// wrapOne processes a single panel. On any detection failure the
// original box is returned.
func (s *ShrinkWrapper) wrapOne(box model.Box, page gocv.Mat) model.Box {
	rect := clampRect(box.Rect(), page.Cols(), page.Rows())
	if rect.Dx() <= 0 || rect.Dy() <= 0 {
		return box
	}

	region := page.Region(rect)
	crop := region.Clone()
	region.Close()
	defer crop.Close()

	// Ink is everything darker than the near-white threshold.
	ink := gocv.NewMat()
	defer ink.Close()
	gocv.Threshold(crop, &ink, float32(s.config.InkThreshold), 255, gocv.ThresholdBinaryInv)

	// Closing (dilate then erode) bridges fragmented linework so the
	// bounding rectangle covers whole strokes rather than specks.
	k := s.kernelSize(rect.Dx(), rect.Dy())
	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(k, k))
	defer kernel.Close()

	closed := gocv.NewMat()
	defer closed.Close()
	gocv.MorphologyEx(ink, &closed, gocv.MorphClose, kernel)

	inkRect, ok := nonZeroBounds(closed)
	if !ok {
		// Fully blank panel: preserve it rather than collapsing to
		// zero area.
		return box
	}

	return model.NewBox(
		float64(rect.Min.X+inkRect.Min.X),
		float64(rect.Min.Y+inkRect.Min.Y),
		float64(rect.Min.X+inkRect.Max.X),
		float64(rect.Min.Y+inkRect.Max.Y),
	)
}

// kernelSize derives the closing kernel side from the panel size,
// clamped to [MinKernel, MaxKernel].
func (s *ShrinkWrapper) kernelSize(width, height int) int {
	k := width / s.config.KernelDivisor
	if h := height / s.config.KernelDivisor; h < k {
		k = h
	}
	if k > s.config.MaxKernel {
		k = s.config.MaxKernel
	}
	if k < s.config.MinKernel {
		k = s.config.MinKernel
	}
	return k
}

// nonZeroBounds scans a single-channel mat and returns the bounding
// rectangle of its non-zero pixels. The Max corner is exclusive.
func nonZeroBounds(mat gocv.Mat) (image.Rectangle, bool) {
	data := mat.ToBytes()
	cols, rows := mat.Cols(), mat.Rows()
	if len(data) < cols*rows {
		return image.Rectangle{}, false
	}

	minX, minY := cols, rows
	maxX, maxY := -1, -1
	for y := 0; y < rows; y++ {
		row := data[y*cols : (y+1)*cols]
		for x, v := range row {
			if v == 0 {
				continue
			}
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
		}
	}

	if maxX < 0 {
		return image.Rectangle{}, false
	}
	return image.Rect(minX, minY, maxX+1, maxY+1), true
}
