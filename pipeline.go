package panelreader

import (
	"context"
	"image"
	"log/slog"

	"github.com/Yasabs10/panelreader/layout"
	"github.com/Yasabs10/panelreader/model"
	"github.com/Yasabs10/panelreader/refine"
)

// Process runs the full ordering pipeline over raw detection boxes:
// sanitize, merge fragments, resolve reading order, then optionally
// shrink-wrap to content and snap edges to gutters when page pixels
// are available.
//
// Every stage after sanitation degrades gracefully: if a stage
// panics, its input passes through unchanged and the failure is
// logged. The only hard failure is context cancellation, checked
// between stages.
func Process(ctx context.Context, raw []model.Box, img *image.Gray, opts Options) (*model.ReadingOrder, error) {
	opts = opts.withDirection()

	boxes := sanitize(raw)

	merger := layout.NewMergerWithConfig(opts.Merge)
	boxes = runStage("merge", boxes, merger.Merge)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	orderer := newOrderer(opts)
	boxes = runStage(orderer.Name(), boxes, orderer.Order)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if img != nil && opts.ShrinkWrap {
		wrapper := refine.NewShrinkWrapperWithConfig(opts.Shrink)
		boxes = runStage("shrink", boxes, func(b []model.Box) []model.Box {
			return wrapper.Wrap(b, img)
		})
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	if img != nil && opts.SnapGutters {
		refiner := refine.NewGutterRefinerWithConfig(opts.Gutter)
		boxes = runStage("gutter", boxes, func(b []model.Box) []model.Box {
			return refiner.Refine(b, img)
		})
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	if len(boxes) == 0 && opts.NeverEmpty && img != nil {
		boxes = []model.Box{fullPagePanel(img, opts.Margin)}
	}

	return model.NewReadingOrder(boxes), nil
}

// newOrderer builds the configured ordering strategy with the
// top-level direction already applied.
func newOrderer(opts Options) layout.Orderer {
	if opts.Strategy == layout.StrategyHistogram {
		return layout.NewHistogramOrdererWithConfig(opts.Histogram)
	}
	return layout.NewGraphOrdererWithConfig(opts.Graph)
}

// sanitize drops degenerate boxes before they can poison later
// stages.
func sanitize(raw []model.Box) []model.Box {
	boxes := make([]model.Box, 0, len(raw))
	for _, b := range raw {
		if !b.IsValid() {
			slog.Debug("dropping degenerate box",
				"x1", b.X1, "y1", b.Y1, "x2", b.X2, "y2", b.Y2)
			continue
		}
		boxes = append(boxes, b)
	}
	return boxes
}

// runStage executes one pipeline stage with a panic guard: a stage
// that panics yields its input unchanged.
func runStage(name string, in []model.Box, fn func([]model.Box) []model.Box) (out []model.Box) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("pipeline stage failed, passing input through",
				"stage", name, "panic", r)
			out = in
		}
	}()
	return fn(in)
}

// fullPagePanel returns a single panel covering the whole page, inset
// by margin on every side.
func fullPagePanel(img *image.Gray, margin float64) model.Box {
	bounds := img.Bounds()
	box := model.FromRect(bounds).Inset(margin)
	if !box.IsValid() {
		// Page smaller than twice the margin; use it as is.
		return model.FromRect(bounds)
	}
	return box
}
