// Package panelreader resolves the reading order of comic and manga
// panels from detection bounding boxes.
//
// Basic usage:
//
//	result, err := panelreader.Open("page_001.png").
//	    BoxesFile("page_001.json").
//	    Order(context.Background())
//	if err != nil {
//	    // handle error
//	}
//	for _, p := range result.Panels {
//	    fmt.Println(p.Index, p.BBox)
//	}
//
// With options:
//
//	result, err := panelreader.Open("page_001.png").
//	    Boxes(boxes).
//	    Histogram().
//	    LeftToRight().
//	    Order(ctx)
//
// For pipelines that already hold decoded pixels and boxes, the
// lower-level Process function is also available.
package panelreader

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"

	"github.com/Yasabs10/panelreader/config"
	"github.com/Yasabs10/panelreader/detect"
	"github.com/Yasabs10/panelreader/layout"
	"github.com/Yasabs10/panelreader/model"
	"github.com/Yasabs10/panelreader/pages"
	"github.com/Yasabs10/panelreader/report"
)

// Open starts a fluent chain for a page image on disk. The image is
// decoded lazily, when a terminal operation runs.
//
// Example:
//
//	result, err := panelreader.Open("page.png").Boxes(boxes).Order(ctx)
func Open(imagePath string) *Processor {
	return &Processor{
		imagePath: imagePath,
		options:   DefaultOptions(),
	}
}

// FromImage starts a fluent chain from an already-decoded image.
// Color images are flattened to grayscale.
func FromImage(img image.Image) *Processor {
	p := &Processor{options: DefaultOptions()}
	if img != nil {
		p.img = toGray(img)
	}
	return p
}

// BoxesOnly starts a fluent chain with no page pixels at all. The
// raster refinement stages are skipped; ordering runs on geometry
// alone.
func BoxesOnly(boxes []model.Box) *Processor {
	p := &Processor{options: DefaultOptions()}
	return p.Boxes(boxes)
}

// Must is a helper that wraps a call to a function returning
// (T, error) and panics if the error is non-nil. It is intended for
// scripts and tests where error handling would be cumbersome.
//
// Example:
//
//	result := panelreader.Must(panelreader.BoxesOnly(boxes).Order(ctx))
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// Processor provides a fluent interface for resolving panel reading
// order. Each configuration method returns a new Processor instance,
// making chains safe to fork and reuse.
type Processor struct {
	// Page pixels, either decoded up front or loaded from imagePath
	// at terminal time.
	imagePath string
	img       *image.Gray

	// Box acquisition. source wins over boxes when both are set.
	boxes  []model.Box
	source detect.Source

	options Options

	// Accumulated error (fail-fast).
	err error
}

// clone creates a copy of the Processor so chain methods never
// mutate their receiver.
func (p *Processor) clone() *Processor {
	next := &Processor{
		imagePath: p.imagePath,
		img:       p.img,
		source:    p.source,
		options:   p.options,
		err:       p.err,
	}
	if p.boxes != nil {
		next.boxes = append([]model.Box(nil), p.boxes...)
	}
	return next
}

// ============================================================================
// Configuration methods (return a new Processor instance)
// ============================================================================

// Boxes supplies detection boxes directly.
func (p *Processor) Boxes(boxes []model.Box) *Processor {
	next := p.clone()
	next.boxes = append([]model.Box(nil), boxes...)
	next.source = nil
	return next
}

// BoxesFile reads detection boxes from a JSON file of the form
// {"boxes": [[x1, y1, x2, y2], ...]}.
func (p *Processor) BoxesFile(path string) *Processor {
	next := p.clone()
	next.source = detect.NewFileSource(path)
	return next
}

// DetectCommand runs an external detector to obtain boxes. The
// command receives the image path as its final argument and must
// print a {"boxes": [...]} JSON document on stdout.
func (p *Processor) DetectCommand(command string, args ...string) *Processor {
	next := p.clone()
	next.source = detect.NewCommandSource(command, args...)
	return next
}

// Source supplies a custom box source.
func (p *Processor) Source(src detect.Source) *Processor {
	next := p.clone()
	next.source = src
	return next
}

// Graph selects the dependency-graph ordering strategy (the default).
func (p *Processor) Graph() *Processor {
	next := p.clone()
	next.options.Strategy = layout.StrategyGraph
	return next
}

// Histogram selects the projection-histogram ordering strategy.
func (p *Processor) Histogram() *Processor {
	next := p.clone()
	next.options.Strategy = layout.StrategyHistogram
	return next
}

// RightToLeft sets manga reading conventions (the default).
func (p *Processor) RightToLeft() *Processor {
	next := p.clone()
	next.options.Direction = layout.RightToLeft
	return next
}

// LeftToRight sets Western reading conventions.
func (p *Processor) LeftToRight() *Processor {
	next := p.clone()
	next.options.Direction = layout.LeftToRight
	return next
}

// NoRefine disables both raster refinement stages, leaving panel
// boxes exactly where ordering put them.
func (p *Processor) NoRefine() *Processor {
	next := p.clone()
	next.options.ShrinkWrap = false
	next.options.SnapGutters = false
	return next
}

// WithOptions replaces the entire pipeline configuration.
func (p *Processor) WithOptions(opts Options) *Processor {
	next := p.clone()
	next.options = opts
	return next
}

// WithSettings applies loaded YAML settings to the chain.
func (p *Processor) WithSettings(s config.Settings) *Processor {
	next := p.clone()
	opts, err := OptionsFromSettings(s)
	if err != nil {
		next.err = err
		return next
	}
	next.options = opts
	return next
}

// ============================================================================
// Terminal operations
// ============================================================================

// Order runs the pipeline and returns the panels in reading order.
func (p *Processor) Order(ctx context.Context) (*model.ReadingOrder, error) {
	if p.err != nil {
		return nil, p.err
	}

	img := p.img
	if img == nil && p.imagePath != "" {
		decoded, err := pages.DecodeGray(p.imagePath)
		if err != nil {
			return nil, fmt.Errorf("loading page image: %w", err)
		}
		img = decoded
	}

	boxes := p.boxes
	if p.source != nil {
		fetched, err := p.source.Boxes(ctx, p.imagePath)
		if err != nil {
			return nil, fmt.Errorf("acquiring boxes: %w", err)
		}
		boxes = fetched
	}
	if boxes == nil && p.source == nil {
		return nil, fmt.Errorf("no detection boxes supplied: use Boxes, BoxesFile, or DetectCommand")
	}

	return Process(ctx, boxes, img, p.options)
}

// JSON runs the pipeline and returns the result as indented JSON.
func (p *Processor) JSON(ctx context.Context) ([]byte, error) {
	result, err := p.Order(ctx)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := report.WriteJSON(&buf, result); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// toGray flattens any image to 8-bit grayscale.
func toGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	bounds := img.Bounds()
	gray := image.NewGray(bounds)
	draw.Draw(gray, bounds, img, bounds.Min, draw.Src)
	return gray
}
