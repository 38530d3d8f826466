package panelreader

import (
	"github.com/Yasabs10/panelreader/config"
	"github.com/Yasabs10/panelreader/layout"
	"github.com/Yasabs10/panelreader/refine"
)

// Options holds the full pipeline configuration: which stages run, how
// they are tuned, and the reading conventions of the page.
type Options struct {
	// Strategy selects the ordering algorithm.
	Strategy layout.Strategy

	// Direction is the reading direction of the page. It propagates
	// into every direction-aware stage.
	Direction layout.ReadingDirection

	// NeverEmpty emits a single full-page panel when no boxes survive
	// the pipeline, so downstream consumers always have something to
	// display.
	NeverEmpty bool

	// Margin is the inset, in pixels, of the synthetic full-page
	// panel emitted under NeverEmpty.
	Margin float64

	// ShrinkWrap and SnapGutters toggle the raster refinement stages.
	// Both are skipped when no page pixels are supplied.
	ShrinkWrap  bool
	SnapGutters bool

	// Per-stage tuning.
	Merge     layout.MergeConfig
	Graph     layout.GraphConfig
	Histogram layout.HistogramConfig
	Shrink    refine.ShrinkConfig
	Gutter    refine.GutterConfig
}

// DefaultOptions returns the default pipeline configuration: graph
// ordering, right-to-left reading, both refinement stages enabled.
func DefaultOptions() Options {
	return Options{
		Strategy:    layout.StrategyGraph,
		Direction:   layout.RightToLeft,
		NeverEmpty:  true,
		Margin:      5,
		ShrinkWrap:  true,
		SnapGutters: true,
		Merge:       layout.DefaultMergeConfig(),
		Graph:       layout.DefaultGraphConfig(),
		Histogram:   layout.DefaultHistogramConfig(),
		Shrink:      refine.DefaultShrinkConfig(),
		Gutter:      refine.DefaultGutterConfig(),
	}
}

// OptionsFromSettings converts loaded YAML settings into pipeline
// options.
func OptionsFromSettings(s config.Settings) (Options, error) {
	strategy, err := s.ParseStrategy()
	if err != nil {
		return Options{}, err
	}
	direction, err := s.ParseDirection()
	if err != nil {
		return Options{}, err
	}

	opts := DefaultOptions()
	opts.Strategy = strategy
	opts.Direction = direction
	opts.NeverEmpty = s.NeverEmpty
	opts.Margin = s.Margin
	opts.ShrinkWrap = s.ShrinkWrap
	opts.SnapGutters = s.SnapGutters

	opts.Merge.OverlapThreshold = s.Merge.OverlapThreshold
	opts.Merge.ContainmentThreshold = s.Merge.ContainmentThreshold
	opts.Merge.RowThreshold = s.Merge.RowThreshold
	opts.Merge.MaxBoxes = s.Merge.MaxBoxes

	opts.Graph.RowThreshold = s.Graph.RowThreshold
	opts.Graph.FallbackRowHeight = s.Graph.FallbackRowHeight

	opts.Histogram.Bins = s.Histogram.Bins
	opts.Histogram.GapFraction = s.Histogram.GapFraction
	opts.Histogram.RowAdvance = s.Histogram.RowAdvance

	opts.Shrink.InkThreshold = s.Shrink.InkThreshold
	opts.Shrink.KernelDivisor = s.Shrink.KernelDivisor
	opts.Shrink.MinKernel = s.Shrink.MinKernel
	opts.Shrink.MaxKernel = s.Shrink.MaxKernel

	opts.Gutter.WhiteThreshold = s.Gutter.WhiteThreshold
	opts.Gutter.HoughThreshold = s.Gutter.HoughThreshold
	opts.Gutter.MinLengthDivisor = s.Gutter.MinLengthDivisor
	opts.Gutter.MinLineLength = s.Gutter.MinLineLength
	opts.Gutter.MaxLineGap = s.Gutter.MaxLineGap
	opts.Gutter.OrientationTolerance = s.Gutter.OrientationTolerance
	opts.Gutter.SnapDivisor = s.Gutter.SnapDivisor
	opts.Gutter.WideAspect = s.Gutter.WideAspect

	return opts, nil
}

// withDirection pushes the top-level reading direction into every
// direction-aware stage config.
func (o Options) withDirection() Options {
	o.Graph.Direction = o.Direction
	o.Histogram.Direction = o.Direction
	o.Gutter.Direction = o.Direction
	return o
}
