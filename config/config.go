package config

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Yasabs10/panelreader/layout"
	"github.com/Yasabs10/panelreader/refine"
)

// Settings holds every tunable knob of the ordering pipeline in a form
// suitable for YAML files. The zero value is not useful; start from
// Default and overlay a document with Load.
type Settings struct {
	// Strategy selects the ordering algorithm: "graph" or "histogram".
	Strategy string `yaml:"strategy"`
	// Direction is the reading direction: "rtl" or "ltr".
	Direction string `yaml:"direction"`

	// NeverEmpty emits a single full-page panel when no boxes survive
	// the pipeline.
	NeverEmpty bool `yaml:"never_empty"`
	// Margin is the inset, in pixels, of the synthetic full-page panel.
	Margin float64 `yaml:"margin"`

	// ShrinkWrap and SnapGutters toggle the two raster refinement
	// stages. Both require page pixels to be available.
	ShrinkWrap  bool `yaml:"shrink_wrap"`
	SnapGutters bool `yaml:"snap_gutters"`

	Merge     MergeSettings     `yaml:"merge"`
	Graph     GraphSettings     `yaml:"graph"`
	Histogram HistogramSettings `yaml:"histogram"`
	Shrink    ShrinkSettings    `yaml:"shrink"`
	Gutter    GutterSettings    `yaml:"gutter"`
}

// MergeSettings tunes fragment merging.
type MergeSettings struct {
	OverlapThreshold     float64 `yaml:"overlap_threshold"`
	ContainmentThreshold float64 `yaml:"containment_threshold"`
	RowThreshold         float64 `yaml:"row_threshold"`
	MaxBoxes             int     `yaml:"max_boxes"`
}

// GraphSettings tunes the dependency-graph ordering strategy.
type GraphSettings struct {
	RowThreshold      float64 `yaml:"row_threshold"`
	FallbackRowHeight float64 `yaml:"fallback_row_height"`
}

// HistogramSettings tunes the projection-histogram ordering strategy.
type HistogramSettings struct {
	Bins        int     `yaml:"bins"`
	GapFraction float64 `yaml:"gap_fraction"`
	RowAdvance  float64 `yaml:"row_advance"`
}

// ShrinkSettings tunes content shrink-wrapping.
type ShrinkSettings struct {
	InkThreshold  float64 `yaml:"ink_threshold"`
	KernelDivisor int     `yaml:"kernel_divisor"`
	MinKernel     int     `yaml:"min_kernel"`
	MaxKernel     int     `yaml:"max_kernel"`
}

// GutterSettings tunes gutter detection and edge snapping.
type GutterSettings struct {
	WhiteThreshold       float64 `yaml:"white_threshold"`
	HoughThreshold       int     `yaml:"hough_threshold"`
	MinLengthDivisor     int     `yaml:"min_length_divisor"`
	MinLineLength        int     `yaml:"min_line_length"`
	MaxLineGap           int     `yaml:"max_line_gap"`
	OrientationTolerance int     `yaml:"orientation_tolerance"`
	SnapDivisor          int     `yaml:"snap_divisor"`
	WideAspect           float64 `yaml:"wide_aspect"`
}

// Default returns settings matching the built-in pipeline defaults.
func Default() Settings {
	merge := layout.DefaultMergeConfig()
	graph := layout.DefaultGraphConfig()
	hist := layout.DefaultHistogramConfig()
	shrink := refine.DefaultShrinkConfig()
	gutter := refine.DefaultGutterConfig()
	return Settings{
		Strategy:    "graph",
		Direction:   "rtl",
		NeverEmpty:  true,
		Margin:      5,
		ShrinkWrap:  true,
		SnapGutters: true,
		Merge: MergeSettings{
			OverlapThreshold:     merge.OverlapThreshold,
			ContainmentThreshold: merge.ContainmentThreshold,
			RowThreshold:         merge.RowThreshold,
			MaxBoxes:             merge.MaxBoxes,
		},
		Graph: GraphSettings{
			RowThreshold:      graph.RowThreshold,
			FallbackRowHeight: graph.FallbackRowHeight,
		},
		Histogram: HistogramSettings{
			Bins:        hist.Bins,
			GapFraction: hist.GapFraction,
			RowAdvance:  hist.RowAdvance,
		},
		Shrink: ShrinkSettings{
			InkThreshold:  shrink.InkThreshold,
			KernelDivisor: shrink.KernelDivisor,
			MinKernel:     shrink.MinKernel,
			MaxKernel:     shrink.MaxKernel,
		},
		Gutter: GutterSettings{
			WhiteThreshold:       gutter.WhiteThreshold,
			HoughThreshold:       gutter.HoughThreshold,
			MinLengthDivisor:     gutter.MinLengthDivisor,
			MinLineLength:        gutter.MinLineLength,
			MaxLineGap:           gutter.MaxLineGap,
			OrientationTolerance: gutter.OrientationTolerance,
			SnapDivisor:          gutter.SnapDivisor,
			WideAspect:           gutter.WideAspect,
		},
	}
}

// Load reads a YAML document and overlays it on the defaults. Keys
// absent from the document keep their default values.
func Load(r io.Reader) (Settings, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Settings{}, fmt.Errorf("reading settings: %w", err)
	}
	s := Default()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("parsing settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// LoadFile reads a YAML settings file from disk.
func LoadFile(path string) (Settings, error) {
	f, err := os.Open(path)
	if err != nil {
		return Settings{}, err
	}
	defer f.Close()
	return Load(f)
}

// Validate checks that the settings name known strategies and directions
// and that numeric knobs are in range.
func (s Settings) Validate() error {
	if _, err := s.ParseStrategy(); err != nil {
		return err
	}
	if _, err := s.ParseDirection(); err != nil {
		return err
	}
	if s.Histogram.Bins < 1 {
		return fmt.Errorf("histogram.bins must be positive, got %d", s.Histogram.Bins)
	}
	if s.Merge.MaxBoxes < 1 {
		return fmt.Errorf("merge.max_boxes must be positive, got %d", s.Merge.MaxBoxes)
	}
	if s.Shrink.MinKernel > s.Shrink.MaxKernel {
		return fmt.Errorf("shrink.min_kernel %d exceeds shrink.max_kernel %d",
			s.Shrink.MinKernel, s.Shrink.MaxKernel)
	}
	if s.Margin < 0 {
		return fmt.Errorf("margin must not be negative, got %v", s.Margin)
	}
	return nil
}

// ParseStrategy maps the strategy name to a layout.Strategy.
func (s Settings) ParseStrategy() (layout.Strategy, error) {
	switch s.Strategy {
	case "", "graph":
		return layout.StrategyGraph, nil
	case "histogram":
		return layout.StrategyHistogram, nil
	default:
		return 0, fmt.Errorf("unknown strategy %q (expected graph or histogram)", s.Strategy)
	}
}

// ParseDirection maps the direction name to a layout.ReadingDirection.
func (s Settings) ParseDirection() (layout.ReadingDirection, error) {
	switch s.Direction {
	case "", "rtl":
		return layout.RightToLeft, nil
	case "ltr":
		return layout.LeftToRight, nil
	default:
		return 0, fmt.Errorf("unknown direction %q (expected rtl or ltr)", s.Direction)
	}
}
