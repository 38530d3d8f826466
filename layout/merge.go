package layout

import (
	"log/slog"

	"github.com/Yasabs10/panelreader/model"
)

// MergeConfig holds configuration for the box merger.
type MergeConfig struct {
	// OverlapThreshold is the minimum overlap ratio (intersection area
	// over the smaller box's area) at which two same-row boxes merge.
	OverlapThreshold float64

	// ContainmentThreshold is the intersection fraction of either
	// box's area at which the pair merges unconditionally, regardless
	// of row membership. This absorbs a small fully nested duplicate
	// detection.
	ContainmentThreshold float64

	// RowThreshold is the vertical-overlap fraction for the same-row
	// test used by merge decisions.
	RowThreshold float64

	// MaxBoxes bounds the O(n²) scan. Above this count the merger
	// degrades to its identity fallback and returns the input
	// unchanged.
	MaxBoxes int
}

// DefaultMergeConfig returns sensible default configuration.
func DefaultMergeConfig() MergeConfig {
	return MergeConfig{
		OverlapThreshold:     0.3,
		ContainmentThreshold: 0.9,
		RowThreshold:         RowThresholdMerge,
		MaxBoxes:             256,
	}
}

// Merger collapses duplicate, overlapping, and contained raw detector
// boxes into one box per true panel. Merging is idempotent, never
// increases the box count, never splits a box, and never shrinks the
// total covered area of the input set.
type Merger struct {
	config MergeConfig
}

// NewMerger creates a merger with default configuration.
func NewMerger() *Merger {
	return &Merger{config: DefaultMergeConfig()}
}

// NewMergerWithConfig creates a merger with custom configuration.
func NewMergerWithConfig(config MergeConfig) *Merger {
	return &Merger{config: config}
}

// Merge repeatedly scans all unordered pairs and replaces any
// qualifying pair with its axis-aligned union, restarting the scan
// after every merge. The set shrinks monotonically, so termination is
// guaranteed. The input slice is never modified.
func (m *Merger) Merge(boxes []model.Box) []model.Box {
	if len(boxes) <= 1 {
		return boxes
	}
	if m.config.MaxBoxes > 0 && len(boxes) > m.config.MaxBoxes {
		slog.Warn("merge skipped: too many boxes", "count", len(boxes), "max", m.config.MaxBoxes)
		return boxes
	}

	out := make([]model.Box, len(boxes))
	copy(out, boxes)

	merged := true
	for merged {
		merged = false
		for i := 0; i < len(out) && !merged; i++ {
			for j := i + 1; j < len(out); j++ {
				if m.shouldMerge(out[i], out[j]) {
					out[i] = out[i].Union(out[j])
					out = append(out[:j], out[j+1:]...)
					merged = true
					break
				}
			}
		}
	}

	return out
}

// shouldMerge applies the pairwise merge rules: containment first,
// then the same-row overlap-ratio test.
func (m *Merger) shouldMerge(a, b model.Box) bool {
	if a.ContainmentRatio(b) >= m.config.ContainmentThreshold {
		return true
	}
	if !SameRow(a, b, m.config.RowThreshold) {
		return false
	}
	return a.OverlapRatio(b) > m.config.OverlapThreshold
}
