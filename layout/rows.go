package layout

import (
	"math"

	"github.com/Yasabs10/panelreader/model"
)

// Row-classification thresholds. The graph builder is deliberately
// looser than the merger: merging must avoid joining unrelated panels,
// while edge construction must avoid missing a valid same-row edge for
// boxes that are really side by side.
const (
	// RowThresholdGraph is the overlap fraction used when deciding
	// whether two boxes are row-mates for graph edge eligibility.
	RowThresholdGraph = 0.3

	// RowThresholdMerge is the overlap fraction used for merge
	// decisions and for the histogram strategy's intra-row grouping.
	RowThresholdMerge = 0.5
)

// SameRow reports whether two boxes belong to the same horizontal
// reading row: their vertical extents must overlap by more than
// threshold times the shorter box's height.
func SameRow(a, b model.Box, threshold float64) bool {
	overlapY := a.YOverlap(b)
	minHeight := math.Min(a.Height(), b.Height())
	return overlapY > threshold*minHeight
}
