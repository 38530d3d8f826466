package layout

import (
	"sort"

	"github.com/Yasabs10/panelreader/model"
)

// HistogramConfig holds configuration for the projection-histogram
// ordering strategy.
type HistogramConfig struct {
	// Direction is the reading direction for intra-row sorting.
	Direction ReadingDirection

	// Bins is the resolution of the vertical occupancy histogram.
	Bins int

	// GapFraction is the fraction of the histogram maximum below
	// which a strict local minimum qualifies as a row gap.
	GapFraction float64

	// RowAdvance is the fraction of the previous box's bottom edge
	// that the next box's top edge must pass to start a new row when
	// no detected gap applies.
	RowAdvance float64
}

// DefaultHistogramConfig returns sensible default configuration.
func DefaultHistogramConfig() HistogramConfig {
	return HistogramConfig{
		Direction:   RightToLeft,
		Bins:        100,
		GapFraction: 0.3,
		RowAdvance:  0.95,
	}
}

// HistogramOrderer resolves reading order by projecting box occupancy
// onto the vertical axis, cutting rows at histogram gaps, and sorting
// each row along the reading direction. It needs no cycle handling but
// makes one irrevocable row decision per box, so it is less tolerant
// of boxes whose row membership is ambiguous.
type HistogramOrderer struct {
	config HistogramConfig
}

// NewHistogramOrderer creates a histogram orderer with default
// configuration.
func NewHistogramOrderer() *HistogramOrderer {
	return &HistogramOrderer{config: DefaultHistogramConfig()}
}

// NewHistogramOrdererWithConfig creates a histogram orderer with
// custom configuration.
func NewHistogramOrdererWithConfig(config HistogramConfig) *HistogramOrderer {
	return &HistogramOrderer{config: config}
}

// Name returns the strategy identifier ("histogram").
func (h *HistogramOrderer) Name() string {
	return "histogram"
}

// Order returns the input boxes in reading order.
func (h *HistogramOrderer) Order(boxes []model.Box) []model.Box {
	if len(boxes) <= 1 {
		return boxes
	}

	gaps := h.detectGaps(boxes)
	rows := h.assignRows(boxes, gaps)

	rtl := h.config.Direction == RightToLeft
	var out []model.Box
	for _, row := range rows {
		sort.SliceStable(row, func(i, j int) bool {
			if rtl {
				return row[i].X1 > row[j].X1
			}
			return row[i].X1 < row[j].X1
		})
		out = append(out, row...)
	}
	return out
}

// detectGaps builds the vertical occupancy histogram over the union of
// all boxes' Y extents and returns the image Y coordinates of
// qualifying gaps: strict local minima whose value is below
// GapFraction of the histogram maximum.
func (h *HistogramOrderer) detectGaps(boxes []model.Box) []float64 {
	bins := h.config.Bins
	if bins < 3 {
		bins = 100
	}

	minY, maxY := boxes[0].Y1, boxes[0].Y2
	for _, b := range boxes[1:] {
		if b.Y1 < minY {
			minY = b.Y1
		}
		if b.Y2 > maxY {
			maxY = b.Y2
		}
	}
	span := maxY - minY
	if span <= 0 {
		return nil
	}

	hist := make([]int, bins)
	scale := float64(bins) / span
	for _, b := range boxes {
		lo := int((b.Y1 - minY) * scale)
		hi := int((b.Y2 - minY) * scale)
		if lo < 0 {
			lo = 0
		}
		if hi >= bins {
			hi = bins - 1
		}
		for i := lo; i <= hi; i++ {
			hist[i]++
		}
	}

	maxCount := 0
	for _, c := range hist {
		if c > maxCount {
			maxCount = c
		}
	}
	if maxCount == 0 {
		return nil
	}
	cutoff := h.config.GapFraction * float64(maxCount)

	var gaps []float64
	for i := 1; i < bins-1; i++ {
		if hist[i] < hist[i-1] && hist[i] < hist[i+1] && float64(hist[i]) < cutoff {
			gaps = append(gaps, minY+(float64(i)+0.5)/scale)
		}
	}
	return gaps
}

// assignRows walks the boxes sorted by top edge, starting a new row
// whenever the current box's vertical center lies past a detected gap
// that the previous row's bottom edge has already cleared, or, when no
// gap applies, whenever the box's top edge passes RowAdvance times the
// previous box's bottom edge.
func (h *HistogramOrderer) assignRows(boxes []model.Box, gaps []float64) [][]model.Box {
	sorted := make([]model.Box, len(boxes))
	copy(sorted, boxes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Y1 < sorted[j].Y1
	})

	var rows [][]model.Box
	current := []model.Box{sorted[0]}
	rowBottom := sorted[0].Y2

	for _, b := range sorted[1:] {
		if h.startsNewRow(b, current[len(current)-1], rowBottom, gaps) {
			rows = append(rows, current)
			current = []model.Box{b}
			rowBottom = b.Y2
		} else {
			current = append(current, b)
			if b.Y2 > rowBottom {
				rowBottom = b.Y2
			}
		}
	}
	rows = append(rows, current)
	return rows
}

// startsNewRow applies the gap rule first and the proportional
// fallback rule only when no gap lies between the current row's
// bottom and the box's vertical center.
func (h *HistogramOrderer) startsNewRow(b, prev model.Box, rowBottom float64, gaps []float64) bool {
	center := b.CenterY()
	for _, g := range gaps {
		if g >= rowBottom && center > g {
			return true
		}
	}
	return b.Y1 > prev.Y2*h.config.RowAdvance
}
