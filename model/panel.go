package model

import "math"

// Panel is a single entry in the final reading order: a 1-based index
// and the refined bounding box, rounded to integer pixel coordinates.
type Panel struct {
	Index int    `json:"index"`
	BBox  [4]int `json:"bbox"`
}

// ReadingOrder is the output artifact of the pipeline. Index position
// in Panels matches reading sequence; an empty Panels list is a valid,
// explicit result distinct from a processing failure.
type ReadingOrder struct {
	Panels []Panel `json:"reading_order"`
}

// NewReadingOrder builds the output artifact from boxes already in
// reading sequence. Coordinates are rounded to integers and indices
// are assigned starting at 1.
func NewReadingOrder(boxes []Box) *ReadingOrder {
	result := &ReadingOrder{Panels: []Panel{}}
	for i, b := range boxes {
		result.Panels = append(result.Panels, Panel{
			Index: i + 1,
			BBox: [4]int{
				int(math.Round(b.X1)),
				int(math.Round(b.Y1)),
				int(math.Round(b.X2)),
				int(math.Round(b.Y2)),
			},
		})
	}
	return result
}

// Boxes converts the panels back to float boxes, in reading sequence.
func (r *ReadingOrder) Boxes() []Box {
	if r == nil {
		return nil
	}
	boxes := make([]Box, 0, len(r.Panels))
	for _, p := range r.Panels {
		boxes = append(boxes, NewBox(
			float64(p.BBox[0]),
			float64(p.BBox[1]),
			float64(p.BBox[2]),
			float64(p.BBox[3]),
		))
	}
	return boxes
}

// PanelCount returns the number of panels in the reading order.
func (r *ReadingOrder) PanelCount() int {
	if r == nil {
		return 0
	}
	return len(r.Panels)
}
