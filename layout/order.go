package layout

import "github.com/Yasabs10/panelreader/model"

// ReadingDirection indicates the primary reading direction of a page.
type ReadingDirection int

const (
	// RightToLeft is the manga convention: panels and rows are read
	// starting from the right. This is the default.
	RightToLeft ReadingDirection = iota
	// LeftToRight is the Western comic convention.
	LeftToRight
)

// String returns a string representation of the reading direction.
func (d ReadingDirection) String() string {
	if d == LeftToRight {
		return "ltr"
	}
	return "rtl"
}

// Strategy selects the reading-order resolution algorithm.
type Strategy int

const (
	// StrategyGraph uses the dependency-graph orderer.
	StrategyGraph Strategy = iota
	// StrategyHistogram uses the projection-histogram orderer.
	StrategyHistogram
)

// String returns a string representation of the strategy.
func (s Strategy) String() string {
	if s == StrategyHistogram {
		return "histogram"
	}
	return "graph"
}

// Orderer is the contract shared by both ordering strategies: boxes
// in, the same boxes in reading order out. Implementations never
// modify the input slice.
type Orderer interface {
	Name() string
	Order(boxes []model.Box) []model.Box
}

// NewOrderer returns the orderer for the given strategy and reading
// direction, with otherwise default configuration.
func NewOrderer(strategy Strategy, direction ReadingDirection) Orderer {
	switch strategy {
	case StrategyHistogram:
		config := DefaultHistogramConfig()
		config.Direction = direction
		return NewHistogramOrdererWithConfig(config)
	default:
		config := DefaultGraphConfig()
		config.Direction = direction
		return NewGraphOrdererWithConfig(config)
	}
}
