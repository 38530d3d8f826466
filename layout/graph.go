package layout

import (
	"log/slog"
	"math"
	"sort"

	"github.com/Yasabs10/panelreader/model"
)

// GraphConfig holds configuration for the dependency-graph ordering
// strategy.
type GraphConfig struct {
	// Direction is the reading direction for same-row precedence.
	Direction ReadingDirection

	// RowThreshold is the vertical-overlap fraction for the same-row
	// test used during edge construction. It is looser than the merge
	// threshold so that side-by-side boxes are not given spurious
	// above/below edges.
	RowThreshold float64

	// FallbackRowHeight is the bucket height, in pixels, of the
	// spatial sort used when the graph contains a cycle.
	FallbackRowHeight float64

	// MaxBoxes bounds the O(n²) edge construction. Above this count
	// the orderer goes straight to the spatial fallback sort.
	MaxBoxes int
}

// DefaultGraphConfig returns sensible default configuration.
func DefaultGraphConfig() GraphConfig {
	return GraphConfig{
		Direction:         RightToLeft,
		RowThreshold:      RowThresholdGraph,
		FallbackRowHeight: 50,
		MaxBoxes:          256,
	}
}

// GraphOrderer resolves reading order by building a directed graph of
// "must precede" relations and topologically sorting it. Panel i
// precedes panel j when i is strictly above j and they are not
// row-mates, or when they are row-mates and i's centroid is on the
// leading side for the reading direction. Centroids, not edges, are
// compared so that overlapping or intersecting panels still order
// sensibly.
type GraphOrderer struct {
	config GraphConfig
}

// NewGraphOrderer creates a graph orderer with default configuration.
func NewGraphOrderer() *GraphOrderer {
	return &GraphOrderer{config: DefaultGraphConfig()}
}

// NewGraphOrdererWithConfig creates a graph orderer with custom
// configuration.
func NewGraphOrdererWithConfig(config GraphConfig) *GraphOrderer {
	return &GraphOrderer{config: config}
}

// Name returns the strategy identifier ("graph").
func (g *GraphOrderer) Name() string {
	return "graph"
}

// Order returns the input boxes in reading order.
func (g *GraphOrderer) Order(boxes []model.Box) []model.Box {
	order, _ := g.OrderIndices(boxes)
	out := make([]model.Box, 0, len(order))
	for _, i := range order {
		out = append(out, boxes[i])
	}
	return out
}

// OrderIndices returns the reading-order permutation of box indices
// together with the adjacency list of the precedence graph. The
// adjacency list is nil when the graph was not built (trivial input or
// defensive bound exceeded).
func (g *GraphOrderer) OrderIndices(boxes []model.Box) ([]int, map[int][]int) {
	n := len(boxes)
	if n <= 1 {
		order := make([]int, n)
		for i := range order {
			order[i] = i
		}
		return order, nil
	}
	if g.config.MaxBoxes > 0 && n > g.config.MaxBoxes {
		slog.Warn("graph ordering skipped: too many boxes", "count", n, "max", g.config.MaxBoxes)
		return g.spatialFallback(boxes), nil
	}

	adj := make(map[int][]int, n)
	inDegree := make([]int, n)
	for i := 0; i < n; i++ {
		adj[i] = nil
	}

	rtl := g.config.Direction == RightToLeft

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			if !SameRow(boxes[i], boxes[j], g.config.RowThreshold) {
				// Strictly above, and not row-mates.
				if boxes[i].Y2 < boxes[j].Y1 {
					adj[i] = append(adj[i], j)
					inDegree[j]++
				}
				continue
			}
			// Row-mates: the leading centroid reads first.
			ci, cj := boxes[i].CenterX(), boxes[j].CenterX()
			if (rtl && ci > cj) || (!rtl && ci < cj) {
				adj[i] = append(adj[i], j)
				inDegree[j]++
			}
		}
	}

	order := g.topologicalSort(boxes, adj, inDegree)
	if len(order) != n {
		// A cycle: centroid and above/below rules conflicted on a
		// geometrically ambiguous layout. Recoverable.
		slog.Warn("topological sort incomplete, using spatial fallback", "ordered", len(order), "total", n)
		return g.spatialFallback(boxes), adj
	}
	return order, adj
}

// topologicalSort runs Kahn's algorithm. Whenever more than one node
// is ready it deterministically reorders the queue: topmost first,
// and among ties in Y, the start-of-row side for the reading
// direction (rightmost for right-to-left).
func (g *GraphOrderer) topologicalSort(boxes []model.Box, adj map[int][]int, inDegree []int) []int {
	rtl := g.config.Direction == RightToLeft

	var queue []int
	for i := range inDegree {
		if inDegree[i] == 0 {
			queue = append(queue, i)
		}
	}

	var order []int
	for len(queue) > 0 {
		if len(queue) > 1 {
			sort.SliceStable(queue, func(a, b int) bool {
				bi, bj := boxes[queue[a]], boxes[queue[b]]
				if bi.Y1 != bj.Y1 {
					return bi.Y1 < bj.Y1
				}
				if rtl {
					return bi.X1 > bj.X1
				}
				return bi.X1 < bj.X1
			})
		}

		u := queue[0]
		queue = queue[1:]
		order = append(order, u)

		for _, v := range adj[u] {
			inDegree[v]--
			if inDegree[v] == 0 {
				queue = append(queue, v)
			}
		}
	}

	return order
}

// spatialFallback is the pure spatial sort used when the graph result
// is unusable: coarse row bucket by Y, then the reading-direction side
// first within the bucket.
func (g *GraphOrderer) spatialFallback(boxes []model.Box) []int {
	rtl := g.config.Direction == RightToLeft
	rowHeight := g.config.FallbackRowHeight
	if rowHeight <= 0 {
		rowHeight = 50
	}

	indices := make([]int, len(boxes))
	for i := range indices {
		indices[i] = i
	}
	sort.SliceStable(indices, func(a, b int) bool {
		bi, bj := boxes[indices[a]], boxes[indices[b]]
		ri := math.Floor(bi.Y1 / rowHeight)
		rj := math.Floor(bj.Y1 / rowHeight)
		if ri != rj {
			return ri < rj
		}
		if rtl {
			return bi.X1 > bj.X1
		}
		return bi.X1 < bj.X1
	})
	return indices
}
