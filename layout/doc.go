// Package layout determines the reading order of comic and manga
// panels from raw detector bounding boxes.
//
// # Pipeline Position
//
// The package covers the purely geometric stages of the pipeline:
// deduplicating and merging overlapping detections ([Merger]) and
// resolving a total reading order over the merged boxes. Pixel-level
// refinement lives in the refine package.
//
// # Ordering Strategies
//
// Two interchangeable strategies implement the same contract
// (boxes in, ordered boxes out), selected via [Strategy]:
//
//   - [GraphOrderer] builds a directed "must precede" graph and runs a
//     deterministic topological sort. It solves row membership as a
//     global constraint set and survives overlapping panels, at the
//     cost of needing cycle handling.
//   - [HistogramOrderer] detects rows with a vertical projection
//     histogram and sorts within each row. It is simpler but makes one
//     irrevocable row decision per box.
//
// Both strategies support right-to-left (manga) and left-to-right
// reading directions. Right-to-left is the default.
//
// # Row Classification
//
// [SameRow] is the shared predicate deciding whether two boxes belong
// to the same horizontal reading row. Two thresholds are used
// contextually: a loose 0.3 when deciding graph edge eligibility and a
// conservative 0.5 for merge decisions and intra-row grouping. The
// predicate is pairwise, not transitive; a box may be same-row with
// two boxes that are not mutually same-row, and callers must preserve
// that asymmetry.
package layout
