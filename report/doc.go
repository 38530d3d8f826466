// Package report persists and recovers reading-order results.
//
// The canonical artifact is a JSON document with a single
// "reading_order" list of {index, bbox} entries, one per panel in
// final reading sequence. [WriteJSON] emits it; downstream tooling
// consumes it.
//
// For human inspection, [WriteHTML] renders an overlay page that
// draws each numbered panel box over the page image. The overlay
// carries its geometry in data attributes, so [ImportHTML] can parse
// a previously generated report back into a reading order — useful
// when merging per-page reports into a volume-level summary.
package report
