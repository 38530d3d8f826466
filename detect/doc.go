// Package detect treats the panel object detector as a black box.
//
// The pipeline itself never runs model inference; it only consumes a
// collection of raw axis-aligned boxes in image-pixel coordinates.
// [Source] abstracts where those boxes come from:
//
//   - [FileSource] reads a JSON file the detector has already written.
//   - [CommandSource] spawns an external detector process per page and
//     parses its stdout. The caller's context carries any wall-clock
//     deadline; a deadline breach aborts the process and surfaces as a
//     hard error, never as a partial result.
//
// Both sources reject degenerate boxes (zero or negative extent)
// rather than letting them reach the ordering stages.
package detect
