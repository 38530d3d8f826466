// Package refine tightens ordered panel boxes against the page's
// pixel content.
//
// Two passes run after ordering, both backed by OpenCV via gocv:
//
//   - [ShrinkWrapper] crops each panel, binarizes ink against a
//     near-white threshold, bridges fragmented linework with a
//     morphological closing, and tightens the box to the ink's
//     bounding rectangle. A fully blank panel is preserved unchanged.
//   - [GutterRefiner] binarizes the whole page, runs probabilistic
//     line detection for vertical and horizontal separators, and
//     snaps panel edges to just inside the nearest detected gutter.
//
// Both passes degrade gracefully: when detection finds nothing, or an
// internal failure occurs, the input boxes come back unchanged. The
// pipeline never crashes in this package.
package refine
