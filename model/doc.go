// Package model defines the geometric value types shared by every stage
// of the panel pipeline.
//
// # Coordinate System
//
// All geometry lives in image-pixel space: the origin is the top-left
// corner of the page image and Y increases downward. A [Box] stores its
// two corners directly as (X1, Y1, X2, Y2) with X1 < X2 and Y1 < Y2 for
// any box that enters the ordering or refinement stages.
//
// # Value Semantics
//
// Boxes are plain values with no shared ownership. Every pipeline stage
// either works on its own copy or produces a new slice; nothing in this
// package mutates its receiver.
//
// # Output Artifact
//
// [ReadingOrder] is the single externally persisted artifact of the
// pipeline: a sequence of [Panel] entries carrying a 1-based index and
// an integer bounding box in final reading sequence.
package model
