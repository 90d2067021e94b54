// Package geom provides the fixed-dimension (D=3) geometric primitives
// the join engine is built on: Vertex (a point / componentwise vector)
// and Box (an axis-aligned minimum bounding rectangle with an explicit
// empty state).
//
// All operations are pure functions over value types; nothing in this
// package allocates beyond its return value and nothing holds state.
//
// Conventions:
//
//   - A non-empty Box satisfies Lo[i] <= Hi[i] for every axis i.
//   - The overlap test treats intervals as closed on both ends; an
//     empty box overlaps nothing.
//   - CombineSafe is the union that tolerates empty operands: an empty
//     box absorbs into the other side without contributing extent.
//   - Expand grows every face outward by the given radius; the engine
//     calls it exactly once per entry at load time with radius ε/2 so
//     that the join predicate reduces to an inflated-MBR overlap test.
//
// Errors: the package defines no error values. Degenerate inputs
// (zero-extent boxes, coincident vertices) are legal and behave as the
// math dictates.
package geom
