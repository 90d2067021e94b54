package geom

import (
	"fmt"
	"math"
	"math/rand"
)

// Box is an axis-aligned box described by its low and high corners.
// The empty box (see EmptyBox) overlaps nothing and is absorbed by
// CombineSafe without contributing extent. The zero value is not empty:
// it is the degenerate box at the origin.
type Box struct {
	Lo, Hi Vertex
	Empty  bool
}

// EmptyBox returns the canonical empty box.
func EmptyBox() Box { return Box{Empty: true} }

// NewBox returns the non-empty box spanning lo..hi. The caller is
// responsible for lo[i] <= hi[i] on every axis.
func NewBox(lo, hi Vertex) Box { return Box{Lo: lo, Hi: hi} }

// String renders the box corners; handy in test failures.
func (b Box) String() string {
	if b.Empty {
		return "box(empty)"
	}
	return fmt.Sprintf("box(%v..%v)", b.Lo, b.Hi)
}

// Overlap reports whether a and b intersect. Intervals are closed on
// both ends, so boxes sharing only a face or corner still overlap.
// Empty boxes overlap nothing.
func Overlap(a, b Box) bool {
	if a.Empty || b.Empty {
		return false
	}
	for i := 0; i < Dims; i++ {
		if a.Hi[i] < b.Lo[i] || b.Hi[i] < a.Lo[i] {
			return false
		}
	}
	return true
}

// EnclosesPoint reports whether p lies inside b, closed on every face.
func (b Box) EnclosesPoint(p Vertex) bool {
	if b.Empty {
		return false
	}
	for i := 0; i < Dims; i++ {
		if b.Lo[i] > p[i] || b.Hi[i] < p[i] {
			return false
		}
	}
	return true
}

// EnclosesPointHalfOpen reports whether p lies inside b with the upper
// faces excluded (Lo ≤ p < Hi). Points shared by adjacent boxes along
// a face belong to exactly one of them under this test.
func (b Box) EnclosesPointHalfOpen(p Vertex) bool {
	if b.Empty {
		return false
	}
	for i := 0; i < Dims; i++ {
		if b.Lo[i] > p[i] || b.Hi[i] <= p[i] {
			return false
		}
	}
	return true
}

// Encloses reports whether b fully contains inner.
func (b Box) Encloses(inner Box) bool {
	return b.EnclosesPoint(inner.Lo) && b.EnclosesPoint(inner.Hi)
}

// Combine returns the tightest box containing both a and b. Both
// operands must be non-empty; use CombineSafe otherwise.
func Combine(a, b Box) Box {
	return Box{Lo: a.Lo.Min(b.Lo), Hi: a.Hi.Max(b.Hi)}
}

// CombineSafe is the union that tolerates empty operands: an empty box
// absorbs into the other side. Two empty boxes combine to empty.
func CombineSafe(a, b Box) Box {
	switch {
	case a.Empty:
		return b
	case b.Empty:
		return a
	default:
		return Combine(a, b)
	}
}

// Volume returns the product of the box extents, 0 for an empty box.
func (b Box) Volume() float64 {
	if b.Empty {
		return 0
	}
	v := 1.0
	for i := 0; i < Dims; i++ {
		v *= b.Hi[i] - b.Lo[i]
	}
	return v
}

// Length returns the extent of the box along the given axis.
func (b Box) Length(axis int) float64 {
	if b.Empty {
		return 0
	}
	return b.Hi[axis] - b.Lo[axis]
}

// Center returns the midpoint of the box.
func (b Box) Center() Vertex { return Midpoint(b.Lo, b.Hi) }

// Expand grows every face of the box outward by radius and returns the
// result. Expanding an empty box is a no-op.
func (b Box) Expand(radius float64) Box {
	if b.Empty {
		return b
	}
	r := Vertex{radius, radius, radius}
	return Box{Lo: b.Lo.Sub(r), Hi: b.Hi.Add(r)}
}

// Corners returns the eight corner vertices of the box.
func (b Box) Corners() [8]Vertex {
	var cs [8]Vertex
	for n := 0; n < 8; n++ {
		for i := 0; i < Dims; i++ {
			if n&(1<<i) != 0 {
				cs[n][i] = b.Hi[i]
			} else {
				cs[n][i] = b.Lo[i]
			}
		}
	}
	return cs
}

// PointDistance returns the Euclidean distance from p to the closest
// point of the box, 0 when p lies inside. Infinite for an empty box.
func (b Box) PointDistance(p Vertex) float64 {
	if b.Empty {
		return math.Inf(1)
	}
	var sq float64
	for i := 0; i < Dims; i++ {
		switch {
		case p[i] < b.Lo[i]:
			d := b.Lo[i] - p[i]
			sq += d * d
		case p[i] > b.Hi[i]:
			d := p[i] - b.Hi[i]
			sq += d * d
		}
	}
	return math.Sqrt(sq)
}

// CoveringBox returns the box centered on center whose half-extent
// along each axis is the corresponding component of radial.
func CoveringBox(center, radial Vertex) Box {
	return Box{Lo: center.Sub(radial), Hi: center.Add(radial)}
}

// BoundingBoxOf returns the bounding box of a set of vertices.
// An empty input yields the empty box.
func BoundingBoxOf(vs ...Vertex) Box {
	if len(vs) == 0 {
		return EmptyBox()
	}
	bb := Box{Lo: vs[0], Hi: vs[0]}
	for _, v := range vs[1:] {
		bb.Lo = bb.Lo.Min(v)
		bb.Hi = bb.Hi.Max(v)
	}
	return bb
}

// RandomBox returns a box with uniformly random center inside world and
// the given extent per axis, used by the dataset generator.
func RandomBox(rng *rand.Rand, world Box, extent float64) Box {
	c := RandomPoint(rng, world)
	half := Vertex{extent / 2, extent / 2, extent / 2}
	return CoveringBox(c, half)
}
