package geom

import (
	"math"
	"math/rand"
)

// Dims is the fixed dimensionality of the engine. Every Vertex, Box and
// grid in the module is three-dimensional.
const Dims = 3

// Vertex is a point in 3-space, doubling as a componentwise vector.
type Vertex [Dims]float64

// V is a convenience constructor for a 3D vertex.
func V(x, y, z float64) Vertex { return Vertex{x, y, z} }

// Add returns the componentwise sum v + w.
func (v Vertex) Add(w Vertex) Vertex {
	return Vertex{v[0] + w[0], v[1] + w[1], v[2] + w[2]}
}

// Sub returns the componentwise difference v - w.
func (v Vertex) Sub(w Vertex) Vertex {
	return Vertex{v[0] - w[0], v[1] - w[1], v[2] - w[2]}
}

// Scale returns v with every component multiplied by s.
func (v Vertex) Scale(s float64) Vertex {
	return Vertex{v[0] * s, v[1] * s, v[2] * s}
}

// Dot returns the dot product of v and w.
func (v Vertex) Dot(w Vertex) float64 {
	return v[0]*w[0] + v[1]*w[1] + v[2]*w[2]
}

// SquaredDistance returns the squared Euclidean distance between v and w.
// Cheaper than Distance when only comparisons are needed.
func SquaredDistance(v, w Vertex) float64 {
	d := v.Sub(w)
	return d.Dot(d)
}

// Distance returns the Euclidean distance between v and w.
func Distance(v, w Vertex) float64 {
	return math.Sqrt(SquaredDistance(v, w))
}

// Midpoint returns the point halfway between v and w.
func Midpoint(v, w Vertex) Vertex {
	return Vertex{(v[0] + w[0]) / 2, (v[1] + w[1]) / 2, (v[2] + w[2]) / 2}
}

// Min returns the componentwise minimum of v and w.
func (v Vertex) Min(w Vertex) Vertex {
	return Vertex{math.Min(v[0], w[0]), math.Min(v[1], w[1]), math.Min(v[2], w[2])}
}

// Max returns the componentwise maximum of v and w.
func (v Vertex) Max(w Vertex) Vertex {
	return Vertex{math.Max(v[0], w[0]), math.Max(v[1], w[1]), math.Max(v[2], w[2])}
}

// RandomPoint returns a uniformly distributed point inside world,
// drawn from rng. The world box must be non-empty.
func RandomPoint(rng *rand.Rand, world Box) Vertex {
	var p Vertex
	for i := 0; i < Dims; i++ {
		p[i] = world.Lo[i] + rng.Float64()*(world.Hi[i]-world.Lo[i])
	}
	return p
}
