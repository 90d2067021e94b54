package object

import (
	"math"

	"github.com/katalvlaran/epsjoin/geom"
)

// Point is a bare vertex. Its MBR is the degenerate box at the point.
type Point struct {
	Pos geom.Vertex
}

func (p *Point) Kind() Kind { return KindPoint }
func (p *Point) MBR() geom.Box { return geom.NewBox(p.Pos, p.Pos) }
func (p *Point) Center() geom.Vertex { return p.Pos }
func (p *Point) SortKey(axis int) float64 { return p.Pos[axis] }
func (p *Point) ByteSize() int { n, _ := SizeOf(KindPoint); return n }

func (p *Point) MarshalBinary() ([]byte, error) {
	c := coder{buf: make([]byte, p.ByteSize())}
	c.putVertex(p.Pos)
	return c.buf, nil
}

func (p *Point) UnmarshalBinary(data []byte) error {
	if err := checkSize(KindPoint, data); err != nil {
		return err
	}
	c := coder{buf: data}
	p.Pos = c.vertex()
	return nil
}

func (p *Point) PointDistance(q geom.Vertex) float64 { return geom.Distance(p.Pos, q) }

// Box is an axis-aligned box object wrapping the geometric primitive.
type Box struct {
	B geom.Box
}

func (b *Box) Kind() Kind { return KindBox }
func (b *Box) MBR() geom.Box { return b.B }
func (b *Box) Center() geom.Vertex { return b.B.Center() }
func (b *Box) SortKey(axis int) float64 { return b.B.Center()[axis] }
func (b *Box) ByteSize() int { n, _ := SizeOf(KindBox); return n }

func (b *Box) MarshalBinary() ([]byte, error) {
	c := coder{buf: make([]byte, b.ByteSize())}
	c.putVertex(b.B.Lo)
	c.putVertex(b.B.Hi)
	return c.buf, nil
}

func (b *Box) UnmarshalBinary(data []byte) error {
	if err := checkSize(KindBox, data); err != nil {
		return err
	}
	c := coder{buf: data}
	b.B = geom.NewBox(c.vertex(), c.vertex())
	return nil
}

func (b *Box) PointDistance(p geom.Vertex) float64 { return b.B.PointDistance(p) }

// Sphere is a center plus radius.
type Sphere struct {
	Pos    geom.Vertex
	Radius float64
}

func (s *Sphere) Kind() Kind { return KindSphere }
func (s *Sphere) Center() geom.Vertex { return s.Pos }
func (s *Sphere) SortKey(axis int) float64 { return s.Pos[axis] }
func (s *Sphere) ByteSize() int { n, _ := SizeOf(KindSphere); return n }

func (s *Sphere) MBR() geom.Box {
	r := geom.V(s.Radius, s.Radius, s.Radius)
	return geom.CoveringBox(s.Pos, r)
}

func (s *Sphere) MarshalBinary() ([]byte, error) {
	c := coder{buf: make([]byte, s.ByteSize())}
	c.putVertex(s.Pos)
	c.putF64(s.Radius)
	return c.buf, nil
}

func (s *Sphere) UnmarshalBinary(data []byte) error {
	if err := checkSize(KindSphere, data); err != nil {
		return err
	}
	c := coder{buf: data}
	s.Pos = c.vertex()
	s.Radius = c.f64()
	return nil
}

func (s *Sphere) PointDistance(p geom.Vertex) float64 {
	return math.Max(0, geom.Distance(s.Pos, p)-s.Radius)
}

// Volume returns the volume of the sphere.
func (s *Sphere) Volume() float64 {
	return 4.0 / 3.0 * math.Pi * s.Radius * s.Radius * s.Radius
}

// Triangle is a plain triangle given by its three vertices.
type Triangle struct {
	V1, V2, V3 geom.Vertex
}

func (t *Triangle) Kind() Kind { return KindTriangle }

func (t *Triangle) MBR() geom.Box {
	return geom.BoundingBoxOf(t.V1, t.V2, t.V3)
}

func (t *Triangle) Center() geom.Vertex {
	return t.V1.Add(t.V2).Add(t.V3).Scale(1.0 / 3.0)
}

func (t *Triangle) SortKey(axis int) float64 { return t.Center()[axis] }
func (t *Triangle) ByteSize() int { n, _ := SizeOf(KindTriangle); return n }

func (t *Triangle) MarshalBinary() ([]byte, error) {
	c := coder{buf: make([]byte, t.ByteSize())}
	c.putVertex(t.V1)
	c.putVertex(t.V2)
	c.putVertex(t.V3)
	return c.buf, nil
}

func (t *Triangle) UnmarshalBinary(data []byte) error {
	if err := checkSize(KindTriangle, data); err != nil {
		return err
	}
	c := coder{buf: data}
	t.V1, t.V2, t.V3 = c.vertex(), c.vertex(), c.vertex()
	return nil
}

// PointDistance approximates the distance from p by the distance to the
// triangle's bounding box, a lower bound of the exact distance.
func (t *Triangle) PointDistance(p geom.Vertex) float64 {
	return t.MBR().PointDistance(p)
}
