package object

import (
	"math"

	"github.com/katalvlaran/epsjoin/geom"
)

// coneMBR is the tight bounding box of a truncated cone: project the
// begin/end radii onto each axis perpendicular to the cone axis, build
// the covering boxes around both endpoints and combine them. A
// zero-length axis degenerates to the combined endpoint boxes with no
// radial extent, matching the source geometry.
func coneMBR(begin, end geom.Vertex, r1, r2 float64) geom.Box {
	dist := geom.Distance(begin, end)
	diff := begin.Sub(end)
	var projBegin, projEnd geom.Vertex
	if dist > 0 {
		for i := 0; i < geom.Dims; i++ {
			// sin(acos(d/len)) = sqrt(1-(d/len)^2), clamped for rounding.
			s := math.Sqrt(math.Max(0, 1-(diff[i]/dist)*(diff[i]/dist)))
			projBegin[i] = s * r1
			projEnd[i] = s * r2
		}
	}
	return geom.Combine(geom.CoveringBox(begin, projBegin), geom.CoveringBox(end, projEnd))
}

// axisDistance returns the distance from p to the segment begin..end.
func axisDistance(p, begin, end geom.Vertex) float64 {
	axis := end.Sub(begin)
	lenSq := axis.Dot(axis)
	if lenSq == 0 {
		return geom.Distance(p, begin)
	}
	t := math.Max(0, math.Min(1, p.Sub(begin).Dot(axis)/lenSq))
	closest := begin.Add(axis.Scale(t))
	return geom.Distance(p, closest)
}

// Cone is a truncated cone between two endpoints with begin/end radii.
type Cone struct {
	Begin, End             geom.Vertex
	RadiusBegin, RadiusEnd float64
}

func (c *Cone) Kind() Kind { return KindCone }
func (c *Cone) MBR() geom.Box { return coneMBR(c.Begin, c.End, c.RadiusBegin, c.RadiusEnd) }
func (c *Cone) Center() geom.Vertex { return geom.Midpoint(c.Begin, c.End) }
func (c *Cone) SortKey(axis int) float64 { return c.Center()[axis] }
func (c *Cone) ByteSize() int { n, _ := SizeOf(KindCone); return n }

// Length returns the axis length of the cone.
func (c *Cone) Length() float64 { return geom.Distance(c.Begin, c.End) }

// Volume returns the volume of the truncated cone.
func (c *Cone) Volume() float64 {
	return math.Pi / 3 * c.Length() *
		(c.RadiusBegin*c.RadiusBegin + c.RadiusBegin*c.RadiusEnd + c.RadiusEnd*c.RadiusEnd)
}

func (c *Cone) MarshalBinary() ([]byte, error) {
	w := coder{buf: make([]byte, c.ByteSize())}
	w.putVertex(c.Begin)
	w.putVertex(c.End)
	w.putF64(c.RadiusBegin)
	w.putF64(c.RadiusEnd)
	return w.buf, nil
}

func (c *Cone) UnmarshalBinary(data []byte) error {
	if err := checkSize(KindCone, data); err != nil {
		return err
	}
	r := coder{buf: data}
	c.Begin, c.End = r.vertex(), r.vertex()
	c.RadiusBegin, c.RadiusEnd = r.f64(), r.f64()
	return nil
}

func (c *Cone) PointDistance(p geom.Vertex) float64 {
	r := math.Max(c.RadiusBegin, c.RadiusEnd)
	return math.Max(0, axisDistance(p, c.Begin, c.End)-r)
}

// Segment is the neuron model atom: a truncated cone carrying the
// neuron, section and segment identifiers of its morphology.
type Segment struct {
	Begin, End             geom.Vertex
	RadiusBegin, RadiusEnd float64
	NeuronID               uint32
	SectionID              uint32
	SegmentID              uint32
}

func (s *Segment) Kind() Kind { return KindSegment }
func (s *Segment) MBR() geom.Box { return coneMBR(s.Begin, s.End, s.RadiusBegin, s.RadiusEnd) }
func (s *Segment) Center() geom.Vertex { return geom.Midpoint(s.Begin, s.End) }
func (s *Segment) SortKey(axis int) float64 { return (s.Begin[axis] + s.End[axis]) / 2 }
func (s *Segment) ByteSize() int { n, _ := SizeOf(KindSegment); return n }

// Length returns the axis length of the segment.
func (s *Segment) Length() float64 { return geom.Distance(s.Begin, s.End) }

// Volume returns the truncated-cone volume of the segment.
func (s *Segment) Volume() float64 {
	return math.Pi / 3 * s.Length() *
		(s.RadiusBegin*s.RadiusBegin + s.RadiusBegin*s.RadiusEnd + s.RadiusEnd*s.RadiusEnd)
}

func (s *Segment) MarshalBinary() ([]byte, error) {
	w := coder{buf: make([]byte, s.ByteSize())}
	w.putVertex(s.Begin)
	w.putVertex(s.End)
	w.putF64(s.RadiusBegin)
	w.putF64(s.RadiusEnd)
	w.putU32(s.NeuronID)
	w.putU32(s.SectionID)
	w.putU32(s.SegmentID)
	return w.buf, nil
}

func (s *Segment) UnmarshalBinary(data []byte) error {
	if err := checkSize(KindSegment, data); err != nil {
		return err
	}
	r := coder{buf: data}
	s.Begin, s.End = r.vertex(), r.vertex()
	s.RadiusBegin, s.RadiusEnd = r.f64(), r.f64()
	s.NeuronID, s.SectionID, s.SegmentID = r.u32(), r.u32(), r.u32()
	return nil
}

func (s *Segment) PointDistance(p geom.Vertex) float64 {
	r := math.Max(s.RadiusBegin, s.RadiusEnd)
	return math.Max(0, axisDistance(p, s.Begin, s.End)-r)
}

// MeshTriangle is one triangle of a neuron surface mesh.
type MeshTriangle struct {
	V1, V2, V3 geom.Vertex
	NeuronID   uint32
	I1, I2, I3 uint32 // mesh vertex indices
}

func (m *MeshTriangle) Kind() Kind { return KindMeshTriangle }
func (m *MeshTriangle) MBR() geom.Box {
	return geom.BoundingBoxOf(m.V1, m.V2, m.V3)
}

func (m *MeshTriangle) Center() geom.Vertex {
	return m.V1.Add(m.V2).Add(m.V3).Scale(1.0 / 3.0)
}

func (m *MeshTriangle) SortKey(axis int) float64 { return m.Center()[axis] }
func (m *MeshTriangle) ByteSize() int { n, _ := SizeOf(KindMeshTriangle); return n }

func (m *MeshTriangle) MarshalBinary() ([]byte, error) {
	w := coder{buf: make([]byte, m.ByteSize())}
	w.putVertex(m.V1)
	w.putVertex(m.V2)
	w.putVertex(m.V3)
	w.putU32(m.NeuronID)
	w.putU32(m.I1)
	w.putU32(m.I2)
	w.putU32(m.I3)
	return w.buf, nil
}

func (m *MeshTriangle) UnmarshalBinary(data []byte) error {
	if err := checkSize(KindMeshTriangle, data); err != nil {
		return err
	}
	r := coder{buf: data}
	m.V1, m.V2, m.V3 = r.vertex(), r.vertex(), r.vertex()
	m.NeuronID, m.I1, m.I2, m.I3 = r.u32(), r.u32(), r.u32(), r.u32()
	return nil
}

func (m *MeshTriangle) PointDistance(p geom.Vertex) float64 {
	return m.MBR().PointDistance(p)
}

// Soma is a neuron soma: a sphere tagged with its neuron id.
type Soma struct {
	Pos      geom.Vertex
	Radius   float64
	NeuronID uint32
}

func (s *Soma) Kind() Kind { return KindSoma }
func (s *Soma) Center() geom.Vertex { return s.Pos }
func (s *Soma) SortKey(axis int) float64 { return s.Pos[axis] }
func (s *Soma) ByteSize() int { n, _ := SizeOf(KindSoma); return n }

func (s *Soma) MBR() geom.Box {
	r := geom.V(s.Radius, s.Radius, s.Radius)
	return geom.CoveringBox(s.Pos, r)
}

// Collides reports whether two somata intersect.
func (s *Soma) Collides(o *Soma) bool {
	return geom.Distance(s.Pos, o.Pos) < s.Radius+o.Radius
}

func (s *Soma) MarshalBinary() ([]byte, error) {
	w := coder{buf: make([]byte, s.ByteSize())}
	w.putVertex(s.Pos)
	w.putF64(s.Radius)
	w.putU32(s.NeuronID)
	return w.buf, nil
}

func (s *Soma) UnmarshalBinary(data []byte) error {
	if err := checkSize(KindSoma, data); err != nil {
		return err
	}
	r := coder{buf: data}
	s.Pos = r.vertex()
	s.Radius = r.f64()
	s.NeuronID = r.u32()
	return nil
}

func (s *Soma) PointDistance(p geom.Vertex) float64 {
	return math.Max(0, geom.Distance(s.Pos, p)-s.Radius)
}

// Synapse joins a pre- and a post-synaptic position.
type Synapse struct {
	Pre, Post   geom.Vertex
	SpineLength float64
	GlobalID    uint32
	CounterID   uint32
	PreID       uint32
	PostID      uint32
}

func (s *Synapse) Kind() Kind { return KindSynapse }

func (s *Synapse) MBR() geom.Box {
	return geom.BoundingBoxOf(s.Pre, s.Post)
}

func (s *Synapse) Center() geom.Vertex { return geom.Midpoint(s.Pre, s.Post) }
func (s *Synapse) SortKey(axis int) float64 { return s.Center()[axis] }
func (s *Synapse) ByteSize() int { n, _ := SizeOf(KindSynapse); return n }

func (s *Synapse) MarshalBinary() ([]byte, error) {
	w := coder{buf: make([]byte, s.ByteSize())}
	w.putVertex(s.Pre)
	w.putVertex(s.Post)
	w.putF64(s.SpineLength)
	w.putU32(s.GlobalID)
	w.putU32(s.CounterID)
	w.putU32(s.PreID)
	w.putU32(s.PostID)
	return w.buf, nil
}

func (s *Synapse) UnmarshalBinary(data []byte) error {
	if err := checkSize(KindSynapse, data); err != nil {
		return err
	}
	r := coder{buf: data}
	s.Pre, s.Post = r.vertex(), r.vertex()
	s.SpineLength = r.f64()
	s.GlobalID, s.CounterID, s.PreID, s.PostID = r.u32(), r.u32(), r.u32(), r.u32()
	return nil
}

func (s *Synapse) PointDistance(p geom.Vertex) float64 {
	return axisDistance(p, s.Pre, s.Post)
}
