// Package object_test verifies the tagged-sum factory, the fixed record
// sizes, serialization round trips and the variant geometry.
package object_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/epsjoin/geom"
	"github.com/katalvlaran/epsjoin/object"
)

// samples returns one populated instance of every variant.
func samples() []object.Object {
	return []object.Object{
		&object.Point{Pos: geom.V(1, 2, 3)},
		&object.Box{B: geom.NewBox(geom.V(0, 0, 0), geom.V(1, 2, 3))},
		&object.Cone{Begin: geom.V(0, 0, 0), End: geom.V(1, 0, 0), RadiusBegin: 0.1, RadiusEnd: 0.2},
		&object.Triangle{V1: geom.V(0, 0, 0), V2: geom.V(1, 0, 0), V3: geom.V(0, 1, 0)},
		&object.Sphere{Pos: geom.V(5, 5, 5), Radius: 2},
		&object.Segment{
			Begin: geom.V(0, 0, 0), End: geom.V(1, 0, 0),
			RadiusBegin: 0.1, RadiusEnd: 0.1,
			NeuronID: 7, SectionID: 8, SegmentID: 9,
		},
		&object.MeshTriangle{
			V1: geom.V(0, 0, 0), V2: geom.V(1, 0, 0), V3: geom.V(0, 1, 1),
			NeuronID: 4, I1: 10, I2: 11, I3: 12,
		},
		&object.Soma{Pos: geom.V(2, 2, 2), Radius: 1.5, NeuronID: 3},
		&object.Synapse{
			Pre: geom.V(0, 0, 0), Post: geom.V(1, 1, 1), SpineLength: 0.5,
			GlobalID: 1, CounterID: 2, PreID: 3, PostID: 4,
		},
	}
}

func TestFactoryCoversAllKinds(t *testing.T) {
	for _, want := range samples() {
		got, err := object.New(want.Kind())
		require.NoError(t, err)
		require.Equal(t, want.Kind(), got.Kind())
	}
	_, err := object.New(object.Kind(99))
	require.ErrorIs(t, err, object.ErrUnknownKind)
	_, err = object.SizeOf(object.Kind(99))
	require.ErrorIs(t, err, object.ErrUnknownKind)
}

func TestSerializationRoundTrip(t *testing.T) {
	for _, obj := range samples() {
		size, err := object.SizeOf(obj.Kind())
		require.NoError(t, err)
		require.Equal(t, size, obj.ByteSize(), object.TitleOf(obj.Kind()))

		data, err := obj.MarshalBinary()
		require.NoError(t, err)
		require.Len(t, data, size, object.TitleOf(obj.Kind()))

		back, err := object.New(obj.Kind())
		require.NoError(t, err)
		require.NoError(t, back.UnmarshalBinary(data))
		require.Equal(t, obj, back, "round trip of %s", object.TitleOf(obj.Kind()))
	}
}

func TestUnmarshalRejectsShortBuffer(t *testing.T) {
	var seg object.Segment
	require.Error(t, seg.UnmarshalBinary(make([]byte, 10)))
}

func TestSegmentMBRCoversEndpoints(t *testing.T) {
	seg := &object.Segment{
		Begin: geom.V(0, 0, 0), End: geom.V(1, 0, 0),
		RadiusBegin: 0.1, RadiusEnd: 0.1,
	}
	mbr := seg.MBR()
	require.True(t, mbr.EnclosesPoint(seg.Begin))
	require.True(t, mbr.EnclosesPoint(seg.End))
	// The radius projects fully on the axes perpendicular to the cone axis.
	require.InDelta(t, -0.1, mbr.Lo[1], 1e-12)
	require.InDelta(t, 0.1, mbr.Hi[2], 1e-12)
	// Along the axis the projection vanishes.
	require.InDelta(t, 0.0, mbr.Lo[0], 1e-12)
	require.InDelta(t, 1.0, mbr.Hi[0], 1e-12)
}

func TestDegenerateSegmentMBR(t *testing.T) {
	seg := &object.Segment{Begin: geom.V(1, 1, 1), End: geom.V(1, 1, 1), RadiusBegin: 5, RadiusEnd: 5}
	mbr := seg.MBR()
	// Zero-length segments carry no radial projection, per the source geometry.
	require.Equal(t, geom.V(1, 1, 1), mbr.Lo)
	require.Equal(t, geom.V(1, 1, 1), mbr.Hi)
}

func TestSphereGeometry(t *testing.T) {
	s := &object.Sphere{Pos: geom.V(0, 0, 0), Radius: 2}
	mbr := s.MBR()
	require.Equal(t, geom.V(-2, -2, -2), mbr.Lo)
	require.Equal(t, geom.V(2, 2, 2), mbr.Hi)
	require.InDelta(t, 0, s.PointDistance(geom.V(1, 0, 0)), 1e-12)
	require.InDelta(t, 1, s.PointDistance(geom.V(3, 0, 0)), 1e-12)
	require.InDelta(t, 4.0/3.0*math.Pi*8, s.Volume(), 1e-9)
}

func TestSegmentVolumeAndLength(t *testing.T) {
	seg := &object.Segment{Begin: geom.V(0, 0, 0), End: geom.V(2, 0, 0), RadiusBegin: 1, RadiusEnd: 1}
	require.InDelta(t, 2, seg.Length(), 1e-12)
	// A constant-radius truncated cone is a cylinder: pi * r^2 * l.
	require.InDelta(t, math.Pi*2, seg.Volume(), 1e-9)
}

func TestSomaCollision(t *testing.T) {
	a := &object.Soma{Pos: geom.V(0, 0, 0), Radius: 1}
	b := &object.Soma{Pos: geom.V(1.5, 0, 0), Radius: 1}
	c := &object.Soma{Pos: geom.V(3, 0, 0), Radius: 1}
	require.True(t, a.Collides(b))
	require.False(t, a.Collides(c))
}

func TestCenters(t *testing.T) {
	tri := &object.Triangle{V1: geom.V(0, 0, 0), V2: geom.V(3, 0, 0), V3: geom.V(0, 3, 0)}
	require.Equal(t, geom.V(1, 1, 0), tri.Center())
	syn := &object.Synapse{Pre: geom.V(0, 0, 0), Post: geom.V(2, 2, 2)}
	require.Equal(t, geom.V(1, 1, 1), syn.Center())
	require.Equal(t, 1.0, syn.SortKey(0))
}
