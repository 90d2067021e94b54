package object

import (
	"errors"

	"github.com/katalvlaran/epsjoin/geom"
)

// Kind tags the concrete variant of a spatial object. The numeric
// values are part of the dataset file format.
type Kind uint32

const (
	// KindPoint is a bare vertex.
	KindPoint Kind = iota
	// KindBox is an axis-aligned box.
	KindBox
	// KindCone is a truncated cone between two radii.
	KindCone
	// KindTriangle is a plain triangle.
	KindTriangle
	// KindSphere is a center plus radius.
	KindSphere
	// KindSegment is a neuron-morphology segment: a cone with
	// neuron/section/segment identifiers.
	KindSegment
	// KindMeshTriangle is a mesh triangle with a neuron id and the
	// three mesh vertex indices.
	KindMeshTriangle
	// KindSoma is a neuron soma: a sphere with a neuron id.
	KindSoma
	// KindSynapse is a synapse: pre and post positions, spine length
	// and four identifiers.
	KindSynapse

	numKinds
)

// ErrUnknownKind is returned when a Kind tag is outside the known range.
var ErrUnknownKind = errors.New("object: unknown spatial object kind")

// Object is the behavior the join engine needs from any spatial object.
type Object interface {
	Kind() Kind
	MBR() geom.Box
	Center() geom.Vertex
	// SortKey returns the scalar used when sorting objects along the
	// given axis; by convention it is the center component.
	SortKey(axis int) float64
	ByteSize() int
	MarshalBinary() ([]byte, error)
	UnmarshalBinary(data []byte) error
	// PointDistance returns the distance from p to the object. The join
	// engine's refinement test compares inflated MBRs and does not call
	// it.
	PointDistance(p geom.Vertex) float64
}

const (
	scalarSize = 8 // float64
	idSize     = 4 // uint32
)

// New constructs the zero value of the given kind.
// Complexity: O(1).
func New(kind Kind) (Object, error) {
	switch kind {
	case KindPoint:
		return &Point{}, nil
	case KindBox:
		return &Box{}, nil
	case KindCone:
		return &Cone{}, nil
	case KindTriangle:
		return &Triangle{}, nil
	case KindSphere:
		return &Sphere{}, nil
	case KindSegment:
		return &Segment{}, nil
	case KindMeshTriangle:
		return &MeshTriangle{}, nil
	case KindSoma:
		return &Soma{}, nil
	case KindSynapse:
		return &Synapse{}, nil
	default:
		return nil, ErrUnknownKind
	}
}

// SizeOf returns the serialized record size of the given kind in bytes.
func SizeOf(kind Kind) (int, error) {
	switch kind {
	case KindPoint:
		return geom.Dims * scalarSize, nil
	case KindBox:
		return 2 * geom.Dims * scalarSize, nil
	case KindCone:
		return (2*geom.Dims + 2) * scalarSize, nil
	case KindTriangle:
		return 3 * geom.Dims * scalarSize, nil
	case KindSphere:
		return (geom.Dims + 1) * scalarSize, nil
	case KindSegment:
		return (2*geom.Dims+2)*scalarSize + 3*idSize, nil
	case KindMeshTriangle:
		return 3*geom.Dims*scalarSize + 4*idSize, nil
	case KindSoma:
		return (geom.Dims+1)*scalarSize + idSize, nil
	case KindSynapse:
		return (2*geom.Dims+1)*scalarSize + 4*idSize, nil
	default:
		return 0, ErrUnknownKind
	}
}

// TitleOf returns a human-readable name for the kind.
func TitleOf(kind Kind) string {
	switch kind {
	case KindPoint:
		return "Vertex"
	case KindBox:
		return "Axis-Aligned-Box"
	case KindCone:
		return "Cone"
	case KindTriangle:
		return "Triangle"
	case KindSphere:
		return "Sphere"
	case KindSegment:
		return "Segment"
	case KindMeshTriangle:
		return "Mesh-Triangle"
	case KindSoma:
		return "Soma"
	case KindSynapse:
		return "Synapse"
	default:
		return "Unknown"
	}
}

// Valid reports whether the kind tag is in the known range.
func (k Kind) Valid() bool { return k < numKinds }
