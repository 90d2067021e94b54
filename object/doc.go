// Package object defines the spatial object variants the join engine
// operates on and their fixed binary layouts.
//
// The original model is a class hierarchy; here it is a tagged sum: the
// Kind tag selects the variant and New(kind) constructs it, so dispatch
// happens on the tag rather than through dynamic dispatch. The engine
// treats objects opaquely behind the Object interface:
//
//	MBR()            — minimum bounding rectangle
//	Center()         — representative point
//	SortKey(axis)    — scalar used by axis sorts
//	ByteSize()       — serialized size (fixed per Kind)
//	MarshalBinary()  — fixed little-endian layout (see each variant)
//	UnmarshalBinary()
//	PointDistance(p) — distance from p to the object (not used by the
//	                   engine's MBR-overlap refinement)
//
// Scalars are little-endian float64, identifiers little-endian uint32.
// The per-kind record sizes are the contract of the dataset file format
// and must not change (SizeOf reports them).
//
// Variants: Point, Box, Cone, Triangle, Sphere, Segment, MeshTriangle,
// Soma, Synapse — the neuron model atoms of the microcircuit datasets
// plus the plain geometric primitives used for testing.
package object
