package join

import (
	"github.com/katalvlaran/epsjoin/geom"
	"github.com/katalvlaran/epsjoin/object"
)

// sides index the per-side arrays throughout the engine.
const (
	sideA = 0
	sideB = 1
	sides = 2
)

// Entry wraps one input object with its ε/2-inflated MBR, its origin
// side and a stable id. Entries are created once at load time and
// never mutated afterwards.
type Entry struct {
	Obj  object.Object
	MBR  geom.Box
	Side int   // 0 = dataset A, 1 = dataset B
	ID   int32 // stable within the side
}

// NewEntry builds an entry for obj on the given side, caching the MBR
// inflated by epsilon/2 so that the join predicate reduces to an
// inflated-MBR overlap test.
func NewEntry(obj object.Object, side int, id int32, epsilon float64) *Entry {
	mbr := obj.MBR()
	mbr.Empty = false
	return &Entry{
		Obj:  obj,
		MBR:  mbr.Expand(epsilon / 2),
		Side: side,
		ID:   id,
	}
}

// buildEntries wraps a dataset's objects into entries and returns the
// side universe: the union of the inflated MBRs grown by epsilon, as
// the non-hierarchical grids expect.
func buildEntries(objs []object.Object, side int, epsilon float64) ([]*Entry, geom.Box) {
	entries := make([]*Entry, 0, len(objs))
	universe := geom.EmptyBox()
	for i, obj := range objs {
		e := NewEntry(obj, side, int32(i), epsilon)
		entries = append(entries, e)
		universe = geom.CombineSafe(universe, e.MBR)
	}
	return entries, universe.Expand(epsilon)
}
