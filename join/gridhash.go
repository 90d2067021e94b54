package join

import (
	"math"

	"github.com/katalvlaran/epsjoin/geom"
)

// gridHash is a uniform 3D grid over a universe box with a sparse cell
// table. It backs the SGrid algorithm, the PBSM partitions and the
// per-node local grids of TOUCH; only cell sizing differs between
// them. The grid holds references; entry ownership stays with the
// engine.
type gridHash struct {
	universe geom.Box
	width    geom.Vertex       // cell width per axis
	cells    [geom.Dims]int    // cell count per axis
	table    map[uint64][]*Entry
}

// newGridStatic divides the universe into n cells per axis.
func newGridStatic(universe geom.Box, n int) *gridHash {
	var width geom.Vertex
	for i := 0; i < geom.Dims; i++ {
		width[i] = universe.Length(i) / float64(n)
	}
	g := &gridHash{universe: universe, width: width, table: make(map[uint64][]*Entry)}
	for i := 0; i < geom.Dims; i++ {
		g.cells[i] = n
	}
	return g
}

// newGridByWidth covers the universe with cells of the given per-axis
// width; the cell count per axis is ceil(extent/width), at least one.
func newGridByWidth(universe geom.Box, width geom.Vertex) *gridHash {
	g := &gridHash{universe: universe, width: width, table: make(map[uint64][]*Entry)}
	for i := 0; i < geom.Dims; i++ {
		n := 1
		if width[i] > 0 {
			n = int(math.Ceil(universe.Length(i) / width[i]))
			if n < 1 {
				n = 1
			}
		}
		g.cells[i] = n
	}
	return g
}

// partitions returns the total cell count of the grid.
func (g *gridHash) partitions() uint64 {
	return uint64(g.cells[0]) * uint64(g.cells[1]) * uint64(g.cells[2])
}

// index linearizes cell coordinates: x + y·Wx + z·Wx·Wy.
func (g *gridHash) index(x, y, z int) uint64 {
	return uint64(x) + uint64(y)*uint64(g.cells[0]) +
		uint64(z)*uint64(g.cells[0])*uint64(g.cells[1])
}

// locate maps a vertex to clamped cell coordinates.
func (g *gridHash) locate(v geom.Vertex) (x, y, z int) {
	c := func(axis int) int {
		if g.width[axis] <= 0 {
			return 0
		}
		n := int(math.Floor((v[axis] - g.universe.Lo[axis]) / g.width[axis]))
		if n < 0 {
			n = 0
		}
		if n >= g.cells[axis] {
			n = g.cells[axis] - 1
		}
		return n
	}
	return c(0), c(1), c(2)
}

// cellRange yields the clamped coordinate range of cells a box overlaps.
func (g *gridHash) cellRange(mbr geom.Box) (lo, hi [geom.Dims]int) {
	lo[0], lo[1], lo[2] = g.locate(mbr.Lo)
	hi[0], hi[1], hi[2] = g.locate(mbr.Hi)
	return lo, hi
}

// insert adds an entry to every cell its MBR overlaps.
// Complexity: O(cells covered).
func (g *gridHash) insert(entry *Entry) {
	lo, hi := g.cellRange(entry.MBR)
	for x := lo[0]; x <= hi[0]; x++ {
		for y := lo[1]; y <= hi[1]; y++ {
			for z := lo[2]; z <= hi[2]; z++ {
				idx := g.index(x, y, z)
				g.table[idx] = append(g.table[idx], entry)
			}
		}
	}
}

// build inserts a whole entry list.
func (g *gridHash) build(entries []*Entry) {
	for _, entry := range entries {
		g.insert(entry)
	}
}

// probeOne refines obj against every entry in the cells its MBR
// overlaps. Returns false when the MBR misses the grid universe
// entirely (the caller counts it as filtered). Duplicate pairs are
// possible by construction; the end-of-run pass collapses them.
func (g *gridHash) probeOne(e *engine, obj *Entry) bool {
	if !geom.Overlap(obj.MBR, g.universe) {
		return false
	}
	lo, hi := g.cellRange(obj.MBR)
	for x := lo[0]; x <= hi[0]; x++ {
		for y := lo[1]; y <= hi[1]; y++ {
			for z := lo[2]; z <= hi[2]; z++ {
				e.stats.HashProbes++
				bucket, ok := g.table[g.index(x, y, z)]
				if !ok {
					continue
				}
				e.nlOne(obj, bucket)
			}
		}
	}
	return true
}

// probeList probes a whole entry list, counting filtered entries.
func (g *gridHash) probeList(e *engine, objs []*Entry) {
	for _, obj := range objs {
		if !g.probeOne(e, obj) {
			e.stats.Filtered[obj.Side]++
		}
	}
}

// occupancy folds the grid fill statistics into the run stats.
func (g *gridHash) occupancy(e *engine) {
	var sum, sqsum uint64
	for _, bucket := range g.table {
		n := uint64(len(bucket))
		sum += n
		sqsum += n * n
		if n > e.stats.MaxMappedObjects {
			e.stats.MaxMappedObjects = n
		}
	}
	parts := float64(g.partitions())
	avg := float64(sum) / parts
	e.stats.AvgPerCell = avg
	e.stats.StdPerCell = math.Sqrt(math.Max(0, float64(sqsum)/parts-avg*avg))
	e.stats.PercentEmpty = (parts - float64(len(g.table))) / parts * 100
}
