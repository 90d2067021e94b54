package join

import (
	"math"

	"github.com/katalvlaran/epsjoin/geom"
)

// s3Tower is the size-separation hash: a tower of grids over the shared
// universe where level l has Base^l cells per axis. Every entry lives
// at the deepest level whose single cell fully covers its MBR, so big
// objects float up and small ones sink down; no replication happens.
type s3Tower struct {
	universe geom.Box
	levels   int
	base     int
	res      []int         // cells per axis, per level
	width    []geom.Vertex // cell width per axis, per level
	hashA    []map[uint64][]*Entry
	hashB    []map[uint64][]*Entry
}

func newS3Tower(universe geom.Box, levels, base int) *s3Tower {
	t := &s3Tower{
		universe: universe,
		levels:   levels,
		base:     base,
		res:      make([]int, levels),
		width:    make([]geom.Vertex, levels),
		hashA:    make([]map[uint64][]*Entry, levels),
		hashB:    make([]map[uint64][]*Entry, levels),
	}
	t.res[0] = 1
	for l := 1; l < levels; l++ {
		t.res[l] = t.res[l-1] * base
	}
	for l := 0; l < levels; l++ {
		for i := 0; i < geom.Dims; i++ {
			t.width[l][i] = universe.Length(i) / float64(t.res[l])
		}
		t.hashA[l] = make(map[uint64][]*Entry)
		t.hashB[l] = make(map[uint64][]*Entry)
	}
	return t
}

// locate maps a vertex to clamped cell coordinates at the given level.
func (t *s3Tower) locate(v geom.Vertex, level int) (c [geom.Dims]int) {
	for i := 0; i < geom.Dims; i++ {
		if t.width[level][i] <= 0 {
			continue
		}
		n := int(math.Floor((v[i] - t.universe.Lo[i]) / t.width[level][i]))
		if n < 0 {
			n = 0
		}
		if n >= t.res[level] {
			n = t.res[level] - 1
		}
		c[i] = n
	}
	return c
}

func (t *s3Tower) index(c [geom.Dims]int, level int) uint64 {
	r := uint64(t.res[level])
	return uint64(c[0]) + uint64(c[1])*r + uint64(c[2])*r*r
}

// insert places one entry at the deepest level whose single cell
// covers its whole MBR. Level 0 has one cell and always fits.
func (t *s3Tower) insert(entry *Entry, side int) {
	for level := t.levels - 1; level >= 0; level-- {
		lo := t.locate(entry.MBR.Lo, level)
		hi := t.locate(entry.MBR.Hi, level)
		if lo != hi {
			continue
		}
		idx := t.index(lo, level)
		if side == sideA {
			t.hashA[level][idx] = append(t.hashA[level][idx], entry)
		} else {
			t.hashB[level][idx] = append(t.hashB[level][idx], entry)
		}
		return
	}
}

// decompose inverts index at the given level.
func (t *s3Tower) decompose(idx uint64, level int) (c [geom.Dims]int) {
	r := uint64(t.res[level])
	c[0] = int(idx % r)
	c[1] = int(idx / r % r)
	c[2] = int(idx / (r * r))
	return c
}

// runS3 builds the tower from both sides and joins every non-empty A
// cell against the B cells that can touch it: the single coarser cell
// covering it at each shallower level, its own cell, and every finer
// cell nested inside it at each deeper level.
func (e *engine) runS3() {
	stopInit := sw(&e.stats.Initialize)
	universe := geom.CombineSafe(e.universeA, e.universeB)
	t := newS3Tower(universe, e.opts.Levels, e.opts.Base)
	stopInit()

	stopBuild := sw(&e.stats.Building)
	for _, entry := range e.dsA {
		t.insert(entry, sideA)
	}
	for _, entry := range e.dsB {
		t.insert(entry, sideB)
	}
	stopBuild()

	defer sw(&e.stats.Probing)()
	for lA := t.levels - 1; lA >= 0; lA-- {
		for idxA, cellA := range t.hashA[lA] {
			c := t.decompose(idxA, lA)

			// Coarser B levels: one covering cell each.
			factor := 1
			for lB := lA - 1; lB >= 0; lB-- {
				factor *= t.base
				cb := [geom.Dims]int{c[0] / factor, c[1] / factor, c[2] / factor}
				e.joinCells(cellA, t.hashB[lB][t.index(cb, lB)])
			}

			// Same level: the same cell.
			e.joinCells(cellA, t.hashB[lA][idxA])

			// Finer B levels: every nested cell. When the nesting
			// fan-out outgrows the number of occupied cells, scan the
			// occupied cells and match by ancestry instead.
			factor = 1
			for lB := lA + 1; lB < t.levels; lB++ {
				factor *= t.base
				if nested := factor * factor * factor; len(t.hashB[lB]) < nested {
					for idxB, cellB := range t.hashB[lB] {
						cb := t.decompose(idxB, lB)
						if cb[0]/factor == c[0] && cb[1]/factor == c[1] && cb[2]/factor == c[2] {
							e.joinCells(cellA, cellB)
						}
					}
					continue
				}
				for dx := 0; dx < factor; dx++ {
					for dy := 0; dy < factor; dy++ {
						for dz := 0; dz < factor; dz++ {
							cb := [geom.Dims]int{c[0]*factor + dx, c[1]*factor + dy, c[2]*factor + dz}
							e.joinCells(cellA, t.hashB[lB][t.index(cb, lB)])
						}
					}
				}
			}
		}
	}
}

// joinCells refines one A bucket against one B bucket.
func (e *engine) joinCells(as, bs []*Entry) {
	if len(as) == 0 || len(bs) == 0 {
		return
	}
	e.stats.ItemsMaxCompared += uint64(len(as)) * uint64(len(bs))
	e.nlLists(as, bs)
}
