package join

import "github.com/katalvlaran/epsjoin/geom"

// runPBSM is the partition-based spatial merge: one single-level grid
// over the shared universe, both sides replicated into every cell
// their inflated MBR overlaps, then corresponding cells joined
// pairwise. Replication makes duplicates; the final pass collapses
// them. Entries are inflated once at load time, so no further
// expansion happens here.
func (e *engine) runPBSM() {
	stopInit := sw(&e.stats.Initialize)
	universe := geom.CombineSafe(e.universeA, e.universeB)
	gridA := newGridStatic(universe, e.opts.GridCells)
	gridB := newGridStatic(universe, e.opts.GridCells)
	stopInit()

	stopBuild := sw(&e.stats.Building)
	gridA.build(e.dsA)
	for _, entry := range e.dsB {
		if !geom.Overlap(entry.MBR, universe) {
			e.stats.Filtered[sideB]++
			continue
		}
		gridB.insert(entry)
	}
	stopBuild()

	stopProbe := sw(&e.stats.Probing)
	for idx, cellA := range gridA.table {
		e.joinCells(cellA, gridB.table[idx])
	}
	stopProbe()

	stopAnalyze := sw(&e.stats.Analyzing)
	var repA, repB uint64
	for _, cell := range gridA.table {
		repA += uint64(len(cell))
	}
	for _, cell := range gridB.table {
		repB += uint64(len(cell))
	}
	e.stats.RepA = float64(repA) / float64(len(e.dsA))
	e.stats.RepB = float64(repB) / float64(len(e.dsB))
	stopAnalyze()
}
