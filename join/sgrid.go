package join

import "github.com/katalvlaran/epsjoin/geom"

// runSGrid is the spatial-grid hash join: one uniform grid over the
// shared universe is built from A and probed with B. Entries spanning
// several cells are replicated, so the final de-duplication pass is
// load-bearing here.
func (e *engine) runSGrid() {
	stopInit := sw(&e.stats.Initialize)
	universe := geom.CombineSafe(e.universeA, e.universeB)
	grid := newGridStatic(universe, e.opts.GridCells)
	stopInit()

	stopBuild := sw(&e.stats.Building)
	grid.build(e.dsA)
	stopBuild()

	stopProbe := sw(&e.stats.Probing)
	grid.probeList(e, e.dsB)
	stopProbe()

	stopAnalyze := sw(&e.stats.Analyzing)
	grid.occupancy(e)
	stopAnalyze()
}
