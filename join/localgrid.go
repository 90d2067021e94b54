package join

import (
	"math"

	"github.com/katalvlaran/epsjoin/geom"
)

// buildLocalGrids raises a spatial grid over the attached entries of
// every node and side, so that the per-node local joins can probe
// instead of looping. Resolution per Options.Resolution:
//
//	Static        — node extent divided into GridCells per axis
//	DynamicEqual  — cubic cells, edge = cube root of the mean entry
//	                volume within the node
//	DynamicFlex   — per-axis cell width = mean entry extent on that
//	                axis within the node
//
// Nodes without attached entries on a side get no grid there and the
// traversals fall back to the nested loop.
func (e *engine) buildLocalGrids(t *touchTree) {
	defer sw(&e.stats.GridBuild)()

	for _, n := range t.nodes {
		for s := 0; s < sides; s++ {
			if len(n.attached[s]) > 0 {
				n.grid[s] = e.newLocalGrid(n, s, n.mbrSelfD[s])
				n.grid[s].build(n.attached[s])
			}
			if len(n.attachedAns[s]) > 0 {
				n.gridAns[s] = e.newLocalGrid(n, s, n.mbrD[s])
				n.gridAns[s].build(n.attachedAns[s])
			}
		}
	}
}

// newLocalGrid sizes one node-local grid per the configured policy.
func (e *engine) newLocalGrid(n *treeNode, side int, universe geom.Box) *gridHash {
	switch e.opts.Resolution {
	case ResolutionStatic:
		return newGridStatic(universe, e.opts.GridCells)

	case ResolutionDynamicEqual:
		count := float64(n.attachCount(side))
		edge := 1.0 // no volume information: one cell
		if n.volSum[side] > 0 && count > 0 {
			edge = math.Cbrt(n.volSum[side] / count)
		}
		return newGridByWidth(universe, geom.V(edge, edge, edge))

	default: // ResolutionDynamicFlex
		count := float64(n.attachCount(side))
		var width geom.Vertex
		for d := 0; d < geom.Dims; d++ {
			width[d] = 1
			if n.sizeSum[side][d] > 0 && count > 0 {
				width[d] = n.sizeSum[side][d] / count
			}
		}
		return newGridByWidth(universe, width)
	}
}
