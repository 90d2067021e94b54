package join

import "github.com/katalvlaran/epsjoin/geom"

// This file holds the three TOUCH probe strategies. All of them
// enumerate the same ancestor-descendant candidate pairs; they differ
// in visiting order and pruning. The per-node work primitive either
// loops (nested loop) or probes the node's local grid when one was
// built.

// ---------------------------------------------------------------------
// Top-down (TD, default)
// ---------------------------------------------------------------------

// probeTD walks the tree in BFS order and, for every node carrying
// attached entries, joins them against the opposite side attached in
// its subtree, plus the intra-node cross set.
func (e *engine) probeTD(t *touchTree) {
	queue := []*treeNode{t.root}
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		if !node.leaf {
			queue = append(queue, node.children...)
		}
		if !node.hasWork() {
			continue
		}
		e.joinNodeToDesc(node)
	}
}

// joinNodeToDesc joins a node's attached entries downward into its
// subtree and its two attached sides against each other.
func (e *engine) joinNodeToDesc(node *treeNode) {
	for _, entry := range node.attached[sideA] {
		e.joinObjectToDesc(entry, node)
	}
	for _, entry := range node.attached[sideB] {
		e.joinObjectToDesc(entry, node)
	}

	// Intra-node cross set: iterate the smaller side, compare against
	// the other (cost bound), pruning on the other side's self union.
	small, large := sideA, sideB
	if len(node.attached[large]) < len(node.attached[small]) {
		small, large = large, small
	}
	if len(node.attached[small]) == 0 {
		return
	}
	stop := sw(&e.stats.Comparing)
	defer stop()
	if grid := node.grid[small]; e.opts.LocalJoin == SGrid && grid != nil {
		grid.probeList(e, node.attached[large])
		return
	}
	for _, entry := range node.attached[small] {
		e.stats.ItemsMaxCompared += uint64(len(node.attached[large]))
		if geom.Overlap(entry.MBR, node.mbrSelfD[large]) {
			e.nlOne(entry, node.attached[large])
		}
	}
}

// joinObjectToDesc walks the subtree under ancestor in BFS order and
// joins obj against the opposite-side entries attached below. Children
// whose subtree attachment extent cannot meet obj are pruned and their
// population is recorded in the addFilter counter.
func (e *engine) joinObjectToDesc(obj *Entry, ancestor *treeNode) {
	other := 1 - obj.Side
	queue := []*treeNode{ancestor}
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		if node.leaf {
			continue
		}
		for _, child := range node.children {
			e.stats.ItemsMaxCompared += uint64(len(child.attached[other]))
			stop := sw(&e.stats.Comparing)
			if grid := child.grid[other]; e.opts.LocalJoin == SGrid && grid != nil {
				if !grid.probeOne(e, obj) {
					e.stats.Filtered[obj.Side]++
				}
			} else {
				e.nlOne(obj, child.attached[other])
			}
			stop()

			if geom.Overlap(obj.MBR, child.mbrK[other]) {
				queue = append(queue, child)
			} else {
				e.stats.AddFilter += child.objBelow[other]
			}
		}
	}
}

// ---------------------------------------------------------------------
// Bottom-up pathway (BU)
// ---------------------------------------------------------------------

// probeBU recurses depth-first keeping the stack of ancestors along
// the current path; on the way back up every node is joined against
// each ancestor (and itself) with the symmetric JOIN primitive, which
// enumerates all ancestor-descendant pairs exactly once.
func (e *engine) probeBU(t *touchTree) {
	var path []*treeNode
	var walk func(n *treeNode)
	walk = func(n *treeNode) {
		path = append(path, n)
		for _, child := range n.children {
			walk(child)
		}
		for _, ancestor := range path {
			e.join(n, ancestor)
		}
		path = path[:len(path)-1]
	}
	walk(t.root)
}

// join is the symmetric work primitive of the pathway traversal. For a
// self join the side with fewer attached entries drives the loop and
// meets the opposite side exactly once; for node≠ancestor both sides
// of the node meet the ancestor's opposite attached set.
func (e *engine) join(node, ancestor *treeNode) {
	stop := sw(&e.stats.Comparing)
	defer stop()

	if node == ancestor {
		small := sideA
		if node.attachCount(sideB) < node.attachCount(sideA) {
			small = sideB
		}
		other := 1 - small
		e.stats.ItemsMaxCompared += uint64(node.attachCount(small)) * uint64(node.attachCount(other))
		if e.opts.LocalJoin == SGrid {
			e.gridProbePair(node.grid[small], node.gridAns[small],
				node.attached[other], node.attachedAns[other])
			return
		}
		e.nlLists(node.attached[small], node.attached[other])
		e.nlLists(node.attachedAns[small], node.attached[other])
		e.nlLists(node.attached[small], node.attachedAns[other])
		e.nlLists(node.attachedAns[small], node.attachedAns[other])
		return
	}

	for s := 0; s < sides; s++ {
		other := 1 - s
		e.stats.ItemsMaxCompared += uint64(node.attachCount(s)) * uint64(len(ancestor.attached[other]))
		if e.opts.LocalJoin == SGrid {
			e.gridProbePair(node.grid[s], node.gridAns[s], ancestor.attached[other], nil)
			continue
		}
		e.nlLists(node.attached[s], ancestor.attached[other])
		e.nlLists(node.attachedAns[s], ancestor.attached[other])
	}
}

// gridProbePair probes the plain and deferred grids with the plain and
// deferred opposite entry lists, skipping absent grids.
func (e *engine) gridProbePair(grid, gridAns *gridHash, objs, objsAns []*Entry) {
	if grid != nil {
		grid.probeList(e, objs)
		grid.probeList(e, objsAns)
	}
	if gridAns != nil {
		gridAns.probeList(e, objs)
		gridAns.probeList(e, objsAns)
	}
}

// ---------------------------------------------------------------------
// Top-down on demand (TDD / TDF)
// ---------------------------------------------------------------------

// probeDemand visits every node and resolves its join obligations by
// descending over its own subtree. With filter set (TDF) a child is
// descended only when its subtree attachment extent can meet the
// node's attached extent — a sound prune. Without it (TDD) the
// recursion visits everything.
func (e *engine) probeDemand(t *touchTree, filter bool) {
	var walk func(n *treeNode)
	walk = func(n *treeNode) {
		e.joinDown(n, n, filter)
		for _, child := range n.children {
			walk(child)
		}
	}
	walk(t.root)
}

// joinDown joins node against desc and recurses over desc's children.
func (e *engine) joinDown(node, desc *treeNode, filter bool) {
	e.joinDownOnce(node, desc)
	for _, child := range desc.children {
		if filter && !geom.Overlap(child.subtreeExtent(), node.attachedExtent()) {
			e.stats.AddFilter += child.objBelow[sideA] + child.objBelow[sideB]
			continue
		}
		e.joinDown(node, child, filter)
	}
}

// joinDownOnce is the downward work primitive: the node's attached
// sets meet desc's attached and deferred sets. The node's own deferred
// set is resolved only at the self join, which also picks the smaller
// side to avoid the symmetric repeat.
func (e *engine) joinDownOnce(node, desc *treeNode) {
	stop := sw(&e.stats.Comparing)
	defer stop()

	if node == desc {
		small := sideA
		if node.attachCount(sideB) < node.attachCount(sideA) {
			small = sideB
		}
		other := 1 - small
		e.stats.ItemsMaxCompared += uint64(node.attachCount(small)) * uint64(node.attachCount(other))
		if e.opts.LocalJoin == SGrid {
			e.gridProbePair(node.grid[small], node.gridAns[small],
				node.attached[other], node.attachedAns[other])
			return
		}
		e.nlLists(node.attached[small], node.attached[other])
		e.nlLists(node.attachedAns[small], node.attached[other])
		e.nlLists(node.attached[small], node.attachedAns[other])
		e.nlLists(node.attachedAns[small], node.attachedAns[other])
		return
	}

	for s := 0; s < sides; s++ {
		other := 1 - s
		e.stats.ItemsMaxCompared += uint64(len(node.attached[s])) * uint64(desc.attachCount(other))
		if e.opts.LocalJoin == SGrid {
			if node.grid[s] != nil {
				node.grid[s].probeList(e, desc.attached[other])
				node.grid[s].probeList(e, desc.attachedAns[other])
			}
			continue
		}
		e.nlLists(node.attached[s], desc.attached[other])
		e.nlLists(node.attached[s], desc.attachedAns[other])
	}
}
