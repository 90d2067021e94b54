package join

import (
	"github.com/katalvlaran/epsjoin/geom"
)

// treeNode is one vertex of the TOUCH partition tree. Leaves hold the
// A entries they were packed with; internal nodes hold children plus
// the B entries the assignment pass parked on them.
//
// MBR bookkeeping per side t:
//
//	mbr        — union of the MBRs of the A members below (build-time)
//	mbrSelfD   — union of attached[t] only
//	mbrL       — cumulative union of attached[t] ∪ attachedAns[t]
//	mbrD       — union of attachedAns[t] only
//	mbrK       — union of attached[t] ∪ attachedAns[t] over the whole
//	             subtree, computed bottom-up after assignment
type treeNode struct {
	id    int
	level int
	leaf  bool
	root  bool

	children []*treeNode
	mbr      geom.Box

	attached    [sides][]*Entry
	attachedAns [sides][]*Entry

	mbrSelfD [sides]geom.Box
	mbrL     [sides]geom.Box
	mbrD     [sides]geom.Box
	mbrK     [sides]geom.Box

	grid    [sides]*gridHash
	gridAns [sides]*gridHash

	// Size statistic accumulators over attached+deferred entries:
	// per-axis extent sums, squared sums, and volume sums.
	sizeSum   [sides]geom.Vertex
	sizeSqSum [sides]geom.Vertex
	volSum    [sides]float64

	objBelow [sides]uint64
}

// newTreeNode returns a node whose node MBR and per-side unions all
// start as the empty box.
func newTreeNode(id, level int, leaf bool) *treeNode {
	n := &treeNode{id: id, level: level, leaf: leaf, mbr: geom.EmptyBox()}
	for s := 0; s < sides; s++ {
		n.mbrSelfD[s] = geom.EmptyBox()
		n.mbrL[s] = geom.EmptyBox()
		n.mbrD[s] = geom.EmptyBox()
		n.mbrK[s] = geom.EmptyBox()
	}
	return n
}

// attachCount returns |attached[t]| + |attachedAns[t]|.
func (n *treeNode) attachCount(t int) int {
	return len(n.attached[t]) + len(n.attachedAns[t])
}

// hasWork reports whether any entry is attached to the node.
func (n *treeNode) hasWork() bool {
	return n.attachCount(sideA)+n.attachCount(sideB) > 0
}

// attach parks an entry on the node and keeps the per-side unions
// current.
func (n *treeNode) attach(entry *Entry) {
	t := entry.Side
	n.attached[t] = append(n.attached[t], entry)
	n.mbrSelfD[t] = geom.CombineSafe(n.mbrSelfD[t], entry.MBR)
	n.mbrL[t] = geom.CombineSafe(n.mbrL[t], entry.MBR)
}

// attachDeferred parks an entry whose join obligation is deferred to
// the demand traversal.
func (n *treeNode) attachDeferred(entry *Entry) {
	t := entry.Side
	n.attachedAns[t] = append(n.attachedAns[t], entry)
	n.mbrD[t] = geom.CombineSafe(n.mbrD[t], entry.MBR)
	n.mbrL[t] = geom.CombineSafe(n.mbrL[t], entry.MBR)
}

// attachedExtent returns the union of everything attached to the node,
// both sides. Used by the demand-traversal subtree filter.
func (n *treeNode) attachedExtent() geom.Box {
	return geom.CombineSafe(n.mbrL[sideA], n.mbrL[sideB])
}

// subtreeExtent returns the union of everything attached anywhere in
// the subtree, both sides.
func (n *treeNode) subtreeExtent() geom.Box {
	return geom.CombineSafe(n.mbrK[sideA], n.mbrK[sideB])
}

// touchTree is the whole partition structure.
type touchTree struct {
	nodes  []*treeNode
	root   *treeNode
	levels int
}

// buildTree packs the A entries into leaves of up to LeafSize entries
// and the levels above into runs of up to Fanout children, sorting
// each level by the configured key. An empty input yields a single
// empty root leaf.
// Complexity: O(n log n) per level, height O(log_fanout(n/leafSize)).
func (e *engine) buildTree() (*touchTree, error) {
	defer sw(&e.stats.Partition)()

	t := &touchTree{}

	stopSort := sw(&e.stats.Sorting)
	err := sortCentered(e.dsA, func(en *Entry) geom.Vertex { return en.MBR.Center() }, e.opts.Sort)
	stopSort()
	if err != nil {
		return nil, err
	}

	// Leaf level.
	var level []*treeNode
	for lo := 0; lo < len(e.dsA); lo += e.opts.LeafSize {
		hi := lo + e.opts.LeafSize
		if hi > len(e.dsA) {
			hi = len(e.dsA)
		}
		leaf := newTreeNode(len(t.nodes), 0, true)
		for _, entry := range e.dsA[lo:hi] {
			leaf.attach(entry)
			leaf.mbr = geom.CombineSafe(leaf.mbr, entry.MBR)
		}
		t.nodes = append(t.nodes, leaf)
		level = append(level, leaf)
	}
	if len(level) == 0 {
		root := newTreeNode(0, 0, true)
		root.root = true
		t.nodes = append(t.nodes, root)
		t.root = root
		t.levels = 1
		e.stats.Levels = 1
		return t, nil
	}

	// Upper levels: group sorted runs of Fanout children until one
	// node remains.
	t.levels = 1
	for len(level) > 1 {
		stopSort = sw(&e.stats.Sorting)
		err = sortCentered(level, func(n *treeNode) geom.Vertex { return n.mbr.Center() }, e.opts.Sort)
		stopSort()
		if err != nil {
			return nil, err
		}

		fanout := e.opts.Fanout
		if fanout == 1 && len(level) > 1 {
			// A fanout of one would never reduce the level; close the
			// pathological chain with a single root over everything.
			fanout = len(level)
		}
		var next []*treeNode
		for lo := 0; lo < len(level); lo += fanout {
			hi := lo + fanout
			if hi > len(level) {
				hi = len(level)
			}
			parent := newTreeNode(len(t.nodes), t.levels, false)
			for _, child := range level[lo:hi] {
				parent.children = append(parent.children, child)
				parent.mbr = geom.CombineSafe(parent.mbr, child.mbr)
			}
			t.nodes = append(t.nodes, parent)
			next = append(next, parent)
		}
		level = next
		t.levels++
	}

	t.root = level[0]
	t.root.root = true
	e.stats.Levels = t.levels
	if e.opts.Verbose {
		e.opts.Log.Printf("partition tree: %d nodes, height %d", len(t.nodes), t.levels)
	}
	return t, nil
}

// assign places every B entry at the deepest node whose overlapping
// children are not unique: starting at the root, descend while exactly
// one child MBR overlaps the entry; park it where two or more overlap,
// or at the reached leaf. Entries overlapping nothing are filtered.
// Complexity: O(height × fanout) per entry.
func (e *engine) assign(t *touchTree) {
	defer sw(&e.stats.Building)()

	for _, entry := range e.dsB {
		node := t.root
		if node.leaf {
			if geom.Overlap(entry.MBR, node.mbr) {
				node.attach(entry)
			} else {
				e.stats.Filtered[sideB]++
			}
			continue
		}
		for {
			var next *treeNode
			parked := false
			for _, child := range node.children {
				if !geom.Overlap(entry.MBR, child.mbr) {
					continue
				}
				if next == nil {
					next = child
					continue
				}
				// Second overlapping child: this node dominates.
				node.attach(entry)
				parked = true
				break
			}
			if parked {
				break
			}
			if next == nil {
				e.stats.Filtered[sideB]++
				break
			}
			node = next
			if node.leaf {
				node.attach(entry)
				break
			}
		}
	}
}

// sizeStatistics accumulates per-node, per-side extent and volume sums
// over attached and deferred entries; the adaptive grid policies and
// the per-level report derive their means from these.
func (e *engine) sizeStatistics(t *touchTree) {
	defer sw(&e.stats.SizeCalc)()

	for _, n := range t.nodes {
		for s := 0; s < sides; s++ {
			fold := func(entries []*Entry) {
				for _, entry := range entries {
					ext := entry.MBR.Hi.Sub(entry.MBR.Lo)
					for d := 0; d < geom.Dims; d++ {
						n.sizeSum[s][d] += ext[d]
						n.sizeSqSum[s][d] += ext[d] * ext[d]
					}
					n.volSum[s] += entry.MBR.Volume()
				}
			}
			fold(n.attached[s])
			fold(n.attachedAns[s])
		}
	}
}

// countBelow fills objBelow and the subtree attachment unions (mbrK)
// bottom-up. objBelow[t] counts the type-t entries attached in the
// subtree including this node.
func countBelow(n *treeNode) {
	for s := 0; s < sides; s++ {
		n.objBelow[s] = uint64(n.attachCount(s))
		n.mbrK[s] = n.mbrL[s]
	}
	for _, child := range n.children {
		countBelow(child)
		for s := 0; s < sides; s++ {
			n.objBelow[s] += child.objBelow[s]
			n.mbrK[s] = geom.CombineSafe(n.mbrK[s], child.mbrK[s])
		}
	}
}

// analyze fills the per-level report arrays, the occupancy aggregates
// and the subtree counters. Must run before the probe: the traversals
// prune on objBelow and mbrK.
func (e *engine) analyze(t *touchTree) {
	defer sw(&e.stats.Analyzing)()

	countBelow(t.root)

	var emptyCells, sum, sqsum uint64
	for _, n := range t.nodes {
		for s := 0; s < sides; s++ {
			cur := uint64(n.attachCount(s))
			if cur == 0 {
				emptyCells++
			}
			sum += cur
			sqsum += cur * cur
			if cur > e.stats.MaxMappedObjects {
				e.stats.MaxMappedObjects = cur
			}
			if n.level < statLevels {
				e.stats.LevelAssigned[s][n.level] += cur
				for d := 0; d < geom.Dims; d++ {
					e.stats.LevelAvg[s][n.level] += n.sizeSum[s][d] / geom.Dims
					e.stats.LevelStd[s][n.level] += n.sizeSqSum[s][d] / geom.Dims
				}
			}
		}
	}
	for s := 0; s < sides; s++ {
		for lvl := 0; lvl < statLevels; lvl++ {
			if cnt := e.stats.LevelAssigned[s][lvl]; cnt != 0 {
				avg := e.stats.LevelAvg[s][lvl] / float64(cnt)
				e.stats.LevelAvg[s][lvl] = avg
				e.stats.LevelStd[s][lvl] = sqrtNonNeg(e.stats.LevelStd[s][lvl]/float64(cnt) - avg*avg)
			}
		}
	}

	cells := float64(sides * len(t.nodes))
	avg := float64(sum) / cells
	e.stats.AvgPerCell = avg
	e.stats.StdPerCell = sqrtNonNeg(float64(sqsum)/cells - avg*avg)
	e.stats.PercentEmpty = float64(emptyCells) / cells * 100
}

// runTOUCH is the hierarchical join driver: partition A, assign B,
// gather statistics, optionally raise the per-node grids, then probe
// with the configured traversal. De-duplication happens in the shared
// finish step.
func (e *engine) runTOUCH() error {
	t, err := e.buildTree()
	if err != nil {
		return err
	}
	e.assign(t)
	e.sizeStatistics(t)
	e.analyze(t)
	if e.opts.LocalJoin == SGrid {
		e.buildLocalGrids(t)
	}

	defer sw(&e.stats.Probing)()
	switch e.opts.Traversal {
	case TD:
		e.probeTD(t)
	case BU:
		e.probeBU(t)
	case TDD:
		e.probeDemand(t, false)
	case TDF:
		e.probeDemand(t, true)
	default:
		return ErrBadTraversal
	}
	return nil
}
