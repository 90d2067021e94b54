// White-box tests for the TOUCH partition tree: build shape,
// assignment bookkeeping, subtree counters and the deferred buckets.
package join

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/epsjoin/geom"
	"github.com/katalvlaran/epsjoin/object"
)

// newTestEngine wires an engine over random points without running it.
func newTestEngine(t *testing.T, nA, nB int, opts ...Option) *engine {
	t.Helper()
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	require.NoError(t, cfg.Validate())

	rng := rand.New(rand.NewSource(99))
	world := geom.NewBox(geom.V(0, 0, 0), geom.V(10, 10, 10))
	mk := func(n int) []object.Object {
		objs := make([]object.Object, n)
		for i := range objs {
			objs[i] = &object.Point{Pos: geom.RandomPoint(rng, world)}
		}
		return objs
	}
	e := &engine{opts: cfg}
	e.dsA, e.universeA = buildEntries(mk(nA), sideA, cfg.Epsilon)
	e.dsB, e.universeB = buildEntries(mk(nB), sideB, cfg.Epsilon)
	return e
}

func collectTree(t *touchTree) (leaves, internals []*treeNode) {
	for _, n := range t.nodes {
		if n.leaf {
			leaves = append(leaves, n)
		} else {
			internals = append(internals, n)
		}
	}
	return leaves, internals
}

func TestBuildTreeShape(t *testing.T) {
	e := newTestEngine(t, 100, 0, WithLeafSize(8), WithFanout(3))
	tree, err := e.buildTree()
	require.NoError(t, err)

	require.True(t, tree.root.root)
	require.Equal(t, tree.levels-1, tree.root.level)

	leaves, internals := collectTree(tree)
	require.Len(t, leaves, 13) // ceil(100/8)

	// Every leaf holds at most LeafSize entries; every internal node
	// at most Fanout children; node MBR is the safe union of children.
	total := 0
	for _, leaf := range leaves {
		require.LessOrEqual(t, len(leaf.attached[sideA]), 8)
		require.Equal(t, 0, leaf.level)
		total += len(leaf.attached[sideA])
	}
	require.Equal(t, 100, total)

	for _, n := range internals {
		require.NotEmpty(t, n.children)
		require.LessOrEqual(t, len(n.children), 3)
		union := geom.EmptyBox()
		for _, c := range n.children {
			require.Equal(t, n.level-1, c.level)
			union = geom.CombineSafe(union, c.mbr)
		}
		require.Equal(t, union, n.mbr, "node MBR must equal the safe union of its children")
	}
}

func TestBuildTreeEmptyInput(t *testing.T) {
	e := newTestEngine(t, 0, 0)
	tree, err := e.buildTree()
	require.NoError(t, err)
	require.True(t, tree.root.leaf)
	require.True(t, tree.root.root)
	require.True(t, tree.root.mbr.Empty)
	require.Equal(t, 1, tree.levels)
}

func TestAssignmentBookkeeping(t *testing.T) {
	e := newTestEngine(t, 200, 300, WithLeafSize(8), WithFanout(3), WithEpsilon(0.5))
	tree, err := e.buildTree()
	require.NoError(t, err)
	e.assign(tree)

	// Every B entry lands in exactly one attached set or is filtered.
	var attachedB uint64
	seen := map[*Entry]int{}
	for _, n := range tree.nodes {
		for _, entry := range n.attached[sideB] {
			attachedB++
			seen[entry]++
		}
		// mbrSelfD covers the attached entries of the node.
		for s := 0; s < sides; s++ {
			for _, entry := range n.attached[s] {
				require.True(t, n.mbrSelfD[s].Encloses(entry.MBR))
			}
		}
	}
	for entry, times := range seen {
		require.Equal(t, 1, times, "entry %d attached %d times", entry.ID, times)
	}
	require.Equal(t, uint64(300)-e.stats.Filtered[sideB], attachedB,
		"attached + filtered must account for every B entry")

	// objBelow at the root equals the attached totals.
	e.sizeStatistics(tree)
	e.analyze(tree)
	require.Equal(t, uint64(200), tree.root.objBelow[sideA])
	require.Equal(t, attachedB, tree.root.objBelow[sideB])

	// Recounting by traversal agrees with the stored counters.
	var recount func(n *treeNode, s int) uint64
	recount = func(n *treeNode, s int) uint64 {
		sum := uint64(n.attachCount(s))
		for _, c := range n.children {
			sum += recount(c, s)
		}
		return sum
	}
	for _, n := range tree.nodes {
		for s := 0; s < sides; s++ {
			require.Equal(t, recount(n, s), n.objBelow[s])
		}
	}
}

func TestAssignmentDescendsSingleOverlapChains(t *testing.T) {
	// Two well-separated clusters: a B point inside one cluster must
	// end up attached strictly below the root.
	var objsA []object.Object
	for i := 0; i < 16; i++ {
		objsA = append(objsA, &object.Point{Pos: geom.V(float64(i%4)*0.1, float64(i/4)*0.1, 0)})
	}
	for i := 0; i < 16; i++ {
		objsA = append(objsA, &object.Point{Pos: geom.V(100 + float64(i%4)*0.1, float64(i/4)*0.1, 0)})
	}
	cfg := DefaultOptions()
	WithLeafSize(16)(&cfg)
	WithFanout(2)(&cfg)
	WithEpsilon(0.2)(&cfg)
	WithSort(SortXAxis)(&cfg)

	e := &engine{opts: cfg}
	e.dsA, e.universeA = buildEntries(objsA, sideA, cfg.Epsilon)
	e.dsB, e.universeB = buildEntries(points3(geom.V(0.15, 0.15, 0), geom.V(50, 50, 50)), sideB, cfg.Epsilon)

	tree, err := e.buildTree()
	require.NoError(t, err)
	e.assign(tree)

	require.Empty(t, tree.root.attached[sideB], "cluster-local entry must sink below the root")
	require.Equal(t, uint64(1), e.stats.Filtered[sideB], "far-away entry must be filtered")

	var found int
	for _, n := range tree.nodes {
		if n.leaf && len(n.attached[sideB]) == 1 {
			found++
		}
	}
	require.Equal(t, 1, found, "the sunk entry must sit in exactly one leaf")
}

func points3(vs ...geom.Vertex) []object.Object {
	objs := make([]object.Object, len(vs))
	for i, v := range vs {
		objs[i] = &object.Point{Pos: v}
	}
	return objs
}

func TestDeferredBucketsJoin(t *testing.T) {
	// Entries parked in the deferred buckets must still meet the
	// opposite side in the work primitives of the BU, TDD and TDF
	// traversals (the TD walk reads attached sets only).
	cfg := DefaultOptions()
	WithEpsilon(1)(&cfg)

	for _, traversal := range []Traversal{BU, TDD, TDF} {
		e := &engine{opts: cfg}
		a := NewEntry(&object.Point{Pos: geom.V(0, 0, 0)}, sideA, 0, cfg.Epsilon)
		b := NewEntry(&object.Point{Pos: geom.V(0.3, 0, 0)}, sideB, 0, cfg.Epsilon)

		root := &treeNode{leaf: true, root: true, mbr: geom.EmptyBox()}
		root.attach(a)
		root.mbr = geom.CombineSafe(root.mbr, a.MBR)
		root.attachDeferred(b)
		tree := &touchTree{nodes: []*treeNode{root}, root: root, levels: 1}
		countBelow(root)
		require.Equal(t, uint64(1), root.objBelow[sideB], "deferred entries count below")

		if traversal == BU {
			e.probeBU(tree)
		} else {
			e.probeDemand(tree, traversal == TDF)
		}
		e.pairs.DeDuplicate()
		require.Equal(t, 1, e.pairs.Len(), "traversal %v must join deferred entries", traversal)
	}
}

func TestLocalGridPoliciesCoverAttached(t *testing.T) {
	for _, policy := range []ResolutionPolicy{ResolutionStatic, ResolutionDynamicEqual, ResolutionDynamicFlex} {
		e := newTestEngine(t, 120, 150,
			WithLeafSize(16), WithFanout(4), WithEpsilon(0.4),
			WithLocalJoin(SGrid), WithResolution(policy), WithGridCells(4))
		tree, err := e.buildTree()
		require.NoError(t, err)
		e.assign(tree)
		e.sizeStatistics(tree)
		e.analyze(tree)
		e.buildLocalGrids(tree)

		for _, n := range tree.nodes {
			for s := 0; s < sides; s++ {
				if len(n.attached[s]) == 0 {
					require.Nil(t, n.grid[s])
					continue
				}
				require.NotNil(t, n.grid[s], "policy %d: attached side needs a grid", policy)
				// Every attached entry must be findable through the grid.
				inserted := map[*Entry]bool{}
				for _, bucket := range n.grid[s].table {
					for _, entry := range bucket {
						inserted[entry] = true
					}
				}
				for _, entry := range n.attached[s] {
					require.True(t, inserted[entry], "policy %d: entry missing from grid", policy)
				}
			}
		}
	}
}

func TestHilbertSortIsPermutation(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	world := geom.NewBox(geom.V(-5, -5, -5), geom.V(5, 5, 5))
	entries := make([]*Entry, 64)
	for i := range entries {
		entries[i] = NewEntry(&object.Point{Pos: geom.RandomPoint(rng, world)}, sideA, int32(i), 0.1)
	}
	before := map[*Entry]bool{}
	for _, e := range entries {
		before[e] = true
	}
	require.NoError(t, sortCentered(entries,
		func(e *Entry) geom.Vertex { return e.MBR.Center() }, SortHilbert))
	require.Len(t, entries, 64)
	for _, e := range entries {
		require.True(t, before[e], "sort must permute, not replace")
	}
}
