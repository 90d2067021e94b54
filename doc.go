// Package epsjoin is an in-memory epsilon spatial join engine for
// axis-aligned bounded 3D objects.
//
// 🚀 What is epsjoin?
//
//	Given two datasets A and B of spatial objects (segments, meshes,
//	synapses, spheres, …), the engine reports every pair (a,b) whose
//	minimum bounding rectangles, each inflated by ε/2, overlap. The
//	practical setting is neuroscience microcircuit data with 10^5–10^9
//	objects per side and wildly different size distributions between
//	the two sides.
//
// ✨ What's inside?
//
//   - A portfolio of join algorithms: nested loop, plane sweep, spatial
//     grid hash, size-separation spatial hash, partition-based spatial
//     merge, and the hierarchical TOUCH join.
//   - TOUCH builds a balanced partition tree over A, assigns each B
//     object to the deepest dominating node, and probes with one of
//     three tree traversals (top-down, bottom-up pathway, top-down
//     on demand with filtering).
//   - Per-node adaptive local grids whose resolution is driven by the
//     object-size statistics of the node.
//   - Pair de-duplication, performance counters, and a CSV report log.
//
// Under the hood, everything is organized in small subpackages:
//
//	geom/     — Vertex and Box primitives with the full MBR algebra
//	object/   — the SpatialObject variants and their binary layouts
//	dataset/  — reader/writer for the flat binary dataset format
//	extsort/  — spill-to-disk external merge sort
//	join/     — the join engine itself (algorithms, TOUCH, results)
//	cmd/      — the spatialjoin and gendata executables
//
// Quick start:
//
//	res, err := join.Run("dataA.bin", "dataB.bin",
//	    join.WithAlgorithm(join.TOUCH),
//	    join.WithEpsilon(0.5))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println("pairs:", res.Pairs.Len())
//
//	go get github.com/katalvlaran/epsjoin
package epsjoin
