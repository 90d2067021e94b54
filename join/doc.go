// Package join implements the epsilon spatial join engine: given two
// in-memory datasets A and B of axis-aligned bounded 3D objects, it
// reports every pair (a,b) whose minimum bounding rectangles, each
// inflated by ε/2, overlap.
//
// The engine carries a portfolio of algorithms selected through
// Options.Algorithm:
//
//   - NL    — nested loop, the |A|·|B| ground truth
//   - PS    — plane sweep along the x axis
//   - SGrid — one uniform spatial grid hash over the shared universe
//   - S3    — size-separation spatial hash (a tower of grids, each
//     entry stored at the deepest level whose single cell encloses it)
//   - PBSM  — partition-based spatial merge (both sides replicated
//     into a single-level grid, cells joined pairwise)
//   - TOUCH — the hierarchical join: a balanced partition tree is
//     built over A, every B entry is assigned to the deepest node
//     whose children cannot all contain it, and one of three tree
//     traversals (TD, BU, TDD/TDF) enumerates the candidate pairs
//
// Inside TOUCH every node can carry an adaptive local grid over its
// attached entries; the grid resolution is driven by the object-size
// statistics of the node (Options.Resolution).
//
// Replication-based backends may emit the same pair more than once;
// a final de-duplication pass collapses duplicates after every run,
// so the de-duplicated result set is identical across algorithms.
//
// Concurrency: a single engine run is strictly sequential and an
// engine instance must not be shared; independent runs in separate
// goroutines are fine (no mutable package state).
//
// Entry points:
//
//	Run(fileA, fileB, opts...)   — load two dataset files and join
//	Join(objsA, objsB, opts...)  — join already-loaded objects
//
// Both return a Result with the unique pair set and the run Stats
// (timers, counters, per-level statistics, memory samples); Stats can
// be appended to a CSV performance log with WriteCSV.
package join
