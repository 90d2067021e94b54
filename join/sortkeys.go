package join

import (
	"fmt"
	"sort"

	"github.com/jtejido/hilbert"

	"github.com/katalvlaran/epsjoin/geom"
)

// hilbertOrder is the per-axis bit depth of the Hilbert mapping:
// centers are quantized onto a 2^16 grid per axis before encoding.
const hilbertOrder = 16

// lessLex orders two vertices lexicographically, x first.
func lessLex(a, b geom.Vertex) bool {
	for i := 0; i < geom.Dims; i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// sortCentered orders items by their center according to kind:
// SortNone keeps input order, SortHilbert orders by Hilbert value of
// the quantized centers, SortXAxis/SortSTR order lexicographically.
// Complexity: O(n log n); Hilbert adds O(n) key computations.
func sortCentered[T any](items []T, center func(T) geom.Vertex, kind SortKind) error {
	switch kind {
	case SortNone:
		return nil
	case SortHilbert:
		return hilbertSort(items, center)
	default:
		sort.SliceStable(items, func(i, j int) bool {
			return lessLex(center(items[i]), center(items[j]))
		})
		return nil
	}
}

func hilbertSort[T any](items []T, center func(T) geom.Vertex) error {
	if len(items) < 2 {
		return nil
	}
	sm, err := hilbert.New(hilbertOrder, geom.Dims)
	if err != nil {
		return fmt.Errorf("join: hilbert mapping: %w", err)
	}

	// Quantize centers into the mapping's integer grid.
	bounds := geom.BoundingBoxOf(center(items[0]))
	for _, it := range items[1:] {
		bounds = geom.CombineSafe(bounds, geom.BoundingBoxOf(center(it)))
	}
	const maxCell = (1 << hilbertOrder) - 1
	scale := func(v geom.Vertex) [geom.Dims]uint64 {
		var q [geom.Dims]uint64
		for i := 0; i < geom.Dims; i++ {
			extent := bounds.Hi[i] - bounds.Lo[i]
			if extent <= 0 {
				continue
			}
			c := (v[i] - bounds.Lo[i]) / extent * maxCell
			if c < 0 {
				c = 0
			}
			if c > maxCell {
				c = maxCell
			}
			q[i] = uint64(c)
		}
		return q
	}

	type keyed struct {
		key  uint64
		item T
	}
	ks := make([]keyed, len(items))
	for i, it := range items {
		q := scale(center(it))
		ks[i] = keyed{key: sm.Encode(q[0], q[1], q[2]).Uint64(), item: it}
	}
	sort.SliceStable(ks, func(i, j int) bool { return ks[i].key < ks[j].key })
	for i := range ks {
		items[i] = ks[i].item
	}
	return nil
}
