package join

// ResultPairs is the append-only pair buffer. Pairs are stored in two
// parallel slices, canonically ordered: the A-side entry first. The
// buffer holds only references; entry ownership stays with the engine.
type ResultPairs struct {
	A, B []*Entry

	// Duplicates accumulates the number of pairs collapsed by
	// DeDuplicate passes.
	Duplicates uint64
}

type pairKey struct {
	a, b int32
}

// AddPair appends one pair, swapping the operands if needed so that
// the A-side entry lands first. Uniqueness is not checked here.
// Complexity: O(1) amortized.
func (r *ResultPairs) AddPair(a, b *Entry) {
	if a.Side != sideA {
		a, b = b, a
	}
	r.A = append(r.A, a)
	r.B = append(r.B, b)
}

// Len returns the current number of buffered pairs.
func (r *ResultPairs) Len() int { return len(r.A) }

// DeDuplicate collapses duplicate pairs in place, keeping the first
// occurrence of each pair. Re-running on an already unique buffer is a
// no-op. The surviving order is deterministic for a fixed input.
// Complexity: O(n) time, O(n) extra space.
func (r *ResultPairs) DeDuplicate() {
	seen := make(map[pairKey]struct{}, len(r.A))
	w := 0
	for i := range r.A {
		k := pairKey{a: r.A[i].ID, b: r.B[i].ID}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		r.A[w] = r.A[i]
		r.B[w] = r.B[i]
		w++
	}
	r.Duplicates += uint64(len(r.A) - w)
	r.A = r.A[:w]
	r.B = r.B[:w]
}
