// Package extsort implements a spill-to-disk external merge sort over
// fixed-size serializable records.
//
// Usage mirrors the classic insert/sort/iterate cycle:
//
//	s := extsort.New[T](codec, less, extsort.WithBudgetMB(64))
//	for _, rec := range input { s.Push(rec) }
//	if err := s.Sort(); err != nil { ... }
//	for s.HasNext() {
//	    rec, err := s.Next()
//	    ...
//	}
//	s.Close()
//
// While the pushed volume fits the configured in-memory budget the sort
// stays in core and no file is touched. Past the budget, each full
// buffer is sorted and spilled to a temporary bucket file, and Sort
// k-way-merges the buckets with a binary min-heap (container/heap). I/O is blocking; the
// sorter is single-threaded and not safe for concurrent use.
package extsort
