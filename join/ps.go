package join

import (
	"encoding/binary"
	"fmt"
	"math"
	"sort"

	"github.com/katalvlaran/epsjoin/extsort"
	"github.com/katalvlaran/epsjoin/geom"
)

// runPS is the plane sweep: both sides sorted by the low x corner of
// their inflated MBRs, then a two-pointer sweep scans the other side
// forward while the x intervals can still intersect and refines each
// candidate. The sweep over-enumerates along x by design; isTouching
// rejects the misses.
func (e *engine) runPS() error {
	stopSort := sw(&e.stats.Sorting)
	if err := e.sortByLow(e.dsA); err != nil {
		return err
	}
	if err := e.sortByLow(e.dsB); err != nil {
		return err
	}
	stopSort()

	defer sw(&e.stats.Probing)()
	a, b := e.dsA, e.dsB
	var iA, iB int
	for iA < len(a) && iB < len(b) {
		if a[iA].MBR.Lo[0] < b[iB].MBR.Lo[0] {
			for i := iB; i < len(b) && b[i].MBR.Lo[0] <= a[iA].MBR.Hi[0]; i++ {
				e.stats.ItemsMaxCompared++
				if e.isTouching(a[iA], b[i]) {
					e.pairs.AddPair(a[iA], b[i])
				}
			}
			iA++
		} else {
			for i := iA; i < len(a) && a[i].MBR.Lo[0] <= b[iB].MBR.Hi[0]; i++ {
				e.stats.ItemsMaxCompared++
				if e.isTouching(a[i], b[iB]) {
					e.pairs.AddPair(a[i], b[iB])
				}
			}
			iB++
		}
	}
	return nil
}

// psRecordSize is the spill footprint of one sweep key: the low corner
// plus the entry index.
const psRecordSize = geom.Dims*8 + 4

// sortByLow orders entries by the low corner of their MBR,
// lexicographic with x first. While the key footprint fits the
// configured sort budget the sort stays in memory; past it the keys
// are routed through the external sorter.
func (e *engine) sortByLow(entries []*Entry) error {
	footprint := len(entries) * psRecordSize
	if footprint <= e.opts.SortBudgetMB*1024*1024 {
		sort.SliceStable(entries, func(i, j int) bool {
			return lessLex(entries[i].MBR.Lo, entries[j].MBR.Lo)
		})
		return nil
	}
	return e.extSortByLow(entries)
}

// sweepKey is the external-sort record: the sweep ordering key plus
// the index of the entry it stands for.
type sweepKey struct {
	low geom.Vertex
	idx int32
}

type sweepCodec struct{}

func (sweepCodec) Size() int { return psRecordSize }

func (sweepCodec) Encode(rec sweepKey, buf []byte) error {
	off := 0
	for i := 0; i < geom.Dims; i++ {
		binary.LittleEndian.PutUint64(buf[off:], math.Float64bits(rec.low[i]))
		off += 8
	}
	binary.LittleEndian.PutUint32(buf[off:], uint32(rec.idx))
	return nil
}

func (sweepCodec) Decode(buf []byte) (sweepKey, error) {
	var rec sweepKey
	off := 0
	for i := 0; i < geom.Dims; i++ {
		rec.low[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[off:]))
		off += 8
	}
	rec.idx = int32(binary.LittleEndian.Uint32(buf[off:]))
	return rec, nil
}

func (e *engine) extSortByLow(entries []*Entry) error {
	s := extsort.New[sweepKey](sweepCodec{},
		func(a, b sweepKey) bool { return lessLex(a.low, b.low) },
		extsort.WithBudgetMB(e.opts.SortBudgetMB))
	defer s.Close()

	for i, entry := range entries {
		if err := s.Push(sweepKey{low: entry.MBR.Lo, idx: int32(i)}); err != nil {
			return fmt.Errorf("join: plane sweep sort: %w", err)
		}
	}
	if err := s.Sort(); err != nil {
		return fmt.Errorf("join: plane sweep sort: %w", err)
	}

	ordered := make([]*Entry, 0, len(entries))
	for s.HasNext() {
		rec, err := s.Next()
		if err != nil {
			return fmt.Errorf("join: plane sweep sort: %w", err)
		}
		ordered = append(ordered, entries[rec.idx])
	}
	copy(entries, ordered)
	return nil
}
