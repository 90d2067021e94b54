// Package extsort_test checks the in-core path, the spill/merge path
// and the failure modes of the external sorter.
package extsort_test

import (
	"encoding/binary"
	"io"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/epsjoin/extsort"
)

// u64Codec serializes uint64 records.
type u64Codec struct{}

func (u64Codec) Size() int { return 8 }

func (u64Codec) Encode(rec uint64, buf []byte) error {
	binary.LittleEndian.PutUint64(buf, rec)
	return nil
}

func (u64Codec) Decode(buf []byte) (uint64, error) {
	return binary.LittleEndian.Uint64(buf), nil
}

func less(a, b uint64) bool { return a < b }

func drain(t *testing.T, s *extsort.Sorter[uint64]) []uint64 {
	t.Helper()
	var out []uint64
	for s.HasNext() {
		v, err := s.Next()
		require.NoError(t, err)
		out = append(out, v)
	}
	_, err := s.Next()
	require.ErrorIs(t, err, io.EOF)
	return out
}

func TestInCoreSort(t *testing.T) {
	s := extsort.New[uint64](u64Codec{}, less)
	defer s.Close()

	in := []uint64{5, 3, 9, 1, 7}
	for _, v := range in {
		require.NoError(t, s.Push(v))
	}
	require.NoError(t, s.Sort())
	require.False(t, s.OutOfCore())
	require.Equal(t, []uint64{1, 3, 5, 7, 9}, drain(t, s))
	require.Equal(t, uint64(5), s.Count())
}

func TestSpillAndMerge(t *testing.T) {
	s := extsort.New[uint64](u64Codec{}, less,
		extsort.WithBudgetRecords(16), extsort.WithTempDir(t.TempDir()))
	defer s.Close()

	rng := rand.New(rand.NewSource(7))
	const n = 1000
	in := make([]uint64, n)
	for i := range in {
		in[i] = rng.Uint64() % 500 // force duplicates across buckets
		require.NoError(t, s.Push(in[i]))
	}
	require.NoError(t, s.Sort())
	require.True(t, s.OutOfCore())

	want := append([]uint64{}, in...)
	sort.Slice(want, func(i, j int) bool { return want[i] < want[j] })
	require.Equal(t, want, drain(t, s))
}

func TestNextBeforeSort(t *testing.T) {
	s := extsort.New[uint64](u64Codec{}, less)
	defer s.Close()
	require.NoError(t, s.Push(1))
	_, err := s.Next()
	require.ErrorIs(t, err, extsort.ErrNotSorted)
	require.False(t, s.HasNext())
}

func TestEmptyInput(t *testing.T) {
	s := extsort.New[uint64](u64Codec{}, less)
	defer s.Close()
	require.NoError(t, s.Sort())
	require.Empty(t, drain(t, s))
}
