// Package join_test: the file-backed entry point, record caps, and the
// CSV performance log.
package join_test

import (
	"encoding/csv"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/epsjoin/dataset"
	"github.com/katalvlaran/epsjoin/geom"
	"github.com/katalvlaran/epsjoin/join"
	"github.com/katalvlaran/epsjoin/object"
)

// writePointFile generates a random point dataset on disk.
func writePointFile(t *testing.T, name string, n int, seed int64) {
	t.Helper()
	w, err := dataset.Create(name, object.KindPoint)
	require.NoError(t, err)
	rng := rand.New(rand.NewSource(seed))
	world := geom.NewBox(geom.V(0, 0, 0), geom.V(10, 10, 10))
	for i := 0; i < n; i++ {
		require.NoError(t, w.Write(&object.Point{Pos: geom.RandomPoint(rng, world)}))
	}
	require.NoError(t, w.Close())
}

func TestRunFromFiles(t *testing.T) {
	dir := t.TempDir()
	fileA := filepath.Join(dir, "a.bin")
	fileB := filepath.Join(dir, "b.bin")
	writePointFile(t, fileA, 300, 1)
	writePointFile(t, fileB, 400, 2)

	nl, err := join.Run(fileA, fileB, join.WithAlgorithm(join.NL), join.WithEpsilon(0.3))
	require.NoError(t, err)
	touch, err := join.Run(fileA, fileB,
		join.WithAlgorithm(join.TOUCH), join.WithEpsilon(0.3),
		join.WithLeafSize(16), join.WithFanout(4))
	require.NoError(t, err)

	require.Equal(t, pairSet(t, nl), pairSet(t, touch))
	require.Equal(t, fileA, nl.Stats.FileA)
	require.Equal(t, fileB, nl.Stats.FileB)
}

func TestRunHonorsRecordCaps(t *testing.T) {
	dir := t.TempDir()
	fileA := filepath.Join(dir, "a.bin")
	fileB := filepath.Join(dir, "b.bin")
	writePointFile(t, fileA, 100, 3)
	writePointFile(t, fileB, 100, 4)

	res, err := join.Run(fileA, fileB,
		join.WithAlgorithm(join.NL), join.WithEpsilon(0.2), join.WithLimits(10, 25))
	require.NoError(t, err)
	require.Equal(t, uint64(10), res.Stats.SizeA)
	require.Equal(t, uint64(25), res.Stats.SizeB)
}

func TestRunMissingFile(t *testing.T) {
	dir := t.TempDir()
	fileB := filepath.Join(dir, "b.bin")
	writePointFile(t, fileB, 10, 5)
	_, err := join.Run(filepath.Join(dir, "absent.bin"), fileB)
	require.Error(t, err)
}

func TestWriteCSVCreatesHeaderOnce(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "SJ.csv")

	res, err := join.Join(
		points(geom.V(0, 0, 0)), points(geom.V(0.1, 0, 0)), join.WithEpsilon(0.5))
	require.NoError(t, err)

	require.NoError(t, res.Stats.WriteCSV(logPath))
	require.NoError(t, res.Stats.WriteCSV(logPath))

	f, err := os.Open(logPath)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, 3, "one header row plus two data rows")
	require.Equal(t, "Algorithm", rows[0][0])
	require.Equal(t, "NL", rows[1][0])
	for _, row := range rows[1:] {
		require.Len(t, row, len(rows[0]), "data rows must match the header width")
	}
}

func TestReportMentionsResults(t *testing.T) {
	res, err := join.Join(
		points(geom.V(0, 0, 0)), points(geom.V(0.1, 0, 0)), join.WithEpsilon(0.5))
	require.NoError(t, err)

	var sb strings.Builder
	res.Report(&sb)
	require.Contains(t, sb.String(), "results 1")
	require.Contains(t, sb.String(), "NL")
}
