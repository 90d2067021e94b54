package join

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/docker/go-units"
)

// statLevels is the number of tree levels broken out individually in
// the CSV log, matching the historical report format.
const statLevels = 10

// Stats collects the timers, counters and per-level statistics of one
// engine run. All of it is advisory output, not a stable API.
type Stats struct {
	Algorithm string
	LocalJoin string
	Epsilon   float64
	SizeA     uint64
	SizeB     uint64
	FileA     string
	FileB     string
	Fanout    int
	LeafSize  int
	GridCells int

	// Timers.
	Load        time.Duration
	Initialize  time.Duration
	Sorting     time.Duration
	Partition   time.Duration
	Building    time.Duration
	Probing     time.Duration
	Comparing   time.Duration
	Analyzing   time.Duration
	GridBuild   time.Duration
	SizeCalc    time.Duration
	DeDuplicate time.Duration
	Total       time.Duration

	// Counters.
	ItemsCompared    uint64
	ItemsMaxCompared uint64
	HashProbes       uint64
	Filtered         [sides]uint64
	Results          uint64
	Duplicates       uint64
	AddFilter        uint64

	// Tree shape and occupancy.
	Levels           int
	MaxMappedObjects uint64
	AvgPerCell       float64
	StdPerCell       float64
	PercentEmpty     float64
	RepA             float64
	RepB             float64

	LevelAssigned [sides][statLevels]uint64
	LevelAvg      [sides][statLevels]float64
	LevelStd      [sides][statLevels]float64

	// Memory samples in KB, taken after the probe. Zero when the
	// platform exposes no /proc interface.
	MemVirtKB float64
	MemRSSKB  float64
}

// Selectivity returns results as a share of |A|·|B| in percent.
func (s *Stats) Selectivity() float64 {
	if s.SizeA == 0 || s.SizeB == 0 {
		return 0
	}
	return 100 * float64(s.Results) / (float64(s.SizeA) * float64(s.SizeB))
}

// sqrtNonNeg guards variance computations against rounding below zero.
func sqrtNonNeg(v float64) float64 {
	if v <= 0 {
		return 0
	}
	return math.Sqrt(v)
}

// stopwatch accumulates into a duration field:
//
//	defer sw(&s.Probing)()
func sw(into *time.Duration) func() {
	t0 := time.Now()
	return func() { *into += time.Since(t0) }
}

// sampleMemory reads the process memory from /proc/self/statm and
// returns virtual and resident sizes in KB. Best effort: returns zeros
// where the interface is unavailable.
func sampleMemory() (virtKB, rssKB float64) {
	data, err := os.ReadFile("/proc/self/statm")
	if err != nil {
		return 0, 0
	}
	fields := strings.Fields(string(data))
	if len(fields) < 2 {
		return 0, 0
	}
	size, err1 := strconv.ParseUint(fields[0], 10, 64)
	rss, err2 := strconv.ParseUint(fields[1], 10, 64)
	if err1 != nil || err2 != nil {
		return 0, 0
	}
	page := float64(os.Getpagesize()) / 1024.0
	return float64(size) * page, float64(rss) * page
}

// csvHeader lists the columns of the performance log.
func csvHeader() []string {
	cols := []string{
		"Algorithm", "Epsilon", "#A", "#B", "infile A", "infile B",
		"LocalJoin Alg", "Fanout", "Leaf size", "gridSize",
		"Compared #", "Compared %", "ComparedMax",
		"Duplicates", "Results", "Selectivity", "filtered A", "filtered B",
		"t loading", "t init", "t build", "t probe", "t comparing",
		"t partition", "t total", "t deDuplicating", "t analyzing",
		"t sorting", "t gridCalculate", "t sizeCalculate",
		"EmptyCells(%)", "MaxObj", "AveObj", "StdObj", "repA", "repB",
		"hash probes", "tree height", "Memory Virt", "Memory RAM", "addFilter",
	}
	for t := 0; t < sides; t++ {
		for i := 0; i < statLevels; i++ {
			cols = append(cols, fmt.Sprintf("l%d assigned %c", i, 'A'+t))
		}
	}
	for t := 0; t < sides; t++ {
		for i := 0; i < statLevels; i++ {
			cols = append(cols, fmt.Sprintf("l%d avg %c", i, 'A'+t))
		}
	}
	for t := 0; t < sides; t++ {
		for i := 0; i < statLevels; i++ {
			cols = append(cols, fmt.Sprintf("l%d std %c", i, 'A'+t))
		}
	}
	return cols
}

func (s *Stats) csvRow() []string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	u := func(v uint64) string { return strconv.FormatUint(v, 10) }
	d := func(v time.Duration) string { return f(v.Seconds()) }

	comparedPct := 0.0
	if s.SizeA > 0 && s.SizeB > 0 {
		comparedPct = 100 * float64(s.ItemsCompared) / (float64(s.SizeA) * float64(s.SizeB))
	}
	row := []string{
		s.Algorithm, f(s.Epsilon), u(s.SizeA), u(s.SizeB), s.FileA, s.FileB,
		s.LocalJoin, strconv.Itoa(s.Fanout), strconv.Itoa(s.LeafSize), strconv.Itoa(s.GridCells),
		u(s.ItemsCompared), f(comparedPct), u(s.ItemsMaxCompared),
		u(s.Duplicates), u(s.Results), f(s.Selectivity()), u(s.Filtered[sideA]), u(s.Filtered[sideB]),
		d(s.Load), d(s.Initialize), d(s.Building), d(s.Probing), d(s.Comparing),
		d(s.Partition), d(s.Total), d(s.DeDuplicate), d(s.Analyzing),
		d(s.Sorting), d(s.GridBuild), d(s.SizeCalc),
		f(s.PercentEmpty), u(s.MaxMappedObjects), f(s.AvgPerCell), f(s.StdPerCell), f(s.RepA), f(s.RepB),
		u(s.HashProbes), strconv.Itoa(s.Levels), f(s.MemVirtKB), f(s.MemRSSKB), u(s.AddFilter),
	}
	for t := 0; t < sides; t++ {
		for i := 0; i < statLevels; i++ {
			row = append(row, u(s.LevelAssigned[t][i]))
		}
	}
	for t := 0; t < sides; t++ {
		for i := 0; i < statLevels; i++ {
			row = append(row, f(s.LevelAvg[t][i]))
		}
	}
	for t := 0; t < sides; t++ {
		for i := 0; i < statLevels; i++ {
			row = append(row, f(s.LevelStd[t][i]))
		}
	}
	return row
}

// WriteCSV appends one row to the performance log at path, creating
// the file with a header row first.
func (s *Stats) WriteCSV(path string) error {
	_, statErr := os.Stat(path)
	fresh := os.IsNotExist(statErr)

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("join: open log %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if fresh {
		if err := w.Write(csvHeader()); err != nil {
			return fmt.Errorf("join: write log header: %w", err)
		}
	}
	if err := w.Write(s.csvRow()); err != nil {
		return fmt.Errorf("join: write log row: %w", err)
	}
	w.Flush()
	return w.Error()
}

// Report writes a human-readable summary of the run.
func (s *Stats) Report(w io.Writer) {
	fmt.Fprintf(w, "%s using %s\n", s.Algorithm, s.LocalJoin)
	fmt.Fprintf(w, "#A %d  #B %d  epsilon %g\n", s.SizeA, s.SizeB, s.Epsilon)
	fmt.Fprintf(w, "results %d  duplicates %d  selectivity %.4g%%\n",
		s.Results, s.Duplicates, s.Selectivity())
	fmt.Fprintf(w, "compared %d (max %d)  filtered A %d B %d\n",
		s.ItemsCompared, s.ItemsMaxCompared, s.Filtered[sideA], s.Filtered[sideB])
	fmt.Fprintf(w, "times: total %v  load %v  sort %v  partition %v  build %v  probe %v  dedup %v\n",
		s.Total, s.Load, s.Sorting, s.Partition, s.Building, s.Probing, s.DeDuplicate)
	if s.Levels > 0 {
		fmt.Fprintf(w, "tree height %d  empty cells %.2f%%  max/cell %d  avg/cell %.2f\n",
			s.Levels, s.PercentEmpty, s.MaxMappedObjects, s.AvgPerCell)
	}
	fmt.Fprintf(w, "memory: RSS %s  virtual %s\n",
		units.HumanSize(s.MemRSSKB*1024), units.HumanSize(s.MemVirtKB*1024))
}
