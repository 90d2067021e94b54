package join

import (
	"fmt"
	"io"

	"github.com/katalvlaran/epsjoin/dataset"
	"github.com/katalvlaran/epsjoin/geom"
	"github.com/katalvlaran/epsjoin/object"
)

// Result is the outcome of one join run: the de-duplicated pair set
// and the run statistics.
type Result struct {
	Pairs *ResultPairs
	Stats *Stats
}

// engine carries the state of a single run. One engine joins once;
// it is not safe for concurrent use.
type engine struct {
	opts Options

	dsA, dsB             []*Entry
	universeA, universeB geom.Box

	pairs ResultPairs
	stats Stats
}

// Join runs the configured algorithm over two already-loaded object
// sets and returns the unique pair set. An empty side yields an empty
// result and no error.
//
// Complexity depends on the algorithm; NL is Θ(|A|·|B|) refinements,
// the others trade build work for pruned probing.
func Join(objsA, objsB []object.Object, opts ...Option) (*Result, error) {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &engine{opts: cfg}
	defer sw(&e.stats.Total)()

	stopLoad := sw(&e.stats.Load)
	e.dsA, e.universeA = buildEntries(objsA, sideA, cfg.Epsilon)
	e.dsB, e.universeB = buildEntries(objsB, sideB, cfg.Epsilon)
	stopLoad()

	if err := e.run(); err != nil {
		return nil, err
	}
	return e.finish(), nil
}

// Run loads two dataset files (honoring the configured record caps)
// and joins them.
func Run(fileA, fileB string, opts ...Option) (*Result, error) {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &engine{opts: cfg}
	defer sw(&e.stats.Total)()
	e.stats.FileA, e.stats.FileB = fileA, fileB

	stopLoad := sw(&e.stats.Load)
	objsA, err := loadObjects(fileA, cfg.LimitA, cfg.Log, cfg.Verbose)
	if err != nil {
		return nil, err
	}
	objsB, err := loadObjects(fileB, cfg.LimitB, cfg.Log, cfg.Verbose)
	if err != nil {
		return nil, err
	}
	e.dsA, e.universeA = buildEntries(objsA, sideA, cfg.Epsilon)
	e.dsB, e.universeB = buildEntries(objsB, sideB, cfg.Epsilon)
	stopLoad()

	if err := e.run(); err != nil {
		return nil, err
	}
	return e.finish(), nil
}

// loadObjects streams up to limit records from one dataset file
// (0 = all).
func loadObjects(name string, limit uint64, logger logPrinter, verbose bool) ([]object.Object, error) {
	r, err := dataset.Open(name)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	count := r.Count()
	if limit != 0 && limit < count {
		count = limit
	}
	if verbose {
		logger.Printf("loading %d of %d %s records from %s",
			count, r.Count(), object.TitleOf(r.Kind()), name)
	}
	objs := make([]object.Object, 0, count)
	for uint64(len(objs)) < count && r.HasNext() {
		obj, err := r.Next()
		if err != nil {
			return nil, fmt.Errorf("join: load %s: %w", name, err)
		}
		objs = append(objs, obj)
	}
	return objs, nil
}

// logPrinter is the slice of *log.Logger the engine uses.
type logPrinter interface {
	Printf(format string, v ...interface{})
}

// run dispatches to the configured algorithm. Empty sides short-circuit
// to an empty result for every algorithm.
func (e *engine) run() error {
	e.stats.Algorithm = e.opts.Name()
	e.stats.LocalJoin = e.opts.LocalJoin.String()
	e.stats.Epsilon = e.opts.Epsilon
	e.stats.SizeA = uint64(len(e.dsA))
	e.stats.SizeB = uint64(len(e.dsB))
	e.stats.Fanout = e.opts.Fanout
	e.stats.LeafSize = e.opts.LeafSize
	e.stats.GridCells = e.opts.GridCells

	if len(e.dsA) == 0 || len(e.dsB) == 0 {
		return nil
	}

	switch e.opts.Algorithm {
	case NL:
		e.runNL()
	case PS:
		return e.runPS()
	case SGrid:
		e.runSGrid()
	case S3:
		e.runS3()
	case PBSM:
		e.runPBSM()
	case TOUCH:
		return e.runTOUCH()
	default:
		return ErrUnknownAlgorithm
	}
	return nil
}

// finish de-duplicates the buffer, samples memory and packages the
// result. Runs once at the end of every join.
func (e *engine) finish() *Result {
	stopDedup := sw(&e.stats.DeDuplicate)
	e.pairs.DeDuplicate()
	stopDedup()

	e.stats.Results = uint64(e.pairs.Len())
	e.stats.Duplicates = e.pairs.Duplicates
	e.stats.MemVirtKB, e.stats.MemRSSKB = sampleMemory()

	if e.opts.Verbose {
		e.opts.Log.Printf("%s done: %d results, %d duplicates collapsed",
			e.stats.Algorithm, e.stats.Results, e.stats.Duplicates)
	}
	return &Result{Pairs: &e.pairs, Stats: &e.stats}
}

// isTouching is the refinement predicate: the ε/2-inflated MBRs of the
// two entries overlap. Entries cache their inflated MBR at load time,
// so this is a plain closed-interval box test.
func (e *engine) isTouching(a, b *Entry) bool {
	e.stats.ItemsCompared++
	return geom.Overlap(a.MBR, b.MBR)
}

// nlOne refines one entry against a candidate list.
func (e *engine) nlOne(a *Entry, list []*Entry) {
	for _, b := range list {
		if e.isTouching(a, b) {
			e.pairs.AddPair(a, b)
		}
	}
}

// nlLists refines the cross product of two candidate lists.
func (e *engine) nlLists(as, bs []*Entry) {
	for _, a := range as {
		e.nlOne(a, bs)
	}
}

// runNL is the nested-loop ground truth.
func (e *engine) runNL() {
	defer sw(&e.stats.Probing)()
	e.stats.ItemsMaxCompared += uint64(len(e.dsA)) * uint64(len(e.dsB))
	e.nlLists(e.dsA, e.dsB)
}

// Report writes the run summary to w.
func (r *Result) Report(w io.Writer) { r.Stats.Report(w) }
