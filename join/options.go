package join

import (
	"io"
	"log"
	"math"
)

// Algorithm selects the join strategy. The numeric values match the
// historical command-line tags.
type Algorithm int

const (
	// NL is the nested-loop join.
	NL Algorithm = iota
	// PS is the plane-sweep join.
	PS
	// SGrid is the spatial-grid hash join.
	SGrid
	// S3 is the size-separation spatial hash join.
	S3
	// PBSM is the partition-based spatial-merge join.
	PBSM
	// TOUCH is the hierarchical spatial hash join.
	TOUCH
)

// String returns the short algorithm name used in reports and logs.
func (a Algorithm) String() string {
	switch a {
	case NL:
		return "NL"
	case PS:
		return "PS"
	case SGrid:
		return "SGrid"
	case S3:
		return "S3"
	case PBSM:
		return "PBSM"
	case TOUCH:
		return "TOUCH"
	default:
		return "Undefined"
	}
}

// SortKind selects the leaf/node ordering used by the tree builder.
type SortKind int

const (
	// SortNone keeps input order (test mode).
	SortNone SortKind = iota
	// SortHilbert orders by the Hilbert value of object centers.
	SortHilbert
	// SortXAxis orders by center coordinates, x first.
	SortXAxis
	// SortSTR orders by center coordinates like SortXAxis; retained as
	// a distinct tag for compatibility with recorded configurations.
	SortSTR
)

// Traversal selects the TOUCH probe strategy.
type Traversal int

const (
	// BU is the bottom-up pathway traversal.
	BU Traversal = iota
	// TD is the top-down traversal (default).
	TD
	// TDD is top-down on demand, without the subtree filter. Nothing is
	// pruned, so it enumerates every candidate pair, at the cost of
	// visiting every subtree.
	TDD
	// TDF is top-down on demand with the MBR subtree filter.
	TDF
)

// String returns the traversal tag used in reports.
func (t Traversal) String() string {
	switch t {
	case BU:
		return "BU"
	case TD:
		return "TD"
	case TDD:
		return "TDDemand"
	case TDF:
		return "TDDemandFilter"
	default:
		return "Undefined"
	}
}

// ResolutionPolicy selects how a node's local grid picks its cell width.
type ResolutionPolicy int

const (
	// ResolutionStatic divides the node extent by a fixed cell count.
	ResolutionStatic ResolutionPolicy = iota
	// ResolutionDynamicEqual uses cubic cells sized by the cube root
	// of the mean entry volume within the node.
	ResolutionDynamicEqual
	// ResolutionDynamicFlex uses the per-axis mean entry extent
	// within the node.
	ResolutionDynamicFlex
)

// Defaults mirror the recorded configuration of the original engine.
const (
	DefaultEpsilon      = 0.5
	DefaultLeafSize     = 100
	DefaultFanout       = 2
	DefaultGridCells    = 100
	DefaultLevels       = 10
	DefaultBase         = 2
	DefaultSortBudgetMB = 256
)

// Options is the immutable engine configuration. Build it with
// functional options applied over DefaultOptions; knobs that are not
// set keep the defaults above, and Validate rejects zero or negative
// values of the validated integer knobs.
type Options struct {
	Algorithm  Algorithm
	LocalJoin  Algorithm // per-node/per-bucket backend: NL or SGrid
	Epsilon    float64
	Sort       SortKind
	Traversal  Traversal
	Resolution ResolutionPolicy

	LeafSize  int // TOUCH leaf capacity
	Fanout    int // TOUCH node fanout
	GridCells int // cells per axis: SGrid, PBSM and static local grids
	Levels    int // S3 level count
	Base      int // S3 per-axis growth factor

	LimitA, LimitB uint64 // record caps at load; 0 = no cap

	SortBudgetMB int // plane-sweep external-sort spill threshold

	Verbose bool
	Log     *log.Logger
}

// Option mutates Options during construction.
type Option func(*Options)

// DefaultOptions returns the default configuration: TOUCH semantics
// knobs at their recorded values, nested-loop algorithm, Hilbert sort,
// top-down traversal, dynamic-flex local grids.
func DefaultOptions() Options {
	return Options{
		Algorithm:    NL,
		LocalJoin:    NL,
		Epsilon:      DefaultEpsilon,
		Sort:         SortHilbert,
		Traversal:    TD,
		Resolution:   ResolutionDynamicFlex,
		LeafSize:     DefaultLeafSize,
		Fanout:       DefaultFanout,
		GridCells:    DefaultGridCells,
		Levels:       DefaultLevels,
		Base:         DefaultBase,
		SortBudgetMB: DefaultSortBudgetMB,
		Log:          log.New(io.Discard, "", 0),
	}
}

// WithAlgorithm selects the join strategy.
func WithAlgorithm(a Algorithm) Option { return func(o *Options) { o.Algorithm = a } }

// WithLocalJoin selects the per-node/per-bucket backend (NL or SGrid).
func WithLocalJoin(a Algorithm) Option { return func(o *Options) { o.LocalJoin = a } }

// WithEpsilon sets the proximity threshold ε.
func WithEpsilon(eps float64) Option { return func(o *Options) { o.Epsilon = eps } }

// WithSort selects the tree builder ordering.
func WithSort(s SortKind) Option { return func(o *Options) { o.Sort = s } }

// WithTraversal selects the TOUCH probe strategy.
func WithTraversal(t Traversal) Option { return func(o *Options) { o.Traversal = t } }

// WithResolution selects the local-grid resolution policy.
func WithResolution(r ResolutionPolicy) Option { return func(o *Options) { o.Resolution = r } }

// WithLeafSize sets the TOUCH leaf capacity.
func WithLeafSize(n int) Option { return func(o *Options) { o.LeafSize = n } }

// WithFanout sets the TOUCH node fanout.
func WithFanout(n int) Option { return func(o *Options) { o.Fanout = n } }

// WithGridCells sets the cells-per-axis resolution of SGrid, PBSM and
// static local grids.
func WithGridCells(n int) Option { return func(o *Options) { o.GridCells = n } }

// WithLevels sets the S3 level count.
func WithLevels(n int) Option { return func(o *Options) { o.Levels = n } }

// WithBase sets the S3 per-axis growth factor.
func WithBase(n int) Option { return func(o *Options) { o.Base = n } }

// WithLimits caps the number of records loaded per side (0 = no cap).
func WithLimits(a, b uint64) Option {
	return func(o *Options) { o.LimitA, o.LimitB = a, b }
}

// WithSortBudgetMB sets the plane-sweep external-sort spill threshold.
func WithSortBudgetMB(mb int) Option { return func(o *Options) { o.SortBudgetMB = mb } }

// WithVerbose enables progress output on the configured logger.
func WithVerbose(l *log.Logger) Option {
	return func(o *Options) {
		o.Verbose = true
		if l != nil {
			o.Log = l
		}
	}
}

// Validate checks the configuration for nonsense values.
// Validation order: algorithm, local join, epsilon, sort, traversal,
// resolution, then the integer knobs.
func (o *Options) Validate() error {
	if o.Algorithm < NL || o.Algorithm > TOUCH {
		return ErrUnknownAlgorithm
	}
	if o.LocalJoin != NL && o.LocalJoin != SGrid {
		return ErrBadLocalJoin
	}
	if o.Epsilon < 0 || math.IsNaN(o.Epsilon) || math.IsInf(o.Epsilon, 0) {
		return ErrBadEpsilon
	}
	if o.Sort < SortNone || o.Sort > SortSTR {
		return ErrBadSort
	}
	if o.Traversal < BU || o.Traversal > TDF {
		return ErrBadTraversal
	}
	if o.Resolution < ResolutionStatic || o.Resolution > ResolutionDynamicFlex {
		return ErrBadResolution
	}
	if o.LeafSize <= 0 {
		return ErrBadLeafSize
	}
	if o.Fanout <= 0 {
		return ErrBadFanout
	}
	if o.GridCells <= 0 {
		return ErrBadGridCells
	}
	if o.Levels <= 0 {
		return ErrBadLevels
	}
	if o.Base < 2 {
		return ErrBadBase
	}
	return nil
}

// Name returns the report label of the configuration, e.g. "TOUCH:TD".
func (o *Options) Name() string {
	if o.Algorithm == TOUCH {
		return o.Algorithm.String() + ":" + o.Traversal.String()
	}
	return o.Algorithm.String()
}
