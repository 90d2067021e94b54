package join

import "errors"

// Sentinel errors returned by option validation and the engine.
// Wrapped with context where useful; match with errors.Is.
var (
	// ErrUnknownAlgorithm indicates an Algorithm tag outside the
	// supported set (a bad LocalJoin tag yields ErrBadLocalJoin).
	ErrUnknownAlgorithm = errors.New("join: unknown algorithm")

	// ErrBadEpsilon indicates a negative or non-finite epsilon.
	ErrBadEpsilon = errors.New("join: epsilon must be finite and non-negative")

	// ErrBadLeafSize indicates a non-positive TOUCH leaf capacity.
	ErrBadLeafSize = errors.New("join: leaf size must be positive")

	// ErrBadFanout indicates a non-positive TOUCH node fanout.
	ErrBadFanout = errors.New("join: fanout must be positive")

	// ErrBadGridCells indicates a non-positive grid resolution.
	ErrBadGridCells = errors.New("join: grid cells per axis must be positive")

	// ErrBadLevels indicates a non-positive S3 level count.
	ErrBadLevels = errors.New("join: S3 levels must be positive")

	// ErrBadBase indicates an S3 growth base below 2.
	ErrBadBase = errors.New("join: S3 base must be at least 2")

	// ErrBadSort indicates an unknown sort kind.
	ErrBadSort = errors.New("join: unknown sort kind")

	// ErrBadTraversal indicates an unknown tree traversal.
	ErrBadTraversal = errors.New("join: unknown tree traversal")

	// ErrBadResolution indicates an unknown local-grid resolution policy.
	ErrBadResolution = errors.New("join: unknown grid resolution policy")

	// ErrBadLocalJoin indicates a per-node backend other than NL or SGrid.
	ErrBadLocalJoin = errors.New("join: local join must be NL or SGrid")
)
