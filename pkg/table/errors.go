package table

import "errors"

// Sentinel errors for table operations. Operators wrap these with column/
// node context before they reach the scheduler's structured error type.
var (
	ErrColumnNotFound   = errors.New("column not found")
	ErrColumnExists     = errors.New("column already exists")
	ErrLengthMismatch   = errors.New("column length mismatch")
	ErrKeyArity         = errors.New("join key lists have different lengths")
	ErrUnsupportedJoin  = errors.New("unsupported join mode")
	ErrUnsupportedAgg   = errors.New("unsupported aggregation function")
	ErrUnsupportedKind  = errors.New("unsupported element kind")
	ErrEmptyConcat      = errors.New("concat requires at least one table")
	ErrNoIndexColumns   = errors.New("pivot requires at least one index column")
)
