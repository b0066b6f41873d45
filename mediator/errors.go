package mediator

import "errors"

var (
	// ErrNotOrderable is returned by an ordered pipeline when a passing
	// actor's order value is missing or not numeric.
	ErrNotOrderable = errors.New("cannot order elements that are not numbers")

	// ErrUnsupportedStrategy is returned when a constructor is given a
	// configuration for a strategy it does not build.
	ErrUnsupportedStrategy = errors.New("unsupported mediator strategy")

	// ErrNilCombiner is returned by NewUnion when no combiner is given.
	ErrNilCombiner = errors.New("union mediator requires a combiner")
)
