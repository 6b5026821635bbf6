package knapsack

import "errors"

var (
	// ErrNoSolution is returned when the search produced no candidate, e.g. for an empty item list.
	ErrNoSolution = errors.New("no solutions found")
	// ErrTooManyItems is returned when a problem exceeds the solver's item limit.
	ErrTooManyItems = errors.New("too many items for exhaustive search")
	// ErrInvalidProblem is returned when item indices are not a permutation of 0..n-1.
	ErrInvalidProblem = errors.New("item indices must be unique and within [0, n)")
	// ErrUnknownStrategy is returned when a strategy name cannot be resolved.
	ErrUnknownStrategy = errors.New("unknown strategy")
)
