package knapsack

import (
	"fmt"
	"strings"
)

// Strategy names a search strategy.
type Strategy string

const (
	// StrategyPermutation is the permutation search with greedy tail fill.
	StrategyPermutation Strategy = "permutation"
	// StrategySubset is exhaustive subset enumeration.
	StrategySubset Strategy = "subset"
)

// Strategies lists the supported strategy names.
func Strategies() []Strategy {
	return []Strategy{StrategyPermutation, StrategySubset}
}

// ParseStrategy resolves a strategy name. An empty name selects StrategyPermutation.
func ParseStrategy(raw string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(raw))) {
	case "", StrategyPermutation:
		return StrategyPermutation, nil
	case StrategySubset:
		return StrategySubset, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, raw)
	}
}

// NewForStrategy returns the Solver implementing strategy.
func NewForStrategy(strategy Strategy, opts ...Option) (Solver, error) {
	switch strategy {
	case StrategyPermutation:
		return New(opts...), nil
	case StrategySubset:
		return NewSubsetSolver(opts...), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, string(strategy))
	}
}
