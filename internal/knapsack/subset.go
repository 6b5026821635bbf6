package knapsack

import "fmt"

type subsetSolver struct {
	maxItems int
}

// NewSubsetSolver creates a Solver that checks every subset of the items and
// keeps the most valuable one that fits. Unlike New it always finds the optimum,
// at O(2^n * n) cost. Ties go to the subset with the lowest bitmask.
func NewSubsetSolver(opts ...Option) Solver {
	o := buildOptions(defaultSubsetMaxItems, opts)
	return &subsetSolver{maxItems: o.maxItems}
}

func (s *subsetSolver) Solve(problem Problem) (Solution, error) {
	if err := checkProblem(problem, s.maxItems); err != nil {
		return Solution{}, err
	}
	n := len(problem.Items)
	if n == 0 {
		return Solution{}, ErrNoSolution
	}
	if n >= 64 {
		return Solution{}, fmt.Errorf("%w: got %d, subsets need fewer than 64", ErrTooManyItems, n)
	}

	var (
		bestMask  uint64
		bestValue uint64
		found     bool
	)
	for mask := uint64(0); mask < 1<<n; mask++ {
		value, ok := subsetValue(problem, mask)
		if !ok || (found && value <= bestValue) {
			continue
		}
		bestMask, bestValue, found = mask, value, true
	}

	bag := make([]int, 0, n)
	for i, item := range problem.Items {
		if bestMask&(1<<i) != 0 {
			bag = append(bag, item.Index)
		}
	}
	return newSolution(n, bestValue, bag), nil
}

// subsetValue sums the items selected by mask and reports whether they fit.
func subsetValue(problem Problem, mask uint64) (uint64, bool) {
	var weight, value uint64
	for i, item := range problem.Items {
		if mask&(1<<i) == 0 {
			continue
		}
		weight += item.Weight
		if weight > problem.Capacity {
			return 0, false
		}
		value += item.Value
	}
	return value, true
}
