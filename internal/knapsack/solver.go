package knapsack

import "fmt"

type permutationSolver struct {
	maxItems int
}

// New creates the default Solver: exhaustive permutation search with a greedy
// tail fill per ordering.
//
// Among orderings that reach the same value, the first one generated wins.
func New(opts ...Option) Solver {
	o := buildOptions(defaultPermutationMaxItems, opts)
	return &permutationSolver{maxItems: o.maxItems}
}

func (s *permutationSolver) Solve(problem Problem) (Solution, error) {
	if err := checkProblem(problem, s.maxItems); err != nil {
		return Solution{}, err
	}

	var (
		best      Solution
		found     bool
		bag       = make([]int, 0, len(problem.Items))
		bestValue uint64
	)
	for ordering := range AllPermutations(problem.Items) {
		var value uint64
		bag, value = fillFromTail(problem.Capacity, ordering, bag[:0])
		if found && value <= bestValue {
			continue
		}
		best = newSolution(len(problem.Items), value, bag)
		bestValue = value
		found = true
	}

	if !found {
		return Solution{}, ErrNoSolution
	}
	return best, nil
}

// fillFromTail consumes ordering from its last element to its first, keeping
// every item that still fits. Rejected items are never reconsidered.
// It appends the original indices of kept items to bag.
func fillFromTail(capacity uint64, ordering []Item, bag []int) ([]int, uint64) {
	var weight, value uint64
	for i := len(ordering) - 1; i >= 0; i-- {
		item := ordering[i]
		if weight+item.Weight > capacity {
			continue
		}
		weight += item.Weight
		value += item.Value
		bag = append(bag, item.Index)
	}
	return bag, value
}

func newSolution(n int, value uint64, bag []int) Solution {
	included := make([]bool, n)
	for _, idx := range bag {
		included[idx] = true
	}
	return Solution{
		Value:     value,
		IsOptimal: true,
		Included:  included,
	}
}

func checkProblem(problem Problem, maxItems int) error {
	if maxItems > 0 && len(problem.Items) > maxItems {
		return fmt.Errorf("%w: got %d, limit is %d", ErrTooManyItems, len(problem.Items), maxItems)
	}
	return problem.validate()
}
