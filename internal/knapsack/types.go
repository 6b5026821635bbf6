package knapsack

// Item is a single candidate for the bag. Index is the item's position in the
// original input and is what Solution.Included is keyed by.
type Item struct {
	Index  int
	Value  uint64
	Weight uint64
}

// Problem is a capacity plus the items to choose from.
type Problem struct {
	Capacity uint64
	Items    []Item
}

// Solution is the best bag found for a Problem.
// Included has one entry per item, addressed by Item.Index.
type Solution struct {
	Value     uint64
	IsOptimal bool
	Included  []bool
}

// Solver describes the behaviour required from a knapsack solver.
type Solver interface {
	Solve(problem Problem) (Solution, error)
}

// NewProblem builds a Problem from parallel value and weight slices, assigning
// indices in input order.
func NewProblem(capacity uint64, values, weights []uint64) Problem {
	n := min(len(values), len(weights))
	items := make([]Item, n)
	for i := 0; i < n; i++ {
		items[i] = Item{Index: i, Value: values[i], Weight: weights[i]}
	}
	return Problem{Capacity: capacity, Items: items}
}

// Weight returns the total weight of the items marked in included.
func (p Problem) Weight(included []bool) uint64 {
	var total uint64
	for _, item := range p.Items {
		if item.Index < len(included) && included[item.Index] {
			total += item.Weight
		}
	}
	return total
}

// Selected returns the indices marked true in the solution, in ascending order.
func (s Solution) Selected() []int {
	out := make([]int, 0, len(s.Included))
	for idx, in := range s.Included {
		if in {
			out = append(out, idx)
		}
	}
	return out
}

func (p Problem) validate() error {
	seen := make([]bool, len(p.Items))
	for _, item := range p.Items {
		if item.Index < 0 || item.Index >= len(p.Items) || seen[item.Index] {
			return ErrInvalidProblem
		}
		seen[item.Index] = true
	}
	return nil
}
