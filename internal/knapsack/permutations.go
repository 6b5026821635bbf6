package knapsack

import (
	"iter"
	"slices"
)

// AllPermutations returns a sequence over every ordering of s, generated with
// the recursive form of Heap's algorithm. Each yielded slice is a fresh copy and
// s itself is never modified. An empty s yields no orderings.
func AllPermutations[T any](s []T) iter.Seq[[]T] {
	return func(yield func([]T) bool) {
		if len(s) == 0 {
			return
		}
		work := slices.Clone(s)
		heapPermute(work, len(work), yield)
	}
}

// Permutations collects AllPermutations into a slice of n! orderings.
func Permutations[T any](s []T) [][]T {
	return slices.Collect(AllPermutations(s))
}

// heapPermute permutes work[:n] in place and reports false once yield asks to stop.
func heapPermute[T any](work []T, n int, yield func([]T) bool) bool {
	if n == 1 {
		return yield(slices.Clone(work))
	}

	for x := 0; x < n-1; x++ {
		if !heapPermute(work, n-1, yield) {
			return false
		}
		if n%2 == 0 {
			work[n-1], work[x] = work[x], work[n-1]
		} else {
			work[n-1], work[0] = work[0], work[n-1]
		}
	}
	return heapPermute(work, n-1, yield)
}
