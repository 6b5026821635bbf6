package knapsack

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// exampleProblem is the ks_4_0 instance: capacity 11, four items.
func exampleProblem() Problem {
	return NewProblem(11, []uint64{8, 10, 15, 4}, []uint64{4, 5, 8, 3})
}

func solvers() map[string]Solver {
	return map[string]Solver{
		"permutation": New(),
		"subset":      NewSubsetSolver(),
	}
}

func TestSolve_Example(t *testing.T) {
	t.Parallel()

	for name, solver := range solvers() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := solver.Solve(exampleProblem())
			require.NoError(t, err)
			require.Equal(t, Solution{
				Value:     19,
				IsOptimal: true,
				Included:  []bool{false, false, true, true},
			}, got)
			require.Equal(t, []int{2, 3}, got.Selected())
		})
	}
}

func TestSolve_Cases(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		problem Problem
		want    Solution
		wantErr error
	}{
		{
			name:    "SingleItemTooHeavy",
			problem: NewProblem(5, []uint64{10}, []uint64{6}),
			want:    Solution{Value: 0, IsOptimal: true, Included: []bool{false}},
		},
		{
			name:    "SingleItemFits",
			problem: NewProblem(6, []uint64{10}, []uint64{6}),
			want:    Solution{Value: 10, IsOptimal: true, Included: []bool{true}},
		},
		{
			name:    "ZeroCapacityKeepsWeightlessItems",
			problem: NewProblem(0, []uint64{3, 4}, []uint64{0, 1}),
			want:    Solution{Value: 3, IsOptimal: true, Included: []bool{true, false}},
		},
		{
			name:    "EverythingFits",
			problem: NewProblem(100, []uint64{1, 2, 3}, []uint64{10, 20, 30}),
			want:    Solution{Value: 6, IsOptimal: true, Included: []bool{true, true, true}},
		},
		{
			name:    "EmptyItems",
			problem: Problem{Capacity: 10},
			wantErr: ErrNoSolution,
		},
		{
			name: "DuplicateIndices",
			problem: Problem{Capacity: 10, Items: []Item{
				{Index: 0, Value: 1, Weight: 1},
				{Index: 0, Value: 2, Weight: 1},
			}},
			wantErr: ErrInvalidProblem,
		},
		{
			name: "IndexOutOfRange",
			problem: Problem{Capacity: 10, Items: []Item{
				{Index: 3, Value: 1, Weight: 1},
			}},
			wantErr: ErrInvalidProblem,
		},
	}

	for _, tc := range tests {
		for name, solver := range solvers() {
			t.Run(tc.name+"/"+name, func(t *testing.T) {
				t.Parallel()

				got, err := solver.Solve(tc.problem)
				if tc.wantErr != nil {
					require.ErrorIs(t, err, tc.wantErr)
					return
				}
				require.NoError(t, err)
				require.Equal(t, tc.want, got)
			})
		}
	}
}

func TestSolve_TieBreakKeepsFirstCandidate(t *testing.T) {
	t.Parallel()

	problem := NewProblem(1, []uint64{5, 5}, []uint64{1, 1})

	// The first Heap ordering is the input order; its tail is item 1.
	got, err := New().Solve(problem)
	require.NoError(t, err)
	require.Equal(t, []bool{false, true}, got.Included)

	// Bitmask 0b01 (item 0) is enumerated before 0b10.
	got, err = NewSubsetSolver().Solve(problem)
	require.NoError(t, err)
	require.Equal(t, []bool{true, false}, got.Included)
}

func TestSolve_MaxItems(t *testing.T) {
	t.Parallel()

	problem := NewProblem(10, []uint64{1, 2, 3}, []uint64{1, 2, 3})

	_, err := New(WithMaxItems(2)).Solve(problem)
	require.ErrorIs(t, err, ErrTooManyItems)

	_, err = NewSubsetSolver(WithMaxItems(2)).Solve(problem)
	require.ErrorIs(t, err, ErrTooManyItems)

	got, err := New(WithMaxItems(0)).Solve(problem)
	require.NoError(t, err)
	require.EqualValues(t, 6, got.Value)
}

func TestSolve_DefaultLimit(t *testing.T) {
	t.Parallel()

	values := make([]uint64, defaultPermutationMaxItems+1)
	weights := make([]uint64, defaultPermutationMaxItems+1)
	_, err := New().Solve(NewProblem(10, values, weights))
	require.ErrorIs(t, err, ErrTooManyItems)
}

func TestSolve_Invariants(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 40; i++ {
		problem := randomProblem(rng, 1+rng.Intn(6))
		t.Run(fmt.Sprintf("case_%d", i), func(t *testing.T) {
			first, err := New().Solve(problem)
			require.NoError(t, err)

			require.Len(t, first.Included, len(problem.Items))
			require.LessOrEqual(t, problem.Weight(first.Included), problem.Capacity)
			require.True(t, first.IsOptimal)

			var value uint64
			for _, item := range problem.Items {
				if first.Included[item.Index] {
					value += item.Value
				}
			}
			require.Equal(t, value, first.Value)

			again, err := New().Solve(problem)
			require.NoError(t, err)
			require.Equal(t, first.Value, again.Value)

			exact, err := NewSubsetSolver().Solve(problem)
			require.NoError(t, err)
			require.Equal(t, exact.Value, first.Value)
		})
	}
}

func TestSolve_MonotonicInCapacity(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(7))
	problem := randomProblem(rng, 5)

	var previous uint64
	for capacity := uint64(0); capacity <= 60; capacity++ {
		problem.Capacity = capacity
		got, err := New().Solve(problem)
		require.NoError(t, err)
		require.GreaterOrEqual(t, got.Value, previous, "capacity %d", capacity)
		previous = got.Value
	}
}

func TestProblemWeight(t *testing.T) {
	t.Parallel()

	problem := exampleProblem()
	require.EqualValues(t, 11, problem.Weight([]bool{false, false, true, true}))
	require.EqualValues(t, 0, problem.Weight(nil))
}

func randomProblem(rng *rand.Rand, n int) Problem {
	values := make([]uint64, n)
	weights := make([]uint64, n)
	for i := 0; i < n; i++ {
		values[i] = uint64(rng.Intn(30))
		weights[i] = uint64(1 + rng.Intn(15))
	}
	return NewProblem(uint64(rng.Intn(40)), values, weights)
}

func BenchmarkSolvePermutation8(b *testing.B) {
	problem := randomProblem(rand.New(rand.NewSource(1)), 8)
	solver := New()
	for i := 0; i < b.N; i++ {
		if _, err := solver.Solve(problem); err != nil {
			b.Fatalf("unexpected error: %v", err)
		}
	}
}

func BenchmarkSolveSubset16(b *testing.B) {
	problem := randomProblem(rand.New(rand.NewSource(1)), 16)
	solver := NewSubsetSolver()
	for i := 0; i < b.N; i++ {
		if _, err := solver.Solve(problem); err != nil {
			b.Fatalf("unexpected error: %v", err)
		}
	}
}
