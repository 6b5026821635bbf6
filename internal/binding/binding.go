// Package binding exposes the solver as a single text-in, text-out call:
// parse the problem, solve it, format the solution.
package binding

import (
	"github.com/n8henrie/knapsack/internal/codec"
	"github.com/n8henrie/knapsack/internal/knapsack"
)

// Binding runs text problems through a Solver.
type Binding struct {
	solver knapsack.Solver
}

// New returns a Binding backed by solver. A nil solver selects knapsack.New().
func New(solver knapsack.Solver) *Binding {
	if solver == nil {
		solver = knapsack.New()
	}
	return &Binding{solver: solver}
}

// Solve parses input, solves it and returns the formatted solution.
// Parse errors are *codec.FormatError; solver errors are returned unchanged.
func (b *Binding) Solve(input string) (string, error) {
	_, solution, err := b.SolveProblem(input)
	if err != nil {
		return "", err
	}
	return codec.FormatSolution(solution), nil
}

// SolveProblem is Solve for callers that also need the parsed problem and the
// structured solution.
func (b *Binding) SolveProblem(input string) (knapsack.Problem, knapsack.Solution, error) {
	problem, err := codec.ParseProblem(input)
	if err != nil {
		return knapsack.Problem{}, knapsack.Solution{}, err
	}
	solution, err := b.solver.Solve(problem)
	if err != nil {
		return problem, knapsack.Solution{}, err
	}
	return problem, solution, nil
}

// Solve runs input through the default solver.
func Solve(input string) (string, error) {
	return New(nil).Solve(input)
}
