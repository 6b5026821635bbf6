package codec

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/n8henrie/knapsack/internal/knapsack"
)

// FormatSolution renders a solution as two lines: "<value> <optimal 1|0>"
// followed by the space-separated included flags in item order.
func FormatSolution(s knapsack.Solution) string {
	flags := lo.Map(s.Included, func(in bool, _ int) string {
		return digit(in)
	})
	return fmt.Sprintf("%d %s\n%s", s.Value, digit(s.IsOptimal), strings.Join(flags, " "))
}

// FormatProblem renders a problem in the format ParseProblem reads, items
// ordered by index.
func FormatProblem(p knapsack.Problem) string {
	items := slices.SortedFunc(slices.Values(p.Items), func(a, b knapsack.Item) int {
		return cmp.Compare(a.Index, b.Index)
	})
	lines := append(
		[]string{fmt.Sprintf("%d %d", len(items), p.Capacity)},
		lo.Map(items, func(item knapsack.Item, _ int) string {
			return fmt.Sprintf("%d %d", item.Value, item.Weight)
		})...,
	)
	return strings.Join(lines, "\n")
}

func digit(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
