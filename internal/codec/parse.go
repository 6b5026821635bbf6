package codec

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/n8henrie/knapsack/internal/knapsack"
)

// ParseProblem reads the text problem format:
//
//	<item_count> <capacity>
//	<value> <weight>
//	...
//
// Items are indexed by their line order starting at zero. Trailing blank lines
// are ignored; any other line that is not a value/weight pair is an error, as
// is a header count that differs from the number of item lines.
func ParseProblem(text string) (knapsack.Problem, error) {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return knapsack.Problem{}, &FormatError{Reason: "missing header line"}
	}

	count, capacity, err := parseHeader(lines[0])
	if err != nil {
		return knapsack.Problem{}, err
	}

	items := make([]knapsack.Item, 0, len(lines)-1)
	for idx, line := range lines[1:] {
		value, weight, err := parsePair(line)
		if err != nil {
			return knapsack.Problem{}, &FormatError{Line: idx + 2, Reason: "invalid item", Err: err}
		}
		items = append(items, knapsack.Item{Index: idx, Value: value, Weight: weight})
	}

	if len(items) != count {
		return knapsack.Problem{}, &FormatError{
			Reason: fmt.Sprintf("header declares %d items but %d were given", count, len(items)),
		}
	}

	return knapsack.Problem{Capacity: capacity, Items: items}, nil
}

func parseHeader(line string) (int, uint64, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return 0, 0, &FormatError{Line: 1, Reason: fmt.Sprintf("expected \"<item_count> <capacity>\", got %q", line)}
	}
	count, err := strconv.ParseUint(fields[0], 10, 31)
	if err != nil {
		return 0, 0, &FormatError{Line: 1, Reason: "invalid item count", Err: err}
	}
	capacity, err := parseField(fields[1])
	if err != nil {
		return 0, 0, &FormatError{Line: 1, Reason: "invalid capacity", Err: err}
	}
	return int(count), capacity, nil
}

func parsePair(line string) (uint64, uint64, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return 0, 0, fmt.Errorf("expected \"<value> <weight>\", got %q", line)
	}
	value, err := parseField(fields[0])
	if err != nil {
		return 0, 0, fmt.Errorf("value: %w", err)
	}
	weight, err := parseField(fields[1])
	if err != nil {
		return 0, 0, fmt.Errorf("weight: %w", err)
	}
	return value, weight, nil
}

// parseField accepts unsigned 32-bit integers so that sums over any accepted
// item count stay well inside uint64.
func parseField(raw string) (uint64, error) {
	return strconv.ParseUint(raw, 10, 32)
}
