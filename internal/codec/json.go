package codec

import (
	_ "embed"
	"encoding/json"
	"sync"

	"github.com/samber/lo"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/n8henrie/knapsack/internal/knapsack"
)

//go:embed problem.schema.json
var problemSchemaSource string

var problemSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	return jsonschema.CompileString("problem.schema.json", problemSchemaSource)
})

// ProblemDocument is the JSON form of a problem.
type ProblemDocument struct {
	Capacity uint64         `json:"capacity"`
	Items    []ItemDocument `json:"items"`
}

// ItemDocument is the JSON form of an item; its index is its array position.
type ItemDocument struct {
	Value  uint64 `json:"value"`
	Weight uint64 `json:"weight"`
}

// SolutionDocument is the JSON form of a solution.
type SolutionDocument struct {
	Value       uint64 `json:"value"`
	Optimal     bool   `json:"optimal"`
	Included    []int  `json:"included"`
	Selected    []int  `json:"selected"`
	TotalWeight uint64 `json:"totalWeight"`
	Capacity    uint64 `json:"capacity"`
}

// DecodeProblemJSON validates data against the problem schema and converts it
// into a Problem. Any failure is reported as a *FormatError.
func DecodeProblemJSON(data []byte) (knapsack.Problem, error) {
	schema, err := problemSchema()
	if err != nil {
		return knapsack.Problem{}, err
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return knapsack.Problem{}, &FormatError{Reason: "invalid JSON", Err: err}
	}
	if err := schema.Validate(raw); err != nil {
		return knapsack.Problem{}, &FormatError{Reason: "problem does not match schema", Err: err}
	}

	var doc ProblemDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return knapsack.Problem{}, &FormatError{Reason: "invalid JSON", Err: err}
	}
	return doc.Problem(), nil
}

// Problem converts the document, indexing items by array position.
func (d ProblemDocument) Problem() knapsack.Problem {
	return knapsack.Problem{
		Capacity: d.Capacity,
		Items: lo.Map(d.Items, func(item ItemDocument, idx int) knapsack.Item {
			return knapsack.Item{Index: idx, Value: item.Value, Weight: item.Weight}
		}),
	}
}

// NewSolutionDocument describes s in the context of the problem it solves.
func NewSolutionDocument(p knapsack.Problem, s knapsack.Solution) SolutionDocument {
	return SolutionDocument{
		Value:   s.Value,
		Optimal: s.IsOptimal,
		Included: lo.Map(s.Included, func(in bool, _ int) int {
			return lo.Ternary(in, 1, 0)
		}),
		Selected:    s.Selected(),
		TotalWeight: p.Weight(s.Included),
		Capacity:    p.Capacity,
	}
}
