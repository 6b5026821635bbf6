package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/n8henrie/knapsack/internal/binding"
	"github.com/n8henrie/knapsack/internal/codec"
	"github.com/n8henrie/knapsack/internal/knapsack"
	"github.com/n8henrie/knapsack/internal/logging"
)

func main() {
	logger, err := logging.NewConsole("warn")
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		logger.Error("solve failed", zap.Error(err))
		os.Exit(1)
	}
}

// run solves the problem named by args (a file, or stdin for "-" or no
// argument) and writes the solution to stdout.
func run(args []string, stdin io.Reader, stdout io.Writer) error {
	app := kingpin.New("knapsack", "Solve a 0/1 knapsack problem read from FILE or stdin")
	strategy := app.Flag("strategy", "Solver strategy").Default(string(knapsack.StrategyPermutation)).String()
	maxItems := app.Flag("max-items", "Largest accepted item count (0 disables the limit)").Default("-1").Int()
	asJSON := app.Flag("json", "Print the solution as JSON").Bool()
	file := app.Arg("file", "Problem file, - for stdin").Default("-").String()

	if _, err := app.Parse(args); err != nil {
		return err
	}

	parsed, err := knapsack.ParseStrategy(*strategy)
	if err != nil {
		return err
	}
	var opts []knapsack.Option
	if *maxItems >= 0 {
		opts = append(opts, knapsack.WithMaxItems(*maxItems))
	}
	solver, err := knapsack.NewForStrategy(parsed, opts...)
	if err != nil {
		return err
	}

	input, err := readInput(*file, stdin)
	if err != nil {
		return err
	}

	problem, solution, err := binding.New(solver).SolveProblem(input)
	if err != nil {
		return err
	}

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(codec.NewSolutionDocument(problem, solution))
	}
	_, err = fmt.Fprintln(stdout, codec.FormatSolution(solution))
	return err
}

func readInput(file string, stdin io.Reader) (string, error) {
	if file == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("read problem file: %w", err)
	}
	return string(data), nil
}
