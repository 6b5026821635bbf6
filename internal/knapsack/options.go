package knapsack

const (
	defaultPermutationMaxItems = 10
	defaultSubsetMaxItems      = 20
)

// Option configures a Solver.
type Option func(*options)

type options struct {
	maxItems int
}

// WithMaxItems caps the number of items a Solver accepts. Zero disables the cap.
func WithMaxItems(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.maxItems = n
		}
	}
}

func buildOptions(defaultMax int, opts []Option) options {
	o := options{maxItems: defaultMax}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
