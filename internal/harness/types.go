package harness

import "github.com/roach88/valvegear/internal/param"

// Result is the outcome of a scenario execution.
type Result struct {
	// Name is the scenario name.
	Name string `json:"name"`

	// Pass indicates overall test success.
	// True if every expectation matched.
	Pass bool `json:"pass"`

	// Valid reports whether the input gate passed.
	Valid bool `json:"valid"`

	// InvalidInput is the name of the first rejected input when Valid is false.
	InvalidInput string `json:"invalid_input,omitempty"`

	// Sane reports whether every output was non-negative.
	// Meaningless when Valid is false.
	Sane bool `json:"sane"`

	// Inputs and Outputs are the values the calculation used and produced.
	// Outputs are all zero when Valid is false.
	Inputs  param.Inputs  `json:"-"`
	Outputs param.Outputs `json:"-"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult(name string) *Result {
	return &Result{
		Name:   name,
		Pass:   true,
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
