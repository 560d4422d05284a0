package harness

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"

	"github.com/roach88/valvegear/internal/codec"
	"github.com/roach88/valvegear/internal/param"
)

// Expectation kinds used in AssertionError.Type.
const (
	AssertValid        = "valid"
	AssertInvalidInput = "invalid_input"
	AssertSane         = "sane"
	AssertOutput       = "output"
)

// AssertionError is returned when an expectation fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string // Expectation kind for categorization
	Field    string // Output or input name, if any
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	if e.Field != "" {
		fmt.Fprintf(&buf, "Assertion failed: %s (%s)\n", e.Type, e.Field)
	} else {
		fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	}
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

// EvaluateExpectations checks a result against the scenario's expectations.
// Returns error messages for every failed expectation (empty if all pass).
func EvaluateExpectations(result *Result, expect Expect) []string {
	var errs []string
	add := func(err error) {
		if err != nil {
			errs = append(errs, err.Error())
		}
	}

	add(assertValid(result, expect))
	if !result.Valid {
		add(assertInvalidInput(result, expect))
		return errs
	}
	add(assertSane(result, expect))

	tol := expect.EffectiveTolerance()
	for _, key := range slices.Sorted(maps.Keys(expect.Outputs)) {
		id, ok := param.LookupOutput(key)
		if !ok {
			add(fmt.Errorf("unknown output %q", key))
			continue
		}
		add(assertOutput(result.Outputs.Get(id), expect.Outputs[key], tol, id))
	}
	return errs
}

func assertValid(result *Result, expect Expect) error {
	want := expect.ExpectValid()
	if result.Valid == want {
		return nil
	}
	actual := "input gate passed"
	if !result.Valid {
		actual = fmt.Sprintf("input gate rejected %s", result.InvalidInput)
	}
	return &AssertionError{
		Type:     AssertValid,
		Expected: fmt.Sprintf("valid = %t", want),
		Actual:   actual,
	}
}

func assertInvalidInput(result *Result, expect Expect) error {
	if expect.InvalidInput == "" {
		return nil
	}
	id, ok := param.LookupInput(expect.InvalidInput)
	if !ok {
		return fmt.Errorf("unknown input %q", expect.InvalidInput)
	}
	if result.InvalidInput == id.Name() {
		return nil
	}
	return &AssertionError{
		Type:     AssertInvalidInput,
		Expected: id.Name(),
		Actual:   result.InvalidInput,
	}
}

func assertSane(result *Result, expect Expect) error {
	if expect.Sane == nil || result.Sane == *expect.Sane {
		return nil
	}
	return &AssertionError{
		Type:     AssertSane,
		Expected: fmt.Sprintf("sane = %t", *expect.Sane),
		Actual:   fmt.Sprintf("sane = %t", result.Sane),
	}
}

func assertOutput(got, want, tol float64, id param.OutputID) error {
	if withinTolerance(got, want, tol) {
		return nil
	}
	return &AssertionError{
		Type:     AssertOutput,
		Field:    id.Name(),
		Expected: fmt.Sprintf("%s (relative tolerance %s)", codec.FormatValue(want), codec.FormatValue(tol)),
		Actual:   codec.FormatValue(got),
	}
}

// withinTolerance reports whether got is within a relative tolerance of want.
// An expected zero is compared absolutely. Non-finite values must match exactly.
func withinTolerance(got, want, tol float64) bool {
	switch {
	case math.IsNaN(want):
		return math.IsNaN(got)
	case math.IsInf(want, 0):
		return got == want
	case want == 0:
		return math.Abs(got) <= tol
	}
	return math.Abs(got-want) <= tol*math.Abs(want)
}
