// Package validate gates computation on input positivity and flags
// computed outputs that came out negative.
package validate

import (
	"errors"
	"fmt"

	"github.com/roach88/valvegear/internal/param"
)

// Validation error codes (E200-E299)
const (
	ErrInputNotPositive = "E201" // input <= 0, computation must not run
	ErrOutputNegative   = "E202" // output < 0, results must not be exported
)

// Kind tells which collection an Error refers to.
type Kind string

const (
	KindInput  Kind = "input"
	KindOutput Kind = "output"
)

// Error reports the first field that failed a check.
type Error struct {
	Code  string  `json:"code"`
	Kind  Kind    `json:"kind"`
	Index int     `json:"index"`
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Kind == KindInput {
		return fmt.Sprintf("[%s] input %d (%s) is either invalid or not entered yet: %v",
			e.Code, e.Index, e.Name, e.Value)
	}
	return fmt.Sprintf("[%s] output %d (%s) is invalid: %v", e.Code, e.Index, e.Name, e.Value)
}

// FirstInvalidInput returns the lowest index whose value is <= 0.
// ok is true when every input passes.
func FirstInvalidInput(in param.Inputs) (id param.InputID, ok bool) {
	for i, v := range in {
		if v <= 0.0 {
			return param.InputID(i + 1), false
		}
	}
	return 0, true
}

// CheckInputs returns an *Error for the first input that is zero or negative.
// Zero is rejected even when it is a real measurement.
func CheckInputs(in param.Inputs) error {
	id, ok := FirstInvalidInput(in)
	if ok {
		return nil
	}
	return &Error{
		Code:  ErrInputNotPositive,
		Kind:  KindInput,
		Index: int(id),
		Name:  id.Name(),
		Value: in.Get(id),
	}
}

// CheckOutputs returns an *Error for the first output that is negative.
// Non-finite outputs (from zero divisors) are not caught here.
func CheckOutputs(out param.Outputs) error {
	for i, v := range out {
		if v < 0 {
			id := param.OutputID(i + 1)
			return &Error{
				Code:  ErrOutputNegative,
				Kind:  KindOutput,
				Index: int(id),
				Name:  id.Name(),
				Value: v,
			}
		}
	}
	return nil
}

// IsInputError reports whether err is an input validation failure.
// Uses errors.As to handle wrapped errors.
func IsInputError(err error) bool {
	var ve *Error
	if errors.As(err, &ve) {
		return ve.Kind == KindInput
	}
	return false
}

// IsOutputError reports whether err is an output sanity failure.
func IsOutputError(err error) bool {
	var ve *Error
	if errors.As(err, &ve) {
		return ve.Kind == KindOutput
	}
	return false
}
