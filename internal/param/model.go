package param

import (
	"errors"
	"fmt"
	"iter"
)

// ErrIndexOutOfRange is returned for an index outside the canonical range.
var ErrIndexOutOfRange = errors.New("index out of range")

// Model is the live parameter set for one session.
type Model struct {
	inputs  [NumInputs]Input
	outputs [NumOutputs]Output
}

// New creates a model from the canonical tables with every value at zero.
// Example values are populated on the inputs; they never seed Value.
func New() *Model {
	return &Model{
		inputs:  canonicalInputs,
		outputs: canonicalOutputs,
	}
}

// Input returns the input at a 1-based index.
func (m *Model) Input(id InputID) (Input, error) {
	if !id.Valid() {
		return Input{}, fmt.Errorf("input %d: %w", id, ErrIndexOutOfRange)
	}
	return m.inputs[id-1], nil
}

// SetInput stores a value on the input at a 1-based index.
func (m *Model) SetInput(id InputID, v float64) error {
	if !id.Valid() {
		return fmt.Errorf("input %d: %w", id, ErrIndexOutOfRange)
	}
	m.inputs[id-1].Value = v
	return nil
}

// Output returns the output at a 1-based index.
func (m *Model) Output(id OutputID) (Output, error) {
	if !id.Valid() {
		return Output{}, fmt.Errorf("output %d: %w", id, ErrIndexOutOfRange)
	}
	return m.outputs[id-1], nil
}

// SetOutput stores a value on the output at a 1-based index.
func (m *Model) SetOutput(id OutputID, v float64) error {
	if !id.Valid() {
		return fmt.Errorf("output %d: %w", id, ErrIndexOutOfRange)
	}
	m.outputs[id-1].Value = v
	return nil
}

// Inputs yields every input in ascending index order.
func (m *Model) Inputs() iter.Seq2[InputID, Input] {
	return func(yield func(InputID, Input) bool) {
		for i := range m.inputs {
			if !yield(InputID(i+1), m.inputs[i]) {
				return
			}
		}
	}
}

// Outputs yields every output in ascending index order.
func (m *Model) Outputs() iter.Seq2[OutputID, Output] {
	return func(yield func(OutputID, Output) bool) {
		for i := range m.outputs {
			if !yield(OutputID(i+1), m.outputs[i]) {
				return
			}
		}
	}
}

// InputValues snapshots the current input values.
func (m *Model) InputValues() Inputs {
	var in Inputs
	for i := range m.inputs {
		in[i] = m.inputs[i].Value
	}
	return in
}

// SetInputValues replaces every input value.
func (m *Model) SetInputValues(in Inputs) {
	for i := range m.inputs {
		m.inputs[i].Value = in[i]
	}
}

// OutputValues snapshots the current output values.
func (m *Model) OutputValues() Outputs {
	var out Outputs
	for i := range m.outputs {
		out[i] = m.outputs[i].Value
	}
	return out
}

// SetOutputs replaces every output value.
func (m *Model) SetOutputs(out Outputs) {
	for i := range m.outputs {
		m.outputs[i].Value = out[i]
	}
}

// LookupInput resolves a canonical name or letter to its index.
// Matching is exact and case-sensitive.
func LookupInput(key string) (InputID, bool) {
	for i, c := range canonicalInputs {
		if c.Name == key || c.Letter == key {
			return InputID(i + 1), true
		}
	}
	return 0, false
}

// LookupOutput resolves a canonical name or letter to its index.
func LookupOutput(key string) (OutputID, bool) {
	for i, c := range canonicalOutputs {
		if c.Name == key || c.Letter == key {
			return OutputID(i + 1), true
		}
	}
	return 0, false
}
