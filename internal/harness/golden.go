package harness

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/valvegear/internal/codec"
	"github.com/roach88/valvegear/internal/param"
)

// Snapshot renders a result as the outputs file the calculator would save.
// A result whose input gate failed renders the inputs file instead.
func Snapshot(result *Result) ([]byte, error) {
	m := param.New()
	m.SetInputValues(result.Inputs)
	m.SetOutputs(result.Outputs)

	var buf bytes.Buffer
	var err error
	if result.Valid {
		err = codec.WriteOutputs(&buf, m)
	} else {
		err = codec.WriteInputs(&buf, m)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RunWithGolden executes a scenario and compares its snapshot against a
// golden file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the snapshot doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares the given result's snapshot against a golden file.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	data, err := Snapshot(result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
	return nil
}
