package harness

import (
	"bytes"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/valvegear/internal/param"
)

// DefaultTolerance is the relative tolerance used when a scenario sets none.
const DefaultTolerance = 0.005

// Scenario defines one calculation test case.
type Scenario struct {
	// Name uniquely identifies this scenario.
	// Also used as the golden file name.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Inputs maps an input name or letter to its value.
	// Missing inputs stay at zero.
	Inputs map[string]float64 `yaml:"inputs"`

	// Expect states what the calculation must produce.
	Expect Expect `yaml:"expect"`
}

// Expect specifies the expected calculation outcome.
type Expect struct {
	// Valid is the expected input gate result. Nil means true.
	Valid *bool `yaml:"valid,omitempty"`

	// Sane is the expected output check result. Nil skips the check.
	Sane *bool `yaml:"sane,omitempty"`

	// InvalidInput names the first input the gate must reject.
	InvalidInput string `yaml:"invalid_input,omitempty"`

	// Tolerance is the relative tolerance for Outputs.
	// Zero means DefaultTolerance.
	Tolerance float64 `yaml:"tolerance,omitempty"`

	// Outputs maps an output name or letter to its expected value.
	// This is a subset match; unlisted outputs are not checked.
	Outputs map[string]float64 `yaml:"outputs,omitempty"`
}

// ExpectValid reports whether the input gate is expected to pass.
func (e Expect) ExpectValid() bool {
	return e.Valid == nil || *e.Valid
}

// EffectiveTolerance returns Tolerance, or DefaultTolerance when unset.
func (e Expect) EffectiveTolerance() float64 {
	if e.Tolerance == 0 {
		return DefaultTolerance
	}
	return e.Tolerance
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or names unknown parameters.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return scenario, nil
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "output:" vs "outputs:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("invalid scenario: empty document")
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// LoadScenarios loads every *.yaml and *.yml file in dir, sorted by file name.
func LoadScenarios(dir string) ([]*Scenario, error) {
	paths, err := ScenarioFiles(dir)
	if err != nil {
		return nil, err
	}

	scenarios := make([]*Scenario, 0, len(paths))
	for _, p := range paths {
		s, err := LoadScenario(p)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// ScenarioFiles lists the scenario files in dir, sorted by file name.
func ScenarioFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario directory: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext == ".yaml" || ext == ".yml" {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	slices.Sort(paths)
	return paths, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Inputs) == 0 {
		return fmt.Errorf("inputs map is required and must be non-empty")
	}

	seen := make(map[param.InputID]string, len(s.Inputs))
	for _, key := range slices.Sorted(maps.Keys(s.Inputs)) {
		id, ok := param.LookupInput(key)
		if !ok {
			return fmt.Errorf("inputs: unknown input %q", key)
		}
		if prev, dup := seen[id]; dup {
			return fmt.Errorf("inputs: %q and %q both set %s", prev, key, id.Name())
		}
		seen[id] = key
	}

	e := s.Expect
	if e.Tolerance < 0 {
		return fmt.Errorf("expect.tolerance must be non-negative")
	}

	if e.InvalidInput != "" {
		if e.ExpectValid() {
			return fmt.Errorf("expect.invalid_input requires valid: false")
		}
		if _, ok := param.LookupInput(e.InvalidInput); !ok {
			return fmt.Errorf("expect.invalid_input: unknown input %q", e.InvalidInput)
		}
	}

	if !e.ExpectValid() && (e.Sane != nil || len(e.Outputs) > 0) {
		return fmt.Errorf("expect: sane and outputs cannot be checked when valid is false")
	}

	for key := range e.Outputs {
		if _, ok := param.LookupOutput(key); !ok {
			return fmt.Errorf("expect.outputs: unknown output %q", key)
		}
	}

	return nil
}
