package harness

import (
	"fmt"
	"os"
)

// Summary contains results from running a set of scenario files.
type Summary struct {
	TotalScenarios int       `json:"total_scenarios"`
	Passed         int       `json:"passed"`
	Failed         int       `json:"failed"`
	Results        []*Result `json:"results"`
	Failures       []Failure `json:"failures,omitempty"`
}

// Failure represents a failed scenario.
type Failure struct {
	Scenario string   `json:"scenario"`
	Path     string   `json:"path"`
	Errors   []string `json:"errors"`
}

// AllPassed reports whether every scenario passed.
func (s *Summary) AllPassed() bool {
	return s.Failed == 0
}

// ResolvePaths expands a file or directory argument into scenario files.
func ResolvePaths(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to access %s: %w", path, err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	paths, err := ScenarioFiles(path)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no scenario files found in %s", path)
	}
	return paths, nil
}

// RunFiles loads and runs each scenario file in order.
//
// A file that cannot be loaded is returned as an error; it is a malformed
// test, not a failed one.
func RunFiles(paths []string, opts ...Option) (*Summary, error) {
	summary := &Summary{Results: []*Result{}}
	for _, p := range paths {
		scenario, err := LoadScenario(p)
		if err != nil {
			return nil, err
		}
		result, err := Run(scenario, opts...)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}

		summary.TotalScenarios++
		summary.Results = append(summary.Results, result)
		if result.Pass {
			summary.Passed++
			continue
		}
		summary.Failed++
		summary.Failures = append(summary.Failures, Failure{
			Scenario: scenario.Name,
			Path:     p,
			Errors:   result.Errors,
		})
	}
	return summary, nil
}

// String renders a one-line tally.
func (s *Summary) String() string {
	return fmt.Sprintf("%d scenarios: %d passed, %d failed", s.TotalScenarios, s.Passed, s.Failed)
}
