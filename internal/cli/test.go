package cli

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/valvegear/internal/harness"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Update    bool   // regenerate golden files
	GoldenDir string // overrides <scenario dir>/golden
}

// ScenarioResult holds the result of a single scenario execution.
type ScenarioResult struct {
	Name   string   `json:"name"`
	Path   string   `json:"path"`
	Pass   bool     `json:"pass"`
	Golden string   `json:"golden,omitempty"` // "match", "updated" or "missing"
	Errors []string `json:"errors,omitempty"`
}

// TestResult holds the overall test result.
type TestResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

// Golden comparison outcomes.
const (
	goldenMatch   = "match"
	goldenUpdated = "updated"
	goldenMissing = "missing"
)

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenario.yaml|scenarios-dir>",
		Short: "Run calculation scenarios",
		Long: `Run YAML calculation scenarios against the formula engine.

Each scenario sets the inputs and states the expected outcome. When a
golden file exists for a scenario, the saved-file text of the result must
also match it byte for byte.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, malformed scenario, etc.)

Examples:
  valvegear test ./scenarios
  valvegear test ./scenarios/example_defaults.yaml
  valvegear test ./scenarios --update
  valvegear test ./scenarios --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")
	cmd.Flags().StringVar(&opts.GoldenDir, "golden", "", "golden file directory (default <scenario dir>/golden)")

	return cmd
}

func runTests(opts *TestOptions, path string, cmd *cobra.Command) error {
	paths, err := harness.ResolvePaths(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to find scenarios", err)
	}

	summary, err := harness.RunFiles(paths, harness.WithLogger(slog.Default()))
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to run scenarios", err)
	}

	result := TestResult{
		Scenarios: make([]ScenarioResult, 0, len(summary.Results)),
		Total:     summary.TotalScenarios,
	}
	for i, r := range summary.Results {
		sr := ScenarioResult{Name: r.Name, Path: paths[i], Pass: r.Pass, Errors: r.Errors}

		golden, err := checkGolden(opts, paths[i], r)
		if err != nil {
			sr.Pass = false
			sr.Errors = append(sr.Errors, err.Error())
		}
		sr.Golden = golden

		if sr.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
		result.Scenarios = append(result.Scenarios, sr)
	}

	if opts.Format == "json" {
		return outputTestJSON(opts.formatter(cmd), result)
	}
	return outputTestText(opts.formatter(cmd), result)
}

// goldenFilePath returns the path to the golden file for a scenario.
func goldenFilePath(opts *TestOptions, scenarioFile, name string) string {
	dir := opts.GoldenDir
	if dir == "" {
		dir = filepath.Join(filepath.Dir(scenarioFile), "golden")
	}
	return filepath.Join(dir, name+".golden")
}

// checkGolden updates or compares the golden snapshot of one result.
func checkGolden(opts *TestOptions, scenarioFile string, result *harness.Result) (string, error) {
	goldenPath := goldenFilePath(opts, scenarioFile, result.Name)

	current, err := harness.Snapshot(result)
	if err != nil {
		return "", fmt.Errorf("failed to render snapshot: %w", err)
	}

	if opts.Update {
		if err := os.MkdirAll(filepath.Dir(goldenPath), 0755); err != nil {
			return "", fmt.Errorf("failed to create golden directory: %w", err)
		}
		if err := os.WriteFile(goldenPath, current, 0644); err != nil {
			return "", fmt.Errorf("failed to write golden file: %w", err)
		}
		return goldenUpdated, nil
	}

	golden, err := os.ReadFile(goldenPath)
	if errors.Is(err, os.ErrNotExist) {
		// No golden file - expectation-based validation only
		return goldenMissing, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read golden file: %w", err)
	}
	if !bytes.Equal(golden, current) {
		return "", fmt.Errorf("result does not match golden file %s (run with --update to regenerate)", goldenPath)
	}
	return goldenMatch, nil
}

// outputTestJSON outputs the test result as JSON.
func outputTestJSON(f *OutputFormatter, result TestResult) error {
	if result.Failed > 0 {
		msg := fmt.Sprintf("%d scenario(s) failed", result.Failed)
		if err := f.Error(CodeTestFailed, msg, result); err != nil {
			return err
		}
		// Test failures = exit code 1
		return NewExitError(ExitFailure, msg)
	}
	return f.Success(result)
}

// outputTestText outputs the test result as text.
func outputTestText(f *OutputFormatter, result TestResult) error {
	for _, s := range result.Scenarios {
		if s.Pass {
			note := ""
			if s.Golden == goldenUpdated {
				note = " (golden updated)"
			}
			f.Textf("✓ %s%s", s.Name, note)
			continue
		}
		f.Textf("✗ %s", s.Name)
		for _, e := range s.Errors {
			f.Textf("  %s", strings.ReplaceAll(e, "\n", "\n  "))
		}
	}

	f.Textf("")
	f.Textf("Test Summary: %d passed, %d failed, %d total", result.Passed, result.Failed, result.Total)

	if result.Failed > 0 {
		// Test failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
	}

	f.Textf("✓ All scenarios passed")
	return nil
}
