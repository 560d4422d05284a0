package harness

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"

	"github.com/roach88/valvegear/internal/session"
	"github.com/roach88/valvegear/internal/validate"
)

// Option configures a scenario run.
type Option func(*runConfig)

type runConfig struct {
	logger *slog.Logger
}

// WithLogger routes session logging during a run.
func WithLogger(l *slog.Logger) Option {
	return func(c *runConfig) { c.logger = l }
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory session. No files are read or
// written.
//
// Execution flow:
// 1. Create a fresh session
// 2. Apply the scenario inputs in sorted key order
// 3. Calculate
// 4. Evaluate expectations
//
// The returned error reports a malformed scenario; failed expectations are
// reported through Result.Pass and Result.Errors.
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	if err := validateScenario(scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	cfg := runConfig{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&cfg)
	}

	sess := session.New(session.Paths{}, cfg.logger.With("scenario", scenario.Name))
	for _, key := range slices.Sorted(maps.Keys(scenario.Inputs)) {
		if err := sess.SetInputByKey(key, scenario.Inputs[key]); err != nil {
			return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}
	}

	result := NewResult(scenario.Name)
	result.Inputs = sess.Model.InputValues()

	calc, err := sess.Calculate()
	switch {
	case err == nil:
		result.Valid = true
		result.Sane = calc.Sane
		result.Outputs = calc.Outputs
	default:
		var ve *validate.Error
		if !errors.As(err, &ve) {
			return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}
		result.InvalidInput = ve.Name
	}

	for _, msg := range EvaluateExpectations(result, scenario.Expect) {
		result.AddError(msg)
	}
	return result, nil
}
