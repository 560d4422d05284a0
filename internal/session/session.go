// Package session ties the parameter model, validator, formula engine and
// text codec together for one user session.
//
// A Session replaces process-wide state: whether a save has been loaded is a
// field, set by Load and cleared when the inputs file is missing. Sessions
// are not safe for concurrent use; one session is active at a time.
package session

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/roach88/valvegear/internal/codec"
	"github.com/roach88/valvegear/internal/engine"
	"github.com/roach88/valvegear/internal/param"
	"github.com/roach88/valvegear/internal/validate"
)

// Default file locations, relative to the working directory.
const (
	DefaultInputsPath  = "inputs/inputs.txt"
	DefaultOutputsPath = "outputs/outputs.txt"
)

// ErrNothingToSave is returned by Save before any calculation has produced
// a Wheel Speed.
var ErrNothingToSave = errors.New("no valid data found; cannot save until calculations have been made")

// Paths locates the two text files.
type Paths struct {
	Inputs  string
	Outputs string
}

// DefaultPaths returns the standard relative locations.
func DefaultPaths() Paths {
	return Paths{Inputs: DefaultInputsPath, Outputs: DefaultOutputsPath}
}

// Session holds the model and the state a presentation layer needs between
// operations.
type Session struct {
	Model *param.Model
	Paths Paths

	// HasSave is true after a successful Load.
	HasSave bool

	logger *slog.Logger
}

// New starts a session with a fresh model.
// A nil logger discards log output.
func New(paths Paths, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Session{
		Model:  param.New(),
		Paths:  paths,
		logger: logger,
	}
}

// Result is the outcome of a completed calculation.
type Result struct {
	Inputs  param.Inputs
	Outputs param.Outputs

	// Sane is false when an output came out negative. The outputs are
	// still stored on the model.
	Sane    bool
	Problem *validate.Error
}

// SaveReport tells which of the two files were written.
type SaveReport struct {
	InputsSaved  bool `json:"inputs_saved"`
	OutputsSaved bool `json:"outputs_saved"`
}

// EnsureDirs creates the parent directories of both files if missing.
func (s *Session) EnsureDirs() error {
	for _, p := range []string{s.Paths.Inputs, s.Paths.Outputs} {
		dir := filepath.Dir(p)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("couldn't create folder %s: %w", dir, err)
		}
	}
	return nil
}

// SetInput stores a manually entered value.
func (s *Session) SetInput(id param.InputID, v float64) error {
	return s.Model.SetInput(id, v)
}

// SetInputByKey stores a value on the input named by canonical name or letter.
func (s *Session) SetInputByKey(key string, v float64) error {
	id, ok := param.LookupInput(key)
	if !ok {
		return fmt.Errorf("unknown input %q", key)
	}
	return s.Model.SetInput(id, v)
}

// Load reads the inputs file into the model.
// A missing file leaves the model untouched, clears HasSave and returns an
// error wrapping codec.ErrNotFound.
func (s *Session) Load() (codec.LoadReport, error) {
	report, err := codec.LoadInputsFile(s.Paths.Inputs, s.Model)
	if err != nil {
		if errors.Is(err, codec.ErrNotFound) {
			s.HasSave = false
		}
		return report, err
	}

	for id, in := range s.Model.Inputs() {
		s.logger.Debug("input resolved",
			"index", int(id), "name", in.Name,
			"resolution", string(report.Resolution(id)), "value", in.Value)
	}
	s.HasSave = true
	return report, nil
}

// Calculate validates the inputs, runs every formula and checks the outputs.
//
// If an input is not positive, no formula runs, the model is unchanged and
// the *validate.Error is returned. Otherwise all nine outputs are written to
// the model; a negative output is reported through Result.Sane and
// Result.Problem rather than as an error.
func (s *Session) Calculate() (*Result, error) {
	in := s.Model.InputValues()
	if err := validate.CheckInputs(in); err != nil {
		return nil, err
	}

	out := engine.ComputeEach(in, func(step engine.Step, v float64) {
		s.logger.Debug("output computed", "index", int(step.Output), "name", step.Output.Name(), "value", v)
	})
	s.Model.SetOutputs(out)

	res := &Result{Inputs: in, Outputs: out, Sane: true}
	if err := validate.CheckOutputs(out); err != nil {
		var ve *validate.Error
		if errors.As(err, &ve) {
			res.Problem = ve
		}
		res.Sane = false
		s.logger.Warn("output failed sanity check", "error", err)
	}
	return res, nil
}

// Save writes the inputs file and then the outputs file.
//
// Both writes are attempted even if the first fails; failures are joined.
// There is no rollback, so one file may be written while the other is not.
func (s *Session) Save() (SaveReport, error) {
	var report SaveReport
	ws, _ := s.Model.Output(param.WheelSpeed)
	if ws.Value == 0.0 {
		return report, ErrNothingToSave
	}

	var errs []error
	if err := codec.SaveFile(s.Paths.Inputs, func(w io.Writer) error {
		return codec.WriteInputs(w, s.Model)
	}); err != nil {
		errs = append(errs, fmt.Errorf("error saving inputs file: %w", err))
	} else {
		report.InputsSaved = true
		s.logger.Debug("inputs saved", "path", s.Paths.Inputs)
	}

	if err := codec.SaveFile(s.Paths.Outputs, func(w io.Writer) error {
		return codec.WriteOutputs(w, s.Model)
	}); err != nil {
		errs = append(errs, fmt.Errorf("error saving outputs file: %w", err))
	} else {
		report.OutputsSaved = true
		s.logger.Debug("outputs saved", "path", s.Paths.Outputs)
	}

	return report, errors.Join(errs...)
}

// WriteTemplate writes the example values as an inputs file.
func (s *Session) WriteTemplate() error {
	m := param.New()
	m.SetInputValues(param.ExampleInputs())
	return codec.SaveFile(s.Paths.Inputs, func(w io.Writer) error {
		return codec.WriteInputs(w, m)
	})
}
