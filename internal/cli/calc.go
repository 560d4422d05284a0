package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/valvegear/internal/codec"
	"github.com/roach88/valvegear/internal/config"
	"github.com/roach88/valvegear/internal/session"
	"github.com/roach88/valvegear/internal/store"
	"github.com/roach88/valvegear/internal/validate"
)

// CalcOptions holds flags for the calc command.
type CalcOptions struct {
	*RootOptions
	Inputs   string
	Outputs  string
	Set      []string // KEY=VALUE overrides
	Save     bool
	Database string
}

// LoadView summarizes how the inputs file was read.
type LoadView struct {
	Path      string `json:"path"`
	Found     bool   `json:"found"`
	Matched   int    `json:"matched"`
	Fallback  int    `json:"fallback"`
	Unmatched int    `json:"unmatched"`
}

// CalcResult is the JSON payload of the calc command.
type CalcResult struct {
	Load    LoadView            `json:"load"`
	Inputs  []ValueView         `json:"inputs"`
	Outputs []ValueView         `json:"outputs"`
	Sane    bool                `json:"sane"`
	Problem *validate.Error     `json:"problem,omitempty"`
	Saved   *session.SaveReport `json:"saved,omitempty"`
	RunID   string              `json:"run_id,omitempty"`
	RunSeq  int64               `json:"run_seq,omitempty"`
}

// NewCalcCommand creates the calc command.
func NewCalcCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CalcOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Load inputs, calculate and display the results",
		Long: `Load the inputs file, apply any --set overrides, check that every
input is positive, run the nine formulas and display the results.

With --save the inputs and outputs files are written, but only when no
output came out negative. With --db (or history.database in the config
file) every calculation is recorded in a SQLite history database.

Exit codes:
  0 - Calculated, all outputs valid
  1 - An input was not positive, or an output came out negative
  2 - Command error (bad flag, unreadable file, database error)

Examples:
  valvegear calc
  valvegear calc --set Bore=21 --set T=5.75
  valvegear calc --save --db history.db
  valvegear calc --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCalc(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Inputs, "inputs", "", "inputs file (default from config)")
	cmd.Flags().StringVar(&opts.Outputs, "outputs", "", "outputs file (default from config)")
	cmd.Flags().StringArrayVar(&opts.Set, "set", nil, "override an input, KEY=VALUE (name or letter; repeatable)")
	cmd.Flags().BoolVar(&opts.Save, "save", false, "save the inputs and outputs files")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record the run in this history database")

	return cmd
}

func runCalc(opts *CalcOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	cfg := opts.config()
	paths := resolvePaths(cfg, opts.Inputs, opts.Outputs)
	sess := session.New(paths, slog.Default())

	result := CalcResult{Load: LoadView{Path: paths.Inputs}}

	report, err := sess.Load()
	switch {
	case err == nil:
		result.Load.Found = true
		result.Load.Matched = report.Count(codec.Matched)
		result.Load.Fallback = report.Count(codec.Fallback)
		result.Load.Unmatched = report.Count(codec.Unmatched)
		f.Textf("Loaded %s: %d matched, %d defaulted to 0, %d missing",
			paths.Inputs, result.Load.Matched, result.Load.Fallback, result.Load.Unmatched)
	case errors.Is(err, codec.ErrNotFound):
		slog.Warn("inputs file not found", "path", paths.Inputs)
		f.Textf("No file found at %s; starting from empty inputs", paths.Inputs)
	default:
		return WrapExitError(ExitCommandError, "failed to load inputs", err)
	}

	for _, s := range opts.Set {
		key, v, err := parseAssignment(s)
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid --set", err)
		}
		if err := sess.SetInputByKey(key, v); err != nil {
			return WrapExitError(ExitCommandError, "invalid --set", err)
		}
		slog.Debug("input overridden", "key", key, "value", v)
	}
	result.Inputs = inputViews(sess.Model.InputValues())

	calc, err := sess.Calculate()
	if err != nil {
		var ve *validate.Error
		if !errors.As(err, &ve) {
			return WrapExitError(ExitCommandError, "calculation failed", err)
		}
		if !f.IsJSON() {
			if err := valuesTable("Inputs", result.Inputs, codec.FormatValue).Render(f.Writer); err != nil {
				return err
			}
		}
		if err := f.Error(ve.Code, ve.Error(), result); err != nil {
			return err
		}
		return WrapExitError(ExitFailure, "input check failed", err)
	}
	result.Outputs = outputViews(calc.Outputs)
	result.Sane = calc.Sane
	result.Problem = calc.Problem

	if db := firstNonEmpty(opts.Database, cfg.History.Database); db != "" {
		run, err := recordRun(commandContext(cmd), db, calc)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to record run", err)
		}
		result.RunID = run.ID
		result.RunSeq = run.Seq
	}

	if opts.Save && calc.Sane {
		if err := sess.EnsureDirs(); err != nil {
			return WrapExitError(ExitCommandError, "failed to save", err)
		}
		saved, err := sess.Save()
		result.Saved = &saved
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to save", err)
		}
	}

	if f.IsJSON() {
		if !calc.Sane {
			if err := f.Error(CodeNotSane, calc.Problem.Error(), result); err != nil {
				return err
			}
			return NewExitError(ExitFailure, "output check failed")
		}
		return f.Success(result)
	}

	if err := writeCalcText(f, result, paths); err != nil {
		return err
	}
	if !calc.Sane {
		if opts.Save {
			f.Textf("Not saved: outputs failed the check.")
		}
		return NewExitError(ExitFailure, "output check failed")
	}
	return nil
}

func writeCalcText(f *OutputFormatter, result CalcResult, paths session.Paths) error {
	if err := valuesTable("Inputs", result.Inputs, codec.FormatValue).Render(f.Writer); err != nil {
		return err
	}
	f.Textf("")
	if err := valuesTable("Outputs", result.Outputs, displayValue).Render(f.Writer); err != nil {
		return err
	}
	f.Textf("")

	if result.Sane {
		f.Textf("All outputs are valid.")
	} else {
		f.Textf("Error [%s]: %s", result.Problem.Code, result.Problem.Error())
	}
	if result.Saved != nil {
		f.Textf("Saved %s and %s", paths.Inputs, paths.Outputs)
	}
	if result.RunID != "" {
		f.Textf("Recorded run %s (seq %d)", result.RunID, result.RunSeq)
	}
	return nil
}

// recordRun appends the calculation to the history database at path.
func recordRun(ctx context.Context, path string, calc *session.Result) (store.Run, error) {
	st, err := store.Open(path)
	if err != nil {
		return store.Run{}, err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	run, err := st.WriteRun(ctx, calc.Inputs, calc.Outputs, calc.Sane)
	if err != nil {
		return store.Run{}, err
	}
	slog.Debug("run recorded", "id", run.ID, "seq", run.Seq, "db", path)
	return run, nil
}

// parseAssignment splits KEY=VALUE. The key is NFC-normalized so composed
// and decomposed spellings of a name match; the value must be a complete
// number.
func parseAssignment(s string) (string, float64, error) {
	k, raw, ok := strings.Cut(s, "=")
	if !ok {
		return "", 0, fmt.Errorf("%q: want KEY=VALUE", s)
	}
	key := norm.NFC.String(strings.TrimSpace(k))
	if key == "" {
		return "", 0, fmt.Errorf("%q: empty key", s)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return "", 0, fmt.Errorf("%q: %w", s, err)
	}
	return key, v, nil
}

// resolvePaths applies flag overrides on top of the configured paths.
func resolvePaths(cfg *config.Config, inputs, outputs string) session.Paths {
	return session.Paths{
		Inputs:  firstNonEmpty(inputs, cfg.Paths.Inputs),
		Outputs: firstNonEmpty(outputs, cfg.Paths.Outputs),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// commandContext returns the command's context, or Background if unset.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
