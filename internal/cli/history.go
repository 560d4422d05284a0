package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/valvegear/internal/param"
	"github.com/roach88/valvegear/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Limit    int
	RunID    string // optional - show one run in full
	Hash     string // optional - filter to runs with these inputs
}

// RunView is one recorded run in command output.
type RunView struct {
	ID         string      `json:"id"`
	Seq        int64       `json:"seq"`
	InputsHash string      `json:"inputs_hash"`
	Sane       bool        `json:"sane"`
	Inputs     []ValueView `json:"inputs"`
	Outputs    []ValueView `json:"outputs"`
}

// HistoryResult is the JSON payload of the history command.
type HistoryResult struct {
	Database string    `json:"database"`
	Runs     []RunView `json:"runs"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List calculations recorded in the history database",
		Long: `List calculations recorded by calc --db, oldest first.

Runs are ordered by their sequence number in the database. Use --run to
show every value of one run, or --hash to list runs that used the same
inputs.

Examples:
  valvegear history --db history.db
  valvegear history --db history.db --limit 5
  valvegear history --db history.db --run 0193a1b2-...
  valvegear history --db history.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "history database (default from config)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "show at most this many recent runs (0 for all)")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "show a single run by ID")
	cmd.Flags().StringVar(&opts.Hash, "hash", "", "list runs whose inputs hash matches")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	ctx := commandContext(cmd)

	db := firstNonEmpty(opts.Database, opts.config().History.Database)
	if db == "" {
		return NewExitError(ExitCommandError, "no database: pass --db or set history.database in the config file")
	}
	// Opening would create an empty database
	if _, err := os.Stat(db); err != nil {
		return WrapExitError(ExitCommandError, "database not found", err)
	}

	st, err := store.Open(db)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	var runs []store.Run
	switch {
	case opts.RunID != "":
		run, err := st.ReadRun(ctx, opts.RunID)
		if errors.Is(err, store.ErrRunNotFound) {
			return NewExitError(ExitCommandError, fmt.Sprintf("run not found: %s", opts.RunID))
		}
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read run", err)
		}
		runs = []store.Run{run}
	case opts.Hash != "":
		runs, err = st.RunsWithInputs(ctx, opts.Hash)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to query runs", err)
		}
	default:
		runs, err = st.ListRuns(ctx, opts.Limit)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list runs", err)
		}
	}
	slog.Debug("runs loaded", "db", db, "count", len(runs))

	result := HistoryResult{Database: db, Runs: make([]RunView, 0, len(runs))}
	for _, r := range runs {
		result.Runs = append(result.Runs, RunView{
			ID:         r.ID,
			Seq:        r.Seq,
			InputsHash: r.InputsHash,
			Sane:       r.Sane,
			Inputs:     inputViews(r.Inputs),
			Outputs:    outputViews(r.Outputs),
		})
	}

	if f.IsJSON() {
		return f.Success(result)
	}

	if len(runs) == 0 {
		f.Textf("No runs recorded.")
		return nil
	}
	if opts.RunID != "" {
		return writeRunDetail(f, result.Runs[0])
	}

	t := NewTable(fmt.Sprintf("History (%s)", db), "Seq", "Run", "Inputs", "Sane",
		param.WheelSpeed.Letter(), param.TravelMargin.Letter(), param.CombinationLeverLength.Letter())
	for _, r := range runs {
		t.AddRow(
			strconv.FormatInt(r.Seq, 10),
			r.ID,
			shortHash(r.InputsHash),
			sanity(r.Sane),
			displayValue(r.Outputs.Get(param.WheelSpeed)),
			displayValue(r.Outputs.Get(param.TravelMargin)),
			displayValue(r.Outputs.Get(param.CombinationLeverLength)),
		)
	}
	return t.Render(f.Writer)
}

func writeRunDetail(f *OutputFormatter, r RunView) error {
	f.Textf("Run %s (seq %d, %s)", r.ID, r.Seq, sanity(r.Sane))
	f.Textf("Inputs hash: %s", r.InputsHash)
	f.Textf("")
	if err := valuesTable("Inputs", r.Inputs, displayValue).Render(f.Writer); err != nil {
		return err
	}
	f.Textf("")
	return valuesTable("Outputs", r.Outputs, displayValue).Render(f.Writer)
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}

func sanity(sane bool) string {
	if sane {
		return "valid"
	}
	return "invalid"
}
