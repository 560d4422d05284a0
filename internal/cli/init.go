package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/valvegear/internal/session"
)

// InitOptions holds flags for the init command.
type InitOptions struct {
	*RootOptions
	Inputs string
	Force  bool
}

// InitResult is the JSON payload of the init command.
type InitResult struct {
	Path   string      `json:"path"`
	Inputs []ValueView `json:"inputs"`
}

// NewInitCommand creates the init command.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InitOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write an inputs file with example values",
		Long: `Create the inputs and outputs folders and write an inputs file
holding the example measurements. Edit the file, then run calc.

An existing inputs file is kept unless --force is given.

Example:
  valvegear init
  valvegear init --inputs ./loco/inputs.txt --force`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Inputs, "inputs", "", "inputs file (default from config)")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "overwrite an existing inputs file")

	return cmd
}

func runInit(opts *InitOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	paths := resolvePaths(opts.config(), opts.Inputs, "")

	if _, err := os.Stat(paths.Inputs); err == nil && !opts.Force {
		return NewExitError(ExitCommandError,
			fmt.Sprintf("%s already exists (use --force to overwrite)", paths.Inputs))
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return WrapExitError(ExitCommandError, "failed to check inputs file", err)
	}

	sess := session.New(paths, slog.Default())
	if err := sess.EnsureDirs(); err != nil {
		return WrapExitError(ExitCommandError, "failed to create folders", err)
	}
	if err := sess.WriteTemplate(); err != nil {
		return WrapExitError(ExitCommandError, "failed to write inputs file", err)
	}
	slog.Debug("inputs template written", "path", paths.Inputs)

	if f.IsJSON() {
		if _, err := sess.Load(); err != nil {
			return WrapExitError(ExitCommandError, "failed to read back inputs file", err)
		}
		return f.Success(InitResult{Path: paths.Inputs, Inputs: inputViews(sess.Model.InputValues())})
	}
	f.Textf("Wrote example inputs to %s", paths.Inputs)
	return nil
}
