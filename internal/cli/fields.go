package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/valvegear/internal/codec"
	"github.com/roach88/valvegear/internal/param"
)

// FieldsResult is the JSON payload of the fields command.
type FieldsResult struct {
	Inputs  []param.Input  `json:"inputs"`
	Outputs []param.Output `json:"outputs"`
}

// NewFieldsCommand creates the fields command.
func NewFieldsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "fields",
		Short: "List the input and output fields",
		Long: `List the seven inputs in canonical order with their letters,
descriptions and example values, followed by the nine outputs.

Names and letters are the keys accepted by calc --set and by scenario files.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFields(rootOpts, cmd)
		},
	}
}

func runFields(opts *RootOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	m := param.New()

	var result FieldsResult
	for _, in := range m.Inputs() {
		result.Inputs = append(result.Inputs, in)
	}
	for _, out := range m.Outputs() {
		result.Outputs = append(result.Outputs, out)
	}

	if f.IsJSON() {
		return f.Success(result)
	}

	inputs := NewTable("Inputs", "#", "Sym", "Name", "Description", "Example")
	for i, in := range result.Inputs {
		inputs.AddRow(strconv.Itoa(i+1), in.Letter, in.Name, in.Description, codec.FormatValue(in.Example))
	}
	if err := inputs.Render(f.Writer); err != nil {
		return err
	}
	f.Textf("")

	outputs := NewTable("Outputs", "#", "Sym", "Name")
	for i, out := range result.Outputs {
		outputs.AddRow(strconv.Itoa(i+1), out.Letter, out.Name)
	}
	return outputs.Render(f.Writer)
}
