package cli

import (
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/roach88/abacus/internal/engine"
)

// NewOperationsCommand creates the operations command.
func NewOperationsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "operations",
		Short: "List available operations",
		Long: `List the built-in operations together with any discovered from the
plugin directory.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOperations(rootOpts, cmd)
		},
	}
	return cmd
}

func runOperations(opts *RootOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	if err := opts.setup(cmd); err != nil {
		return fail(formatter, err)
	}
	eng, err := opts.newEngine()
	if err != nil {
		return fail(formatter, err)
	}

	ops := eng.Operations()
	if formatter.Format == "json" {
		return formatter.Success(ops)
	}
	writeOperations(formatter, ops)
	return nil
}

func writeOperations(formatter *OutputFormatter, ops []engine.OperationInfo) {
	table := tablewriter.NewWriter(formatter.Writer)
	table.SetHeader([]string{"Operation", "Label"})
	table.SetAutoWrapText(false)
	for _, op := range ops {
		table.Append([]string{op.Name, op.Label})
	}
	table.Render()
}
