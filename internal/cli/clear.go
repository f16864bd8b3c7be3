package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ClearResult is the JSON payload of the clear command.
type ClearResult struct {
	Path    string `json:"path"`
	Cleared int    `json:"cleared"`
}

// NewClearCommand creates the clear command.
func NewClearCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "clear",
		Aliases:       []string{"clear-history"},
		Short:         "Remove every record from the history file",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClear(rootOpts, cmd)
		},
	}
	return cmd
}

func runClear(opts *RootOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	eng, err := opts.open(cmd)
	if err != nil {
		return fail(formatter, err)
	}

	cleared := eng.History().Len()
	eng.ClearHistory()
	path, err := eng.SaveHistory(opts.cfg.History.File)
	if err != nil {
		return fail(formatter, err)
	}

	if formatter.Format == "json" {
		return formatter.Success(ClearResult{Path: path, Cleared: cleared})
	}
	fmt.Fprintln(formatter.Writer, "History cleared")
	return nil
}
