package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/abacus/internal/history"
)

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "stats",
		Aliases: []string{"history-stats"},
		Short:   "Summarise the calculation history",
		Args:    cobra.NoArgs,
		Example: `  abacus stats
  abacus stats --format json --history calc.db`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(rootOpts, cmd)
		},
	}
	return cmd
}

func runStats(opts *RootOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	eng, err := opts.open(cmd)
	if err != nil {
		return fail(formatter, err)
	}

	stats := eng.Stats()
	if formatter.Format == "json" {
		return formatter.Success(newStatsView(stats))
	}
	writeStats(formatter, stats)
	return nil
}

func writeStats(formatter *OutputFormatter, stats history.Stats) {
	w := formatter.Writer
	if stats.TotalCalculations == 0 {
		fmt.Fprintln(w, "No calculations found")
		return
	}

	fmt.Fprintf(w, "Total calculations: %d\n", stats.TotalCalculations)
	fmt.Fprintf(w, "Most used operation: %s\n", stats.MostUsedOperation)
	fmt.Fprintf(w, "Average result: %.2f\n", stats.AverageResult)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Operations breakdown:")
	for _, oc := range stats.OperationsCount {
		fmt.Fprintf(w, "  %s: %d\n", oc.Operation, oc.Count)
	}
	fmt.Fprintln(w)
	if stats.LastCalculation != nil {
		fmt.Fprintf(w, "Last calculation: %s\n", stats.LastCalculation.Format(displayTimestampLayout))
	}
	fmt.Fprintf(w, "Unique operations used: %d\n", stats.UniqueOperations)
}
