package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/roach88/abacus/internal/calc"
	"github.com/roach88/abacus/internal/history"
)

// historyFlags are shared by the history command and the repl.
type historyFlags struct {
	From      string
	To        string
	Operation string
	Limit     int
}

func (f *historyFlags) bind(fs *pflag.FlagSet) {
	fs.StringVar(&f.From, "from", "", "show entries at or after this date")
	fs.StringVar(&f.To, "to", "", "show entries at or before this date")
	fs.StringVar(&f.Operation, "operation", "", "filter by operation")
	fs.IntVar(&f.Limit, "limit", 0, "show only the last n entries")
}

// filter converts the flags into a history.Filter.
func (f *historyFlags) filter() (history.Filter, error) {
	var filter history.Filter

	if f.From != "" {
		t, err := parseDate(f.From)
		if err != nil {
			return filter, calc.NewInvalidArgumentError("history", err.Error())
		}
		filter.Start = &t
	}
	if f.To != "" {
		t, err := parseDate(f.To)
		if err != nil {
			return filter, calc.NewInvalidArgumentError("history", err.Error())
		}
		filter.End = &t
	}
	if f.Limit < 0 {
		return filter, calc.NewInvalidArgumentError("history", fmt.Sprintf("limit must not be negative, got %d", f.Limit))
	}
	filter.Operation = f.Operation
	filter.Limit = f.Limit
	return filter, nil
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &historyFlags{}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show calculation history",
		Long: `Show the calculations in the history file, oldest first.

Dates are local and may be written as 2006-01-02, 2006-01-02 15:04[:05]
or 01/02/2006 [15:04[:05]]. Both bounds are inclusive.

Example:
  abacus history --operation add --limit 5
  abacus history --from 2025-01-01 --to "2025-01-31 23:59"`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(rootOpts, cmd, flags)
		},
	}
	flags.bind(cmd.Flags())

	return cmd
}

func runHistory(opts *RootOptions, cmd *cobra.Command, flags *historyFlags) error {
	formatter := opts.formatter(cmd)

	filter, err := flags.filter()
	if err != nil {
		return fail(formatter, err)
	}

	eng, err := opts.open(cmd)
	if err != nil {
		return fail(formatter, err)
	}

	records := eng.Query(filter)
	if formatter.Format == "json" {
		return formatter.Success(newRecordViews(records))
	}
	writeRecords(formatter, records)
	return nil
}

func writeRecords(formatter *OutputFormatter, records []history.Record) {
	if len(records) == 0 {
		fmt.Fprintln(formatter.Writer, "No calculations found")
		return
	}
	for _, r := range records {
		fmt.Fprintln(formatter.Writer, recordLine(r))
	}
}
