package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/abacus/internal/calc"
	"github.com/roach88/abacus/internal/history"
)

// CalcResult is the JSON payload of a successful calculation.
type CalcResult struct {
	Operation string       `json:"operation"`
	Operands  [2]jsonFloat `json:"operands"`
	Result    jsonFloat    `json:"result"`
	SavedTo   string       `json:"saved_to,omitempty"`
}

// NewCalcCommand creates the calc command.
func NewCalcCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calc <operation> <a> [b]",
		Short: "Run one calculation",
		Long: `Run one calculation and append it to the history file.

With a single operand the second one is the operation's default (0 unless
the operation declares one). Flags go before the operation name so that
negative operands are not read as flags.

Example:
  abacus calc add 2 3
  abacus calc subtract 5 -3
  abacus calc divide 10 4 --history calc.db
  abacus calc logarithm 100 10 --plugins ./plugins`,
		Args:          cobra.RangeArgs(2, 3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCalc(rootOpts, cmd, args)
		},
	}
	cmd.Flags().SetInterspersed(false)
	return cmd
}

func runCalc(opts *RootOptions, cmd *cobra.Command, args []string) error {
	formatter := opts.formatter(cmd)

	name := args[0]
	operands, err := parseOperands(name, args[1:])
	if err != nil {
		return fail(formatter, err)
	}

	eng, err := opts.open(cmd)
	if err != nil {
		return fail(formatter, err)
	}

	if _, err := eng.Execute(name, operands...); err != nil {
		return fail(formatter, err)
	}
	last := eng.Query(history.Filter{Limit: 1})[0]

	result := CalcResult{
		Operation: last.Operation,
		Operands:  [2]jsonFloat{jsonFloat(last.Operands[0]), jsonFloat(last.Operands[1])},
		Result:    jsonFloat(last.Result),
	}

	if opts.cfg.History.AutoSave {
		saved, err := eng.SaveHistory(opts.cfg.History.File)
		if err != nil {
			return fail(formatter, err)
		}
		result.SavedTo = saved
		formatter.VerboseLog("History saved to %s", saved)
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "Result: %s\n", history.FormatFloat(last.Result))
	return nil
}

// parseOperands parses operand arguments for operation name.
func parseOperands(name string, args []string) ([]float64, error) {
	operands := make([]float64, 0, len(args))
	for _, arg := range args {
		f, err := strconv.ParseFloat(strings.TrimSpace(arg), 64)
		if err != nil {
			return nil, calc.NewInvalidArgumentError(calc.NormalizeName(name),
				fmt.Sprintf("invalid number %q", arg))
		}
		operands = append(operands, f)
	}
	return operands, nil
}
