package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/google/shlex"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/roach88/abacus/internal/calc"
	"github.com/roach88/abacus/internal/engine"
	"github.com/roach88/abacus/internal/history"
)

const (
	replPrompt = "calc> "
	replIntro  = "Welcome to abacus! Type help for a list of commands."
)

// replCommands are the session keywords. They take precedence over
// operations of the same name.
var replCommands = []string{
	"quit", "exit", "end", "help", "?",
	"history", "stats", "history_stats",
	"clear", "clear_history",
	"save", "save_history", "load", "load_history",
	"operations",
}

// ReplOptions holds flags for the repl command.
type ReplOptions struct {
	*RootOptions
	Watch bool
}

// NewReplCommand creates the repl command.
func NewReplCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive session",
		Long: `Start an interactive calculator session.

Type an operation followed by its operands (for example "add 2 3"), or one
of: history, stats, clear, save <file>, load <file>, operations, help,
quit. The configured history file is loaded on start and, with
history.autosave, written back on exit.

Example:
  abacus repl --plugins ./plugins --watch`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepl(opts, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Watch, "watch", false, "reload plugins when the plugin directory changes")

	return cmd
}

func runRepl(opts *ReplOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	eng, err := opts.open(cmd)
	if err != nil {
		return fail(formatter, err)
	}

	if opts.Watch || opts.cfg.Plugins.Watch {
		if opts.cfg.Plugins.Dir == "" {
			return fail(formatter, &configError{errors.New("plugin watching needs a plugin directory (--plugins or plugins.dir)")})
		}
		w, err := eng.WatchPlugins(opts.cfg.Plugins.Dir, modeOrDefault(opts.cfg.Plugins.Mode))
		if err != nil {
			return fail(formatter, err)
		}
		defer func() {
			if stopErr := w.Stop(); stopErr != nil {
				opts.logger.Error("error stopping plugin watcher", "error", stopErr)
			}
		}()
	}

	session := &replSession{
		eng:       eng,
		formatter: &OutputFormatter{Format: "text", Writer: cmd.OutOrStdout()},
	}
	if err := session.run(cmd.InOrStdin()); err != nil {
		return fail(formatter, err)
	}

	if opts.cfg.History.AutoSave {
		if _, err := eng.SaveHistory(opts.cfg.History.File); err != nil {
			return fail(formatter, err)
		}
	}
	return nil
}

// replSession executes repl lines against one engine.
type replSession struct {
	eng       *engine.Engine
	formatter *OutputFormatter
}

func (s *replSession) printf(format string, args ...interface{}) {
	fmt.Fprintf(s.formatter.Writer, format, args...)
}

// run reads lines until a quit command or EOF.
func (s *replSession) run(in io.Reader) error {
	s.printf("%s\n", replIntro)
	for _, name := range s.shadowed() {
		s.printf("Note: operation %q is hidden by the %s command; run it with \"abacus calc %s\"\n", name, name, name)
	}

	scanner := bufio.NewScanner(in)
	for {
		s.printf("%s", replPrompt)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("reading input: %w", err)
			}
			s.printf("\nGoodbye!\n")
			return nil
		}
		if s.execute(scanner.Text()) {
			return nil
		}
	}
}

// shadowed lists registered operations that share a name with a keyword.
func (s *replSession) shadowed() []string {
	var names []string
	for _, op := range s.eng.Operations() {
		if slices.Contains(replCommands, op.Name) {
			names = append(names, op.Name)
		}
	}
	return names
}

// execute runs one line and reports whether the session should end.
func (s *replSession) execute(line string) bool {
	args, err := shlex.Split(line)
	if err != nil {
		s.printf("Error: %v\n", err)
		return false
	}
	if len(args) == 0 {
		return false
	}

	switch strings.ToLower(args[0]) {
	case "quit", "exit", "end":
		s.printf("Goodbye!\n")
		return true
	case "help", "?":
		s.help()
	case "history":
		s.history(args[1:])
	case "stats", "history_stats":
		writeStats(s.formatter, s.eng.Stats())
	case "clear", "clear_history":
		s.eng.ClearHistory()
		s.printf("History cleared\n")
	case "save", "save_history":
		s.persist(args, s.eng.SaveHistory, "History saved to %s\n")
	case "load", "load_history":
		s.persist(args, s.eng.LoadHistory, "History loaded from %s\n")
	case "operations":
		writeOperations(s.formatter, s.eng.Operations())
	default:
		s.calculate(args)
	}
	return false
}

func (s *replSession) calculate(args []string) {
	name := args[0]
	if !s.eng.HasOperation(name) {
		s.printf("Unknown command: %s\n", name)
		s.printf("Type 'help' for a list of commands\n")
		return
	}
	if len(args) < 2 {
		s.printf("Error: %s requires at least one argument\n", name)
		return
	}

	operands, err := parseOperands(name, args[1:])
	if err == nil {
		var result float64
		result, err = s.eng.Execute(name, operands...)
		if err == nil {
			s.printf("Result: %s\n", history.FormatFloat(result))
			return
		}
	}

	s.printf("Error: %s\n", errorMessage(err))
	if errors.Is(err, calc.ErrInvalidArgument) {
		s.printf("Usage: %s <number> [<number2>]\n", name)
	}
}

func (s *replSession) history(args []string) {
	flags := &historyFlags{}
	fs := pflag.NewFlagSet("history", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	flags.bind(fs)

	usage := "Usage: history [--from <date>] [--to <date>] [--operation <op>] [--limit <n>]\n"
	if err := fs.Parse(args); err != nil {
		s.printf("Error: %v\n", err)
		s.printf("%s", usage)
		return
	}
	filter, err := flags.filter()
	if err != nil {
		s.printf("Error: %s\n", errorMessage(err))
		s.printf("%s", usage)
		return
	}
	writeRecords(s.formatter, s.eng.Query(filter))
}

// persist runs a save or load against the file named in args[1].
func (s *replSession) persist(args []string, fn func(string) (string, error), done string) {
	if len(args) != 2 {
		s.printf("Usage: %s <filename>\n", args[0])
		return
	}
	path, err := fn(args[1])
	if err != nil {
		s.printf("Error: %s\n", errorMessage(err))
		return
	}
	s.printf(done, path)
}

func (s *replSession) help() {
	s.printf(`Commands:
  <operation> <a> [b]   run an operation (see "operations")
  history [--from <date>] [--to <date>] [--operation <op>] [--limit <n>]
  stats                 summarise the history
  clear                 remove every record
  save <file>           write the history (.csv, .yaml, .db)
  load <file>           replace the history with a file's contents
  operations            list available operations
  help                  show this help
  quit                  leave (also exit, end or Ctrl+D)
`)
}

// errorMessage prefers the bare message of calculation errors.
func errorMessage(err error) string {
	var ce *calc.Error
	if errors.As(err, &ce) {
		return ce.Message
	}
	return err.Error()
}
