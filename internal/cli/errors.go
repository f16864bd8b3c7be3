package cli

import (
	"errors"

	"github.com/roach88/abacus/internal/calc"
	"github.com/roach88/abacus/internal/history"
	"github.com/roach88/abacus/internal/plugin"
)

// Error codes reported in CLI output.
const (
	ErrCodeGeneric          = "E001" // Generic/unknown error
	ErrCodeInvalidArgument  = "E002" // Bad operand, flag value or operand count
	ErrCodeUnknownOperation = "E003" // Operation not registered
	ErrCodeDivisionByZero   = "E004" // Division by zero
	ErrCodeInvalidDomain    = "E005" // Operand outside the operation's domain
	ErrCodeConfig           = "E010" // Invalid configuration

	ErrCodePluginDirNotFound = "E101" // Plugin directory missing
	ErrCodePluginLoadFailed  = "E102" // Plugin unit failed to load

	ErrCodeHistoryNotFound = "E201" // History file missing
	ErrCodeHistoryFormat   = "E202" // Malformed history file
	ErrCodeHistoryIO       = "E203" // History file unreadable or unwritable
)

// classify maps an error to its output code and exit code. Calculation
// errors exit with ExitFailure; everything else is a command error.
func classify(err error) (string, int) {
	switch {
	case errors.Is(err, calc.ErrInvalidArgument):
		return ErrCodeInvalidArgument, ExitFailure
	case errors.Is(err, calc.ErrUnknownOperation):
		return ErrCodeUnknownOperation, ExitFailure
	case errors.Is(err, calc.ErrDivisionByZero):
		return ErrCodeDivisionByZero, ExitFailure
	case errors.Is(err, calc.ErrInvalidDomain):
		return ErrCodeInvalidDomain, ExitFailure
	case errors.Is(err, plugin.ErrDirNotFound):
		return ErrCodePluginDirNotFound, ExitCommandError
	case errors.Is(err, plugin.ErrLoadFailed):
		return ErrCodePluginLoadFailed, ExitCommandError
	case errors.Is(err, history.ErrFileNotFound):
		return ErrCodeHistoryNotFound, ExitCommandError
	case errors.Is(err, history.ErrFormat):
		return ErrCodeHistoryFormat, ExitCommandError
	case errors.Is(err, history.ErrIO):
		return ErrCodeHistoryIO, ExitCommandError
	}

	var ce *configError
	if errors.As(err, &ce) {
		return ErrCodeConfig, ExitCommandError
	}
	return ErrCodeGeneric, ExitCommandError
}

// errorDetails extracts the structured fields of typed errors for output.
// Returns nil when err carries none.
func errorDetails(err error) interface{} {
	details := map[string]any{}

	var ce *calc.Error
	var pe *plugin.Error
	var he *history.Error
	switch {
	case errors.As(err, &ce):
		if ce.Operation != "" {
			details["operation"] = ce.Operation
		}
	case errors.As(err, &pe):
		if pe.Dir != "" {
			details["dir"] = pe.Dir
		}
		if pe.Unit != "" {
			details["unit"] = pe.Unit
		}
	case errors.As(err, &he):
		if he.Path != "" {
			details["path"] = he.Path
		}
		if he.Line > 0 {
			details["line"] = he.Line
		}
	}

	if len(details) == 0 {
		return nil
	}
	return details
}

// fail reports err through the formatter and returns the matching ExitError.
func fail(formatter *OutputFormatter, err error) error {
	code, exit := classify(err)
	_ = formatter.Error(code, err.Error(), errorDetails(err))
	return WrapExitError(exit, code, err)
}
