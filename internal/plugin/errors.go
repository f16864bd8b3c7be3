package plugin

import (
	"fmt"
)

// ErrorCode categorizes plugin discovery errors.
type ErrorCode string

const (
	// ErrCodeDirNotFound indicates the plugin directory does not exist.
	ErrCodeDirNotFound ErrorCode = "PLUGIN_DIR_NOT_FOUND"

	// ErrCodeLoadFailed indicates a unit could not be loaded or validated.
	ErrCodeLoadFailed ErrorCode = "PLUGIN_LOAD_FAILED"
)

// Error reports a discovery failure. Unit names the offending file for
// PLUGIN_LOAD_FAILED. Errors match under errors.Is when their codes are equal.
type Error struct {
	Code    ErrorCode
	Dir     string
	Unit    string
	Message string
	Err     error
}

// Sentinels for errors.Is comparisons.
var (
	ErrDirNotFound = &Error{Code: ErrCodeDirNotFound}
	ErrLoadFailed  = &Error{Code: ErrCodeLoadFailed}
)

func (e *Error) Error() string {
	var msg string
	if e.Unit != "" {
		msg = fmt.Sprintf("%s: %s: %s", e.Code, e.Unit, e.Message)
	} else {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

func newDirNotFoundError(dir string, err error) *Error {
	return &Error{
		Code:    ErrCodeDirNotFound,
		Dir:     dir,
		Message: fmt.Sprintf("plugin directory not found: %s", dir),
		Err:     err,
	}
}

func newDirReadError(dir string, err error) *Error {
	return &Error{
		Code:    ErrCodeLoadFailed,
		Dir:     dir,
		Message: fmt.Sprintf("reading plugin directory %s", dir),
		Err:     err,
	}
}

func newLoadError(unit, message string, err error) *Error {
	return &Error{
		Code:    ErrCodeLoadFailed,
		Unit:    unit,
		Message: message,
		Err:     err,
	}
}
