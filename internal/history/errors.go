package history

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes history persistence errors.
type ErrorCode string

const (
	// ErrCodeFileNotFound indicates Load was given a path that does not exist.
	ErrCodeFileNotFound ErrorCode = "FILE_NOT_FOUND"

	// ErrCodeFormat indicates malformed persisted data.
	ErrCodeFormat ErrorCode = "FORMAT_ERROR"

	// ErrCodeIO indicates a read or write failure.
	ErrCodeIO ErrorCode = "IO_ERROR"
)

// Error is returned by Save, Load and the persisters.
// Errors match under errors.Is when their codes are equal.
type Error struct {
	Code    ErrorCode
	Path    string
	Line    int // 1-based line or record number for format errors, 0 if unknown
	Message string
	Err     error
}

// Sentinels for errors.Is comparisons.
var (
	ErrFileNotFound = &Error{Code: ErrCodeFileNotFound}
	ErrFormat       = &Error{Code: ErrCodeFormat}
	ErrIO           = &Error{Code: ErrCodeIO}
)

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Path != "" {
		if e.Line > 0 {
			msg = fmt.Sprintf("%s (%s:%d)", msg, e.Path, e.Line)
		} else {
			msg = fmt.Sprintf("%s (%s)", msg, e.Path)
		}
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

// NewFileNotFoundError creates an Error for a missing history file.
func NewFileNotFoundError(path string) *Error {
	return &Error{Code: ErrCodeFileNotFound, Path: path, Message: "history file not found"}
}

// NewFormatError creates an Error for malformed data at line.
func NewFormatError(path string, line int, format string, args ...any) *Error {
	return &Error{Code: ErrCodeFormat, Path: path, Line: line, Message: fmt.Sprintf(format, args...)}
}

// NewIOError creates an Error wrapping a read or write failure.
func NewIOError(path, op string, err error) *Error {
	return &Error{Code: ErrCodeIO, Path: path, Message: op + " failed", Err: err}
}

// asHistoryError passes *Error values through and wraps anything else as IO_ERROR.
func asHistoryError(path, op string, err error) error {
	if err == nil {
		return nil
	}
	var he *Error
	if errors.As(err, &he) {
		return err
	}
	return NewIOError(path, op, err)
}
