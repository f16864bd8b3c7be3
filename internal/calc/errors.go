package calc

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes calculation errors.
type ErrorCode string

const (
	// ErrCodeUnknownOperation indicates the name is not registered.
	ErrCodeUnknownOperation ErrorCode = "UNKNOWN_OPERATION"

	// ErrCodeDivisionByZero indicates a zero divisor.
	ErrCodeDivisionByZero ErrorCode = "DIVISION_BY_ZERO"

	// ErrCodeInvalidDomain indicates operands outside the operation's domain
	// (negative square root, non-positive logarithm, ...).
	ErrCodeInvalidDomain ErrorCode = "INVALID_DOMAIN"

	// ErrCodeInvalidArgument indicates a malformed request, such as the wrong
	// number of operands.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
)

// Error is returned by operations, the registry and the engine.
//
// Two Errors match under errors.Is when their codes are equal, so the
// package-level sentinels can be used as targets:
//
//	if errors.Is(err, calc.ErrDivisionByZero) { ... }
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Operation is the operation name involved, if any.
	Operation string

	// Message is a human-readable description.
	Message string
}

// Sentinels for errors.Is comparisons.
var (
	ErrUnknownOperation = &Error{Code: ErrCodeUnknownOperation}
	ErrDivisionByZero   = &Error{Code: ErrCodeDivisionByZero}
	ErrInvalidDomain    = &Error{Code: ErrCodeInvalidDomain}
	ErrInvalidArgument  = &Error{Code: ErrCodeInvalidArgument}
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Operation != "" {
		return fmt.Sprintf("%s: %s (operation=%s)", e.Code, e.Message, e.Operation)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// NewUnknownOperationError creates an Error for a name missing from the registry.
func NewUnknownOperationError(name string) *Error {
	return &Error{
		Code:      ErrCodeUnknownOperation,
		Operation: name,
		Message:   fmt.Sprintf("unknown operation %q", name),
	}
}

// NewDivisionByZeroError creates an Error for a zero divisor.
func NewDivisionByZeroError(operation string) *Error {
	return &Error{
		Code:      ErrCodeDivisionByZero,
		Operation: operation,
		Message:   "cannot divide by zero",
	}
}

// NewInvalidDomainError creates an Error for operands outside the domain.
func NewInvalidDomainError(operation, message string) *Error {
	return &Error{
		Code:      ErrCodeInvalidDomain,
		Operation: operation,
		Message:   message,
	}
}

// NewInvalidArgumentError creates an Error for a malformed request.
func NewInvalidArgumentError(operation, message string) *Error {
	return &Error{
		Code:      ErrCodeInvalidArgument,
		Operation: operation,
		Message:   message,
	}
}

// CodeOf returns the ErrorCode carried by err, or "" if err is not an *Error.
// Uses errors.As to handle wrapped errors.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
