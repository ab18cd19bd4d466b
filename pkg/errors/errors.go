package errors

import (
	"fmt"
)

// Error is the single error type that crosses package boundaries. The code is
// compulsory; context carries diagnostic key/value pairs such as the offending
// identifier.
type Error struct {
	Code    Code
	Message string
	Cause   error
	Context map[string]string
}

// New creates an error with a code, message and optional cause
func New(code Code, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Newf creates an error with a formatted message and no cause
func Newf(code Code, format string, args ...interface{}) *Error {
	return New(code, fmt.Sprintf(format, args...), nil)
}

// Wrap attaches a code and message to an underlying error
func Wrap(code Code, err error, message string) *Error {
	return New(code, message, err)
}

// Wrapf attaches a code and a formatted message to an underlying error
func Wrapf(code Code, err error, format string, args ...interface{}) *Error {
	return New(code, fmt.Sprintf(format, args...), err)
}

// AddContext attaches a key/value pair for diagnostics, returning the error
// for chaining
func (e *Error) AddContext(key, value string) *Error {
	if e.Context == nil {
		e.Context = make(map[string]string)
	}
	e.Context[key] = value
	return e
}

// WithCause sets the underlying cause, returning the error for chaining
func (e *Error) WithCause(err error) *Error {
	e.Cause = err
	return e
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}
