package errors

import (
	"errors"
	"fmt"
	"strings"
)

// IsLakecatError reports whether err (or anything it wraps) is our Error type
func IsLakecatError(err error) bool {
	var e *Error
	return errors.As(err, &e)
}

// GetContext extracts the context map from our errors, nil otherwise
func GetContext(err error) map[string]string {
	var e *Error
	if errors.As(err, &e) {
		return e.Context
	}
	return nil
}

// GetCode returns the code of err, or the zero Code for foreign errors.
// It unwraps, so a wrapped *Error is still recognized.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return Code{}
}

// Is reports whether err carries the given code
func Is(err error, code Code) bool {
	return GetCode(err).Equals(code)
}

// FormatError renders an error with code, context and cause for logging
func FormatError(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}

	var parts []string
	parts = append(parts, fmt.Sprintf("Code: %s", e.Code))
	parts = append(parts, fmt.Sprintf("Message: %s", e.Message))

	if len(e.Context) > 0 {
		parts = append(parts, "Context:")
		for k, v := range e.Context {
			parts = append(parts, fmt.Sprintf("  %s: %v", k, v))
		}
	}

	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("Cause: %v", e.Cause))
	}

	return strings.Join(parts, "\n")
}

// AsError converts any error to the internal Error format. Existing *Error
// values are returned as-is; everything else is wrapped as a generic internal
// error so that every failure resolves to some code.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		return e
	}

	return New(CommonInternal, err.Error(), err)
}
