package shared

import (
	"github.com/gear6io/lakecat/pkg/errors"
)

// The closed set of taxonomy codes. Every backend failure is mapped onto
// exactly one of these before it crosses the catalog boundary; the mapping is
// total and defaults to Internal.
var (
	NotFound           = errors.MustNewCode("catalog.not_found")
	AlreadyExists      = errors.MustNewCode("catalog.already_exists")
	NotEmpty           = errors.MustNewCode("catalog.not_empty")
	InvalidInput       = errors.MustNewCode("catalog.invalid_input")
	ServiceUnavailable = errors.MustNewCode("catalog.service_unavailable")
	Internal           = errors.MustNewCode("catalog.internal")
)

// Helper constructors for the taxonomy kinds
func NewNotFound(format string, args ...interface{}) *errors.Error {
	return errors.Newf(NotFound, format, args...)
}

func NewAlreadyExists(format string, args ...interface{}) *errors.Error {
	return errors.Newf(AlreadyExists, format, args...)
}

func NewNotEmpty(format string, args ...interface{}) *errors.Error {
	return errors.Newf(NotEmpty, format, args...)
}

func NewInvalidInput(format string, args ...interface{}) *errors.Error {
	return errors.Newf(InvalidInput, format, args...)
}

func NewServiceUnavailable(format string, args ...interface{}) *errors.Error {
	return errors.Newf(ServiceUnavailable, format, args...)
}

func NewInternal(format string, args ...interface{}) *errors.Error {
	return errors.Newf(Internal, format, args...)
}

// Predicates for backend-agnostic error handling by callers
func IsNotFound(err error) bool           { return errors.Is(err, NotFound) }
func IsAlreadyExists(err error) bool      { return errors.Is(err, AlreadyExists) }
func IsNotEmpty(err error) bool           { return errors.Is(err, NotEmpty) }
func IsInvalidInput(err error) bool       { return errors.Is(err, InvalidInput) }
func IsServiceUnavailable(err error) bool { return errors.Is(err, ServiceUnavailable) }
func IsInternal(err error) bool           { return errors.Is(err, Internal) }

var taxonomy = map[errors.Code]struct{}{
	NotFound:           {},
	AlreadyExists:      {},
	NotEmpty:           {},
	InvalidInput:       {},
	ServiceUnavailable: {},
	Internal:           {},
}

// KindOf resolves any error to one of the six taxonomy codes. Errors that
// already carry a taxonomy code keep it; everything else is Internal.
func KindOf(err error) errors.Code {
	code := errors.GetCode(err)
	if _, ok := taxonomy[code]; ok {
		return code
	}
	return Internal
}

// AsTaxonomy normalizes an error so its code is one of the six kinds. Errors
// already inside the taxonomy pass through unchanged.
func AsTaxonomy(err error) *errors.Error {
	if err == nil {
		return nil
	}
	e := errors.AsError(err)
	if _, ok := taxonomy[e.Code]; ok {
		return e
	}
	return errors.New(Internal, e.Message, e.Cause)
}
