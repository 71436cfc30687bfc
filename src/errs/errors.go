// Package errs defines the coded error type shared by the catalog, the
// kingdom engine and the API layer.
package errs

import (
	"errors"
	"fmt"
)

// Code classifies an error so callers can map it to a response.
type Code string

const (
	// CodeConfiguration marks a request that cannot be satisfied with the
	// selected sets: an empty selection, a pool smaller than a draw, or no
	// bane card available.
	CodeConfiguration Code = "configuration"
	// CodeDataIntegrity marks an inconsistent catalog.
	CodeDataIntegrity Code = "data_integrity"
	// CodeEntropy marks a failure to read from the randomness source.
	CodeEntropy Code = "entropy"
)

// Sentinels for errors.Is matching by code.
var (
	ErrConfiguration = &Error{Code: CodeConfiguration}
	ErrDataIntegrity = &Error{Code: CodeDataIntegrity}
	ErrEntropy       = &Error{Code: CodeEntropy}
)

// Error is the domain error type with structured metadata.
type Error struct {
	Code     Code
	Message  string
	Metadata map[string]string
	Cause    error
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

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithMetadata creates an error carrying key/value context, e.g. the set or
// card a catalog error refers to.
func WithMetadata(code Code, message string, metadata map[string]string) *Error {
	return &Error{Code: code, Message: message, Metadata: metadata}
}

func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// CodeOf returns the code of the first *Error in err's chain, or "" if none.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
