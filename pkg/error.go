package pkg

import (
	"fmt"
	"strings"
)

// Error is a chain of errors, innermost first.
// It is used by the command-line layer to report an error together with the
// errors that caused it.
type Error []error

// ErrConfig is returned when the configuration file cannot be used.
var ErrConfig = MakeErrorf("invalid configuration")

// ErrInvalidFormat is returned when an unknown output format is requested.
var ErrInvalidFormat = MakeErrorf("invalid format")

// ErrInvalidArgument is returned for malformed command-line arguments.
var ErrInvalidArgument = MakeErrorf("invalid argument")

// MakeError flattens errs into a single chain. Nil errors are skipped.
func MakeError(errs ...error) Error {
	var e Error

	for _, err := range errs {
		if err != nil {
			e = append(e, UnwrapErrors(err)...)
		}
	}

	return e
}

// MakeErrorf makes an Error from a formatted message.
func MakeErrorf(format string, args ...any) Error {
	return MakeError(fmt.Errorf(format, args...))
}

// Error joins the messages of the chain from innermost to outermost.
func (e Error) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}

	return strings.Join(msgs, ": ")
}

// Wrap returns e followed by err.
func (e Error) Wrap(err ...error) Error {
	return append(e[:len(e):len(e)], err...)
}

// Wrapf returns e followed by a formatted error.
func (e Error) Wrapf(format string, args ...any) Error {
	return e.Wrap(fmt.Errorf(format, args...))
}

// Unwrap returns the errors of the chain.
func (e Error) Unwrap() []error { return e }

// UnwrapErrors flattens the tree of errors below err, innermost first,
// ending with err itself. An [Error] contributes only its elements.
func UnwrapErrors(err error) Error {
	if err == nil {
		return nil
	}

	var chain Error

	switch e := err.(type) {
	case Error:
		for _, wrapped := range e {
			chain = append(chain, UnwrapErrors(wrapped)...)
		}

		return chain
	case interface{ Unwrap() []error }:
		for _, wrapped := range e.Unwrap() {
			chain = append(chain, UnwrapErrors(wrapped)...)
		}
	case interface{ Unwrap() error }:
		chain = append(chain, UnwrapErrors(e.Unwrap())...)
	}

	return append(chain, err)
}
