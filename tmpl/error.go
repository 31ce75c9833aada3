package tmpl

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
)

// Predefined errors (sentinel values).
var (
	ErrParse           = NewError("parse error")
	ErrMissingVariable = NewError("missing variable")
	ErrDepthExceeded   = NewError("maximum nesting depth exceeded")
	ErrWrite           = NewError("write output")
	ErrReadInput       = NewError("failed to read input")
	ErrUnsupported     = NewError("unsupported value")
	ErrNotObject       = NewError("context root is not an object")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	// Build error message using the first available format,
	// depending on which fields are set:
	//
	//   1. "<msg>: <err>" // base and wrapped error both set
	//   2. "<msg>"        // wrapped error is nil
	//   3. "<err>"        // base error message is empty
	//   4. ""             // no fields are set
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is an Error derived from the same sentinel.
// Errors created by [Error.With] and [Error.Wrap] keep the sentinel's message,
// so errors.Is(err, ErrWrite) holds for any of them.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.msg != "" && t.msg == e.msg
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs, // Share attrs
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
	}
}

// ParseKind classifies a [ParseError].
type ParseKind int

//go:generate go tool stringer -type=ParseKind -linecomment

const (
	MissingColon  ParseKind = iota // missing ':' in block header
	MissingPath                    // missing path in block header
	MalformedFor                   // malformed for clause
	Unterminated                   // unterminated block
	UnexpectedEnd                  // unexpected $end
)

// ParseError reports malformed directive syntax at a byte offset of the
// template being rendered.
type ParseError struct {
	Kind   ParseKind
	Offset int    // Byte offset from the start of the template
	Source string // The template, used to derive line and column
}

func newParseError(kind ParseKind, offset int, source string) *ParseError {
	return &ParseError{Kind: kind, Offset: offset, Source: source}
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	var buf strings.Builder

	buf.WriteString(ErrParse.msg)

	if e.Source != "" {
		line, col := e.Position()
		buf.WriteString(" at line ")
		buf.WriteString(strconv.Itoa(line))
		buf.WriteString(", column ")
		buf.WriteString(strconv.Itoa(col))
	} else {
		buf.WriteString(" at offset ")
		buf.WriteString(strconv.Itoa(e.Offset))
	}

	buf.WriteString(": ")
	buf.WriteString(e.Kind.String())

	return buf.String()
}

// Unwrap returns [ErrParse].
func (e *ParseError) Unwrap() error { return ErrParse }

// Position returns the 1-based line and column (in bytes) of the offset.
func (e *ParseError) Position() (line, col int) {
	off := min(max(e.Offset, 0), len(e.Source))
	head := e.Source[:off]
	line = strings.Count(head, "\n") + 1
	col = off - strings.LastIndexByte(head, '\n')

	return line, col
}

// Snippet returns the offending source line followed by a caret marking the
// column, or the empty string if the source is unknown.
func (e *ParseError) Snippet() string {
	if e.Source == "" {
		return ""
	}

	line, col := e.Position()
	text := strings.TrimSuffix(strings.Split(e.Source, "\n")[line-1], "\r")
	num := strconv.Itoa(line)

	var buf strings.Builder

	buf.WriteString("  ")
	buf.WriteString(num)
	buf.WriteString(" | ")
	buf.WriteString(text)
	buf.WriteByte('\n')
	// +5 accounts for: 2 leading spaces + " | " (3 chars)
	buf.WriteString(strings.Repeat(" ", len(num)+5+col-1))
	buf.WriteString("^\n")

	return buf.String()
}

// LogValue implements slog.LogValuer.
func (e *ParseError) LogValue() slog.Value {
	line, col := e.Position()

	return slog.GroupValue(
		slog.String("error", ErrParse.msg),
		slog.String("kind", e.Kind.String()),
		slog.Int("offset", e.Offset),
		slog.Int("line", line),
		slog.Int("column", col),
	)
}

// VariableError reports a variable directive that does not resolve to a
// string, or a for directive whose path does not resolve to a list.
type VariableError struct {
	Path   string
	Offset int
}

// Error implements the error interface.
func (e *VariableError) Error() string {
	return ErrMissingVariable.msg + ": " + strconv.Quote(e.Path)
}

// Unwrap returns [ErrMissingVariable].
func (e *VariableError) Unwrap() error { return ErrMissingVariable }

// LogValue implements slog.LogValuer.
func (e *VariableError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", ErrMissingVariable.msg),
		slog.String("path", e.Path),
		slog.Int("offset", e.Offset),
	)
}
