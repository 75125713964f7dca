package lang

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
)

// Predefined errors (sentinel values).
//
// Every error reported while parsing a document is classified under
// [ErrParse]. Failure to read the document is reported as [ErrReadInput]
// instead, so callers can tell malformed input from missing input.
var (
	ErrParse     = NewError("parse error")
	ErrReadInput = NewError("failed to read input")

	ErrMalformedStatement   = ErrParse.Kind("malformed statement")
	ErrUnresolvedIdentifier = ErrParse.Kind("unresolved identifier")
	ErrInvalidValue         = ErrParse.Kind("invalid value")
	ErrArityMismatch        = ErrParse.Kind("arity mismatch")

	ErrMaxDepthExceeded = ErrMalformedStatement.Kind("maximum nesting depth exceeded")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg    string
	origin *Error // sentinel this error was derived from (nil for sentinels)
	parent *Error // broader category
	err    error  // Wrapped error (for errors.Unwrap)
	stmt   *Statement
	attrs  []slog.Attr // Attributes for structured logging
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

// Kind creates a new sentinel classified under e, such that errors derived
// from the new sentinel also match e with [errors.Is].
func (e *Error) Kind(msg string) *Error {
	return &Error{msg: msg, parent: e.id()}
}

func (e *Error) id() *Error {
	if e.origin != nil {
		return e.origin
	}

	return e
}

func (e *Error) derive() *Error {
	return &Error{
		msg:    e.msg,
		origin: e.id(),
		parent: e.parent,
		err:    e.err,
		stmt:   e.stmt,
		attrs:  e.attrs, // Share attrs
	}
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
	//
	// The statement, if known, is appended in all cases.
	part := make([]string, 0, 3)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	msg := strings.Join(part, ": ")

	if e.stmt != nil {
		msg += " (statement " + strconv.Itoa(e.stmt.Index) +
			", line " + strconv.Itoa(e.stmt.Line) +
			": " + strconv.Quote(e.stmt.Text) + ")"
	}

	return msg
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from, or any
// category enclosing it.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	want := t.id()
	for c := e.id(); c != nil; c = c.parent {
		if c == want {
			return true
		}
	}

	return false
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+5)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	if e.stmt != nil {
		attrs = append(attrs,
			slog.Int("statement", e.stmt.Index),
			slog.Int("line", e.stmt.Line),
			slog.String("text", e.stmt.Text),
		)
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	ee := e.derive()
	ee.err = err

	return ee
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	ee := e.derive()
	ee.attrs = newAttrs

	return ee
}

// In attaches the statement in which the error occurred.
// An error that already names a statement keeps it.
func (e *Error) In(stmt Statement) *Error {
	if e.stmt != nil {
		return e
	}

	ee := e.derive()
	ee.stmt = &stmt

	return ee
}

// Statement returns the statement in which the error occurred, if known.
func (e *Error) Statement() (Statement, bool) {
	if e.stmt == nil {
		return Statement{}, false
	}

	return *e.stmt, true
}

// inStatement attaches stmt to err if err is an [*Error].
func inStatement(err error, stmt Statement) error {
	var ee *Error
	if errors.As(err, &ee) {
		return ee.In(stmt)
	}

	return err
}
