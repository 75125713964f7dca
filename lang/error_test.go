package lang

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
)

func TestError_Is(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{"self", ErrParse, ErrParse, true},
		{"kind of parse", ErrMalformedStatement, ErrParse, true},
		{"parse is not kind", ErrParse, ErrMalformedStatement, false},
		{"depth is malformed", ErrMaxDepthExceeded, ErrMalformedStatement, true},
		{"depth is parse", ErrMaxDepthExceeded, ErrParse, true},
		{"siblings", ErrInvalidValue, ErrArityMismatch, false},
		{"read is not parse", ErrReadInput, ErrParse, false},
		{"parse is not read", ErrInvalidValue, ErrReadInput, false},
		{"wrapped", ErrInvalidValue.Wrap(io.EOF), ErrInvalidValue, true},
		{"wrapped cause", ErrInvalidValue.Wrap(io.EOF), io.EOF, true},
		{"with attrs", ErrArityMismatch.With(slog.Int("keys", 1)), ErrParse, true},
		{"in statement", ErrUnresolvedIdentifier.In(Statement{}), ErrUnresolvedIdentifier, true},
		{"fmt wrapped", fmt.Errorf("outer: %w", ErrArityMismatch), ErrParse, true},
		{"foreign", io.EOF, ErrParse, false},
		{"derived target", ErrParse, ErrParse.With(slog.Int("n", 1)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := errors.Is(tt.err, tt.target); got != tt.want {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.target, got, tt.want)
			}
		})
	}
}

func TestError_Immutable(t *testing.T) {
	t.Parallel()

	base := ErrInvalidValue.With(slog.String("a", "1"))
	left := base.With(slog.String("b", "2"))
	right := base.With(slog.String("c", "3"))

	if n := len(base.LogValue().Group()); n != 2 {
		t.Errorf("base has %d attrs, want 2", n)
	}

	for _, tc := range []struct {
		err  *Error
		want string
		not  string
	}{
		{left, "b=2", "c=3"},
		{right, "c=3", "b=2"},
	} {
		got := tc.err.LogValue().String()
		if !strings.Contains(got, tc.want) || strings.Contains(got, tc.not) {
			t.Errorf("log value %s: want %s, not %s", got, tc.want, tc.not)
		}
	}

	if ErrInvalidValue.Error() != "invalid value" {
		t.Errorf("sentinel changed: %q", ErrInvalidValue.Error())
	}
}

func TestError_Error(t *testing.T) {
	t.Parallel()

	stmt := Statement{Text: `a -> "x"`, Index: 4, Line: 7}

	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"message", ErrParse, "parse error"},
		{"wrapped", ErrInvalidValue.Wrap(io.EOF), "invalid value: EOF"},
		{"cause only", WrapError(io.EOF), "EOF"},
		{"empty", &Error{}, ""},
		{
			"statement",
			ErrArityMismatch.In(stmt),
			`arity mismatch (statement 4, line 7: "a -> \"x\"")`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestError_In(t *testing.T) {
	t.Parallel()

	first := Statement{Text: "a -> 1", Index: 1, Line: 1}
	second := Statement{Text: "b -> 2", Index: 2, Line: 2}

	if _, ok := ErrParse.Statement(); ok {
		t.Error("sentinel should not name a statement")
	}

	err := ErrInvalidValue.In(first).In(second)

	got, ok := err.Statement()
	if !ok || got != first {
		t.Errorf("Statement() = %+v, %v; want %+v", got, ok, first)
	}

	// Foreign errors pass through unchanged
	if got := inStatement(io.EOF, first); got != io.EOF {
		t.Errorf("inStatement(io.EOF) = %v", got)
	}
}

func TestError_LogValue(t *testing.T) {
	t.Parallel()

	err := ErrUnresolvedIdentifier.
		Wrap(errors.New(`"M" is not defined`)).
		With(slog.String("identifier", "M")).
		In(Statement{Text: "a -> M", Index: 3, Line: 5})

	attrs := make(map[string]string)
	for _, a := range err.LogValue().Group() {
		attrs[a.Key] = a.Value.String()
	}

	want := map[string]string{
		"error":      "unresolved identifier",
		"cause":      `"M" is not defined`,
		"statement":  "3",
		"line":       "5",
		"text":       "a -> M",
		"identifier": "M",
	}

	for key, w := range want {
		if attrs[key] != w {
			t.Errorf("attr %s = %q, want %q", key, attrs[key], w)
		}
	}
}

func TestWrapError(t *testing.T) {
	t.Parallel()

	if got := WrapError(ErrArityMismatch); got != ErrArityMismatch {
		t.Errorf("WrapError(*Error) = %p, want same instance %p", got, ErrArityMismatch)
	}

	wrapped := fmt.Errorf("context: %w", ErrInvalidValue)
	if got := WrapError(wrapped); !errors.Is(got, ErrInvalidValue) {
		t.Errorf("WrapError(%v) lost classification", wrapped)
	}

	foreign := WrapError(io.ErrUnexpectedEOF)
	if !errors.Is(foreign, io.ErrUnexpectedEOF) || errors.Is(foreign, ErrParse) {
		t.Errorf("WrapError(foreign) = %v", foreign)
	}
}
