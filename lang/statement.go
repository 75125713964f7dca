package lang

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"unicode"
)

const (
	// Terminator separates statements in a document.
	Terminator = ';'

	// Arrow separates the keys of a statement from its values.
	Arrow = "->"

	// KeyDelimiter separates keys (and values) within a statement.
	KeyDelimiter = ','
)

// Statement is one unit of a document: "key[, key...] -> value[, value...]".
type Statement struct {
	Text  string // trimmed, without terminator
	Index int    // 1-based position among the non-blank statements
	Line  int    // 1-based line on which the statement begins
}

// Pair is a key bound to its value.
type Pair struct {
	Key   string
	Value Value
}

// Binding is the ordered result of reconciling the keys and values of one
// statement.
type Binding []Pair

// Keys returns the bound keys in statement order.
func (b Binding) Keys() []string {
	keys := make([]string, len(b))
	for i, p := range b {
		keys[i] = p.Key
	}

	return keys
}

// All returns an iterator over the key/value pairs in statement order.
func (b Binding) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, p := range b {
			if !yield(p.Key, p.Value) {
				return
			}
		}
	}
}

// SplitStatements splits a comment-free document on [Terminator] and returns
// the statements that are not blank. Terminators inside string literals do
// not split. The final statement need not be terminated.
func SplitStatements(doc string) []Statement {
	var (
		stmts []Statement
		s     = newScanner(doc)
		start = 0
		line  = 1
	)

	emit := func(end int) {
		raw := doc[start:end]
		text := strings.TrimSpace(raw)

		if text != "" {
			lead := raw[:strings.IndexFunc(raw, func(r rune) bool {
				return !unicode.IsSpace(r)
			})]

			stmts = append(stmts, Statement{
				Text:  text,
				Index: len(stmts) + 1,
				Line:  line + strings.Count(lead, "\n"),
			})
		}
	}

	for !s.eof() {
		ch := s.peek()

		if isQuote(ch) {
			// An unterminated literal is left for the value parser to report.
			s.skipString()

			continue
		}

		if ch == Terminator {
			emit(s.pos)
			s.advance()

			start, line = s.pos, s.line

			continue
		}

		s.advance()
	}

	emit(len(doc))

	return stmts
}

// ParseStatement binds a single statement given as text.
func ParseStatement(
	text string,
	subs Substitutions,
	opts ...Option,
) (Binding, error) {
	stmt := Statement{
		Text:  strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(text), string(Terminator))),
		Index: 1,
		Line:  1,
	}

	return BindStatement(stmt, subs, opts...)
}

// BindStatement splits stmt into keys and values, evaluates the values
// against subs, and binds them to the keys.
//
// When there are more values than keys, the first len(keys)-1 values are
// bound one-to-one and the remaining values are collected, in order, into a
// single Array bound to the last key.
func BindStatement(
	stmt Statement,
	subs Substitutions,
	opts ...Option,
) (Binding, error) {
	keysText, valuesText, err := splitArrow(stmt.Text)
	if err != nil {
		return nil, inStatement(err, stmt)
	}

	keys, err := parseKeys(keysText)
	if err != nil {
		return nil, inStatement(err, stmt)
	}

	values, err := EvaluateValues(valuesText, subs, opts...)
	if err != nil {
		return nil, inStatement(err, stmt)
	}

	values = collapse(len(keys), values)

	if len(keys) != len(values) {
		return nil, ErrArityMismatch.
			Wrap(fmt.Errorf("%d key(s) but %d value(s)", len(keys), len(values))).
			With(
				slog.Int("keys", len(keys)),
				slog.Int("values", len(values)),
			).
			In(stmt)
	}

	binding := make(Binding, len(keys))
	for i, key := range keys {
		binding[i] = Pair{Key: key, Value: values[i]}
	}

	return binding, nil
}

// collapse gathers the values in excess of n into one Array in position n-1.
func collapse(n int, values []Value) []Value {
	if n < 1 || n >= len(values) {
		return values
	}

	head := slices.Clone(values[:n-1])

	return append(head, Array(values[n-1:]...))
}

// splitArrow splits text on the only [Arrow] outside string literals.
func splitArrow(text string) (keys, values string, err error) {
	var (
		s   = newScanner(text)
		at  = make([]int, 0, 1)
		arw = len(Arrow)
	)

	for !s.eof() {
		if isQuote(s.peek()) {
			s.skipString()

			continue
		}

		if s.peekN(arw) == Arrow {
			at = append(at, s.pos)

			for range arw {
				s.advance()
			}

			continue
		}

		s.advance()
	}

	switch len(at) {
	case 1:
		return text[:at[0]], text[at[0]+arw:], nil

	case 0:
		return "", "", ErrMalformedStatement.
			Wrap(fmt.Errorf("missing %q separator", Arrow))

	default:
		return "", "", ErrMalformedStatement.
			Wrap(fmt.Errorf("separator %q appears %d times", Arrow, len(at))).
			With(slog.Int("separators", len(at)))
	}
}

// parseKeys splits text on [KeyDelimiter] into trimmed key names.
func parseKeys(text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrMalformedStatement.Wrap(errors.New("no keys"))
	}

	keys := strings.Split(text, string(KeyDelimiter))

	for i, key := range keys {
		key = strings.TrimSpace(key)

		if key == "" {
			return nil, ErrMalformedStatement.
				Wrap(fmt.Errorf("empty key name at position %d", i+1)).
				With(slog.Int("position", i+1))
		}

		if !IsKey(key) {
			return nil, ErrMalformedStatement.
				Wrap(fmt.Errorf("invalid key name %s", strconv.Quote(key))).
				With(slog.String("key", key))
		}

		keys[i] = key
	}

	return keys, nil
}
