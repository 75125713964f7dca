package lang

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"
)

// EvaluateValues parses text as a comma-separated list of literal expressions
// and returns one value per expression, in source order.
//
// Bare identifiers are replaced by their binding in subs. Every value,
// including substituted ones, is checked with [Validate] before returning.
func EvaluateValues(
	text string,
	subs Substitutions,
	opts ...Option,
) ([]Value, error) {
	cfg := makeOptions(opts...)

	e := &evaluator{
		scanner:  newScanner(text),
		subs:     subs,
		maxDepth: cfg.maxDepth,
	}

	values, err := e.parseList()
	if err != nil {
		return nil, err
	}

	for _, v := range values {
		if err := Validate(v); err != nil {
			return nil, err
		}
	}

	return values, nil
}

// EvaluateValue parses text as exactly one literal expression.
func EvaluateValue(
	text string,
	subs Substitutions,
	opts ...Option,
) (Value, error) {
	values, err := EvaluateValues(text, subs, opts...)
	if err != nil {
		return Value{}, err
	}

	if len(values) != 1 {
		return Value{}, ErrMalformedStatement.
			Wrap(fmt.Errorf("expected a single value, found %d", len(values))).
			With(slog.String("values", text))
	}

	return values[0], nil
}

// Validate reports an [ErrInvalidValue] error if v, or any value nested in v,
// is not an Integer, a Text, or an Array of at least [MinArrayLen] elements.
func Validate(v Value) error {
	switch v.Kind() {
	case KindInteger, KindText:
		return nil

	case KindArray:
		if n := v.Len(); n < MinArrayLen {
			return ErrInvalidValue.
				Wrap(fmt.Errorf(
					"array %s has %d element(s), arrays must be at least %d long",
					v, n, MinArrayLen,
				)).
				With(
					slog.String("value", v.String()),
					slog.Int("length", n),
					slog.Int("min_length", MinArrayLen),
				)
		}

		for _, e := range v.elems {
			if err := Validate(e); err != nil {
				return err
			}
		}

		return nil

	default:
		return ErrInvalidValue.
			Wrap(fmt.Errorf("invalid type for %s", v)).
			With(slog.String("kind", v.Kind().String()))
	}
}

// evaluator is a recursive-descent parser for the literal grammar:
//
//	ValueList  → Expr (',' Expr)* ','?
//	Expr       → Integer | String | Array | Identifier
//	Array      → '[' (Expr (',' Expr)* ','?)? ']'
type evaluator struct {
	scanner

	subs     Substitutions
	maxDepth int
	depth    int
}

func (e *evaluator) parseList() ([]Value, error) {
	values := make([]Value, 0)

	e.skipWhitespace()

	if e.eof() {
		return nil, ErrMalformedStatement.Wrap(errors.New("empty value list"))
	}

	for {
		v, err := e.parseExpr()
		if err != nil {
			return nil, err
		}

		values = append(values, v)

		e.skipWhitespace()

		if e.eof() {
			break
		}

		if !e.expect(',') {
			return nil, e.unexpected("',' or end of values")
		}

		e.skipWhitespace()

		// Trailing comma
		if e.eof() {
			break
		}
	}

	return values, nil
}

func (e *evaluator) parseExpr() (Value, error) {
	ch := e.peek()

	switch {
	case e.eof():
		return Value{}, e.unexpected("value")

	case ch == '[':
		return e.parseArray()

	case isQuote(ch):
		return e.parseString()

	case ch == '+' || ch == '-' || isDigit(ch):
		return e.parseInteger()

	case isIdentifierStart(ch):
		return e.parseIdentifier()

	default:
		return Value{}, e.unexpected("value")
	}
}

func (e *evaluator) parseArray() (Value, error) {
	if e.depth >= e.maxDepth {
		return Value{}, ErrMaxDepthExceeded.
			With(slog.Int("depth", e.depth)).
			With(slog.Int("max_depth", e.maxDepth)).
			With(slog.Int("column", e.col))
	}

	e.depth++
	defer func() { e.depth-- }()

	e.advance() // skip '['

	elems := make([]Value, 0)

	for {
		e.skipWhitespace()

		if e.expect(']') {
			break
		}

		v, err := e.parseExpr()
		if err != nil {
			return Value{}, err
		}

		elems = append(elems, v)

		e.skipWhitespace()

		if e.expect(']') {
			break
		}

		if !e.expect(',') {
			return Value{}, e.unexpected("',' or ']'")
		}
	}

	return Value{kind: KindArray, elems: elems}, nil
}

func (e *evaluator) parseString() (Value, error) {
	start, col := e.pos, e.col
	quote := e.peek()

	if !e.skipString() {
		return Value{}, ErrMalformedStatement.
			Wrap(fmt.Errorf("unterminated string at column %d", col)).
			With(slog.Int("column", col))
	}

	body := string(e.input[start+1 : e.pos-1])

	var sb strings.Builder

	for body != "" {
		r, multibyte, tail, err := strconv.UnquoteChar(body, byte(quote))
		if err != nil {
			return Value{}, ErrMalformedStatement.
				Wrap(fmt.Errorf("invalid escape in string at column %d: %w", col, err)).
				With(slog.String("literal", string(e.input[start:e.pos])))
		}

		if r < utf8.RuneSelf || !multibyte {
			sb.WriteByte(byte(r))
		} else {
			sb.WriteRune(r)
		}

		body = tail
	}

	return Text(sb.String()), nil
}

func (e *evaluator) parseInteger() (Value, error) {
	start, col := e.pos, e.col

	var sign string

	if ch := e.peek(); ch == '+' || ch == '-' {
		sign = string(ch)

		e.advance()

		if !isDigit(e.peek()) {
			return Value{}, e.unexpected("digit")
		}
	}

	digits := e.pos
	prefixed := e.peekN(2) == "0x" || e.peekN(2) == "0X"

	for !e.eof() {
		ch := e.peek()

		// Exponent sign of a (rejected) floating-point literal
		if (ch == '+' || ch == '-') && !prefixed {
			if last := e.input[e.pos-1]; last == 'e' || last == 'E' {
				e.advance()

				continue
			}
		}

		if ch != '.' && ch != '_' && !isIdentifierContinue(ch) {
			break
		}

		e.advance()
	}

	literal := string(e.input[start:e.pos])
	lit := string(e.input[digits:e.pos])

	if !prefixed && strings.ContainsAny(lit, ".eE") {
		if _, err := strconv.ParseFloat(lit, 64); err == nil {
			return Value{}, ErrInvalidValue.
				Wrap(fmt.Errorf("invalid type for %s: only integers are supported", literal)).
				With(slog.String("value", literal))
		}
	}

	if len(lit) > 1 && lit[0] == '0' && isDigit(rune(lit[1])) &&
		strings.Trim(lit, "0_") != "" {
		return Value{}, ErrMalformedStatement.
			Wrap(fmt.Errorf("leading zeros in decimal integer literal %s", literal)).
			With(slog.Int("column", col))
	}

	i, err := strconv.ParseInt(sign+lit, 0, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return Value{}, ErrInvalidValue.
				Wrap(fmt.Errorf("integer %s out of range", literal)).
				With(slog.String("value", literal))
		}

		return Value{}, ErrMalformedStatement.
			Wrap(fmt.Errorf("invalid integer literal %s at column %d", literal, col)).
			With(slog.Int("column", col))
	}

	return Int(i), nil
}

func (e *evaluator) parseIdentifier() (Value, error) {
	start := e.pos

	for !e.eof() && isIdentifierContinue(e.peek()) {
		e.advance()
	}

	name := string(e.input[start:e.pos])

	v, ok := e.subs.Lookup(name)
	if !ok {
		return Value{}, ErrUnresolvedIdentifier.
			Wrap(fmt.Errorf("%q is not defined", name)).
			With(slog.String("identifier", name))
	}

	return v, nil
}

// unexpected reports a syntax error at the cursor.
func (e *evaluator) unexpected(expected string) error {
	if e.eof() {
		return ErrMalformedStatement.
			Wrap(fmt.Errorf("unexpected end of values, expected %s", expected)).
			With(slog.String("expected", expected))
	}

	return ErrMalformedStatement.
		Wrap(fmt.Errorf(
			"unexpected %q at line %d, column %d, expected %s",
			e.peek(), e.line, e.col, expected,
		)).
		With(
			slog.Int("line", e.line),
			slog.Int("column", e.col),
			slog.String("expected", expected),
		)
}
