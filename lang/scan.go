package lang

import (
	"unicode"
	"unicode/utf8"
)

// scanner holds the cursor state shared by the value parser and the
// statement splitter.
type scanner struct {
	input []byte
	pos   int
	line  int
	col   int
}

func newScanner(s string) scanner {
	return scanner{
		input: []byte(s),
		pos:   0,
		line:  1,
		col:   1,
	}
}

func (s *scanner) peek() rune {
	if s.eof() {
		return 0
	}

	r, _ := utf8.DecodeRune(s.input[s.pos:])

	return r
}

func (s *scanner) peekN(n int) string {
	if s.pos+n > len(s.input) {
		return string(s.input[s.pos:])
	}

	return string(s.input[s.pos : s.pos+n])
}

func (s *scanner) advance() {
	if s.eof() {
		return
	}

	r, size := utf8.DecodeRune(s.input[s.pos:])

	s.pos += size
	if r == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
}

func (s *scanner) expect(ch rune) bool {
	if s.peek() == ch {
		s.advance()

		return true
	}

	return false
}

func (s *scanner) eof() bool {
	return s.pos >= len(s.input)
}

func (s *scanner) skipWhitespace() {
	for !s.eof() && unicode.IsSpace(s.peek()) {
		s.advance()
	}
}

// skipString advances past a quoted string literal starting at the cursor.
// It reports false if the literal is not terminated before the end of input
// or the end of the line.
func (s *scanner) skipString() bool {
	quote := s.peek()

	s.advance() // skip opening quote

	for !s.eof() {
		ch := s.peek()
		if ch == '\\' {
			s.advance() // skip backslash

			if !s.eof() {
				s.advance() // skip escaped char
			}

			continue
		}

		if ch == '\n' {
			return false
		}

		s.advance()

		if ch == quote {
			return true
		}
	}

	return false
}

// Character classification

func isQuote(r rune) bool {
	return r == '"' || r == '\''
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isIdentifierStart(r rune) bool {
	return unicode.In(r,
		unicode.L,  // Letter
		unicode.Nl, // Letter, Number
		unicode.Other_ID_Start,
	) || r == '_'
}

func isIdentifierContinue(r rune) bool {
	return unicode.In(r,
		unicode.L,  // Letter
		unicode.Nl, // Letter, Number
		unicode.Other_ID_Start,
		unicode.Mn, // Mark, Nonspacing
		unicode.Mc, // Mark, Spacing Combining
		unicode.Nd, // Number, Decimal Digit
		unicode.Pc, // Punctuation, Connector
		unicode.Other_ID_Continue,
	)
}

// isKeySeparator reports whether r may join two identifier segments of a key,
// as in "log-level" or "server.port".
func isKeySeparator(r rune) bool {
	return r == '-' || r == '.' || r == '@' || r == '/'
}

// IsIdentifier reports whether s may appear as a bare identifier in a value
// expression, and so be bound by [Substitutions].
func IsIdentifier(s string) bool {
	for i, r := range s {
		if i == 0 && !isIdentifierStart(r) || i > 0 && !isIdentifierContinue(r) {
			return false
		}
	}

	return s != ""
}

// IsKey reports whether s is a valid key: an identifier whose segments may
// be joined by single separators '-', '.', '@', or '/'.
func IsKey(s string) bool {
	if s == "" {
		return false
	}

	prev := rune(0)

	for i, r := range s {
		switch {
		case i == 0:
			if !isIdentifierStart(r) {
				return false
			}

		case isKeySeparator(r):
			if isKeySeparator(prev) {
				return false
			}

		case !isIdentifierContinue(r):
			return false
		}

		prev = r
	}

	return !isKeySeparator(prev)
}
