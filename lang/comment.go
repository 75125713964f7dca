package lang

import "strings"

// RemoveComment returns line without its comment, if any. A comment starts
// at a '#' or "//" that is not inside a string literal and runs to the end of
// the line. The line terminator, if present, is kept.
func RemoveComment(line string) string {
	s := newScanner(line)

	for !s.eof() {
		ch := s.peek()

		switch {
		case isQuote(ch):
			if !s.skipString() {
				return line
			}

			continue

		case ch == '#', ch == '/' && s.peekN(2) == "//":
			end := strings.IndexByte(line[s.pos:], '\n')
			if end < 0 {
				return line[:s.pos]
			}

			return line[:s.pos] + line[s.pos+end:]
		}

		s.advance()
	}

	return line
}

// removeComments applies [RemoveComment] to every line of doc, preserving
// line structure.
func removeComments(doc string) string {
	lines := strings.SplitAfter(doc, "\n")

	var sb strings.Builder

	sb.Grow(len(doc))

	for _, line := range lines {
		sb.WriteString(RemoveComment(line))
	}

	return sb.String()
}
