package repl

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/mimolu/lang"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "list", "keys", "edit", "reset", "clear", "quit"}

// isWordBoundary returns true if the rune is a word delimiter for completion
// purposes: whitespace and the punctuation of a statement. Hyphens are not
// delimiters because keys may contain them (e.g., log-level), so the arrow
// is delimited by its '>'.
func isWordBoundary(r rune) bool {
	switch r {
	case ' ', '\t', ',', ';', '[', ']', '>', '"', '\'':
		return true
	}

	return false
}

// wordBounds returns the current word at the cursor position and its byte
// boundaries within input. Returns an empty word when the cursor sits on a
// boundary (after a space, start of line, etc.).
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(cursor, len(input))

	// Walk backward from cursor to find word start.
	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	// Walk forward from cursor to find word end.
	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// completionSide classifies the position of a word within a statement.
type completionSide int

const (
	sideKey    completionSide = iota // left of the arrow
	sideValue                        // right of the arrow
	sideString                       // inside a string literal
)

// sideOf returns which side of the arrow the text before a word ends on.
func sideOf(prefix string) completionSide {
	var (
		quote  rune
		escape bool
		side   = sideKey
	)

	for i, r := range prefix {
		switch {
		case quote != 0:
			switch {
			case escape:
				escape = false
			case r == '\\':
				escape = true
			case r == quote:
				quote = 0
			}

		case r == '"' || r == '\'':
			quote = r

		case r == ';':
			side = sideKey

		case strings.HasPrefix(prefix[i:], lang.Arrow):
			side = sideValue
		}
	}

	if quote != 0 {
		return sideString
	}

	return side
}

// candidatesFor returns the completion candidates for a word starting at
// wordStart: commands in control mode, keys left of the arrow, and
// substitution names right of it.
func candidatesFor(s *Session, mode inputMode, input string, wordStart int) []string {
	if mode == modeCtrl {
		return ctrlCommands
	}

	switch sideOf(input[:wordStart]) {
	case sideKey:
		return s.Keys()

	case sideValue:
		return s.Names()

	default:
		return nil
	}
}

// computeMatches calculates the fuzzy match results for the word at the cursor.
// It returns the matches (ranked best-first), the candidate list, and the word
// boundaries. An empty word has no matches, leaving the hint line visible.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	candidates []string,
	wordStart, wordEnd int,
) {
	input := m.input.Value()

	word, wordStart, wordEnd := wordBounds(input, m.input.Position())
	if word == "" {
		return nil, nil, wordStart, wordEnd
	}

	candidates = candidatesFor(m.session, m.mode, input, wordStart)
	if len(candidates) == 0 {
		return nil, nil, wordStart, wordEnd
	}

	return fuzzy.Find(word, candidates), candidates, wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within the given terminal width. Each candidate is rendered with its matched
// characters highlighted. The selected candidate (when tabbing) uses the
// selected style.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		// Stop if this candidate leaves no room for the ellipsis, unless it
		// is the last one.
		last := i == len(matches)-1
		if i > 0 && used+entryWidth+ellipsisWidth > width && !last {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a single candidate with matched characters
// highlighted.
func renderCandidate(match fuzzy.Match, selected bool) string {
	baseStyle := suggestionStyle
	highlightStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("4")).
		Bold(true)

	if selected {
		baseStyle = selectedStyle
		highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4")).
			Bold(true)
	}

	matchSet := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matchSet[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matchSet[i] {
			b.WriteString(highlightStyle.Render(string(r)))
		} else {
			b.WriteString(baseStyle.Render(string(r)))
		}
	}

	return b.String()
}

// maxPreview is the number of runes of a value shown by formatPreview.
const maxPreview = 40

// formatPreview generates a short preview of a value in literal syntax.
func formatPreview(v lang.Value) string {
	s := v.String()
	if utf8.RuneCountInString(s) <= maxPreview {
		return s
	}

	return string([]rune(s)[:maxPreview-3]) + "..."
}
