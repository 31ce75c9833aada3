package repl

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/dollar/tmpl"
)

// commandPrefix starts a REPL command; any other line is a template.
const commandPrefix = ":"

// commands are the available REPL commands, without the prefix.
var commands = []string{"help", "set", "unset", "ctx", "paths", "edit", "clear", "quit"}

// isWordBoundary reports whether r delimits a completion word. This includes
// the directive sigil, whitespace, the member-access dot, and the
// punctuation of block headers and --set bindings.
func isWordBoundary(r rune) bool {
	switch r {
	case '$', '.', ' ', '\t', ':', '!', '=':
		return true
	}

	return false
}

// wordBounds returns the current word at the cursor position and its byte
// boundaries within input.
// Returns an empty word when the cursor sits on a boundary (after a space,
// between dots, start of line, etc.).
func wordBounds(input string, cursor int) (word string, start, end int) {
	if cursor > len(input) {
		cursor = len(input)
	}

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

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

// parentPath returns the dotted path leading up to the word starting at
// wordStart. For input "$if server.http.ho" with the word "ho", the parent
// path is "server.http". Returns "" for top-level words.
func parentPath(input string, wordStart int) string {
	prefix := input[:wordStart]
	if !strings.HasSuffix(prefix, ".") {
		return ""
	}

	prefix = strings.TrimRight(prefix, ".")
	pos := len(prefix)

	for pos > 0 {
		r, size := utf8.DecodeLastRuneInString(prefix[:pos])
		if r != '.' && isWordBoundary(r) {
			break
		}

		pos -= size
	}

	return prefix[pos:]
}

// completable reports whether the word starting at wordStart names a context
// member: it directly follows '$', a dot, a block header keyword, or the
// name argument of :set and :unset.
func completable(input string, wordStart int) bool {
	prefix := input[:wordStart]

	switch {
	case strings.HasSuffix(prefix, "$"), strings.HasSuffix(prefix, "."):
		return true
	case strings.HasSuffix(prefix, "$if "), strings.HasSuffix(prefix, "$if !"):
		return true
	case strings.HasSuffix(prefix, " in "):
		return strings.Contains(prefix, "$for ")
	case prefix == commandPrefix+"set ", prefix == commandPrefix+"unset ":
		return true
	}

	return false
}

// childCandidates returns the member names of the object at parent in c, or
// the top-level names for an empty parent.
func childCandidates(c tmpl.Context, parent string) []string {
	if parent == "" {
		return c.Keys()
	}

	return c.Resolve(parent).Keys()
}

// computeMatches calculates the fuzzy match results for the word at the cursor.
// It returns the matches (ranked best-first) and the word boundaries. After a
// dot with nothing typed yet, every member of the parent matches.
func (m model) computeMatches() (matches fuzzy.Matches, wordStart, wordEnd int) {
	input := m.input.Value()
	cursor := m.input.Position()

	word, wordStart, wordEnd := wordBounds(input, cursor)

	var candidates []string

	switch {
	case strings.HasPrefix(input, commandPrefix) && wordStart == len(commandPrefix):
		if word == "" {
			return nil, wordStart, wordEnd
		}

		candidates = commands

	case completable(input, wordStart):
		parent := parentPath(input, wordStart)
		candidates = childCandidates(m.context, parent)

		if word == "" {
			if parent == "" {
				return nil, wordStart, wordEnd
			}

			matches = make(fuzzy.Matches, len(candidates))
			for i, c := range candidates {
				matches[i] = fuzzy.Match{Str: c, Index: i}
			}

			return matches, wordStart, wordEnd
		}

	default:
		return nil, wordStart, wordEnd
	}

	if len(candidates) == 0 {
		return nil, wordStart, wordEnd
	}

	return fuzzy.Find(word, candidates), wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within the given terminal width. The selected candidate (when tabbing) uses
// the selected style.
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

		if used+entryWidth+ellipsisWidth > width && i > 0 {
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
	highlightStyle := suggestionStyle.Bold(true)

	if selected {
		baseStyle = selectedStyle
		highlightStyle = selectedStyle.Bold(true)
	}

	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matched[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matched[i] {
			b.WriteString(highlightStyle.Render(string(r)))
		} else {
			b.WriteString(baseStyle.Render(string(r)))
		}
	}

	return b.String()
}
