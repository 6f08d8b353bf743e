package search

import (
	"strings"
	"unicode"
)

// SnippetWindow is the number of characters kept on each side of the
// first matched term, per DESIGN.md's Open Question #3 decision.
const SnippetWindow = 120

// ExtractSnippet returns a character-window around the first occurrence
// (case-insensitive) of any term in terms within content, trimmed to
// whitespace boundaries and ellipsized when truncated. If no term
// matches, it falls back to the first 2*SnippetWindow characters of
// content.
func ExtractSnippet(content string, terms []string) string {
	lower := strings.ToLower(content)

	matchAt := -1
	for _, term := range terms {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" {
			continue
		}
		if idx := strings.Index(lower, term); idx >= 0 && (matchAt == -1 || idx < matchAt) {
			matchAt = idx
		}
	}

	if matchAt == -1 {
		return truncateToWindow(content, 0, 2*SnippetWindow)
	}
	return truncateToWindow(content, matchAt, SnippetWindow)
}

func truncateToWindow(content string, center, halfWindow int) string {
	runes := []rune(content)
	if len(runes) == 0 {
		return ""
	}

	start := center - halfWindow
	if start < 0 {
		start = 0
	}
	end := center + halfWindow
	if end > len(runes) {
		end = len(runes)
	}

	start = extendToWhitespace(runes, start, -1)
	end = extendToWhitespace(runes, end, 1)

	snippet := strings.TrimSpace(string(runes[start:end]))
	if start > 0 {
		snippet = "…" + snippet
	}
	if end < len(runes) {
		snippet = snippet + "…"
	}
	return snippet
}

// extendToWhitespace walks pos in dir (-1 or 1) until it lands on a
// whitespace boundary or a slice edge, so a snippet never starts or ends
// mid-word.
func extendToWhitespace(runes []rune, pos, dir int) int {
	for pos > 0 && pos < len(runes) && !unicode.IsSpace(runes[pos]) {
		pos += dir
	}
	if pos < 0 {
		pos = 0
	}
	if pos > len(runes) {
		pos = len(runes)
	}
	return pos
}
