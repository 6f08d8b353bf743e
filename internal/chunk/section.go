package chunk

import (
	"regexp"
	"strings"
)

var headingRe = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)

// section is a contiguous span of text under one heading path.
type section struct {
	headingPath []string
	text        string // includes a leading heading line iff one existed
	startOffset int    // rune offset into the original document
}

// atomicSpan marks a region of text (code fence or table) that must not be
// split internally when Preserve* is set.
type atomicSpan struct {
	start, end int // rune offsets into the section's text
}

// parseSections splits text into a flat list of sections by markdown-style
// heading lines, truncated to maxDepth. Text before the first heading (if
// any) becomes a section with an empty heading path.
func parseSections(text string, maxDepth int) []section {
	lines := strings.Split(text, "\n")

	var sections []section
	var stack []string
	var current strings.Builder
	currentStart := 0
	offset := 0
	haveSection := false

	flush := func(startOffset int) {
		if haveSection || current.Len() > 0 {
			sections = append(sections, section{
				headingPath: append([]string(nil), stack...),
				text:        current.String(),
				startOffset: startOffset,
			})
		}
		current.Reset()
	}

	for i, line := range lines {
		if m := headingRe.FindStringSubmatch(line); m != nil && len(m[1]) <= maxDepth {
			flush(currentStart)
			haveSection = true
			depth := len(m[1])
			title := strings.TrimSpace(m[2])
			if depth-1 < len(stack) {
				stack = stack[:depth-1]
			} else {
				for len(stack) < depth-1 {
					stack = append(stack, "")
				}
			}
			stack = append(stack, title)
			currentStart = offset
			current.WriteString(line)
		} else {
			if current.Len() > 0 {
				current.WriteString("\n")
			}
			current.WriteString(line)
		}
		offset += len([]rune(line))
		if i != len(lines)-1 {
			offset++ // account for the newline removed by Split
		}
	}
	flush(currentStart)

	if len(sections) == 0 {
		sections = append(sections, section{text: text})
	}
	return sections
}

var (
	fenceRe = regexp.MustCompile("(?s)```.*?```")
	tableRowRe = regexp.MustCompile(`(?m)^\s*\|.*\|\s*$`)
)

// findAtomicSpans locates code fences and contiguous table-row blocks
// within text, in rune offsets.
func findAtomicSpans(text string) []atomicSpan {
	var spans []atomicSpan
	runes := []rune(text)

	for _, loc := range fenceRe.FindAllStringIndex(text, -1) {
		spans = append(spans, byteToRuneSpan(text, loc[0], loc[1]))
	}

	// Table blocks: merge consecutive matching lines into one span.
	matches := tableRowRe.FindAllStringIndex(text, -1)
	var tableStart, tableEnd int = -1, -1
	flushTable := func() {
		if tableStart >= 0 {
			spans = append(spans, byteToRuneSpan(text, tableStart, tableEnd))
			tableStart, tableEnd = -1, -1
		}
	}
	prevLineEnd := -1
	for _, loc := range matches {
		if tableStart >= 0 && loc[0] == prevLineEnd+1 {
			tableEnd = loc[1]
		} else {
			flushTable()
			tableStart, tableEnd = loc[0], loc[1]
		}
		prevLineEnd = loc[1]
	}
	flushTable()

	_ = runes
	return spans
}

func byteToRuneSpan(s string, byteStart, byteEnd int) atomicSpan {
	runeStart := len([]rune(s[:byteStart]))
	runeEnd := runeStart + len([]rune(s[byteStart:byteEnd]))
	return atomicSpan{start: runeStart, end: runeEnd}
}

// insideAtomicSpan returns the atomic span containing pos, or nil if pos
// lies outside every span.
func insideAtomicSpan(spans []atomicSpan, pos int) *atomicSpan {
	for i := range spans {
		if pos >= spans[i].start && pos < spans[i].end {
			return &spans[i]
		}
	}
	return nil
}
