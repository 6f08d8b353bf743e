// Package lexical holds low-level text-splitting utilities shared by the
// BM25 tokenizer and the static embedder, so both signals tokenize document
// content identically.
package lexical

import (
	"strings"
	"unicode"
)

// SplitIdentifier splits a single alphanumeric run into sub-words along
// snake_case and camelCase boundaries. Indexed documents mix prose with
// inline identifiers (config keys, function names, CLI flags), and BM25 and
// the static embedder both need "max_results" and "maxResults" to resolve to
// the same terms as "max" and "results" for lexical and vector search to
// agree on what a document is about.
func SplitIdentifier(token string) []string {
	if strings.Contains(token, "_") {
		var result []string
		for _, part := range strings.Split(token, "_") {
			if part != "" {
				result = append(result, splitCamelCase(part)...)
			}
		}
		return result
	}
	return splitCamelCase(token)
}

func splitCamelCase(s string) []string {
	if s == "" {
		return []string{}
	}
	var result []string
	var current strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prevLower := unicode.IsLower(runes[i-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if prevLower || nextLower {
				if current.Len() > 0 {
					result = append(result, current.String())
					current.Reset()
				}
			}
		}
		current.WriteRune(r)
	}
	if current.Len() > 0 {
		result = append(result, current.String())
	}
	return result
}

// DefaultStopWords is the shared natural-language stop list: common English
// function words that carry no discriminative weight in document search.
// Both the BM25 tokenizer and the static embedder filter against this list
// so a term that BM25 ignores doesn't still dominate the vector side.
var DefaultStopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "is": {}, "are": {}, "was": {}, "were": {},
	"be": {}, "been": {}, "being": {}, "to": {}, "of": {}, "and": {}, "or": {},
	"in": {}, "on": {}, "at": {}, "for": {}, "with": {}, "this": {}, "that": {},
	"it": {}, "as": {}, "by": {}, "from": {},
}
