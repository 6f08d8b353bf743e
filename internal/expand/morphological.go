package expand

import (
	"context"
	"strings"

	"github.com/doylet/docsearch/internal/lexical"
)

// MorphologicalWeight is applied to every variant a MorphologicalExpander
// produces.
const MorphologicalWeight = 0.75

// MorphologicalExpander generates plural/singular and suffix-stripped forms
// of each significant word in the query (e.g. "indexes" <-> "index",
// "running" -> "run"), the way stemming-lite query expansion works in
// practice without pulling in a full stemmer. Word splitting and stop-word
// filtering follow the same Fields+isStopWord pattern the teacher uses in
// its query decomposer.
type MorphologicalExpander struct {
	stopWords map[string]struct{}
}

// NewMorphologicalExpander builds a MorphologicalExpander; a nil stopWords
// uses DefaultStopWords from the bm25 tokenizer's vocabulary.
func NewMorphologicalExpander(stopWords map[string]struct{}) *MorphologicalExpander {
	if stopWords == nil {
		stopWords = lexical.DefaultStopWords
	}
	return &MorphologicalExpander{stopWords: stopWords}
}

// Expand returns one variant per word that has a distinct morphological
// form, with that word replaced in place.
func (e *MorphologicalExpander) Expand(_ context.Context, query string) ([]Variant, error) {
	words := strings.Fields(query)
	if len(words) == 0 {
		return nil, nil
	}

	var variants []Variant
	seen := map[string]struct{}{}
	for i, word := range words {
		lower := strings.ToLower(word)
		if _, stop := e.stopWords[lower]; stop || len(lower) < 3 {
			continue
		}
		for _, form := range morphForms(lower) {
			if form == lower {
				continue
			}
			rebuilt := make([]string, len(words))
			copy(rebuilt, words)
			rebuilt[i] = form
			text := strings.Join(rebuilt, " ")
			if _, dup := seen[text]; dup {
				continue
			}
			seen[text] = struct{}{}
			variants = append(variants, Variant{Text: text, Source: StrategyMorphological, Weight: MorphologicalWeight})
		}
	}
	return variants, nil
}

// morphForms returns candidate alternate forms of a single lowercase word:
// plural<->singular and common suffix stripping. It is intentionally
// conservative — false positives just produce a slightly redundant search,
// not an incorrect one.
func morphForms(word string) []string {
	var forms []string

	switch {
	case strings.HasSuffix(word, "ies") && len(word) > 4:
		forms = append(forms, word[:len(word)-3]+"y")
	case strings.HasSuffix(word, "es") && len(word) > 4:
		forms = append(forms, word[:len(word)-2])
	case strings.HasSuffix(word, "s") && !strings.HasSuffix(word, "ss") && len(word) > 3:
		forms = append(forms, word[:len(word)-1])
	default:
		if len(word) > 1 {
			forms = append(forms, word+"s")
		}
	}

	if strings.HasSuffix(word, "ing") && len(word) > 5 {
		stem := word[:len(word)-3]
		forms = append(forms, stem, stem+"e")
		if n := len(stem); n >= 2 && stem[n-1] == stem[n-2] {
			forms = append(forms, stem[:n-1])
		}
	}
	if strings.HasSuffix(word, "ed") && len(word) > 4 {
		stem := word[:len(word)-2]
		forms = append(forms, stem, stem+"e")
	}

	return forms
}

var _ Expander = (*MorphologicalExpander)(nil)
