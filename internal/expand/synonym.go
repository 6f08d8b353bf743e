package expand

import (
	"context"
	"regexp"
	"strings"
)

// SynonymWeight is applied to every variant a SynonymExpander produces.
const SynonymWeight = 0.85

// DefaultSynonyms is a small built-in thesaurus covering common
// documentation/search vocabulary. Callers may supply their own table via
// NewSynonymExpanderWithTable for domain-specific collections.
var DefaultSynonyms = map[string][]string{
	"error":        {"exception", "failure"},
	"fix":          {"repair", "resolve", "patch"},
	"delete":       {"remove", "erase"},
	"config":       {"configuration", "settings"},
	"doc":          {"document", "documentation"},
	"function":     {"method", "routine"},
	"start":        {"begin", "launch"},
	"stop":         {"halt", "terminate"},
	"create":       {"make", "build", "generate"},
	"update":       {"modify", "change"},
	"search":       {"query", "lookup", "find"},
	"fast":         {"quick", "rapid"},
	"slow":         {"sluggish"},
	"large":        {"big", "huge"},
	"small":        {"tiny", "little"},
	"authenticate": {"login", "signin"},
}

// SynonymExpander produces one variant per matched dictionary word by
// substituting it with each of its known synonyms, leaving the rest of the
// query untouched. It is deterministic and has no external dependencies,
// the same design point as the teacher's PatternDecomposer: a regex-driven
// transform over the query text rather than a learned model.
type SynonymExpander struct {
	table  map[string][]string
	wordRe *regexp.Regexp
}

// NewSynonymExpander builds a SynonymExpander using DefaultSynonyms.
func NewSynonymExpander() *SynonymExpander {
	return NewSynonymExpanderWithTable(DefaultSynonyms)
}

// NewSynonymExpanderWithTable builds a SynonymExpander over a caller-supplied
// synonym table (keys and values should be lowercase single words).
func NewSynonymExpanderWithTable(table map[string][]string) *SynonymExpander {
	return &SynonymExpander{
		table:  table,
		wordRe: regexp.MustCompile(`[a-zA-Z0-9_]+`),
	}
}

// Expand returns one variant per (word, synonym) pair found in query, with
// the matched word replaced by the synonym in its original position.
func (e *SynonymExpander) Expand(_ context.Context, query string) ([]Variant, error) {
	words := e.wordRe.FindAllStringIndex(query, -1)
	if len(words) == 0 {
		return nil, nil
	}

	var variants []Variant
	seen := make(map[string]struct{})
	for _, span := range words {
		word := query[span[0]:span[1]]
		synonyms, ok := e.table[strings.ToLower(word)]
		if !ok {
			continue
		}
		for _, syn := range synonyms {
			replaced := query[:span[0]] + syn + query[span[1]:]
			if _, dup := seen[replaced]; dup || replaced == query {
				continue
			}
			seen[replaced] = struct{}{}
			variants = append(variants, Variant{Text: replaced, Source: StrategySynonym, Weight: SynonymWeight})
		}
	}
	return variants, nil
}

var _ Expander = (*SynonymExpander)(nil)
