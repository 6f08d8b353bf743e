package bm25

import (
	"regexp"
	"strings"

	"github.com/blevesearch/bleve/v2/analysis"

	"github.com/doylet/docsearch/internal/lexical"
)

// codeTokenRegex matches alphanumeric/underscore runs, mirroring the
// teacher's code-aware tokenizer.
var codeTokenRegex = regexp.MustCompile(`[a-zA-Z0-9_]+`)

// Tokenizer implements analysis.Tokenizer directly (rather than going
// through bleve's registry/index machinery) so BM25 scoring can consume
// its raw analysis.TokenStream without paying for a full bleve index.
type Tokenizer struct{}

// Tokenize splits input into camelCase/snake_case-aware terms.
func (Tokenizer) Tokenize(input []byte) analysis.TokenStream {
	text := string(input)
	words := codeTokenRegex.FindAllString(text, -1)

	stream := make(analysis.TokenStream, 0, len(words))
	pos := 1
	offset := 0
	for _, word := range words {
		for _, sub := range lexical.SplitIdentifier(word) {
			lower := strings.ToLower(sub)
			if len(lower) < 2 {
				continue
			}
			start := strings.Index(strings.ToLower(text[offset:]), lower)
			if start == -1 {
				start = offset
			} else {
				start += offset
			}
			end := start + len(lower)
			stream = append(stream, &analysis.Token{
				Term:     []byte(lower),
				Start:    start,
				End:      end,
				Position: pos,
				Type:     analysis.AlphaNumeric,
			})
			pos++
			if end <= len(text) {
				offset = end
			}
		}
	}
	return stream
}

var _ analysis.Tokenizer = Tokenizer{}

// stopFilter implements analysis.TokenFilter, dropping stop-listed terms.
type stopFilter struct {
	stopWords map[string]struct{}
}

func (f stopFilter) Filter(input analysis.TokenStream) analysis.TokenStream {
	out := make(analysis.TokenStream, 0, len(input))
	for _, tok := range input {
		if _, stop := f.stopWords[string(tok.Term)]; !stop {
			out = append(out, tok)
		}
	}
	return out
}

var _ analysis.TokenFilter = stopFilter{}

// DefaultStopWords are filtered during tokenization (spec.md §4.5).
var DefaultStopWords = lexical.DefaultStopWords

// Terms runs the tokenizer and stop-filter chain, returning plain strings.
func Terms(text string) []string {
	stream := stopFilter{stopWords: DefaultStopWords}.Filter(Tokenizer{}.Tokenize([]byte(text)))
	out := make([]string, len(stream))
	for i, tok := range stream {
		out[i] = string(tok.Term)
	}
	return out
}
