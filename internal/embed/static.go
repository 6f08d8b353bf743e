package embed

import (
	"context"
	"hash/fnv"
	"regexp"
	"strings"
	"unicode"

	"github.com/doylet/docsearch/internal/lexical"
)

// StaticEmbedder produces deterministic, hash-based embeddings without any
// network access or model download. Used for tests and offline indexing.
type StaticEmbedder struct {
	dims int
}

// StaticDimensions is the default vector width for StaticEmbedder.
const StaticDimensions = 256

// Weights split a document's vector mass between its significant words and
// its character trigrams. Word hashing carries most of the signal; trigrams
// add resilience to near-matches (typos, stemming variants) that whole-word
// hashing alone would miss.
const (
	tokenWeight = 0.7
	ngramWeight = 0.3
	ngramSize   = 3
)

var tokenRegex = regexp.MustCompile(`[a-zA-Z0-9]+`)

// NewStaticEmbedder builds a StaticEmbedder with the default dimensions.
func NewStaticEmbedder() *StaticEmbedder {
	return &StaticEmbedder{dims: StaticDimensions}
}

func (e *StaticEmbedder) Dimensions() int { return e.dims }

func (e *StaticEmbedder) Generate(ctx context.Context, text string) ([]float32, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return make([]float32, e.dims), nil
	}
	return normalizeVector(e.vectorFor(trimmed)), nil
}

func (e *StaticEmbedder) GenerateBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := e.Generate(ctx, t)
		if err != nil {
			return nil, Fatal("static embedder failed", err)
		}
		out[i] = v
	}
	return out, nil
}

func (e *StaticEmbedder) vectorFor(text string) []float32 {
	vector := make([]float32, e.dims)

	for _, tok := range filterStopWords(tokenize(text)) {
		vector[hashToIndex(tok, e.dims)] += tokenWeight
	}

	normalized := normalizeForNgrams(text)
	for _, ng := range extractNgrams(normalized, ngramSize) {
		vector[hashToIndex(ng, e.dims)] += ngramWeight
	}

	return vector
}

// tokenize splits document text into lowercase words, further splitting any
// inline identifiers (config keys, CLI flags, function names) the same way
// the BM25 tokenizer does so both signals agree on vocabulary for the same
// document.
func tokenize(text string) []string {
	var tokens []string
	for _, word := range tokenRegex.FindAllString(text, -1) {
		for _, t := range lexical.SplitIdentifier(word) {
			if lower := strings.ToLower(t); lower != "" {
				tokens = append(tokens, lower)
			}
		}
	}
	return tokens
}

// filterStopWords drops the shared natural-language stop list (see
// internal/lexical): indexed content here is prose documents, not source
// code, so a programming-keyword list would leave ordinary content words
// like "class" or "return" untouched while stripping nothing relevant.
func filterStopWords(tokens []string) []string {
	var filtered []string
	for _, t := range tokens {
		if _, stop := lexical.DefaultStopWords[t]; !stop {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

func normalizeForNgrams(text string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func extractNgrams(text string, n int) []string {
	if len(text) < n {
		return []string{}
	}
	ngrams := make([]string, 0, len(text)-n+1)
	for i := 0; i <= len(text)-n; i++ {
		ngrams = append(ngrams, text[i:i+n])
	}
	return ngrams
}

func hashToIndex(s string, size int) int {
	h := fnv.New64()
	_, _ = h.Write([]byte(s))
	return int(h.Sum64() % uint64(size))
}
