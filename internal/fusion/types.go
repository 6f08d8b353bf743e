// Package fusion combines lexical (BM25) and semantic (vector) result
// lists into a single ranked list (spec.md §4.6).
package fusion

import "github.com/doylet/docsearch/internal/model"

// Weights controls each engine's contribution to the fused score.
type Weights struct {
	BM25   float64
	Vector float64
}

// DefaultWeights gives both engines equal say, per spec.md §4.6.
func DefaultWeights() Weights {
	return Weights{BM25: 0.5, Vector: 0.5}
}

// Validate rejects negative or all-zero weights.
func (w Weights) Validate() error {
	if w.BM25 < 0 || w.Vector < 0 {
		return errNegativeWeight
	}
	if w.BM25 == 0 && w.Vector == 0 {
		return errZeroWeights
	}
	return nil
}

// LexicalHit is one BM25 match, engine-agnostic (see internal/bm25.Result).
type LexicalHit struct {
	DocID        string
	Score        float64
	MatchedTerms []string
}

// SemanticHit is one vector match (see model.SimilarityResult).
type SemanticHit struct {
	DocID      string
	Similarity float32
}

// FusedEntry is one document's combined score, ready to become a
// model.SearchResult.
type FusedEntry struct {
	DocID        string
	Breakdown    model.ScoreBreakdown
	Signals      model.FromSignals
	MatchedTerms []string
}
