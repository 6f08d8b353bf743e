package fusion

import (
	"sort"

	"github.com/doylet/docsearch/internal/model"
)

// WeightedFuser fuses lexical and semantic result lists by normalizing
// each list independently (min-max or z-score) and combining with
// configured weights, per spec.md §4.6. It is the primary fusion
// strategy; RRFFuser (rrf.go) is offered as an alternative grounded on
// the teacher's original rank-based approach.
type WeightedFuser struct {
	weights Weights
	method  model.NormalizationMethod
}

// NewWeightedFuser validates weights before returning a fuser.
func NewWeightedFuser(weights Weights, method model.NormalizationMethod) (*WeightedFuser, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	return &WeightedFuser{weights: weights, method: method}, nil
}

// Fuse combines BM25 and vector hits into ranked FusedEntries. A document
// present in only one list still receives a full ScoreBreakdown — the
// missing engine's normalized score is simply absent (nil), matching
// spec.md §3's ScoreBreakdown optional-field semantics.
func (f *WeightedFuser) Fuse(bm25 []LexicalHit, vec []SemanticHit) []FusedEntry {
	if len(bm25) == 0 && len(vec) == 0 {
		return []FusedEntry{}
	}

	bm25Raw := make(map[string]float64, len(bm25))
	for _, h := range bm25 {
		bm25Raw[h.DocID] = h.Score
	}
	vecRaw := make(map[string]float64, len(vec))
	for _, h := range vec {
		vecRaw[h.DocID] = float64(h.Similarity)
	}

	var bm25Norm, vecNorm map[string]float64
	switch f.method {
	case model.NormalizationZScore:
		bm25Norm = zScoreNormalize(bm25Raw)
		vecNorm = zScoreNormalize(vecRaw)
	default:
		bm25Norm = minMaxNormalize(bm25Raw)
		vecNorm = minMaxNormalize(vecRaw)
	}

	terms := make(map[string][]string, len(bm25))
	for _, h := range bm25 {
		terms[h.DocID] = h.MatchedTerms
	}

	ids := make(map[string]struct{}, len(bm25)+len(vec))
	for _, h := range bm25 {
		ids[h.DocID] = struct{}{}
	}
	for _, h := range vec {
		ids[h.DocID] = struct{}{}
	}

	entries := make([]FusedEntry, 0, len(ids))
	for id := range ids {
		_, hasBM25 := bm25Raw[id]
		_, hasVec := vecRaw[id]

		breakdown := model.ScoreBreakdown{NormalizationMethod: f.method}
		var fused float64

		if hasBM25 {
			raw := float32(bm25Raw[id])
			norm := float32(bm25Norm[id])
			breakdown.BM25Raw = &raw
			breakdown.BM25Normalized = &norm
			fused += f.weights.BM25 * bm25Norm[id]
		}
		if hasVec {
			raw := float32(vecRaw[id])
			norm := float32(vecNorm[id])
			breakdown.VectorRaw = &raw
			breakdown.VectorNormalized = &norm
			fused += f.weights.Vector * vecNorm[id]
		}
		breakdown.Fused = float32(fused)

		var signals model.FromSignals
		switch {
		case hasBM25 && hasVec:
			signals = model.Hybrid()
		case hasBM25:
			signals = model.BM25Only()
		default:
			signals = model.VectorOnly()
		}

		entries = append(entries, FusedEntry{
			DocID:        id,
			Breakdown:    breakdown,
			Signals:      signals,
			MatchedTerms: terms[id],
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Breakdown.Fused != entries[j].Breakdown.Fused {
			return entries[i].Breakdown.Fused > entries[j].Breakdown.Fused
		}
		return entries[i].DocID < entries[j].DocID
	})

	return entries
}
