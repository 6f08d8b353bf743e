package fusion

import (
	"sort"

	"github.com/doylet/docsearch/internal/model"
)

// DefaultRRFConstant is the standard RRF smoothing parameter (k=60,
// empirically validated across domains by Azure AI Search, OpenSearch,
// etc.) — ported from the teacher's internal/search/fusion.go.
const DefaultRRFConstant = 60

// rrfEntry accumulates a single document's reciprocal-rank contribution.
type rrfEntry struct {
	docID        string
	score        float64
	bm25Score    float64
	bm25Rank     int
	vecScore     float64
	vecRank      int
	inBothLists  bool
	matchedTerms []string
}

// RRFFuser combines lexical and semantic result lists by rank position
// rather than normalized score, as an alternative to WeightedFuser for
// deployments where raw score scales are unstable across engines.
type RRFFuser struct {
	K int
}

// NewRRFFuser builds an RRFFuser, defaulting K to DefaultRRFConstant.
func NewRRFFuser(k int) *RRFFuser {
	if k <= 0 {
		k = DefaultRRFConstant
	}
	return &RRFFuser{K: k}
}

// Fuse combines bm25 and vec using RRF_score(d) = Σ weight_i / (k + rank_i),
// with documents missing from one list scored at missing_rank =
// max(len(bm25), len(vec)) + 1 for that list's contribution.
func (f *RRFFuser) Fuse(bm25 []LexicalHit, vec []SemanticHit, weights Weights) []FusedEntry {
	if len(bm25) == 0 && len(vec) == 0 {
		return []FusedEntry{}
	}

	entries := make(map[string]*rrfEntry, len(bm25)+len(vec))
	getOrCreate := func(id string) *rrfEntry {
		if e, ok := entries[id]; ok {
			return e
		}
		e := &rrfEntry{docID: id}
		entries[id] = e
		return e
	}

	for rank, h := range bm25 {
		e := getOrCreate(h.DocID)
		e.bm25Score = h.Score
		e.bm25Rank = rank + 1
		e.matchedTerms = h.MatchedTerms
		e.score += weights.BM25 / float64(f.K+rank+1)
	}
	for rank, h := range vec {
		e := getOrCreate(h.DocID)
		e.vecScore = float64(h.Similarity)
		e.vecRank = rank + 1
		e.score += weights.Vector / float64(f.K+rank+1)
		if e.bm25Rank > 0 {
			e.inBothLists = true
		}
	}

	missingRank := len(bm25)
	if len(vec) > missingRank {
		missingRank = len(vec)
	}
	missingRank++
	for _, e := range entries {
		if e.bm25Rank == 0 && e.vecRank > 0 {
			e.score += weights.BM25 / float64(f.K+missingRank)
		}
		if e.vecRank == 0 && e.bm25Rank > 0 {
			e.score += weights.Vector / float64(f.K+missingRank)
		}
	}

	sorted := make([]*rrfEntry, 0, len(entries))
	for _, e := range entries {
		sorted = append(sorted, e)
	}
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if a.inBothLists != b.inBothLists {
			return a.inBothLists
		}
		if a.bm25Score != b.bm25Score {
			return a.bm25Score > b.bm25Score
		}
		return a.docID < b.docID
	})

	maxScore := 0.0
	if len(sorted) > 0 {
		maxScore = sorted[0].score
	}

	out := make([]FusedEntry, 0, len(sorted))
	for _, e := range sorted {
		fused := e.score
		if maxScore > 0 {
			fused = e.score / maxScore
		}

		out = append(out, FusedEntry{
			DocID:        e.docID,
			Breakdown:    rrfBreakdown(e, float32(fused)),
			Signals:      rrfSignals(e),
			MatchedTerms: e.matchedTerms,
		})
	}
	return out
}

func rrfBreakdown(e *rrfEntry, fused float32) model.ScoreBreakdown {
	b := model.ScoreBreakdown{Fused: fused, NormalizationMethod: model.NormalizationMinMax}
	if e.bm25Rank > 0 {
		v := float32(e.bm25Score)
		b.BM25Raw = &v
	}
	if e.vecRank > 0 {
		v := float32(e.vecScore)
		b.VectorRaw = &v
	}
	return b
}

func rrfSignals(e *rrfEntry) model.FromSignals {
	switch {
	case e.bm25Rank > 0 && e.vecRank > 0:
		return model.Hybrid()
	case e.bm25Rank > 0:
		return model.BM25Only()
	default:
		return model.VectorOnly()
	}
}
