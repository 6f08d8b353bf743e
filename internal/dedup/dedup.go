// Package dedup removes duplicate documents from a fused result list
// (spec.md §4.7), including cross-version duplicates sharing a DocId
// base identity, and produces a stably ranked final list.
package dedup

import (
	"sort"

	"github.com/doylet/docsearch/internal/model"
)

// Strategy selects how duplicate DocIds are resolved.
type Strategy int

const (
	// MergeWithProvenance does everything MergeScores does and also
	// lattice-merges FromSignals across duplicates. It is the zero value
	// and spec.md §4.7's default strategy.
	MergeWithProvenance Strategy = iota
	// MergeScores keeps one entry per DocId, taking the max of each
	// score component across duplicates.
	MergeScores
	// RemoveKeepBest keeps the highest-fused-score duplicate, discarding
	// the rest.
	RemoveKeepBest
	// RemoveKeepFirst keeps whichever duplicate appeared first in the
	// input order, discarding the rest.
	RemoveKeepFirst
)

// Stats reports how many duplicates were collapsed, for health/metrics.
type Stats struct {
	InputCount   int
	OutputCount  int
	DuplicatesRemoved int
}

// Deduplicate collapses results sharing a DocId base identity
// (collection+external_id, ignoring version) per strategy, then returns a
// stably ranked list ordered by (-Fused, DocId) — spec.md §4.7's
// determinism invariant.
func Deduplicate(results []model.SearchResult, strategy Strategy) ([]model.SearchResult, Stats) {
	stats := Stats{InputCount: len(results)}
	if len(results) == 0 {
		stats.OutputCount = 0
		return []model.SearchResult{}, stats
	}

	groups := make(map[string][]model.SearchResult)
	var order []string
	for _, r := range results {
		key := r.DocID.BaseID()
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], r)
	}

	out := make([]model.SearchResult, 0, len(order))
	for _, key := range order {
		group := groups[key]
		if len(group) == 1 {
			out = append(out, group[0])
			continue
		}
		out = append(out, resolve(group, strategy))
	}
	stats.OutputCount = len(out)
	stats.DuplicatesRemoved = stats.InputCount - stats.OutputCount

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Scores.Fused != out[j].Scores.Fused {
			return out[i].Scores.Fused > out[j].Scores.Fused
		}
		return out[i].DocID.Less(out[j].DocID)
	})

	return out, stats
}

func resolve(group []model.SearchResult, strategy Strategy) model.SearchResult {
	switch strategy {
	case RemoveKeepFirst:
		return group[0]
	case MergeScores, MergeWithProvenance:
		best := group[0]
		for _, r := range group[1:] {
			best.Scores = mergeBreakdown(best.Scores, r.Scores)
			if strategy == MergeWithProvenance {
				best.FromSignals.Merge(r.FromSignals)
			}
		}
		return best
	default: // RemoveKeepBest
		best := group[0]
		for _, r := range group[1:] {
			if r.Scores.Fused > best.Scores.Fused {
				best = r
			}
		}
		return best
	}
}

// MergeBreakdown is the exported form of mergeBreakdown, reused by
// internal/search to merge a document's score contributions across query
// variants before cross-version deduplication runs.
func MergeBreakdown(a, b model.ScoreBreakdown) model.ScoreBreakdown {
	return mergeBreakdown(a, b)
}

// mergeBreakdown takes the max of each present component across a and b,
// keeping whichever has the higher final fused score as the base.
func mergeBreakdown(a, b model.ScoreBreakdown) model.ScoreBreakdown {
	out := a
	if b.Fused > a.Fused {
		out = b
	}
	out.BM25Raw = maxPtr(a.BM25Raw, b.BM25Raw)
	out.VectorRaw = maxPtr(a.VectorRaw, b.VectorRaw)
	out.BM25Normalized = maxPtr(a.BM25Normalized, b.BM25Normalized)
	out.VectorNormalized = maxPtr(a.VectorNormalized, b.VectorNormalized)
	return out
}

func maxPtr(a, b *float32) *float32 {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case *a >= *b:
		return a
	default:
		return b
	}
}
