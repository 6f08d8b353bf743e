package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doylet/docsearch/internal/model"
)

func result(t *testing.T, collection, externalID string, version uint64, fused float32) model.SearchResult {
	t.Helper()
	id := model.NewDocId(collection, externalID, version)
	return model.SearchResult{DocID: id, Scores: model.ScoreBreakdown{Fused: fused}}
}

func TestDeduplicate_NoDuplicatesPassesThrough(t *testing.T) {
	in := []model.SearchResult{
		result(t, "docs", "a", 1, 0.9),
		result(t, "docs", "b", 1, 0.5),
	}
	out, stats := Deduplicate(in, RemoveKeepBest)
	require.Len(t, out, 2)
	assert.Equal(t, 0, stats.DuplicatesRemoved)
}

func TestDeduplicate_RemoveKeepBest_KeepsHighestFusedScore(t *testing.T) {
	in := []model.SearchResult{
		result(t, "docs", "a", 1, 0.4),
		result(t, "docs", "a", 2, 0.9),
	}
	out, stats := Deduplicate(in, RemoveKeepBest)
	require.Len(t, out, 1)
	assert.Equal(t, uint64(2), out[0].DocID.Version)
	assert.Equal(t, 1, stats.DuplicatesRemoved)
}

func TestDeduplicate_RemoveKeepFirst_KeepsInputOrder(t *testing.T) {
	in := []model.SearchResult{
		result(t, "docs", "a", 3, 0.1),
		result(t, "docs", "a", 1, 0.9),
	}
	out, _ := Deduplicate(in, RemoveKeepFirst)
	require.Len(t, out, 1)
	assert.Equal(t, uint64(3), out[0].DocID.Version)
}

func TestDeduplicate_MergeScores_TakesMaxPerComponent(t *testing.T) {
	bm25a := float32(0.2)
	vecB := float32(0.8)
	a := result(t, "docs", "a", 1, 0.5)
	a.Scores.BM25Raw = &bm25a
	b := result(t, "docs", "a", 2, 0.6)
	b.Scores.VectorRaw = &vecB

	out, _ := Deduplicate([]model.SearchResult{a, b}, MergeScores)
	require.Len(t, out, 1)
	require.NotNil(t, out[0].Scores.BM25Raw)
	require.NotNil(t, out[0].Scores.VectorRaw)
	assert.Equal(t, float32(0.2), *out[0].Scores.BM25Raw)
	assert.Equal(t, float32(0.8), *out[0].Scores.VectorRaw)
}

func TestDeduplicate_MergeWithProvenance_UnionsFromSignals(t *testing.T) {
	a := result(t, "docs", "a", 1, 0.5)
	a.FromSignals = model.BM25Only()
	b := result(t, "docs", "a", 2, 0.6)
	b.FromSignals = model.VectorOnly()

	out, _ := Deduplicate([]model.SearchResult{a, b}, MergeWithProvenance)
	require.Len(t, out, 1)
	assert.True(t, out[0].FromSignals.BM25)
	assert.True(t, out[0].FromSignals.Vector)
}

func TestDeduplicate_OutputIsStablySortedByFusedThenDocID(t *testing.T) {
	in := []model.SearchResult{
		result(t, "docs", "b", 1, 0.5),
		result(t, "docs", "a", 1, 0.5),
		result(t, "docs", "c", 1, 0.9),
	}
	out, _ := Deduplicate(in, RemoveKeepBest)
	require.Len(t, out, 3)
	assert.Equal(t, "c", out[0].DocID.ExternalID)
	assert.Equal(t, "a", out[1].DocID.ExternalID)
	assert.Equal(t, "b", out[2].DocID.ExternalID)
}

func TestDeduplicate_EmptyInput(t *testing.T) {
	out, stats := Deduplicate(nil, RemoveKeepBest)
	assert.Empty(t, out)
	assert.Equal(t, 0, stats.InputCount)
}
