package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doylet/docsearch/internal/model"
)

func TestMergeAcrossVariants_CollapsesSameDocIDAcrossVariants(t *testing.T) {
	id := model.NewDocId("docs", "a", 1)
	bm25Score := float32(0.4)
	vecScore := float32(0.9)

	r1 := model.SearchResult{DocID: id, Scores: model.ScoreBreakdown{Fused: 0.4, BM25Raw: &bm25Score}, FromSignals: model.BM25Only()}
	r2 := model.SearchResult{DocID: id, Scores: model.ScoreBreakdown{Fused: 0.9, VectorRaw: &vecScore}, FromSignals: model.VectorOnly()}

	out := mergeAcrossVariants([]model.SearchResult{r1, r2})
	require.Len(t, out, 1)
	assert.True(t, out[0].FromSignals.BM25)
	assert.True(t, out[0].FromSignals.Vector)
	assert.NotNil(t, out[0].Scores.BM25Raw)
	assert.NotNil(t, out[0].Scores.VectorRaw)
}

func TestMergeAcrossVariants_DistinctDocIDsPassThrough(t *testing.T) {
	a := model.SearchResult{DocID: model.NewDocId("docs", "a", 1)}
	b := model.SearchResult{DocID: model.NewDocId("docs", "b", 1)}
	out := mergeAcrossVariants([]model.SearchResult{a, b})
	assert.Len(t, out, 2)
}

func TestMergeAcrossVariants_EmptyInput(t *testing.T) {
	assert.Empty(t, mergeAcrossVariants(nil))
}
