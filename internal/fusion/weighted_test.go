package fusion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doylet/docsearch/internal/model"
)

func TestWeightedFuser_EmptyInputsReturnEmptySlice(t *testing.T) {
	f, err := NewWeightedFuser(DefaultWeights(), model.NormalizationMinMax)
	require.NoError(t, err)

	entries := f.Fuse(nil, nil)
	assert.Empty(t, entries)
}

func TestWeightedFuser_SingleEngineOnly_LeavesMissingEngineScoresNil(t *testing.T) {
	f, err := NewWeightedFuser(DefaultWeights(), model.NormalizationMinMax)
	require.NoError(t, err)

	entries := f.Fuse([]LexicalHit{{DocID: "a", Score: 5.0}}, nil)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Signals.BM25)
	assert.False(t, entries[0].Signals.Vector)
	assert.Nil(t, entries[0].Breakdown.VectorRaw)
}

func TestWeightedFuser_DocumentInBothListsIsHybrid(t *testing.T) {
	f, err := NewWeightedFuser(DefaultWeights(), model.NormalizationMinMax)
	require.NoError(t, err)

	entries := f.Fuse(
		[]LexicalHit{{DocID: "a", Score: 5.0}, {DocID: "b", Score: 2.0}},
		[]SemanticHit{{DocID: "a", Similarity: 0.9}},
	)
	require.Len(t, entries, 2)

	var found bool
	for _, e := range entries {
		if e.DocID == "a" {
			found = true
			assert.Equal(t, model.EngineHybrid, e.Signals.PrimaryEngine())
		}
	}
	assert.True(t, found)
}

func TestWeightedFuser_EqualWeights_RanksByAverageNormalizedScore(t *testing.T) {
	f, err := NewWeightedFuser(Weights{BM25: 0.5, Vector: 0.5}, model.NormalizationMinMax)
	require.NoError(t, err)

	entries := f.Fuse(
		[]LexicalHit{{DocID: "a", Score: 10.0}, {DocID: "b", Score: 1.0}},
		[]SemanticHit{{DocID: "a", Similarity: 0.1}, {DocID: "b", Similarity: 0.9}},
	)
	require.Len(t, entries, 2)

	// a: bm25 norm=1.0, vec norm=0.0 -> fused 0.5
	// b: bm25 norm=0.0, vec norm=1.0 -> fused 0.5
	assert.InDelta(t, entries[0].Breakdown.Fused, entries[1].Breakdown.Fused, 0.0001)
}

func TestWeightedFuser_RejectsAllZeroWeights(t *testing.T) {
	_, err := NewWeightedFuser(Weights{BM25: 0, Vector: 0}, model.NormalizationMinMax)
	assert.Error(t, err)
}

func TestWeightedFuser_DeterministicTieBreakByDocID(t *testing.T) {
	f, err := NewWeightedFuser(DefaultWeights(), model.NormalizationMinMax)
	require.NoError(t, err)

	entries := f.Fuse([]LexicalHit{{DocID: "z", Score: 1.0}, {DocID: "a", Score: 1.0}}, nil)
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].DocID)
}

func TestMinMaxNormalize_SingleValueMapsToHalf(t *testing.T) {
	out := minMaxNormalize(map[string]float64{"a": 42})
	assert.Equal(t, 0.5, out["a"])
}

func TestZScoreNormalize_ZeroStddevMapsToHalf(t *testing.T) {
	out := zScoreNormalize(map[string]float64{"a": 5, "b": 5})
	assert.Equal(t, 0.5, out["a"])
	assert.Equal(t, 0.5, out["b"])
}

func TestRRFFuser_DocumentInBothListsRanksAboveSingleList(t *testing.T) {
	f := NewRRFFuser(DefaultRRFConstant)
	entries := f.Fuse(
		[]LexicalHit{{DocID: "both", Score: 1.0}, {DocID: "bm25-only", Score: 1.0}},
		[]SemanticHit{{DocID: "both", Similarity: 0.5}},
		DefaultWeights(),
	)
	require.True(t, len(entries) >= 2)
	assert.Equal(t, "both", entries[0].DocID)
}
