package vectorstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doylet/docsearch/internal/model"
)

func unit(i, dims int) []float32 {
	v := make([]float32, dims)
	v[i%dims] = 1.0
	return v
}

func TestHNSWStore_SearchReturnsNearestFirst(t *testing.T) {
	s := New(DefaultConfig(4))
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, []model.VectorDocument{
		{ID: "a", Embedding: unit(0, 4), Metadata: model.VectorMetadata{DocumentID: "a"}},
		{ID: "b", Embedding: unit(1, 4), Metadata: model.VectorMetadata{DocumentID: "b"}},
	}))

	results, err := s.Search(ctx, "", unit(0, 4), 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "a", results[0].DocumentID)
}

func TestHNSWStore_SearchFiltersByCollection(t *testing.T) {
	s := New(DefaultConfig(4))
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, []model.VectorDocument{
		{ID: "a", Embedding: unit(0, 4), Metadata: model.VectorMetadata{DocumentID: "a", Collection: "docs"}},
		{ID: "b", Embedding: unit(0, 4), Metadata: model.VectorMetadata{DocumentID: "b", Collection: "code"}},
	}))

	results, err := s.Search(ctx, "code", unit(0, 4), 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "b", results[0].DocumentID)
}

func TestHNSWStore_DimensionMismatchRejected(t *testing.T) {
	s := New(DefaultConfig(4))
	err := s.Upsert(context.Background(), []model.VectorDocument{
		{ID: "a", Embedding: []float32{1, 2, 3}},
	})
	assert.Error(t, err)
}

func TestHNSWStore_UpsertReplacesExisting(t *testing.T) {
	s := New(DefaultConfig(4))
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, []model.VectorDocument{
		{ID: "a", Embedding: unit(0, 4), Metadata: model.VectorMetadata{Collection: "docs"}},
	}))
	require.NoError(t, s.Upsert(ctx, []model.VectorDocument{
		{ID: "a", Embedding: unit(1, 4), Metadata: model.VectorMetadata{Collection: "code"}},
	}))

	assert.Equal(t, 1, s.Count(""))
	assert.Equal(t, 1, s.Count("code"))
	assert.Equal(t, 0, s.Count("docs"))
}

func TestHNSWStore_DeleteRemovesFromResults(t *testing.T) {
	s := New(DefaultConfig(4))
	ctx := context.Background()
	require.NoError(t, s.Upsert(ctx, []model.VectorDocument{
		{ID: "a", Embedding: unit(0, 4)},
	}))
	require.NoError(t, s.Delete(ctx, []string{"a"}))
	assert.Equal(t, 0, s.Count(""))
}
