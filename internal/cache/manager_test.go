package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	backend, err := NewLocalBackend(64)
	require.NoError(t, err)
	return NewManager(backend, time.Hour)
}

func TestManager_SetThenGet_HitsAndUnmarshals(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	type payload struct{ Score float64 }
	require.NoError(t, m.Set(ctx, LayerQuery, "k1", payload{Score: 0.5}, "docs"))

	var got payload
	ok, err := m.Get(ctx, LayerQuery, "k1", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 0.5, got.Score)

	stats := m.Stats()[LayerQuery]
	assert.Equal(t, uint64(1), stats.Hits)
}

func TestManager_Get_MissIncrementsMissCounter(t *testing.T) {
	m := newTestManager(t)
	var got string
	ok, err := m.Get(context.Background(), LayerBM25, "missing", &got)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, uint64(1), m.Stats()[LayerBM25].Misses)
}

func TestManager_InvalidateCollection_EvictsOnlyTaggedLayers(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, LayerQuery, "q1", "result-for-docs", "docs"))
	require.NoError(t, m.Set(ctx, LayerQuery, "q2", "result-for-other", "other"))
	require.NoError(t, m.Set(ctx, LayerEmbedding, "e1", []float32{1, 2, 3}))

	require.NoError(t, m.InvalidateCollection(ctx, "docs"))

	var v string
	ok, _ := m.Get(ctx, LayerQuery, "q1", &v)
	assert.False(t, ok, "docs-tagged entry should be evicted")

	ok, _ = m.Get(ctx, LayerQuery, "q2", &v)
	assert.True(t, ok, "other-tagged entry should survive")

	var vec []float32
	ok, _ = m.Get(ctx, LayerEmbedding, "e1", &vec)
	assert.True(t, ok, "embedding layer is untouched by collection invalidation")
}

func TestManager_InvalidateText_EvictsEmbeddingEntry(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	key := EmbeddingKey("static", "hello world")
	require.NoError(t, m.Set(ctx, LayerEmbedding, key, []float32{1}))
	require.NoError(t, m.InvalidateText(ctx, "static", "hello world"))

	var got []float32
	ok, _ := m.Get(ctx, LayerEmbedding, key, &got)
	assert.False(t, ok)
}

func TestLocalBackend_CompactExpired_RemovesExpiredOnly(t *testing.T) {
	backend, err := NewLocalBackend(64)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, backend.Set(ctx, "fresh", []byte("x"), time.Hour))
	require.NoError(t, backend.Set(ctx, "stale", []byte("y"), time.Nanosecond))
	time.Sleep(time.Millisecond)

	removed := backend.CompactExpired()
	assert.Equal(t, 1, removed)

	_, ok, _ := backend.Get(ctx, "fresh")
	assert.True(t, ok)
	_, ok, _ = backend.Get(ctx, "stale")
	assert.False(t, ok)
}
