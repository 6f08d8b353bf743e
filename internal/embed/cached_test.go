package embed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingGenerator wraps a Generator and counts underlying calls, so tests
// can assert the cache actually avoided recomputation.
type countingGenerator struct {
	inner Generator
	calls int
}

func (c *countingGenerator) Dimensions() int { return c.inner.Dimensions() }

func (c *countingGenerator) Generate(ctx context.Context, text string) ([]float32, error) {
	c.calls++
	return c.inner.Generate(ctx, text)
}

func (c *countingGenerator) GenerateBatch(ctx context.Context, texts []string) ([][]float32, error) {
	c.calls += len(texts)
	return c.inner.GenerateBatch(ctx, texts)
}

func TestCachedGenerator_Generate_CachesRepeatedText(t *testing.T) {
	// Given: a cached generator wrapping a call-counting static embedder
	counting := &countingGenerator{inner: NewStaticEmbedder()}
	cached := NewCachedGenerator(counting, "static", 10)

	// When: the same text is embedded twice
	v1, err1 := cached.Generate(context.Background(), "search pipeline")
	v2, err2 := cached.Generate(context.Background(), "search pipeline")

	// Then: only one underlying call was made, and results match
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, v1, v2)
	assert.Equal(t, 1, counting.calls)
}

func TestCachedGenerator_GenerateBatch_OnlyComputesMisses(t *testing.T) {
	counting := &countingGenerator{inner: NewStaticEmbedder()}
	cached := NewCachedGenerator(counting, "static", 10)

	_, err := cached.Generate(context.Background(), "alpha")
	require.NoError(t, err)
	counting.calls = 0

	batch, err := cached.GenerateBatch(context.Background(), []string{"alpha", "beta", "gamma"})
	require.NoError(t, err)
	require.Len(t, batch, 3)
	assert.Equal(t, 2, counting.calls) // alpha was already cached
}

func TestCachedGenerator_DifferentModelNamesDoNotShareCache(t *testing.T) {
	base := NewStaticEmbedder()
	countA := &countingGenerator{inner: base}
	countB := &countingGenerator{inner: base}
	a := NewCachedGenerator(countA, "model-a", 10)
	b := NewCachedGenerator(countB, "model-b", 10)

	va, err := a.Generate(context.Background(), "same text")
	require.NoError(t, err)
	vb, err := b.Generate(context.Background(), "same text")
	require.NoError(t, err)

	assert.Equal(t, va, vb) // same underlying embedder, same output
	// Each cache computed the vector itself: b was not served a's entry.
	assert.Equal(t, 1, countA.calls)
	assert.Equal(t, 1, countB.calls)
}
