package embed

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vectorMagnitude(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

func TestStaticEmbedder_Generate_ReturnsCorrectDimensions(t *testing.T) {
	// Given: a static embedder with default dimensions
	e := NewStaticEmbedder()

	// When: I embed a piece of text
	vec, err := e.Generate(context.Background(), "func main() {}")

	// Then: a vector of StaticDimensions is returned
	require.NoError(t, err)
	assert.Len(t, vec, StaticDimensions)
}

func TestStaticEmbedder_Generate_VectorIsNormalized(t *testing.T) {
	e := NewStaticEmbedder()

	vec, err := e.Generate(context.Background(), "hybrid search over chunked documents")
	require.NoError(t, err)

	assert.InDelta(t, 1.0, vectorMagnitude(vec), 0.001)
}

func TestStaticEmbedder_Generate_IsDeterministic(t *testing.T) {
	e := NewStaticEmbedder()
	text := "func add(a, b int) int { return a + b }"

	v1, err1 := e.Generate(context.Background(), text)
	v2, err2 := e.Generate(context.Background(), text)

	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, v1, v2)
}

func TestStaticEmbedder_Generate_EmptyTextReturnsZeroVector(t *testing.T) {
	e := NewStaticEmbedder()

	vec, err := e.Generate(context.Background(), "   ")

	require.NoError(t, err)
	for _, x := range vec {
		assert.Zero(t, x)
	}
}

func TestStaticEmbedder_GenerateBatch_PreservesOrder(t *testing.T) {
	e := NewStaticEmbedder()
	texts := []string{"alpha beta", "gamma delta", "epsilon zeta"}

	batch, err := e.GenerateBatch(context.Background(), texts)
	require.NoError(t, err)
	require.Len(t, batch, len(texts))

	for i, text := range texts {
		single, err := e.Generate(context.Background(), text)
		require.NoError(t, err)
		assert.Equal(t, single, batch[i])
	}
}

func TestStaticEmbedder_DifferentTextsDifferentVectors(t *testing.T) {
	e := NewStaticEmbedder()

	a, _ := e.Generate(context.Background(), "searching documents with bm25")
	b, _ := e.Generate(context.Background(), "vector similarity using hnsw")

	assert.NotEqual(t, a, b)
}
