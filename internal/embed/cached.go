package embed

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize bounds the number of embeddings kept in memory.
const DefaultCacheSize = 1000

// CachedGenerator wraps a Generator with an LRU cache keyed on text, so
// repeated queries and re-indexed identical chunks skip recomputation.
type CachedGenerator struct {
	inner     Generator
	modelName string
	cache     *lru.Cache[string, []float32]
}

// NewCachedGenerator wraps inner with an LRU cache of the given size
// (DefaultCacheSize if size <= 0). modelName namespaces the cache key so
// swapping providers doesn't serve stale vectors from a different model.
func NewCachedGenerator(inner Generator, modelName string, size int) *CachedGenerator {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, _ := lru.New[string, []float32](size)
	return &CachedGenerator{inner: inner, modelName: modelName, cache: cache}
}

func (c *CachedGenerator) Dimensions() int { return c.inner.Dimensions() }

func (c *CachedGenerator) cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text + "\x00" + c.modelName))
	return hex.EncodeToString(sum[:])
}

func (c *CachedGenerator) Generate(ctx context.Context, text string) ([]float32, error) {
	key := c.cacheKey(text)
	if vec, ok := c.cache.Get(key); ok {
		return vec, nil
	}
	vec, err := c.inner.Generate(ctx, text)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, vec)
	return vec, nil
}

func (c *CachedGenerator) GenerateBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	results := make([][]float32, len(texts))
	var missIdx []int
	var missTexts []string

	for i, text := range texts {
		if vec, ok := c.cache.Get(c.cacheKey(text)); ok {
			results[i] = vec
		} else {
			missIdx = append(missIdx, i)
			missTexts = append(missTexts, text)
		}
	}

	if len(missTexts) == 0 {
		return results, nil
	}

	computed, err := c.inner.GenerateBatch(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	for j, idx := range missIdx {
		results[idx] = computed[j]
		c.cache.Add(c.cacheKey(texts[idx]), computed[j])
	}
	return results, nil
}
