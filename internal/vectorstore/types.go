// Package vectorstore implements the Vector Repository (spec.md §4.4): an
// HNSW-backed approximate k-NN index with per-collection filtering.
package vectorstore

import (
	"context"
	"fmt"

	"github.com/doylet/docsearch/internal/model"
)

// Store is the contract the hybrid search pipeline depends on.
type Store interface {
	Upsert(ctx context.Context, docs []model.VectorDocument) error
	Search(ctx context.Context, collection string, query []float32, k int) ([]model.SimilarityResult, error)
	Delete(ctx context.Context, ids []string) error
	Count(collection string) int
	// Get returns the stored metadata for id, used by the search pipeline
	// to hydrate results that came from the lexical engine alone (which
	// carries no content, only postings).
	Get(id string) (model.VectorMetadata, bool)
	Close() error
}

// Config tunes the underlying HNSW graph (spec.md §4.4).
type Config struct {
	Dimensions     int
	Metric         string // "cos" or "l2"
	M              int
	EfSearch       int
	OvercommitMult int // k' = k * OvercommitMult when post-filtering by collection
	MaxOvercommit  int
}

// DefaultConfig mirrors the teacher's HNSW defaults.
func DefaultConfig(dimensions int) Config {
	return Config{
		Dimensions:     dimensions,
		Metric:         "cos",
		M:              16,
		EfSearch:       64,
		OvercommitMult: 4,
		MaxOvercommit:  2000,
	}
}

// ErrDimensionMismatch indicates a vector's width disagrees with the store.
type ErrDimensionMismatch struct {
	Expected int
	Got      int
}

func (e ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("vectorstore: dimension mismatch: expected %d, got %d", e.Expected, e.Got)
}
