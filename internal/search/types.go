// Package search implements the hybrid search pipeline (spec.md §4.9):
// cache lookup, enhancement, expansion into N variants, bounded parallel
// dense+lexical retrieval per variant, per-variant fusion, cross-variant
// merge, deduplication, stable ranking, and snippet extraction.
package search

import (
	"context"

	"github.com/doylet/docsearch/internal/dedup"
	"github.com/doylet/docsearch/internal/fusion"
	"github.com/doylet/docsearch/internal/model"
)

// Enhancer optionally rewrites a normalized query before expansion (e.g.
// spelling correction, acronym expansion). Pipeline works with a nil
// Enhancer — enhancement is optional per spec.md §4.9.
type Enhancer interface {
	Enhance(ctx context.Context, query string) (string, error)
}

// Options configures one Search call. Zero value is valid: it searches the
// default collection with DefaultLimit results and default fusion weights.
type Options struct {
	Collection          string
	Limit               int
	Offset              int
	Weights             fusion.Weights
	NormalizationMethod model.NormalizationMethod
	UseRRF              bool
	DedupStrategy       dedup.Strategy
	DisableExpansion    bool
	DisableCache        bool
}

// DefaultLimit is used when Options.Limit <= 0.
const DefaultLimit = 10

// DefaultMaxVariants bounds how many query variants (original + expanded)
// the pipeline will fan out to, independent of expand.MaxVariants, so a
// pipeline-level cap exists even if the expander configuration changes.
const DefaultMaxVariants = 6

// DefaultParallelism bounds how many variants are searched concurrently.
const DefaultParallelism = 4

func (o Options) limit() int {
	if o.Limit <= 0 {
		return DefaultLimit
	}
	return o.Limit
}

func (o Options) normalization() model.NormalizationMethod {
	if o.NormalizationMethod == "" {
		return model.NormalizationMinMax
	}
	return o.NormalizationMethod
}

// queryVariant is one query text searched in parallel during a request,
// index 0 is always the original (post-normalization) query.
type queryVariant struct {
	index  int
	text   string
	weight float64
}
