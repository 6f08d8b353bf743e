package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/doylet/docsearch/internal/bm25"
	"github.com/doylet/docsearch/internal/cache"
	"github.com/doylet/docsearch/internal/dedup"
	"github.com/doylet/docsearch/internal/embed"
	svcerrors "github.com/doylet/docsearch/internal/errors"
	"github.com/doylet/docsearch/internal/expand"
	"github.com/doylet/docsearch/internal/fusion"
	"github.com/doylet/docsearch/internal/model"
	"github.com/doylet/docsearch/internal/vectorstore"
)

// DefaultVariantK is how many candidates each engine returns per variant
// before fusion, mirroring the teacher's multi-query minimum sub-query
// limit (50) so fusion has enough material to rank well.
const DefaultVariantK = 50

// Fuser is the contract both fusion strategies satisfy once weights are
// bound — WeightedFuser directly, RRFFuser via the rrfAdapter below.
type Fuser interface {
	Fuse(bm25Hits []fusion.LexicalHit, vecHits []fusion.SemanticHit) []fusion.FusedEntry
}

type rrfAdapter struct {
	f       *fusion.RRFFuser
	weights fusion.Weights
}

func (a rrfAdapter) Fuse(bm25Hits []fusion.LexicalHit, vecHits []fusion.SemanticHit) []fusion.FusedEntry {
	return a.f.Fuse(bm25Hits, vecHits, a.weights)
}

// Pipeline implements the hybrid search state machine of spec.md §4.9.
type Pipeline struct {
	bm25     *bm25.Index
	vectors  vectorstore.Store
	embedder embed.Generator
	rrf      *fusion.RRFFuser

	cache    *cache.Manager
	expander expand.Expander
	enhancer Enhancer
	logger   *slog.Logger
	sem      *semaphore.Weighted
}

// Option configures optional Pipeline dependencies.
type Option func(*Pipeline)

func WithCache(m *cache.Manager) Option     { return func(p *Pipeline) { p.cache = m } }
func WithExpander(e expand.Expander) Option { return func(p *Pipeline) { p.expander = e } }
func WithEnhancer(e Enhancer) Option        { return func(p *Pipeline) { p.enhancer = e } }
func WithLogger(l *slog.Logger) Option      { return func(p *Pipeline) { p.logger = l } }
func WithParallelism(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.sem = semaphore.NewWeighted(int64(n))
		}
	}
}

// New builds a Pipeline over the required retrieval engines.
func New(bm25Index *bm25.Index, vectors vectorstore.Store, embedder embed.Generator, opts ...Option) *Pipeline {
	p := &Pipeline{
		bm25:     bm25Index,
		vectors:  vectors,
		embedder: embedder,
		rrf:      fusion.NewRRFFuser(fusion.DefaultRRFConstant),
		logger:   slog.Default(),
		sem:      semaphore.NewWeighted(int64(DefaultParallelism)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Search runs the full pipeline for rawQuery and returns a stably ranked,
// deduplicated, snippet-annotated result list truncated to opts.Limit.
func (p *Pipeline) Search(ctx context.Context, rawQuery string, opts Options) ([]model.SearchResult, error) {
	sq := model.NewSearchQuery(rawQuery)

	if p.enhancer != nil {
		if enhanced, err := p.enhancer.Enhance(ctx, sq.Normalized); err == nil && enhanced != "" {
			sq = sq.WithEnhancement(enhanced)
		}
	}
	effective := sq.EffectiveQuery()
	if effective == "" {
		return nil, svcerrors.Validation("query", "query must not be empty")
	}

	cacheKey := cache.QueryKey(effective, opts.limit(), opts.Offset, opts.Collection)
	if p.cache != nil && !opts.DisableCache {
		var cached []model.SearchResult
		if hit, err := p.cache.Get(ctx, cache.LayerQuery, cacheKey, &cached); err == nil && hit {
			return cached, nil
		}
	}

	variants := p.buildVariants(ctx, effective, opts)
	fuser := p.pickFuser(opts)

	merged, err := p.searchVariants(ctx, variants, opts, fuser)
	if err != nil {
		return nil, err
	}

	combined := mergeAcrossVariants(merged)
	deduped, _ := dedup.Deduplicate(combined, opts.DedupStrategy)
	finalResults := p.finalize(deduped, variants, opts)

	if p.cache != nil && !opts.DisableCache {
		_ = p.cache.Set(ctx, cache.LayerQuery, cacheKey, finalResults, opts.Collection)
	}
	return finalResults, nil
}

// buildVariants expands effective into up to DefaultMaxVariants query
// texts, with index 0 always the original query.
func (p *Pipeline) buildVariants(ctx context.Context, effective string, opts Options) []queryVariant {
	variants := []queryVariant{{index: 0, text: effective, weight: 1.0}}
	if opts.DisableExpansion || p.expander == nil {
		return variants
	}

	expanded, err := p.expander.Expand(ctx, effective)
	if err != nil {
		p.logger.Warn("query expansion failed, continuing with original query only", "error", err)
		return variants
	}
	for i, v := range expanded {
		if len(variants) >= DefaultMaxVariants {
			break
		}
		variants = append(variants, queryVariant{index: i + 1, text: v.Text, weight: v.Weight})
	}
	return variants
}

func (p *Pipeline) pickFuser(opts Options) Fuser {
	weights := opts.Weights
	if weights.Validate() != nil {
		weights = fusion.DefaultWeights()
	}
	if opts.UseRRF {
		return rrfAdapter{f: p.rrf, weights: weights}
	}
	wf, err := fusion.NewWeightedFuser(weights, opts.normalization())
	if err != nil {
		wf, _ = fusion.NewWeightedFuser(fusion.DefaultWeights(), opts.normalization())
	}
	return wf
}

// searchVariants fans out variant searches bounded by the pipeline's
// semaphore, grounded on the teacher's MultiQuerySearcher.parallelSubSearch
// errgroup+channel-semaphore shape. A failure on the original query
// (index 0) is fatal; a failure on an expanded variant degrades to a
// logged warning so the request still returns whatever succeeded.
func (p *Pipeline) searchVariants(ctx context.Context, variants []queryVariant, opts Options, fuser Fuser) ([]model.SearchResult, error) {
	perVariant := make([][]model.SearchResult, len(variants))

	g, gctx := errgroup.WithContext(ctx)
	for i, v := range variants {
		i, v := i, v
		g.Go(func() error {
			if err := p.sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer p.sem.Release(1)

			results, err := p.searchVariant(gctx, v, opts, fuser)
			if err != nil {
				if i == 0 {
					return err
				}
				p.logger.Warn("variant search failed", "variant", v.text, "error", err)
				return nil
			}
			perVariant[i] = results
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merged []model.SearchResult
	for _, r := range perVariant {
		merged = append(merged, r...)
	}
	return merged, nil
}

// searchVariant runs one query text through both engines, fuses their
// results, and hydrates each fused entry into a SearchResult via the
// vector store's metadata (the canonical content source for both engines,
// since BM25 postings carry no document text).
func (p *Pipeline) searchVariant(ctx context.Context, v queryVariant, opts Options, fuser Fuser) ([]model.SearchResult, error) {
	vec, embedErr := p.embedQuery(ctx, v.text)

	var (
		denseHits []model.SimilarityResult
		denseErr  error
	)
	if embedErr == nil {
		denseHits, denseErr = p.vectors.Search(ctx, opts.Collection, vec, DefaultVariantK)
	} else {
		denseErr = embedErr
	}

	lexHits, lexErr := p.bm25Search(ctx, opts.Collection, v.text, DefaultVariantK)

	if denseErr != nil && lexErr != nil {
		return nil, svcerrors.ExternalService("search",
			"both retrieval engines failed",
			fmt.Errorf("dense: %v, lexical: %v", denseErr, lexErr), false)
	}

	fused := fuser.Fuse(toLexicalHits(lexHits), toSemanticHits(denseHits))

	results := make([]model.SearchResult, 0, len(fused))
	for _, f := range fused {
		md, ok := p.vectors.Get(f.DocID)
		if !ok {
			continue
		}
		docID, ok := model.FromIndexKey(md.DocumentID)
		if !ok {
			continue
		}

		signals := f.Signals
		signals.Variants = []int{v.index}
		if v.index != 0 {
			signals.QueryExpansion = true
		}

		results = append(results, model.SearchResult{
			DocID:       docID,
			URI:         md.URL,
			Title:       md.Title,
			Content:     md.Content,
			HeadingPath: md.HeadingPath,
			Scores:      f.Breakdown,
			FromSignals: signals,
		})
	}
	return results, nil
}

// embedQuery generates (and caches) the query embedding. The cache key is
// namespaced by embedding dimension as a cheap stand-in for model
// identity, since Generator exposes no name.
func (p *Pipeline) embedQuery(ctx context.Context, text string) ([]float32, error) {
	modelTag := fmt.Sprintf("dim%d", p.embedder.Dimensions())
	key := cache.EmbeddingKey(modelTag, text)

	if p.cache != nil {
		var cached []float32
		if hit, err := p.cache.Get(ctx, cache.LayerEmbedding, key, &cached); err == nil && hit {
			return cached, nil
		}
	}

	vec, err := p.embedder.Generate(ctx, text)
	if err != nil {
		return nil, err
	}
	if p.cache != nil {
		_ = p.cache.Set(ctx, cache.LayerEmbedding, key, vec)
	}
	return vec, nil
}

// bm25Search runs the lexical engine and, when a collection filter is
// given, post-filters hits using the vector store's metadata — the bm25
// index itself carries no collection field, only postings.
func (p *Pipeline) bm25Search(ctx context.Context, collection, text string, k int) ([]bm25.Result, error) {
	key := cache.BM25Key(collection, strings.Fields(strings.ToLower(text)), k)
	if p.cache != nil {
		var cached []bm25.Result
		if hit, err := p.cache.Get(ctx, cache.LayerBM25, key, &cached); err == nil && hit {
			return cached, nil
		}
	}

	hits, err := p.bm25.Search(ctx, text, k)
	if err != nil {
		return nil, err
	}

	if collection != "" && collection != model.DefaultCollectionSentinel {
		filtered := hits[:0]
		for _, h := range hits {
			if md, ok := p.vectors.Get(h.DocID); ok && md.CollectionOrDefault() == collection {
				filtered = append(filtered, h)
			}
		}
		hits = filtered
	}

	if p.cache != nil {
		_ = p.cache.Set(ctx, cache.LayerBM25, key, hits, collection)
	}
	return hits, nil
}

func toLexicalHits(results []bm25.Result) []fusion.LexicalHit {
	hits := make([]fusion.LexicalHit, len(results))
	for i, r := range results {
		hits[i] = fusion.LexicalHit{DocID: r.DocID, Score: r.Score, MatchedTerms: r.MatchedTerms}
	}
	return hits
}

func toSemanticHits(results []model.SimilarityResult) []fusion.SemanticHit {
	hits := make([]fusion.SemanticHit, len(results))
	for i, r := range results {
		hits[i] = fusion.SemanticHit{DocID: r.DocumentID, Similarity: r.Similarity}
	}
	return hits
}

// mergeAcrossVariants collapses results that are the exact same DocId
// (same collection, external ID, and version) found via more than one
// query variant, per spec.md §4.9's "MERGE across variants (provenance)"
// step — distinct from dedup.Deduplicate, which collapses across
// versions of the same document further downstream.
func mergeAcrossVariants(results []model.SearchResult) []model.SearchResult {
	if len(results) == 0 {
		return results
	}

	groups := make(map[string][]model.SearchResult)
	var order []string
	for _, r := range results {
		key := r.DocID.ToIndexKey()
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], r)
	}

	out := make([]model.SearchResult, 0, len(order))
	for _, key := range order {
		group := groups[key]
		best := group[0]
		for _, r := range group[1:] {
			best.Scores = dedup.MergeBreakdown(best.Scores, r.Scores)
			best.FromSignals.Merge(r.FromSignals)
			if r.Scores.Fused > best.Scores.Fused {
				best.Content, best.Title, best.URI = r.Content, r.Title, r.URI
			}
		}
		out = append(out, best)
	}
	return out
}

// finalize attaches snippets keyed on the original query's terms and
// truncates to (opts.Offset, opts.Offset+opts.Limit).
func (p *Pipeline) finalize(results []model.SearchResult, variants []queryVariant, opts Options) []model.SearchResult {
	terms := strings.Fields(variants[0].text)
	for i := range results {
		results[i].Snippet = ExtractSnippet(results[i].Content, terms)
	}

	start := opts.Offset
	if start > len(results) {
		start = len(results)
	}
	end := start + opts.limit()
	if end > len(results) {
		end = len(results)
	}
	return results[start:end]
}
