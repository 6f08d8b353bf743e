package search

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doylet/docsearch/internal/bm25"
	"github.com/doylet/docsearch/internal/cache"
	svcerrors "github.com/doylet/docsearch/internal/errors"
	"github.com/doylet/docsearch/internal/model"
)

type fakeVectorStore struct {
	metadata      map[string]model.VectorMetadata
	searchResults []model.SimilarityResult
	searchErr     error
}

func newFakeVectorStore() *fakeVectorStore {
	return &fakeVectorStore{metadata: make(map[string]model.VectorMetadata)}
}

func (f *fakeVectorStore) Upsert(context.Context, []model.VectorDocument) error { return nil }

func (f *fakeVectorStore) Search(_ context.Context, collection string, _ []float32, _ int) ([]model.SimilarityResult, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	if collection == "" || collection == model.DefaultCollectionSentinel {
		return f.searchResults, nil
	}
	var filtered []model.SimilarityResult
	for _, r := range f.searchResults {
		if r.Metadata.CollectionOrDefault() == collection {
			filtered = append(filtered, r)
		}
	}
	return filtered, nil
}

func (f *fakeVectorStore) Delete(context.Context, []string) error { return nil }
func (f *fakeVectorStore) Count(string) int                       { return len(f.metadata) }

func (f *fakeVectorStore) Get(id string) (model.VectorMetadata, bool) {
	md, ok := f.metadata[id]
	return md, ok
}

func (f *fakeVectorStore) Close() error { return nil }

type fakeEmbedder struct {
	dims int
	err  error
}

func (e *fakeEmbedder) Generate(context.Context, string) ([]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	return make([]float32, e.dims), nil
}

func (e *fakeEmbedder) GenerateBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := e.Generate(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (e *fakeEmbedder) Dimensions() int { return e.dims }

func setupPipeline(t *testing.T) (*Pipeline, *fakeVectorStore) {
	t.Helper()

	idxA := model.NewDocId("docs", "a", 1).ToIndexKey() + "#0"
	idxB := model.NewDocId("docs", "b", 1).ToIndexKey() + "#0"

	bmIndex := bm25.New(bm25.DefaultConfig())
	require.NoError(t, bmIndex.Index(context.Background(), []bm25.Document{
		{ID: idxA, Content: "alpha token about search indexing"},
		{ID: idxB, Content: "beta token about something unrelated"},
	}))

	vs := newFakeVectorStore()
	vs.metadata[idxA] = model.VectorMetadata{DocumentID: model.NewDocId("docs", "a", 1).ToIndexKey(), Content: "alpha token about search indexing", Title: "Alpha"}
	vs.metadata[idxB] = model.VectorMetadata{DocumentID: model.NewDocId("docs", "b", 1).ToIndexKey(), Content: "beta token about something unrelated", Title: "Beta"}
	vs.searchResults = []model.SimilarityResult{
		{DocumentID: idxA, Similarity: 0.9, Metadata: vs.metadata[idxA]},
		{DocumentID: idxB, Similarity: 0.2, Metadata: vs.metadata[idxB]},
	}

	embedder := &fakeEmbedder{dims: 4}
	p := New(bmIndex, vs, embedder)
	return p, vs
}

func TestPipeline_Search_ReturnsHydratedRankedResults(t *testing.T) {
	p, _ := setupPipeline(t)
	results, err := p.Search(context.Background(), "alpha", Options{})
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "a", results[0].DocID.ExternalID)
	assert.NotEmpty(t, results[0].Snippet)
}

func TestPipeline_Search_EmptyQueryReturnsValidationError(t *testing.T) {
	p, _ := setupPipeline(t)
	_, err := p.Search(context.Background(), "   ", Options{})
	require.Error(t, err)
	var svcErr *svcerrors.ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, svcerrors.CategoryValidation, svcErr.Category)
}

func TestPipeline_Search_BothEnginesFailingReturnsExternalServiceError(t *testing.T) {
	p, vs := setupPipeline(t)
	vs.searchErr = assertErr("vector store down")
	_ = p.bm25.Close()

	_, err := p.Search(context.Background(), "alpha", Options{})
	require.Error(t, err)
	var svcErr *svcerrors.ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, svcerrors.CategoryExternalService, svcErr.Category)
}

func TestPipeline_Search_CachesIdenticalQuery(t *testing.T) {
	backend, err := cache.NewLocalBackend(64)
	require.NoError(t, err)
	mgr := cache.NewManager(backend, time.Hour)

	p, vs := setupPipeline(t)
	p.cache = mgr

	first, err := p.Search(context.Background(), "alpha", Options{})
	require.NoError(t, err)

	vs.searchErr = assertErr("should not be called on cache hit")
	second, err := p.Search(context.Background(), "alpha", Options{})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestPipeline_Search_CollectionFilterExcludesOtherCollections(t *testing.T) {
	p, vs := setupPipeline(t)
	idxC := model.NewDocId("other", "c", 1).ToIndexKey() + "#0"
	vs.metadata[idxC] = model.VectorMetadata{DocumentID: model.NewDocId("other", "c", 1).ToIndexKey(), Content: "alpha token elsewhere", Collection: "other"}
	vs.searchResults = append(vs.searchResults, model.SimilarityResult{DocumentID: idxC, Similarity: 0.95, Metadata: vs.metadata[idxC]})

	results, err := p.Search(context.Background(), "alpha", Options{Collection: "other"})
	require.NoError(t, err)
	for _, r := range results {
		assert.Equal(t, "other", r.DocID.Collection)
	}
}

type assertErr string

func (e assertErr) Error() string { return string(e) }
