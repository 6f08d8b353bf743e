package collection

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	svcerrors "github.com/doylet/docsearch/internal/errors"
	"github.com/doylet/docsearch/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "collections.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_CreateThenGet_RoundTrips(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.Create(ctx, "docs", 768)
	require.NoError(t, err)
	assert.Equal(t, model.CollectionActive, created.Status)

	got, ok, err := s.Get(ctx, "docs")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 768, got.VectorDimension)
	assert.Equal(t, 0, got.VectorCount)
}

func TestStore_Get_MissingReturnsFalse(t *testing.T) {
	s := newTestStore(t)
	_, ok, err := s.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_List_OrdersByName(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	_, err := s.Create(ctx, "zeta", 3)
	require.NoError(t, err)
	_, err = s.Create(ctx, "alpha", 3)
	require.NoError(t, err)

	cols, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, cols, 2)
	assert.Equal(t, "alpha", cols[0].Name)
	assert.Equal(t, "zeta", cols[1].Name)
}

func TestStore_AdjustCounters_AccumulatesDeltas(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	_, err := s.Create(ctx, "docs", 3)
	require.NoError(t, err)

	require.NoError(t, s.AdjustCounters(ctx, "docs", 5, 1024))
	require.NoError(t, s.AdjustCounters(ctx, "docs", 3, 512))

	got, _, err := s.Get(ctx, "docs")
	require.NoError(t, err)
	assert.Equal(t, 8, got.VectorCount)
	assert.EqualValues(t, 1536, got.SizeBytes)
}

func TestStore_SetStatus_ErrorIsStickyUntilExplicitRecovery(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	_, err := s.Create(ctx, "docs", 3)
	require.NoError(t, err)

	require.NoError(t, s.SetStatus(ctx, "docs", model.CollectionError))

	err = s.SetStatus(ctx, "docs", model.CollectionIndexing)
	require.Error(t, err)
	var svcErr *svcerrors.ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, svcerrors.CategoryValidation, svcErr.Category)

	require.NoError(t, s.SetStatus(ctx, "docs", model.CollectionActive))
	got, _, err := s.Get(ctx, "docs")
	require.NoError(t, err)
	assert.Equal(t, model.CollectionActive, got.Status)
}

func TestStore_Delete_RemovesRecord(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	_, err := s.Create(ctx, "docs", 3)
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, "docs"))
	_, ok, err := s.Get(ctx, "docs")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_Delete_MissingReturnsNotFound(t *testing.T) {
	s := newTestStore(t)
	err := s.Delete(context.Background(), "missing")
	require.Error(t, err)
	var svcErr *svcerrors.ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, svcerrors.CategoryNotFound, svcErr.Category)
}
