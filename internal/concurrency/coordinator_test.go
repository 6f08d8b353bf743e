package concurrency

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoordinator_AcquireRead_RegistersAndReleases(t *testing.T) {
	c := New()
	p, err := c.AcquireRead(context.Background(), "search:alpha")
	require.NoError(t, err)
	assert.Equal(t, 1, c.OperationCount(KindRead))
	p.Release()
	assert.Equal(t, 0, c.OperationCount(KindRead))
}

func TestCoordinator_ReadAndWritePoolsAreIndependent(t *testing.T) {
	c := New(WithReadPermits(1), WithWritePermits(1))

	writeP, err := c.AcquireWrite(context.Background(), "index:batch-1")
	require.NoError(t, err)
	defer writeP.Release()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	readP, err := c.AcquireRead(ctx, "search:beta")
	require.NoError(t, err, "read permit must not be blocked by write-pool saturation")
	readP.Release()
}

func TestCoordinator_AcquireRead_BlocksUntilPermitFreed(t *testing.T) {
	c := New(WithReadPermits(1))

	first, err := c.AcquireRead(context.Background(), "search:first")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = c.AcquireRead(ctx, "search:second")
	require.Error(t, err, "second acquire should time out while pool is saturated")

	first.Release()
	ctx2, cancel2 := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel2()
	third, err := c.AcquireRead(ctx2, "search:third")
	require.NoError(t, err)
	third.Release()
}

func TestCoordinator_Operations_ReflectsActiveHolders(t *testing.T) {
	c := New()
	p1, err := c.AcquireRead(context.Background(), "search:a")
	require.NoError(t, err)
	p2, err := c.AcquireWrite(context.Background(), "index:b")
	require.NoError(t, err)
	defer p1.Release()
	defer p2.Release()

	ops := c.Operations()
	require.Len(t, ops, 2)
	kinds := map[Kind]bool{}
	for _, op := range ops {
		kinds[op.Kind] = true
		assert.NotEmpty(t, op.ID)
		assert.False(t, op.StartedAt.IsZero())
	}
	assert.True(t, kinds[KindRead])
	assert.True(t, kinds[KindWrite])
}
