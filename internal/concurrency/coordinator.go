package concurrency

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	svcerrors "github.com/doylet/docsearch/internal/errors"
)

// Permit represents one acquired slot in a pool. Release must be called
// exactly once, typically via defer, to return the slot and remove the
// operation's registry entry.
type Permit struct {
	coordinator *Coordinator
	sem         *semaphore.Weighted
	id          string
}

// Release returns the permit to its pool and unregisters the operation.
// Safe to call from a deferred cancellation unwind path.
func (p *Permit) Release() {
	p.coordinator.registry.Delete(p.id)
	p.sem.Release(1)
}

// Coordinator holds the two independent permit pools described in
// spec.md §4.12: read permits never wait on write permits and vice versa,
// so indexing saturation cannot stall search.
type Coordinator struct {
	readSem  *semaphore.Weighted
	writeSem *semaphore.Weighted
	registry sync.Map // id -> Operation
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithReadPermits overrides DefaultReadPermits.
func WithReadPermits(n int64) Option {
	return func(c *Coordinator) { c.readSem = semaphore.NewWeighted(n) }
}

// WithWritePermits overrides DefaultWritePermits.
func WithWritePermits(n int64) Option {
	return func(c *Coordinator) { c.writeSem = semaphore.NewWeighted(n) }
}

// New builds a Coordinator with the spec's default pool sizes, overridable
// via options.
func New(opts ...Option) *Coordinator {
	c := &Coordinator{
		readSem:  semaphore.NewWeighted(DefaultReadPermits),
		writeSem: semaphore.NewWeighted(DefaultWritePermits),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AcquireRead blocks until a read permit is available or ctx is done. A
// search holds exactly one read permit for its lifetime.
func (c *Coordinator) AcquireRead(ctx context.Context, label string) (*Permit, error) {
	return c.acquire(ctx, KindRead, c.readSem, label)
}

// AcquireWrite blocks until a write permit is available or ctx is done. An
// indexing batch holds exactly one write permit for its lifetime.
func (c *Coordinator) AcquireWrite(ctx context.Context, label string) (*Permit, error) {
	return c.acquire(ctx, KindWrite, c.writeSem, label)
}

func (c *Coordinator) acquire(ctx context.Context, kind Kind, sem *semaphore.Weighted, label string) (*Permit, error) {
	if err := sem.Acquire(ctx, 1); err != nil {
		return nil, svcerrors.Timeout(string(kind)+"-permit", err)
	}
	id := uuid.NewString()
	c.registry.Store(id, Operation{ID: id, Kind: kind, Label: label, StartedAt: time.Now()})
	return &Permit{coordinator: c, sem: sem, id: id}, nil
}

// Operations returns a snapshot of all currently active operations, for
// status/health reporting.
func (c *Coordinator) Operations() []Operation {
	var ops []Operation
	c.registry.Range(func(_, v any) bool {
		ops = append(ops, v.(Operation))
		return true
	})
	return ops
}

// OperationCount returns the number of active operations, optionally
// filtered by kind (pass "" for all).
func (c *Coordinator) OperationCount(kind Kind) int {
	n := 0
	c.registry.Range(func(_, v any) bool {
		if op := v.(Operation); kind == "" || op.Kind == kind {
			n++
		}
		return true
	})
	return n
}
