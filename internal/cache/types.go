// Package cache implements the multi-layer cache manager from spec.md
// §4.10: named Query/Embedding/BM25/Fusion layers, each LRU+TTL, with a
// pluggable storage backend so an in-process LRU can be swapped for a
// shared Redis instance without changing call sites.
package cache

import (
	"context"
	"time"
)

// Layer names one of the four cache layers spec.md §4.10 defines.
type Layer string

const (
	LayerQuery     Layer = "query"
	LayerEmbedding Layer = "embedding"
	LayerBM25      Layer = "bm25"
	LayerFusion    Layer = "fusion"
)

// Backend stores opaque byte values under string keys with a TTL. It is the
// seam spec.md §4.10's "pluggable backend" requirement hangs off —
// LocalBackend (golang-lru/v2) and RedisBackend (go-redis/v9) both satisfy
// it.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// Keys returns all live keys. The background Maintainer does not call
	// it; it compacts a LocalBackend through CompactExpired. Backends with
	// native TTL support (Redis) may return an empty slice since expiry is
	// handled server-side.
	Keys(ctx context.Context) ([]string, error)
	Close() error
}

// DefaultTTL is used when a caller doesn't specify one explicitly.
const DefaultTTL = 10 * time.Minute

// LayerStats reports hit/miss counters for a single layer (spec.md §4.10
// "Statistics").
type LayerStats struct {
	Hits          uint64
	Misses        uint64
	ApproxEntries int
	LastUpdated   time.Time
}

// HitRate returns Hits/(Hits+Misses), or 0 when there has been no traffic.
func (s LayerStats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}
