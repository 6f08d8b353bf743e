package cache

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// localEntry wraps a stored value with its expiry, the same
// insertion-timestamp-carrying shape spec.md §4.10 describes for every
// cache entry.
type localEntry struct {
	value     []byte
	expiresAt time.Time
}

func (e localEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// LocalBackend is an in-process LRU+TTL cache, grounded on the teacher's
// internal/embed/cached.go and internal/search/classifier.go LRU usage
// (github.com/hashicorp/golang-lru/v2), generalized to store arbitrary
// byte payloads with a per-entry expiry instead of a single fixed-type
// cached value.
type LocalBackend struct {
	mu    sync.Mutex
	cache *lru.Cache[string, localEntry]
}

// NewLocalBackend builds a LocalBackend with room for size entries.
func NewLocalBackend(size int) (*LocalBackend, error) {
	c, err := lru.New[string, localEntry](size)
	if err != nil {
		return nil, err
	}
	return &LocalBackend{cache: c}, nil
}

func (b *LocalBackend) Get(_ context.Context, key string) ([]byte, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	entry, ok := b.cache.Get(key)
	if !ok {
		return nil, false, nil
	}
	if entry.expired(time.Now()) {
		b.cache.Remove(key)
		return nil, false, nil
	}
	return entry.value, true, nil
}

func (b *LocalBackend) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}
	b.cache.Add(key, localEntry{value: value, expiresAt: expiresAt})
	return nil
}

func (b *LocalBackend) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cache.Remove(key)
	return nil
}

func (b *LocalBackend) Keys(_ context.Context) ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cache.Keys(), nil
}

func (b *LocalBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cache.Purge()
	return nil
}

// CompactExpired removes any entries past their TTL, used by the
// background maintainer spec.md §4.10 calls for ("compacts expired
// entries on a fixed interval").
func (b *LocalBackend) CompactExpired() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	removed := 0
	for _, key := range b.cache.Keys() {
		entry, ok := b.cache.Peek(key)
		if ok && entry.expired(now) {
			b.cache.Remove(key)
			removed++
		}
	}
	return removed
}

var _ Backend = (*LocalBackend)(nil)
