package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// Manager coordinates the four named cache layers over a shared Backend
// implementation, tracking which collection(s) each key references so a
// write to the index can invalidate exactly the entries spec.md §4.10's
// invariant names.
type Manager struct {
	backend Backend
	ttl     time.Duration

	mu    sync.Mutex
	stats map[Layer]*LayerStats
	// byCollection[layer][collection] is the set of keys in that layer
	// that reference that collection, maintained so InvalidateCollection
	// doesn't need to scan the whole backend.
	byCollection map[Layer]map[string]map[string]struct{}
}

// NewManager builds a Manager over backend with the given default TTL.
func NewManager(backend Backend, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	m := &Manager{
		backend:      backend,
		ttl:          ttl,
		stats:        make(map[Layer]*LayerStats),
		byCollection: make(map[Layer]map[string]map[string]struct{}),
	}
	for _, l := range []Layer{LayerQuery, LayerEmbedding, LayerBM25, LayerFusion} {
		m.stats[l] = &LayerStats{}
		m.byCollection[l] = make(map[string]map[string]struct{})
	}
	return m
}

// layerKey namespaces a raw fingerprint by layer so the four layers never
// collide in a shared Backend keyspace.
func layerKey(layer Layer, key string) string {
	return string(layer) + ":" + key
}

// Get looks up key in layer and unmarshals it into dst (a pointer). It
// returns (true, nil) on a cache hit, (false, nil) on a miss, and updates
// the layer's hit/miss counters either way.
func (m *Manager) Get(ctx context.Context, layer Layer, key string, dst any) (bool, error) {
	raw, ok, err := m.backend.Get(ctx, layerKey(layer, key))
	if err != nil {
		return false, err
	}

	m.mu.Lock()
	if ok {
		m.stats[layer].Hits++
	} else {
		m.stats[layer].Misses++
	}
	m.mu.Unlock()

	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, err
	}
	return true, nil
}

// Set stores value under key in layer, tagging it against collections so a
// later InvalidateCollection(c) can find it. A Query/Fusion entry derived
// from multiple collections should pass all of them.
func (m *Manager) Set(ctx context.Context, layer Layer, key string, value any, collections ...string) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := m.backend.Set(ctx, layerKey(layer, key), raw, m.ttl); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range collections {
		set, ok := m.byCollection[layer][c]
		if !ok {
			set = make(map[string]struct{})
			m.byCollection[layer][c] = set
		}
		set[key] = struct{}{}
	}
	m.stats[layer].LastUpdated = time.Now()
	return nil
}

// InvalidateCollection evicts every entry in every layer that references
// collection — spec.md §4.10's write-invalidation invariant. The
// Embedding layer is content-addressed (keyed on text hash, not
// collection), so it is invalidated by InvalidateText instead.
func (m *Manager) InvalidateCollection(ctx context.Context, collection string) error {
	m.mu.Lock()
	toDelete := make(map[Layer][]string)
	for _, layer := range []Layer{LayerQuery, LayerBM25, LayerFusion} {
		keys := m.byCollection[layer][collection]
		for k := range keys {
			toDelete[layer] = append(toDelete[layer], k)
		}
		delete(m.byCollection[layer], collection)
	}
	m.mu.Unlock()

	for layer, keys := range toDelete {
		for _, k := range keys {
			if err := m.backend.Delete(ctx, layerKey(layer, k)); err != nil {
				return err
			}
		}
	}
	return nil
}

// InvalidateText evicts the Embedding-layer entry for (model, text),
// called when the document enclosing that text changes.
func (m *Manager) InvalidateText(ctx context.Context, model, text string) error {
	return m.backend.Delete(ctx, layerKey(LayerEmbedding, EmbeddingKey(model, text)))
}

// Stats returns a snapshot of per-layer hit/miss counters.
func (m *Manager) Stats() map[Layer]LayerStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[Layer]LayerStats, len(m.stats))
	for l, s := range m.stats {
		out[l] = *s
	}
	return out
}

// Close releases the underlying backend.
func (m *Manager) Close() error {
	return m.backend.Close()
}
