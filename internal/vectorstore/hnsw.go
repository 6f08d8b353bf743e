package vectorstore

import (
	"context"
	"math"
	"sync"

	"github.com/coder/hnsw"

	"github.com/doylet/docsearch/internal/model"
)

// HNSWStore is a single coder/hnsw graph shared across collections, with a
// string-ID <-> uint64-key mapping and per-ID metadata for post-filtering.
// One shared graph (rather than one per collection) keeps memory bounded
// when the service hosts many small collections.
type HNSWStore struct {
	mu     sync.RWMutex
	graph  *hnsw.Graph[uint64]
	cfg    Config
	idMap  map[string]uint64
	keyMap map[uint64]string
	meta   map[string]model.VectorMetadata
	next   uint64
	closed bool
}

// New builds an HNSWStore from cfg.
func New(cfg Config) *HNSWStore {
	if cfg.M == 0 {
		cfg.M = 16
	}
	if cfg.EfSearch == 0 {
		cfg.EfSearch = 64
	}
	if cfg.OvercommitMult == 0 {
		cfg.OvercommitMult = 4
	}
	if cfg.MaxOvercommit == 0 {
		cfg.MaxOvercommit = 2000
	}

	graph := hnsw.NewGraph[uint64]()
	switch cfg.Metric {
	case "l2":
		graph.Distance = hnsw.EuclideanDistance
	default:
		graph.Distance = hnsw.CosineDistance
	}
	graph.M = cfg.M
	graph.EfSearch = cfg.EfSearch

	return &HNSWStore{
		graph:  graph,
		cfg:    cfg,
		idMap:  make(map[string]uint64),
		keyMap: make(map[uint64]string),
		meta:   make(map[string]model.VectorMetadata),
	}
}

func (s *HNSWStore) Upsert(ctx context.Context, docs []model.VectorDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errClosed
	}

	for _, d := range docs {
		if err := d.Validate(s.cfg.Dimensions); err != nil {
			return err
		}
	}

	for _, d := range docs {
		if existing, ok := s.idMap[d.ID]; ok {
			// Lazy delete: coder/hnsw cannot safely remove the last node in
			// the graph, so orphan the mapping instead of calling Delete.
			delete(s.keyMap, existing)
			delete(s.idMap, d.ID)
		}

		vec := make([]float32, len(d.Embedding))
		copy(vec, d.Embedding)
		if s.cfg.Metric == "cos" {
			normalizeInPlace(vec)
		}

		key := s.next
		s.next++
		s.graph.Add(hnsw.MakeNode(key, vec))
		s.idMap[d.ID] = key
		s.keyMap[key] = d.ID
		s.meta[d.ID] = d.Metadata
	}
	return nil
}

func (s *HNSWStore) Search(ctx context.Context, collection string, query []float32, k int) ([]model.SimilarityResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, errClosed
	}
	if len(query) != s.cfg.Dimensions {
		return nil, ErrDimensionMismatch{Expected: s.cfg.Dimensions, Got: len(query)}
	}
	if s.graph.Len() == 0 || k <= 0 {
		return []model.SimilarityResult{}, nil
	}

	q := make([]float32, len(query))
	copy(q, query)
	if s.cfg.Metric == "cos" {
		normalizeInPlace(q)
	}

	filterByCollection := collection != "" && collection != model.DefaultCollectionSentinel

	// Overcommit k when a collection filter is in play, since the graph is
	// shared across all collections and a naive top-k search may return
	// zero matches for the requested collection.
	kPrime := k
	if filterByCollection {
		kPrime = k * s.cfg.OvercommitMult
		if kPrime > s.cfg.MaxOvercommit {
			kPrime = s.cfg.MaxOvercommit
		}
	}

	nodes := s.graph.Search(q, kPrime)
	results := make([]model.SimilarityResult, 0, k)
	for _, node := range nodes {
		id, ok := s.keyMap[node.Key]
		if !ok {
			continue
		}
		md := s.meta[id]
		if filterByCollection && md.CollectionOrDefault() != collection {
			continue
		}
		dist := s.graph.Distance(q, node.Value)
		results = append(results, model.SimilarityResult{
			DocumentID: id,
			Similarity: distanceToSimilarity(dist, s.cfg.Metric),
			Metadata:   md,
		})
		if len(results) >= k {
			break
		}
	}
	return results, nil
}

func (s *HNSWStore) Delete(ctx context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errClosed
	}
	for _, id := range ids {
		if key, ok := s.idMap[id]; ok {
			delete(s.keyMap, key)
			delete(s.idMap, id)
			delete(s.meta, id)
		}
	}
	return nil
}

func (s *HNSWStore) Get(id string) (model.VectorMetadata, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	md, ok := s.meta[id]
	return md, ok
}

func (s *HNSWStore) Count(collection string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if collection == "" {
		return len(s.idMap)
	}
	n := 0
	for id := range s.idMap {
		if s.meta[id].CollectionOrDefault() == collection {
			n++
		}
	}
	return n
}

func (s *HNSWStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.graph = nil
	return nil
}

func normalizeInPlace(v []float32) {
	var sumSquares float64
	for _, x := range v {
		sumSquares += float64(x) * float64(x)
	}
	if sumSquares == 0 {
		return
	}
	inv := float32(1.0 / math.Sqrt(sumSquares))
	for i := range v {
		v[i] *= inv
	}
}

// distanceToSimilarity maps a graph distance to a [0,1] similarity score.
func distanceToSimilarity(distance float32, metric string) float32 {
	switch metric {
	case "l2":
		return 1.0 / (1.0 + distance)
	default:
		return 1.0 - distance/2.0
	}
}
