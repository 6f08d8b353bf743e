// Package bm25 implements the Okapi BM25 lexical index (spec.md §4.5):
// bleve's analysis types provide tokenization (tokenizer.go); the TF/IDF
// scoring below is implemented directly rather than delegated to bleve's
// own relevance model, per SPEC_FULL.md §3.7.
package bm25

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"
)

// Config holds the Okapi BM25 tuning parameters.
type Config struct {
	K1             float64
	B              float64
	MinTokenLength int
}

// DefaultConfig matches the teacher's BM25 defaults.
func DefaultConfig() Config {
	return Config{K1: 1.2, B: 0.75, MinTokenLength: 2}
}

// Result is a single scored document.
type Result struct {
	DocID        string
	Score        float64
	MatchedTerms []string
}

// Stats summarizes index size for health/status reporting.
type Stats struct {
	DocumentCount int
	TermCount     int
	AvgDocLength  float64
}

// Index is an in-memory Okapi BM25 inverted index, safe for concurrent use.
type Index struct {
	mu  sync.RWMutex
	cfg Config

	postings  map[string]map[string]int // term -> docID -> term frequency
	docLength map[string]int            // docID -> token count
	docTerms  map[string]map[string]int // docID -> term -> frequency (for deletion bookkeeping)
	totalLen  int
	closed    bool
}

// New builds an empty Index.
func New(cfg Config) *Index {
	return &Index{
		cfg:       cfg,
		postings:  make(map[string]map[string]int),
		docLength: make(map[string]int),
		docTerms:  make(map[string]map[string]int),
	}
}

// Document is a single unit of lexical content to index.
type Document struct {
	ID      string
	Content string
}

// Index adds or replaces documents in the index.
func (idx *Index) Index(ctx context.Context, docs []Document) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if idx.closed {
		return errClosed
	}

	for _, d := range docs {
		idx.removeLocked(d.ID)

		terms := Terms(d.Content)
		freqs := make(map[string]int, len(terms))
		for _, t := range terms {
			if len(t) < idx.cfg.MinTokenLength {
				continue
			}
			freqs[t]++
		}

		idx.docTerms[d.ID] = freqs
		idx.docLength[d.ID] = len(terms)
		idx.totalLen += len(terms)

		for term, f := range freqs {
			bucket, ok := idx.postings[term]
			if !ok {
				bucket = make(map[string]int)
				idx.postings[term] = bucket
			}
			bucket[d.ID] = f
		}
	}
	return nil
}

// Search scores all documents against query using Okapi BM25 and returns
// the top `limit` results, sorted by descending score (ties by DocID).
func (idx *Index) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if idx.closed {
		return nil, errClosed
	}
	if strings.TrimSpace(query) == "" || limit <= 0 {
		return []Result{}, nil
	}

	queryTerms := uniqueTerms(Terms(query))
	n := len(idx.docLength)
	if n == 0 {
		return []Result{}, nil
	}
	avgDocLen := float64(idx.totalLen) / float64(n)
	if avgDocLen == 0 {
		avgDocLen = 1
	}

	scores := make(map[string]float64)
	matched := make(map[string]map[string]struct{})

	for _, term := range queryTerms {
		bucket, ok := idx.postings[term]
		if !ok {
			continue
		}
		idf := idfWeight(n, len(bucket))
		for docID, freq := range bucket {
			docLen := float64(idx.docLength[docID])
			denom := float64(freq) + idx.cfg.K1*(1-idx.cfg.B+idx.cfg.B*docLen/avgDocLen)
			scores[docID] += idf * (float64(freq) * (idx.cfg.K1 + 1)) / denom

			if matched[docID] == nil {
				matched[docID] = make(map[string]struct{})
			}
			matched[docID][term] = struct{}{}
		}
	}

	results := make([]Result, 0, len(scores))
	for docID, score := range scores {
		terms := make([]string, 0, len(matched[docID]))
		for t := range matched[docID] {
			terms = append(terms, t)
		}
		sort.Strings(terms)
		results = append(results, Result{DocID: docID, Score: score, MatchedTerms: terms})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].DocID < results[j].DocID
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// Delete removes documents from the index.
func (idx *Index) Delete(ctx context.Context, docIDs []string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if idx.closed {
		return errClosed
	}
	for _, id := range docIDs {
		idx.removeLocked(id)
	}
	return nil
}

// removeLocked unindexes docID's existing postings. Caller must hold mu.
func (idx *Index) removeLocked(docID string) {
	freqs, ok := idx.docTerms[docID]
	if !ok {
		return
	}
	for term := range freqs {
		bucket := idx.postings[term]
		delete(bucket, docID)
		if len(bucket) == 0 {
			delete(idx.postings, term)
		}
	}
	idx.totalLen -= idx.docLength[docID]
	delete(idx.docTerms, docID)
	delete(idx.docLength, docID)
}

// AllIDs returns every indexed document ID.
func (idx *Index) AllIDs() []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	ids := make([]string, 0, len(idx.docLength))
	for id := range idx.docLength {
		ids = append(ids, id)
	}
	return ids
}

// Stats reports index size for health/status endpoints.
func (idx *Index) Stats() Stats {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	avg := 0.0
	if len(idx.docLength) > 0 {
		avg = float64(idx.totalLen) / float64(len(idx.docLength))
	}
	return Stats{
		DocumentCount: len(idx.docLength),
		TermCount:     len(idx.postings),
		AvgDocLength:  avg,
	}
}

// Close marks the index unusable; safe to call multiple times.
func (idx *Index) Close() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.closed = true
	return nil
}

// idfWeight is the standard Robertson-Sparck Jones IDF with +1 smoothing
// to keep the weight non-negative for terms appearing in most documents.
func idfWeight(n, docFreq int) float64 {
	return math.Log(1 + (float64(n)-float64(docFreq)+0.5)/(float64(docFreq)+0.5))
}

func uniqueTerms(terms []string) []string {
	seen := make(map[string]struct{}, len(terms))
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if _, ok := seen[t]; !ok {
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}
