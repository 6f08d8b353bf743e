package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// fingerprint hashes its parts into a short, stable hex key. Each layer's
// key shape in spec.md §4.10 is a tuple; joining with a separator byte
// that can't appear in any part (0x1f, unit separator) keeps the tuple
// collision-free without needing a structured encoding.
func fingerprint(parts ...string) string {
	h := sha256.New()
	for i, p := range parts {
		if i > 0 {
			h.Write([]byte{0x1f})
		}
		h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// QueryKey builds the Query-layer key: (effective_query, limit, offset,
// filter_fingerprint).
func QueryKey(effectiveQuery string, limit, offset int, filterFingerprint string) string {
	return fingerprint(effectiveQuery, fmt.Sprint(limit), fmt.Sprint(offset), filterFingerprint)
}

// EmbeddingKey builds the Embedding-layer key: hash(text) scoped by model,
// so switching embedding models can't return a vector from the wrong
// dimensionality/space.
func EmbeddingKey(model, text string) string {
	return fingerprint(model, text)
}

// BM25Key builds the BM25-layer key: (collection, query_terms, k).
func BM25Key(collection string, terms []string, k int) string {
	sorted := append([]string(nil), terms...)
	sort.Strings(sorted)
	return fingerprint(collection, strings.Join(sorted, ","), fmt.Sprint(k))
}

// FusionKey builds the Fusion-layer key: (per-variant result-set
// fingerprints, weights, method).
func FusionKey(resultSetFingerprints []string, weights string, method string) string {
	sorted := append([]string(nil), resultSetFingerprints...)
	sort.Strings(sorted)
	return fingerprint(strings.Join(sorted, ","), weights, method)
}
