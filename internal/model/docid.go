// Package model holds the stable value types shared across the indexing
// and search engines: document identity, scores, queries, chunks, and
// search results.
package model

import (
	"fmt"
	"strconv"
	"strings"
)

// DocId is a stable triple identifying a document revision. It serializes
// as "collection:external_id:version" and is ordered lexicographically.
type DocId struct {
	Collection string
	ExternalID string
	Version    uint64
}

// NewDocId builds a DocId from its three parts.
func NewDocId(collection, externalID string, version uint64) DocId {
	return DocId{Collection: collection, ExternalID: externalID, Version: version}
}

// ToIndexKey renders the stable string form used as a map/cache key.
func (d DocId) ToIndexKey() string {
	return fmt.Sprintf("%s:%s:%d", d.Collection, d.ExternalID, d.Version)
}

// String implements fmt.Stringer as the index key form.
func (d DocId) String() string {
	return d.ToIndexKey()
}

// FromIndexKey parses the "collection:external_id:version" form produced by
// ToIndexKey. The collection ends at the first colon and the version starts
// after the last, so an external ID may itself contain colons. Returns
// false if the key is malformed.
func FromIndexKey(key string) (DocId, bool) {
	first := strings.Index(key, ":")
	last := strings.LastIndex(key, ":")
	if first < 0 || first == last {
		return DocId{}, false
	}
	version, err := strconv.ParseUint(key[last+1:], 10, 64)
	if err != nil {
		return DocId{}, false
	}
	return DocId{Collection: key[:first], ExternalID: key[first+1 : last], Version: version}, true
}

// BaseID drops the version, used to correlate revisions of one document
// during dedup across versions.
func (d DocId) BaseID() string {
	return fmt.Sprintf("%s:%s", d.Collection, d.ExternalID)
}

// Less provides the total order used for stable ranking tie-breaks.
func (d DocId) Less(other DocId) bool {
	return d.ToIndexKey() < other.ToIndexKey()
}

// Compare returns -1, 0, or 1 the way sort.Interface-adjacent code expects.
func (d DocId) Compare(other DocId) int {
	switch {
	case d.ToIndexKey() < other.ToIndexKey():
		return -1
	case d.ToIndexKey() > other.ToIndexKey():
		return 1
	default:
		return 0
	}
}
