package indexer

import (
	"hash/fnv"
	"strconv"
)

// stablePathHash derives DocId.ExternalID from a collection-relative path:
// stable across re-walks of the same tree, same hash family the embed
// package already uses for its static-vector fallback (internal/embed's
// fnv.New64 over text).
func stablePathHash(relPath string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(relPath))
	return strconv.FormatUint(h.Sum64(), 16)
}

// contentVersion derives DocId.Version from file content: two reads of
// unchanged content hash identically, so an unmodified file is skipped
// under Options.Force == false (spec.md §4.11).
func contentVersion(data []byte) uint64 {
	h := fnv.New64a()
	_, _ = h.Write(data)
	return h.Sum64()
}
