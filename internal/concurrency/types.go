// Package concurrency implements the read/write permit discipline of
// spec.md §4.12 / §5: two independent semaphore.Weighted pools (read
// permits for search, write permits for indexing) so that indexing never
// blocks search even under write-permit saturation, plus a lock-free
// registry of in-flight operations for introspection.
package concurrency

import "time"

// Kind distinguishes the two permit pools.
type Kind string

const (
	KindRead  Kind = "read"
	KindWrite Kind = "write"
)

// DefaultReadPermits and DefaultWritePermits match spec.md §4.12's
// defaults: a large read pool (search) and a small write pool (indexing).
const (
	DefaultReadPermits  = 100
	DefaultWritePermits = 10
)

// Operation describes one active permit holder, exposed for status/health
// reporting.
type Operation struct {
	ID        string
	Kind      Kind
	Label     string
	StartedAt time.Time
}
