package indexer

import (
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	svcerrors "github.com/doylet/docsearch/internal/errors"
)

// batchLock guards against two indexing batches running concurrently
// against the same collection on one host, the same gofrs/flock pattern
// internal/config uses for config writes.
type batchLock struct {
	fl *flock.Flock
}

// acquireBatchLock takes a non-blocking exclusive lock on a
// collection-scoped lock file under dir. Returns an error if another
// batch already holds it.
func acquireBatchLock(dir, collection string) (*batchLock, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, svcerrors.Configuration("create index lock directory", err)
	}
	path := filepath.Join(dir, collection+".lock")
	fl := flock.New(path)

	locked, err := fl.TryLock()
	if err != nil {
		return nil, svcerrors.Internal("acquire index batch lock", err)
	}
	if !locked {
		return nil, svcerrors.Validation("collection", "an indexing batch is already running for "+collection)
	}
	return &batchLock{fl: fl}, nil
}

func (l *batchLock) Release() {
	_ = l.fl.Unlock()
}
