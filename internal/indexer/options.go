package indexer

import "github.com/doylet/docsearch/internal/chunk"

// Options configures one IndexCollection batch (spec.md §4.11).
type Options struct {
	// Force re-upserts every base_id regardless of version comparison.
	Force bool
	// Recursive descends into subdirectories; false walks only root's
	// immediate children (spec.md §6 index request's "recursive" flag).
	Recursive bool
	// Filter controls which files the walk surfaces.
	Filter FilterConfig
	// Chunk parameterizes the chunker; zero value uses chunk.DefaultConfig.
	Chunk chunk.Config
	// EmbedBatch caps how many chunk texts are embedded in one provider
	// call, independent of how many files are read per walk step.
	EmbedBatch int
	// LockDir is the directory batch lock files are written under.
	LockDir string
}

// DefaultOptions returns the zero-configuration batch options.
func DefaultOptions(lockDir string) Options {
	return Options{
		Recursive:  true,
		Filter:     DefaultFilterConfig(),
		Chunk:      chunk.DefaultConfig(),
		EmbedBatch: 100,
		LockDir:    lockDir,
	}
}

func (o Options) withDefaults() Options {
	if o.EmbedBatch <= 0 {
		o.EmbedBatch = 100
	}
	if o.Chunk.MaxChunkSize == 0 {
		o.Chunk = chunk.DefaultConfig()
	}
	if o.LockDir == "" {
		o.LockDir = "."
	}
	return o
}
