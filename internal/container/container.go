// Package container wires the full dependency graph (SPEC_FULL.md §3.16)
// from a single Config: the hybrid search pipeline, the indexer, the
// cache manager, and every engine and repository they depend on. It is
// built once at process startup and torn down once at shutdown.
package container

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	openaisdk "github.com/openai/openai-go/v3"

	"github.com/doylet/docsearch/internal/bm25"
	"github.com/doylet/docsearch/internal/cache"
	"github.com/doylet/docsearch/internal/collection"
	"github.com/doylet/docsearch/internal/concurrency"
	"github.com/doylet/docsearch/internal/config"
	"github.com/doylet/docsearch/internal/content"
	"github.com/doylet/docsearch/internal/embed"
	svcerrors "github.com/doylet/docsearch/internal/errors"
	"github.com/doylet/docsearch/internal/expand"
	"github.com/doylet/docsearch/internal/health"
	"github.com/doylet/docsearch/internal/indexer"
	"github.com/doylet/docsearch/internal/logging"
	"github.com/doylet/docsearch/internal/search"
	"github.com/doylet/docsearch/internal/vectorstore"
)

// Container owns every long-lived component built from Config. Fields
// are exported so the transport layer (internal/transport/http,
// internal/transport/mcp) and cmd/docsearch can reach them directly,
// the same flat-wiring shape the teacher's cmd/amanmcp uses.
type Container struct {
	Config   *config.Config
	Logger   *slog.Logger
	Reporter *svcerrors.Reporter

	Collections *collection.Store
	Vectors     vectorstore.Store
	Lexical     *bm25.Index
	Embedder    embed.Generator
	Cache       *cache.Manager
	Coordinator *concurrency.Coordinator
	Metrics     *health.MetricsCollector
	Progress    *health.Tracker
	Content     *content.Registry

	Search  *search.Pipeline
	Indexer *indexer.Indexer

	closeLog func()
}

// Build wires every component from cfg. Order matters: repositories and
// engines first, the pipelines that depend on them last, mirroring
// spec.md §3.16's dependency DAG (pipeline → {cache, fusion, engines};
// engines → {repository, embedder}).
func Build(cfg *config.Config) (*Container, error) {
	logger, closeLog, err := logging.Setup(logging.Config{
		Level:         cfg.Server.LogLevel,
		WriteToStderr: true,
	})
	if err != nil {
		return nil, svcerrors.Configuration("initialize logging", err)
	}

	reporter, err := svcerrors.InitReporter(cfg.SentryDSN, "production", logger)
	if err != nil {
		closeLog()
		return nil, err
	}

	embedder, err := buildEmbedder(cfg)
	if err != nil {
		closeLog()
		return nil, err
	}

	vectors := vectorstore.New(vectorstore.DefaultConfig(embedder.Dimensions()))
	lexical := bm25.New(bm25.DefaultConfig())

	if err := os.MkdirAll(cfg.Storage.DataDir, 0o755); err != nil {
		closeLog()
		return nil, svcerrors.Configuration("create data directory", err)
	}
	collections, err := collection.Open(cfg.Storage.CollectionDBPath)
	if err != nil {
		closeLog()
		return nil, err
	}

	coordinator := concurrency.New(
		concurrency.WithReadPermits(cfg.Search.ReadPermits),
		concurrency.WithWritePermits(cfg.Indexing.WritePermits),
	)

	metrics := health.NewMetricsCollector("docsearch")
	metrics.SetSystemStartTime(time.Now())
	progress := health.NewTracker()

	cacheBackend, err := buildCacheBackend(cfg)
	if err != nil {
		closeLog()
		return nil, err
	}
	cacheManager := cache.NewManager(cacheBackend, cfg.Cache.TTL)

	contentRegistry := content.NewRegistry()

	expander := expand.NewCompositeExpander(
		expand.NewSynonymExpander(),
		expand.NewMorphologicalExpander(nil),
	)

	pipeline := search.New(lexical, vectors, embedder,
		search.WithCache(cacheManager),
		search.WithExpander(expander),
		search.WithLogger(logger),
	)

	ix := indexer.New(contentRegistry, embedder, vectors, lexical, collections, coordinator, metrics, progress, logger)

	if err := rebuildLexicalIndex(collections, lexical, logger); err != nil {
		closeLog()
		return nil, err
	}

	return &Container{
		Config:      cfg,
		Logger:      logger,
		Reporter:    reporter,
		Collections: collections,
		Vectors:     vectors,
		Lexical:     lexical,
		Embedder:    embedder,
		Cache:       cacheManager,
		Coordinator: coordinator,
		Metrics:     metrics,
		Progress:    progress,
		Content:     contentRegistry,
		Search:      pipeline,
		Indexer:     ix,
		closeLog:    closeLog,
	}, nil
}

// Close closes the cache, vector store, BM25 index and collection store, in
// that order, then the log file, returning the first error encountered.
func (c *Container) Close() error {
	var firstErr error
	if err := c.Cache.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := c.Vectors.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := c.Lexical.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := c.Collections.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if c.closeLog != nil {
		c.closeLog()
	}
	return firstErr
}

func buildEmbedder(cfg *config.Config) (embed.Generator, error) {
	var base embed.Generator
	switch cfg.Embedding.Provider {
	case "openai":
		base = embed.NewOpenAIEmbedder(cfg.Embedding.APIKey, cfg.Embedding.BaseURL, openaisdk.EmbeddingModel(cfg.Embedding.Model), cfg.Embedding.Dimension)
	case "static", "":
		base = embed.NewStaticEmbedder()
	default:
		return nil, svcerrors.Configuration("unknown embedding provider: "+cfg.Embedding.Provider, nil)
	}
	return embed.NewCachedGenerator(base, cfg.Embedding.Model, cfg.Embedding.CacheSize), nil
}

func buildCacheBackend(cfg *config.Config) (cache.Backend, error) {
	switch cfg.Cache.Backend {
	case "redis":
		return cache.NewRedisBackend(cache.RedisConfig{Addr: cfg.Cache.RedisAddr, Prefix: "docsearch:"}), nil
	case "local", "":
		return cache.NewLocalBackend(cfg.Cache.LocalSize)
	default:
		return nil, svcerrors.Configuration("unknown cache backend: "+cfg.Cache.Backend, nil)
	}
}

// rebuildLexicalIndex replays the durable chunk stream into a fresh BM25
// index on startup (Open Question #1's decision: BM25 is never itself
// persisted, the SQLite chunk store is the single source of truth).
func rebuildLexicalIndex(store *collection.Store, lexical *bm25.Index, logger *slog.Logger) error {
	ctx := context.Background()
	cols, err := store.List(ctx)
	if err != nil {
		return err
	}
	for _, col := range cols {
		chunks, err := store.LoadChunks(ctx, col.Name)
		if err != nil {
			return err
		}
		if len(chunks) == 0 {
			continue
		}
		docs := make([]bm25.Document, len(chunks))
		for i, c := range chunks {
			docs[i] = bm25.Document{ID: c.ID, Content: c.Content}
		}
		if err := lexical.Index(ctx, docs); err != nil {
			return err
		}
		logger.Info("rebuilt lexical index from chunk store", "collection", col.Name, "chunks", len(chunks))
	}
	return nil
}

// DefaultLockDir is the directory indexer batch locks are written under,
// scoped beneath the collection store's own data directory.
func DefaultLockDir(cfg *config.Config) string {
	return filepath.Join(cfg.Storage.DataDir, "locks")
}
