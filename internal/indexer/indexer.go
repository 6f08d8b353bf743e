package indexer

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/doylet/docsearch/internal/bm25"
	"github.com/doylet/docsearch/internal/chunk"
	"github.com/doylet/docsearch/internal/collection"
	"github.com/doylet/docsearch/internal/concurrency"
	"github.com/doylet/docsearch/internal/content"
	"github.com/doylet/docsearch/internal/embed"
	svcerrors "github.com/doylet/docsearch/internal/errors"
	"github.com/doylet/docsearch/internal/health"
	"github.com/doylet/docsearch/internal/model"
	"github.com/doylet/docsearch/internal/vectorstore"
)

// Indexer runs the per-collection indexing pipeline (spec.md §4.11): walk
// → dispatch → chunk → embed → upsert into the vector repo, BM25 index
// and chunk store, reporting progress and metrics as it goes.
type Indexer struct {
	content     *content.Registry
	embedder    embed.Generator
	vectors     vectorstore.Store
	lexical     *bm25.Index
	collections *collection.Store
	coordinator *concurrency.Coordinator
	metrics     *health.MetricsCollector
	progress    *health.Tracker
	log         *slog.Logger
}

// New builds an Indexer from its wired dependencies. Any of metrics/
// progress/log may be nil; the indexer degrades to not reporting through
// that channel.
func New(
	contentRegistry *content.Registry,
	embedder embed.Generator,
	vectors vectorstore.Store,
	lexical *bm25.Index,
	collections *collection.Store,
	coordinator *concurrency.Coordinator,
	metrics *health.MetricsCollector,
	progress *health.Tracker,
	log *slog.Logger,
) *Indexer {
	if log == nil {
		log = slog.Default()
	}
	return &Indexer{
		content:     contentRegistry,
		embedder:    embedder,
		vectors:     vectors,
		lexical:     lexical,
		collections: collections,
		coordinator: coordinator,
		metrics:     metrics,
		progress:    progress,
		log:         log,
	}
}

// Result summarizes one completed batch.
type Result struct {
	FilesSeen     int
	FilesIndexed  int
	FilesSkipped  int
	FilesFailed   int
	ChunksIndexed int
	Duration      time.Duration
}

// IndexCollection runs one indexing batch over root for collection name.
// It acquires exactly one write permit for the batch's lifetime (spec.md
// §4.12) and a host-local lock file so two batches never race the same
// collection (SPEC_FULL.md §3.6).
func (ix *Indexer) IndexCollection(ctx context.Context, name, root string, opts Options) (Result, error) {
	opts = opts.withDefaults()
	start := time.Now()

	lock, err := acquireBatchLock(opts.LockDir, name)
	if err != nil {
		return Result{}, err
	}
	defer lock.Release()

	permit, err := ix.coordinator.AcquireWrite(ctx, "index:"+name)
	if err != nil {
		return Result{}, err
	}
	defer permit.Release()

	col, found, err := ix.collections.Get(ctx, name)
	if err != nil {
		return Result{}, err
	}
	if !found {
		return Result{}, svcerrors.NotFound("collection", name)
	}
	if !col.CanTransitionTo(model.CollectionIndexing) {
		return Result{}, svcerrors.Validation("collection", "collection "+name+" is in a terminal error state")
	}
	if err := ix.collections.SetStatus(ctx, name, model.CollectionIndexing); err != nil {
		return Result{}, err
	}

	var tracker *health.IndexProgress
	if ix.progress != nil {
		tracker = ix.progress.Start(name)
		tracker.SetStage(health.StageScanning, 0)
	}

	chunker, err := chunk.New(opts.Chunk)
	if err != nil {
		ix.failBatch(ctx, name, tracker, err)
		return Result{}, err
	}

	files, err := Walk(root, NewFilter(opts.Filter), opts.Recursive)
	if err != nil {
		ix.failBatch(ctx, name, tracker, err)
		return Result{}, svcerrors.ExternalService("filesystem", "walk "+root, err, false)
	}

	existing, err := ix.collections.LoadChunks(ctx, name)
	if err != nil {
		ix.failBatch(ctx, name, tracker, err)
		return Result{}, err
	}
	knownVersions := existingVersionsByBaseID(existing)

	if tracker != nil {
		tracker.SetStage(health.StageDetecting, len(files))
	}

	res := Result{FilesSeen: len(files)}
	var pendingChunks []model.Chunk
	var pendingTexts []string
	var pendingDocIDs []string
	var pendingVersions []uint64
	var pendingHeadings [][]string

	flush := func() error {
		if len(pendingTexts) == 0 {
			return nil
		}
		if tracker != nil {
			tracker.SetStage(health.StageEmbedding, 0)
		}
		t0 := time.Now()
		vecs, err := ix.embedder.GenerateBatch(ctx, pendingTexts)
		status := "ok"
		if err != nil {
			status = "error"
		}
		if ix.metrics != nil {
			ix.metrics.RecordEmbedding("batch", status, time.Since(t0))
		}
		if err != nil {
			return svcerrors.ExternalService("embedder", "generate batch", err, embed.IsRetryable(err))
		}

		if tracker != nil {
			tracker.SetStage(health.StageUpserting, 0)
		}
		docs := make([]model.VectorDocument, len(vecs))
		bm25Docs := make([]bm25.Document, len(vecs))
		for i, v := range vecs {
			docID := model.NewDocId(name, pendingDocIDs[i], pendingVersions[i])
			docs[i] = model.VectorDocument{
				ID:        docID.ToIndexKey(),
				Embedding: v,
				Metadata: model.VectorMetadata{
					DocumentID:  docID.ToIndexKey(),
					Content:     pendingTexts[i],
					HeadingPath: pendingHeadings[i],
					Collection:  name,
				},
			}
			bm25Docs[i] = bm25.Document{ID: docID.ToIndexKey(), Content: pendingTexts[i]}
		}
		if err := ix.vectors.Upsert(ctx, docs); err != nil {
			return svcerrors.Internal("vector upsert", err)
		}
		if err := ix.lexical.Index(ctx, bm25Docs); err != nil {
			return svcerrors.Internal("bm25 index", err)
		}
		if err := ix.collections.SaveChunks(ctx, name, pendingChunks); err != nil {
			return svcerrors.Internal("persist chunks", err)
		}
		res.ChunksIndexed += len(docs)
		if ix.metrics != nil {
			ix.metrics.RecordIndexedChunks(len(docs))
		}
		if tracker != nil {
			tracker.UpdateChunks(res.ChunksIndexed)
		}
		pendingChunks = pendingChunks[:0]
		pendingTexts = pendingTexts[:0]
		pendingDocIDs = pendingDocIDs[:0]
		pendingVersions = pendingVersions[:0]
		pendingHeadings = pendingHeadings[:0]
		return nil
	}

	for i, wf := range files {
		select {
		case <-ctx.Done():
			ix.failBatch(ctx, name, tracker, ctx.Err())
			return res, ctx.Err()
		default:
		}

		data, err := os.ReadFile(wf.AbsPath)
		if err != nil {
			res.FilesFailed++
			ix.log.Warn("read file failed", "path", wf.AbsPath, "error", err)
			continue
		}

		baseID := stablePathHash(wf.RelPath)
		version := contentVersion(data)
		if !opts.Force {
			if prev, ok := knownVersions[baseID]; ok && prev == version {
				res.FilesSkipped++
				if tracker != nil {
					tracker.UpdateFiles(i+1, res.FilesFailed)
				}
				continue
			}
		}

		text, _, ok, err := ix.content.Dispatch(wf.RelPath, data)
		if err != nil {
			res.FilesFailed++
			if ix.metrics != nil {
				ix.metrics.RecordIndexError("dispatch")
			}
			ix.log.Warn("dispatch failed", "path", wf.RelPath, "error", err)
			if tracker != nil {
				tracker.UpdateFiles(i+1, res.FilesFailed)
			}
			continue
		}
		if !ok {
			res.FilesSkipped++
			if tracker != nil {
				tracker.UpdateFiles(i+1, res.FilesFailed)
			}
			continue
		}

		versionStr := strconv.FormatUint(version, 10)
		for _, c := range chunker.Chunk(baseID, text) {
			if c.Metadata == nil {
				c.Metadata = make(map[string]string, 1)
			}
			c.Metadata["version"] = versionStr
			pendingChunks = append(pendingChunks, c)
			pendingTexts = append(pendingTexts, c.Content)
			pendingDocIDs = append(pendingDocIDs, baseID)
			pendingVersions = append(pendingVersions, version)
			pendingHeadings = append(pendingHeadings, c.HeadingPath)
		}

		res.FilesIndexed++
		if tracker != nil {
			tracker.UpdateFiles(i+1, res.FilesFailed)
		}

		if len(pendingTexts) >= opts.EmbedBatch {
			if err := flush(); err != nil {
				ix.failBatch(ctx, name, tracker, err)
				return res, err
			}
		}
	}

	if err := flush(); err != nil {
		ix.failBatch(ctx, name, tracker, err)
		return res, err
	}

	if err := ix.collections.AdjustCounters(ctx, name, ix.vectors.Count(name)-col.VectorCount, 0); err != nil {
		ix.failBatch(ctx, name, tracker, err)
		return res, err
	}
	if err := ix.collections.SetStatus(ctx, name, model.CollectionActive); err != nil {
		return res, err
	}

	res.Duration = time.Since(start)
	if ix.metrics != nil {
		ix.metrics.RecordIndexOperation(name, "ok", res.Duration)
		ix.metrics.RecordIndexedFiles(res.FilesIndexed)
	}
	if tracker != nil {
		tracker.SetReady()
	}
	return res, nil
}

func (ix *Indexer) failBatch(ctx context.Context, name string, tracker *health.IndexProgress, cause error) {
	if tracker != nil {
		tracker.SetError(cause.Error())
	}
	if ix.metrics != nil {
		ix.metrics.RecordIndexError("batch")
	}
	// Repository-level failure: abort without rollback, leave partially
	// indexed state intact (spec.md §4.11).
	if err := ix.collections.SetStatus(ctx, name, model.CollectionError); err != nil {
		ix.log.Error("failed to mark collection errored", "collection", name, "error", err)
	}
	ix.log.Error("indexing batch aborted", "collection", name, "error", cause)
}

func existingVersionsByBaseID(chunks []model.Chunk) map[string]uint64 {
	out := make(map[string]uint64, len(chunks))
	for _, c := range chunks {
		if v, ok := c.Metadata["version"]; ok {
			if parsed, err := strconv.ParseUint(v, 10, 64); err == nil {
				out[c.DocumentID] = parsed
			}
		}
	}
	return out
}
