package health

import (
	"sync"
	"time"
)

// IndexingStatus is the overall lifecycle state of an indexing run.
type IndexingStatus string

const (
	StatusIndexing IndexingStatus = "indexing"
	StatusReady    IndexingStatus = "ready"
	StatusError    IndexingStatus = "error"
)

// IndexingStage is the current stage within an indexing run, mirroring
// spec.md §4.1's pipeline ordering (detect -> chunk -> embed -> upsert).
type IndexingStage string

const (
	StageScanning  IndexingStage = "scanning"
	StageDetecting IndexingStage = "detecting"
	StageChunking  IndexingStage = "chunking"
	StageEmbedding IndexingStage = "embedding"
	StageUpserting IndexingStage = "upserting"
)

// IndexProgressSnapshot is an immutable, JSON-serializable view of
// indexing progress for /api/status.
type IndexProgressSnapshot struct {
	Collection     string  `json:"collection"`
	Status         string  `json:"status"`
	Stage          string  `json:"stage"`
	FilesTotal     int     `json:"files_total"`
	FilesProcessed int     `json:"files_processed"`
	FilesFailed    int     `json:"files_failed"`
	ChunksTotal    int     `json:"chunks_total"`
	ChunksIndexed  int     `json:"chunks_indexed"`
	ProgressPct    float64 `json:"progress_pct"`
	ElapsedSeconds int     `json:"elapsed_seconds"`
	ErrorMessage   string  `json:"error_message,omitempty"`
}

// IndexProgress provides thread-safe tracking of one collection's
// in-flight indexing run.
type IndexProgress struct {
	mu sync.RWMutex

	collection     string
	status         IndexingStatus
	stage          IndexingStage
	filesTotal     int
	filesProcessed int
	filesFailed    int
	chunksTotal    int
	chunksIndexed  int
	startTime      time.Time
	errorMessage   string
}

// NewIndexProgress creates a tracker for collection, starting in the
// scanning stage.
func NewIndexProgress(collection string) *IndexProgress {
	return &IndexProgress{
		collection: collection,
		status:     StatusIndexing,
		stage:      StageScanning,
		startTime:  time.Now(),
	}
}

// SetStage advances the stage and resets the file total for that stage.
func (p *IndexProgress) SetStage(stage IndexingStage, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stage = stage
	p.filesTotal = total
}

func (p *IndexProgress) UpdateFiles(processed, failed int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.filesProcessed = processed
	p.filesFailed = failed
}

func (p *IndexProgress) SetChunksTotal(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.chunksTotal = total
}

func (p *IndexProgress) UpdateChunks(indexed int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.chunksIndexed = indexed
}

// SetError marks the run failed; a failed file is counted and the walk
// continues per spec.md §5's timeout/failure policy, so SetError is for
// fatal, run-aborting failures only.
func (p *IndexProgress) SetError(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.status = StatusError
	p.errorMessage = message
}

func (p *IndexProgress) SetReady() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.status = StatusReady
}

func (p *IndexProgress) IsIndexing() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.status == StatusIndexing
}

func (p *IndexProgress) Snapshot() IndexProgressSnapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var pct float64
	if p.filesTotal > 0 {
		pct = float64(p.filesProcessed) / float64(p.filesTotal) * 100.0
	}

	return IndexProgressSnapshot{
		Collection:     p.collection,
		Status:         string(p.status),
		Stage:          string(p.stage),
		FilesTotal:     p.filesTotal,
		FilesProcessed: p.filesProcessed,
		FilesFailed:    p.filesFailed,
		ChunksTotal:    p.chunksTotal,
		ChunksIndexed:  p.chunksIndexed,
		ProgressPct:    pct,
		ElapsedSeconds: int(time.Since(p.startTime).Seconds()),
		ErrorMessage:   p.errorMessage,
	}
}

// Tracker is a registry of in-flight IndexProgress trackers keyed by
// collection, so /api/status can report every active indexing run.
type Tracker struct {
	mu    sync.RWMutex
	byKey map[string]*IndexProgress
}

func NewTracker() *Tracker {
	return &Tracker{byKey: make(map[string]*IndexProgress)}
}

// Start registers and returns a new IndexProgress for collection,
// replacing any prior completed entry.
func (t *Tracker) Start(collection string) *IndexProgress {
	p := NewIndexProgress(collection)
	t.mu.Lock()
	t.byKey[collection] = p
	t.mu.Unlock()
	return p
}

func (t *Tracker) Get(collection string) (*IndexProgress, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	p, ok := t.byKey[collection]
	return p, ok
}

// Snapshots returns a snapshot of every tracked run.
func (t *Tracker) Snapshots() []IndexProgressSnapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]IndexProgressSnapshot, 0, len(t.byKey))
	for _, p := range t.byKey {
		out = append(out, p.Snapshot())
	}
	return out
}
