package http

import (
	"net/http"

	"github.com/doylet/docsearch/internal/concurrency"
	"github.com/doylet/docsearch/internal/health"
)

type statusResponse struct {
	CollectionCount int                             `json:"collection_count"`
	VectorCount     int                             `json:"vector_count"`
	ActiveReads     int                             `json:"active_reads"`
	ActiveWrites    int                             `json:"active_writes"`
	Indexing        []health.IndexProgressSnapshot `json:"indexing,omitempty"`
}

// handleStatus reports service-wide counters and any in-flight indexing
// runs (spec.md §6 "/api/status").
func (a *api) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cols, err := a.c.Collections.List(ctx)
	if err != nil {
		writeError(w, err)
		return
	}

	totalVectors := 0
	for _, col := range cols {
		totalVectors += col.VectorCount
	}

	resp := statusResponse{
		CollectionCount: len(cols),
		VectorCount:     totalVectors,
		ActiveReads:     a.c.Coordinator.OperationCount(concurrency.KindRead),
		ActiveWrites:    a.c.Coordinator.OperationCount(concurrency.KindWrite),
		Indexing:        a.c.Progress.Snapshots(),
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleHealthLive reports process liveness: the router is serving
// requests, nothing more is checked.
func (a *api) handleHealthLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleHealthReady additionally checks the collection store is reachable,
// the minimum bar for the service to usefully answer requests.
func (a *api) handleHealthReady(w http.ResponseWriter, r *http.Request) {
	if _, err := a.c.Collections.List(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not_ready"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
