package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	svcerrors "github.com/doylet/docsearch/internal/errors"
	"github.com/doylet/docsearch/internal/model"
)

type collectionJSON struct {
	Name            string    `json:"name"`
	VectorCount     int       `json:"vector_count"`
	SizeBytes       int64     `json:"size_bytes"`
	VectorDimension int       `json:"vector_dimension"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	LastModified    time.Time `json:"last_modified"`
}

func toCollectionJSON(c model.Collection) collectionJSON {
	return collectionJSON{
		Name:            c.Name,
		VectorCount:     c.VectorCount,
		SizeBytes:       c.SizeBytes,
		VectorDimension: c.VectorDimension,
		Status:          string(c.Status),
		CreatedAt:       c.CreatedAt,
		LastModified:    c.LastModified,
	}
}

func (a *api) handleListCollections(w http.ResponseWriter, r *http.Request) {
	cols, err := a.c.Collections.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]collectionJSON, len(cols))
	for i, c := range cols {
		out[i] = toCollectionJSON(c)
	}
	writeJSON(w, http.StatusOK, map[string]any{"collections": out})
}

type createCollectionRequest struct {
	Name      string `json:"name"`
	Dimension int    `json:"dimension,omitempty"`
}

func (a *api) handleCreateCollection(w http.ResponseWriter, r *http.Request) {
	var req createCollectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, svcerrors.Validation("body", "malformed JSON request body"))
		return
	}
	if req.Name == "" || !collectionNamePattern.MatchString(req.Name) {
		writeError(w, svcerrors.Validation("name", "name must match [A-Za-z0-9_-]+"))
		return
	}
	dimension := req.Dimension
	if dimension <= 0 {
		dimension = a.c.Embedder.Dimensions()
	}

	col, err := a.c.Collections.Create(r.Context(), req.Name, dimension)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCollectionJSON(col))
}

func (a *api) handleGetCollection(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	col, found, err := a.c.Collections.Get(r.Context(), name)
	if err != nil {
		writeError(w, err)
		return
	}
	if !found {
		writeError(w, svcerrors.NotFound("collection", name))
		return
	}
	writeJSON(w, http.StatusOK, toCollectionJSON(col))
}

// collectionVectorIDs returns the vector/lexical index keys belonging to
// name, recovered from the shared lexical index's global ID space since
// neither store is sharded per collection (spec.md §4.12's single
// registry applies to permits, not to index partitioning).
func (a *api) collectionVectorIDs(name string) []string {
	var ids []string
	for _, id := range a.c.Lexical.AllIDs() {
		if docID, ok := model.FromIndexKey(id); ok && docID.Collection == name {
			ids = append(ids, id)
		}
	}
	return ids
}

func (a *api) handleDeleteCollection(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if _, found, err := a.c.Collections.Get(r.Context(), name); err != nil {
		writeError(w, err)
		return
	} else if !found {
		writeError(w, svcerrors.NotFound("collection", name))
		return
	}

	ctx := r.Context()
	if ids := a.collectionVectorIDs(name); len(ids) > 0 {
		if err := a.c.Vectors.Delete(ctx, ids); err != nil {
			writeError(w, err)
			return
		}
		if err := a.c.Lexical.Delete(ctx, ids); err != nil {
			writeError(w, err)
			return
		}
	}

	if err := a.c.Collections.Delete(ctx, name); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *api) handleCollectionStats(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	col, found, err := a.c.Collections.Get(r.Context(), name)
	if err != nil {
		writeError(w, err)
		return
	}
	if !found {
		writeError(w, svcerrors.NotFound("collection", name))
		return
	}

	resp := map[string]any{
		"name":             col.Name,
		"vector_count":     col.VectorCount,
		"size_bytes":       col.SizeBytes,
		"vector_dimension": col.VectorDimension,
		"status":           string(col.Status),
		"created_at":       col.CreatedAt,
		"last_modified":    col.LastModified,
	}
	if snap, ok := a.c.Progress.Get(name); ok {
		resp["indexing"] = snap.Snapshot()
	}
	writeJSON(w, http.StatusOK, resp)
}
