package http

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/doylet/docsearch/internal/container"
	svcerrors "github.com/doylet/docsearch/internal/errors"
	"github.com/doylet/docsearch/internal/indexer"
	"github.com/doylet/docsearch/internal/model"
)

type documentJSON struct {
	ID          string   `json:"id"`
	DocumentID  string   `json:"document_id"`
	Collection  string   `json:"collection"`
	ChunkCount  int      `json:"chunk_count"`
	HeadingPath []string `json:"heading_path,omitempty"`
}

// handleListDocuments groups a collection's persisted chunks by document,
// since the collection store only durably tracks chunks, not a separate
// document table (spec.md §3's Chunk/VectorDocument split).
func (a *api) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	collectionName := r.URL.Query().Get("collection")
	if collectionName == "" {
		writeError(w, svcerrors.Validation("collection", "collection query parameter is required"))
		return
	}

	chunks, err := a.c.Collections.LoadChunks(r.Context(), collectionName)
	if err != nil {
		writeError(w, err)
		return
	}

	byDoc := make(map[string]*documentJSON)
	var order []string
	for _, c := range chunks {
		doc, ok := byDoc[c.DocumentID]
		if !ok {
			doc = &documentJSON{
				ID:         model.NewDocId(collectionName, c.DocumentID, 0).BaseID(),
				DocumentID: c.DocumentID,
				Collection: collectionName,
			}
			byDoc[c.DocumentID] = doc
			order = append(order, c.DocumentID)
		}
		doc.ChunkCount++
		if len(doc.HeadingPath) == 0 {
			doc.HeadingPath = c.HeadingPath
		}
	}

	out := make([]*documentJSON, len(order))
	for i, id := range order {
		out[i] = byDoc[id]
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": out})
}

type createDocumentRequest struct {
	Collection  string `json:"collection"`
	ExternalID  string `json:"external_id"`
	ContentType string `json:"content_type"`
	Content     string `json:"content"`
}

type createDocumentResponse struct {
	ID            string `json:"id"`
	Collection    string `json:"collection"`
	ChunksIndexed int    `json:"chunks_indexed"`
}

// handleCreateDocument ingests a single document's content directly,
// bypassing the filesystem walk: the content is staged to a scratch file
// so it flows through the same indexer.IndexCollection pipeline a
// path-based /api/index request uses, rather than duplicating the
// dispatch/chunk/embed/upsert sequence here.
func (a *api) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	var req createDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, svcerrors.Validation("body", "malformed JSON request body"))
		return
	}
	if req.Collection == "" || !collectionNamePattern.MatchString(req.Collection) {
		writeError(w, svcerrors.Validation("collection", "collection must match [A-Za-z0-9_-]+"))
		return
	}
	if req.Content == "" {
		writeError(w, svcerrors.Validation("content", "content must not be empty"))
		return
	}
	if req.ExternalID == "" {
		writeError(w, svcerrors.Validation("external_id", "external_id is required"))
		return
	}

	ctx := r.Context()
	if _, found, err := a.c.Collections.Get(ctx, req.Collection); err != nil {
		writeError(w, err)
		return
	} else if !found {
		if _, err := a.c.Collections.Create(ctx, req.Collection, a.c.Embedder.Dimensions()); err != nil {
			writeError(w, err)
			return
		}
	}

	scratch, err := os.MkdirTemp("", "docsearch-doc-*")
	if err != nil {
		writeError(w, svcerrors.Internal("create scratch directory", err))
		return
	}
	defer os.RemoveAll(scratch)

	filename := sanitizeExternalID(req.ExternalID) + extensionForContentType(req.ContentType)
	if err := os.WriteFile(filepath.Join(scratch, filename), []byte(req.Content), 0o644); err != nil {
		writeError(w, svcerrors.Internal("stage document content", err))
		return
	}

	opts := indexer.DefaultOptions(container.DefaultLockDir(a.c.Config))
	opts.Force = true
	res, err := a.c.Indexer.IndexCollection(ctx, req.Collection, scratch, opts)
	if err != nil {
		writeError(w, err)
		return
	}

	docID := model.NewDocId(req.Collection, filename, 0).BaseID()
	writeJSON(w, http.StatusCreated, createDocumentResponse{
		ID:            docID,
		Collection:    req.Collection,
		ChunksIndexed: res.ChunksIndexed,
	})
}

func (a *api) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	collectionName := r.URL.Query().Get("collection")
	id := chi.URLParam(r, "id")
	if collectionName == "" {
		writeError(w, svcerrors.Validation("collection", "collection query parameter is required"))
		return
	}

	chunks, err := a.c.Collections.LoadChunks(r.Context(), collectionName)
	if err != nil {
		writeError(w, err)
		return
	}

	var matched []model.Chunk
	for _, c := range chunks {
		if c.DocumentID == id {
			matched = append(matched, c)
		}
	}
	if len(matched) == 0 {
		writeError(w, svcerrors.NotFound("document", id))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"document_id": id,
		"collection":  collectionName,
		"chunks":      matched,
	})
}

func (a *api) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	collectionName := r.URL.Query().Get("collection")
	id := chi.URLParam(r, "id")
	if collectionName == "" {
		writeError(w, svcerrors.Validation("collection", "collection query parameter is required"))
		return
	}

	ctx := r.Context()
	if err := a.c.Collections.DeleteChunksByDocument(ctx, collectionName, id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func sanitizeExternalID(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, id)
}

func extensionForContentType(contentType string) string {
	switch contentType {
	case "markdown", "text/markdown":
		return ".md"
	case "html", "text/html":
		return ".html"
	default:
		return ".txt"
	}
}
