package http

import (
	"context"
	"encoding/json"
	"net/http"
	"regexp"

	"github.com/doylet/docsearch/internal/container"
	svcerrors "github.com/doylet/docsearch/internal/errors"
	"github.com/doylet/docsearch/internal/indexer"
)

var collectionNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// indexRequest mirrors spec.md §6's canonical index request.
type indexRequest struct {
	Path                string   `json:"path"`
	Collection          string   `json:"collection"`
	Recursive           *bool    `json:"recursive,omitempty"`
	Force               bool     `json:"force"`
	SafePatterns        []string `json:"safe_patterns,omitempty"`
	IgnorePatterns      []string `json:"ignore_patterns,omitempty"`
	ClearDefaultIgnores bool     `json:"clear_default_ignores"`
	FollowSymlinks      bool     `json:"follow_symlinks"`
	CaseSensitive       bool     `json:"case_sensitive"`
}

type indexAcceptedResponse struct {
	Status     string `json:"status"`
	Collection string `json:"collection"`
}

func (a *api) handleIndex(w http.ResponseWriter, r *http.Request) {
	a.runIndexRequest(w, r, false)
}

func (a *api) handleReindex(w http.ResponseWriter, r *http.Request) {
	a.runIndexRequest(w, r, true)
}

// runIndexRequest decodes and validates an index/reindex request, ensures
// the target collection exists, and kicks off the batch in the
// background — the caller polls /api/collections/{name}/stats or
// /api/status for progress, the same async shape health.Tracker exists
// to serve.
func (a *api) runIndexRequest(w http.ResponseWriter, r *http.Request, forceRebuild bool) {
	var req indexRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, svcerrors.Validation("body", "malformed JSON request body"))
		return
	}
	if req.Path == "" {
		writeError(w, svcerrors.Validation("path", "path is required"))
		return
	}
	if req.Collection == "" || !collectionNamePattern.MatchString(req.Collection) {
		writeError(w, svcerrors.Validation("collection", "collection must match [A-Za-z0-9_-]+"))
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

	opts := indexer.DefaultOptions(container.DefaultLockDir(a.c.Config))
	opts.Force = req.Force || forceRebuild
	opts.Filter.SafePatterns = req.SafePatterns
	opts.Filter.IgnorePatterns = req.IgnorePatterns
	opts.Filter.ClearDefaultIgnores = req.ClearDefaultIgnores
	opts.Filter.FollowSymlinks = req.FollowSymlinks
	opts.Filter.CaseSensitive = req.CaseSensitive
	if req.Recursive != nil {
		opts.Recursive = *req.Recursive
	}

	go func() {
		bg := context.Background()
		if _, err := a.c.Indexer.IndexCollection(bg, req.Collection, req.Path, opts); err != nil {
			a.log.Error("background index batch failed", "collection", req.Collection, "error", err)
		}
	}()

	writeJSON(w, http.StatusAccepted, indexAcceptedResponse{Status: "started", Collection: req.Collection})
}
