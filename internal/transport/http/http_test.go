package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/doylet/docsearch/internal/config"
	"github.com/doylet/docsearch/internal/container"
)

func newTestRouter(t *testing.T) *api {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Storage.DataDir = dir
	cfg.Storage.CollectionDBPath = filepath.Join(dir, "collections.db")

	c, err := container.Build(cfg)
	if err != nil {
		t.Fatalf("container.Build: %v", err)
	}
	t.Cleanup(func() { c.Close() })

	return &api{c: c, log: c.Logger}
}

func doJSON(t *testing.T, a *api, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rr := httptest.NewRecorder()
	NewRouter(a.c).ServeHTTP(rr, req)
	return rr
}

func TestHealthEndpoints_ReportOK(t *testing.T) {
	a := newTestRouter(t)

	for _, path := range []string{"/health", "/health/live", "/health/ready"} {
		rr := doJSON(t, a, http.MethodGet, path, nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rr.Code)
		}
	}
}

func TestCollectionLifecycle_CreateListGetDelete(t *testing.T) {
	a := newTestRouter(t)

	rr := doJSON(t, a, http.MethodPost, "/api/collections", createCollectionRequest{Name: "docs"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, a, http.MethodGet, "/api/collections", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", rr.Code)
	}

	rr = doJSON(t, a, http.MethodGet, "/api/collections/docs", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", rr.Code)
	}

	rr = doJSON(t, a, http.MethodDelete, "/api/collections/docs", nil)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", rr.Code)
	}

	rr = doJSON(t, a, http.MethodGet, "/api/collections/docs", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("get after delete: expected 404, got %d", rr.Code)
	}
}

func TestCreateCollection_RejectsInvalidName(t *testing.T) {
	a := newTestRouter(t)
	rr := doJSON(t, a, http.MethodPost, "/api/collections", createCollectionRequest{Name: "not a valid name!"})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestCreateDocumentAndSearch_RoundTrips(t *testing.T) {
	a := newTestRouter(t)

	createDoc := createDocumentRequest{
		Collection:  "docs",
		ExternalID:  "gopher-notes",
		ContentType: "text/markdown",
		Content:     "# Gophers\n\nGophers burrow underground and build extensive tunnel networks across the field.",
	}
	rr := doJSON(t, a, http.MethodPost, "/api/documents", createDoc)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create document: expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var created createDocumentResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if created.ChunksIndexed == 0 {
		t.Fatal("expected at least one chunk indexed")
	}

	rr = doJSON(t, a, http.MethodPost, "/api/search", searchRequest{
		Query:   "gopher burrow tunnel",
		Filters: searchFilters{CollectionName: "docs"},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("search: expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp searchResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode search response: %v", err)
	}
	if len(resp.Results) == 0 {
		t.Fatal("expected at least one search result")
	}
}

func TestSearch_RejectsEmptyQuery(t *testing.T) {
	a := newTestRouter(t)
	rr := doJSON(t, a, http.MethodPost, "/api/search", searchRequest{Query: ""})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestHandleIndex_RejectsInvalidCollectionName(t *testing.T) {
	a := newTestRouter(t)
	rr := doJSON(t, a, http.MethodPost, "/api/index", indexRequest{Path: "/tmp", Collection: "bad name"})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestHandleStatus_ReportsCollectionCount(t *testing.T) {
	a := newTestRouter(t)
	doJSON(t, a, http.MethodPost, "/api/collections", createCollectionRequest{Name: "docs"})

	rr := doJSON(t, a, http.MethodGet, "/api/status", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var resp statusResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.CollectionCount != 1 {
		t.Fatalf("expected 1 collection, got %d", resp.CollectionCount)
	}
}
