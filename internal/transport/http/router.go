// Package http implements the REST transport of spec.md §6 as a thin
// adapter over internal/container: request decoding, response encoding,
// and ServiceError-to-status mapping. It holds no pipeline logic of its
// own — every handler delegates straight into the container's Search,
// Indexer, Collections and Vectors components.
package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/doylet/docsearch/internal/container"
)

// api bundles the container and the logger every handler closes over.
type api struct {
	c   *container.Container
	log *slog.Logger
}

// NewRouter builds the chi router exposing every endpoint in spec.md §6.
func NewRouter(c *container.Container) *chi.Mux {
	a := &api{c: c, log: c.Logger}

	r := chi.NewRouter()
	r.Use(securityHeaders)
	r.Use(requestLogging(a.log))

	r.Get("/health", a.handleHealthLive)
	r.Get("/health/live", a.handleHealthLive)
	r.Get("/health/ready", a.handleHealthReady)

	r.Route("/api", func(r chi.Router) {
		r.Post("/search", a.handleSearch)
		r.Post("/index", a.handleIndex)
		r.Post("/reindex", a.handleReindex)
		r.Get("/status", a.handleStatus)

		r.Get("/collections", a.handleListCollections)
		r.Post("/collections", a.handleCreateCollection)
		r.Get("/collections/{name}", a.handleGetCollection)
		r.Delete("/collections/{name}", a.handleDeleteCollection)
		r.Get("/collections/{name}/stats", a.handleCollectionStats)

		r.Get("/documents", a.handleListDocuments)
		r.Post("/documents", a.handleCreateDocument)
		r.Get("/documents/{id}", a.handleGetDocument)
		r.Delete("/documents/{id}", a.handleDeleteDocument)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, notFoundRoute())
	})

	return r
}
