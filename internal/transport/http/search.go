package http

import (
	"encoding/json"
	"net/http"
	"time"

	svcerrors "github.com/doylet/docsearch/internal/errors"
	"github.com/doylet/docsearch/internal/model"
	"github.com/doylet/docsearch/internal/search"
)

// searchFilters mirrors the canonical "filters" object of spec.md §6.
type searchFilters struct {
	CollectionName string   `json:"collection_name,omitempty"`
	DocumentTypes  []string `json:"document_types,omitempty"`
	Tags           []string `json:"tags,omitempty"`
	MinimumScore   float32  `json:"minimum_score,omitempty"`
}

type searchOptionsJSON struct {
	IncludeSnippets        bool  `json:"include_snippets"`
	SnippetLength          int   `json:"snippet_length"`
	EnableQueryEnhancement *bool `json:"enable_query_enhancement,omitempty"`
}

type searchRequest struct {
	Query   string            `json:"query"`
	Limit   int               `json:"limit"`
	Offset  int               `json:"offset"`
	Filters searchFilters     `json:"filters"`
	Options searchOptionsJSON `json:"options"`
}

type scoreBreakdownJSON struct {
	BM25Raw          *float32 `json:"bm25_raw,omitempty"`
	VectorRaw        *float32 `json:"vector_raw,omitempty"`
	BM25Normalized   *float32 `json:"bm25_normalized,omitempty"`
	VectorNormalized *float32 `json:"vector_normalized,omitempty"`
	Fused            float32  `json:"fused"`
}

type searchResultJSON struct {
	DocID       string             `json:"doc_id"`
	URI         string             `json:"uri"`
	Title       string             `json:"title"`
	Content     string             `json:"content,omitempty"`
	Snippet     string             `json:"snippet,omitempty"`
	HeadingPath []string           `json:"heading_path,omitempty"`
	Scores      scoreBreakdownJSON `json:"scores"`
	FromBM25    bool               `json:"from_bm25"`
	FromVector  bool               `json:"from_vector"`
}

type searchMetadata struct {
	Query                   string   `json:"query"`
	ExecutionTimeMs         int64    `json:"execution_time_ms"`
	QueryEnhancementApplied bool     `json:"query_enhancement_applied"`
	RankingMethod           string   `json:"ranking_method"`
	ResultSources           []string `json:"result_sources"`
}

type searchResponse struct {
	Results        []searchResultJSON `json:"results"`
	TotalCount     int                `json:"total_count"`
	SearchMetadata searchMetadata     `json:"search_metadata"`
}

func (a *api) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, svcerrors.Validation("body", "malformed JSON request body"))
		return
	}
	if req.Query == "" {
		writeError(w, svcerrors.Validation("query", "query must not be empty"))
		return
	}

	permit, err := a.c.Coordinator.AcquireRead(r.Context(), "search")
	if err != nil {
		writeError(w, err)
		return
	}
	defer permit.Release()

	opts := search.Options{
		Collection: req.Filters.CollectionName,
		Limit:      req.Limit,
		Offset:     req.Offset,
	}
	// The wire contract exposes one enhancement switch; expansion rides
	// along with it since enhancement alone is a no-op without variants.
	if req.Options.EnableQueryEnhancement != nil && !*req.Options.EnableQueryEnhancement {
		opts.DisableExpansion = true
	}

	start := time.Now()
	results, err := a.c.Search.Search(r.Context(), req.Query, opts)
	elapsed := time.Since(start)
	if err != nil {
		a.c.Metrics.RecordSearch(req.Filters.CollectionName, "error", elapsed, 0)
		writeError(w, err)
		return
	}
	a.c.Metrics.RecordSearch(req.Filters.CollectionName, "ok", elapsed, len(results))

	filtered := applyPostFilters(results, req.Filters)

	resp := searchResponse{
		Results:    toSearchResultsJSON(filtered),
		TotalCount: len(filtered),
		SearchMetadata: searchMetadata{
			Query:           req.Query,
			ExecutionTimeMs: elapsed.Milliseconds(),
			RankingMethod:   "hybrid_rrf_weighted",
			ResultSources:   resultSources(filtered),
		},
	}
	writeJSON(w, http.StatusOK, resp)
}

func applyPostFilters(results []model.SearchResult, f searchFilters) []model.SearchResult {
	if f.MinimumScore <= 0 {
		return results
	}
	out := make([]model.SearchResult, 0, len(results))
	for _, r := range results {
		if r.Scores.Fused >= f.MinimumScore {
			out = append(out, r)
		}
	}
	return out
}

func toSearchResultsJSON(results []model.SearchResult) []searchResultJSON {
	out := make([]searchResultJSON, len(results))
	for i, r := range results {
		out[i] = searchResultJSON{
			DocID:       r.DocID.ToIndexKey(),
			URI:         r.URI,
			Title:       r.Title,
			Content:     r.Content,
			Snippet:     r.Snippet,
			HeadingPath: r.HeadingPath,
			Scores: scoreBreakdownJSON{
				BM25Raw:          r.Scores.BM25Raw,
				VectorRaw:        r.Scores.VectorRaw,
				BM25Normalized:   r.Scores.BM25Normalized,
				VectorNormalized: r.Scores.VectorNormalized,
				Fused:            r.Scores.Fused,
			},
			FromBM25:   r.FromSignals.BM25,
			FromVector: r.FromSignals.Vector,
		}
	}
	return out
}

func resultSources(results []model.SearchResult) []string {
	seenBM25, seenVector := false, false
	for _, r := range results {
		seenBM25 = seenBM25 || r.FromSignals.BM25
		seenVector = seenVector || r.FromSignals.Vector
	}
	var sources []string
	if seenBM25 {
		sources = append(sources, "bm25")
	}
	if seenVector {
		sources = append(sources, "vector")
	}
	return sources
}
