package mcp

import "github.com/doylet/docsearch/internal/model"

// SearchInput is the input schema for the search tool (spec.md §6's
// canonical search request, flattened for MCP's single-object arguments).
type SearchInput struct {
	Query               string   `json:"query" jsonschema:"the search query to execute"`
	Collection          string   `json:"collection,omitempty" jsonschema:"restrict results to this collection"`
	Limit               int      `json:"limit,omitempty" jsonschema:"maximum number of results, default 10"`
	Offset              int      `json:"offset,omitempty" jsonschema:"result offset for pagination"`
	DocumentTypes       []string `json:"document_types,omitempty" jsonschema:"accepted but not applied: results are not filtered by document type"`
	Tags                []string `json:"tags,omitempty" jsonschema:"accepted but not applied: results are not filtered by tag"`
	MinimumScore        float64  `json:"minimum_score,omitempty" jsonschema:"drop results below this fused score"`
	EnableQueryEnhancement *bool `json:"enable_query_enhancement,omitempty" jsonschema:"set false to search only the literal query, skipping expansion"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results" jsonschema:"ranked search results"`
}

// SearchResultOutput mirrors model.SearchResult, trimmed to what an MCP
// client needs to act on a hit.
type SearchResultOutput struct {
	DocID       string   `json:"doc_id"`
	URI         string   `json:"uri"`
	Title       string   `json:"title,omitempty"`
	Snippet     string   `json:"snippet"`
	Score       float32  `json:"score"`
	HeadingPath []string `json:"heading_path,omitempty"`
	FromBM25    bool     `json:"from_bm25"`
	FromVector  bool     `json:"from_vector"`
}

func toSearchResultOutput(r model.SearchResult) SearchResultOutput {
	return SearchResultOutput{
		DocID:       r.DocID.BaseID(),
		URI:         r.URI,
		Title:       r.Title,
		Snippet:     r.Snippet,
		Score:       r.Scores.Fused,
		HeadingPath: r.HeadingPath,
		FromBM25:    r.FromSignals.BM25,
		FromVector:  r.FromSignals.Vector,
	}
}

// IndexInput is the input schema for the index tool (spec.md §6's
// canonical index request).
type IndexInput struct {
	Path                string   `json:"path" jsonschema:"filesystem path to index"`
	Collection          string   `json:"collection" jsonschema:"destination collection name"`
	Recursive           *bool    `json:"recursive,omitempty" jsonschema:"descend into subdirectories, default true"`
	Force               bool     `json:"force,omitempty" jsonschema:"reindex files even if their version is unchanged"`
	SafePatterns        []string `json:"safe_patterns,omitempty" jsonschema:"glob patterns to include"`
	IgnorePatterns      []string `json:"ignore_patterns,omitempty" jsonschema:"glob patterns to exclude"`
	ClearDefaultIgnores bool     `json:"clear_default_ignores,omitempty" jsonschema:"disable the built-in ignore list"`
	FollowSymlinks      bool     `json:"follow_symlinks,omitempty"`
}

// IndexOutput is the output schema for the index tool.
type IndexOutput struct {
	Status     string `json:"status" jsonschema:"always \"started\": indexing runs in the background"`
	Collection string `json:"collection"`
}

// StatusInput is the input schema for the status tool (no parameters).
type StatusInput struct{}

// StatusOutput is the output schema for the status tool.
type StatusOutput struct {
	CollectionCount int                  `json:"collection_count"`
	VectorCount     int                  `json:"vector_count"`
	EmbedderDims    int                  `json:"embedder_dimensions"`
	Indexing        []IndexingStatusInfo `json:"indexing,omitempty"`
}

// IndexingStatusInfo reports one collection's in-flight indexing progress.
type IndexingStatusInfo struct {
	Collection     string  `json:"collection"`
	Status         string  `json:"status"`
	Stage          string  `json:"stage,omitempty"`
	FilesTotal     int     `json:"files_total"`
	FilesProcessed int     `json:"files_processed"`
	ChunksIndexed  int     `json:"chunks_indexed"`
	ProgressPct    float64 `json:"progress_pct"`
}
