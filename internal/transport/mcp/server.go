// Package mcp implements the MCP tool surface of SPEC_FULL.md §3.17: a
// thin adapter exposing search/index/status as MCP tools over the same
// container the REST transport (internal/transport/http) wraps. Neither
// transport holds pipeline logic of its own.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/doylet/docsearch/internal/container"
	svcerrors "github.com/doylet/docsearch/internal/errors"
	"github.com/doylet/docsearch/internal/indexer"
	"github.com/doylet/docsearch/internal/search"
)

const serverName = "docsearch"

// serverVersion is bumped by hand; this module has no separate pkg/version
// package to source it from.
const serverVersion = "0.1.0"

var collectionNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Server bridges MCP clients to the document search container.
type Server struct {
	mcp    *mcp.Server
	c      *container.Container
	logger *slog.Logger
}

// NewServer builds an MCP server over c's search, indexer and collection
// components.
func NewServer(c *container.Container) *Server {
	s := &Server{
		c:      c,
		logger: c.Logger,
	}

	s.mcp = mcp.NewServer(
		&mcp.Implementation{Name: serverName, Version: serverVersion},
		nil,
	)
	s.registerTools()
	return s
}

// MCPServer returns the underlying SDK server, for callers that need to
// register additional tools or resources.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcp
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "search",
		Description: "Hybrid semantic + lexical search over indexed documents. Fuses vector similarity and BM25 ranking; use for most search tasks.",
	}, s.handleSearch)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "index",
		Description: "Index a filesystem path into a collection. Runs in the background; poll status to see progress.",
	}, s.handleIndex)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "status",
		Description: "Report collection counts, vector counts, and any in-flight indexing runs.",
	}, s.handleStatus)
}

func (s *Server) handleSearch(ctx context.Context, _ *mcp.CallToolRequest, input SearchInput) (
	*mcp.CallToolResult, SearchOutput, error,
) {
	if input.Query == "" {
		return nil, SearchOutput{}, NewInvalidParamsError("query is required")
	}

	permit, err := s.c.Coordinator.AcquireRead(ctx, "mcp.search")
	if err != nil {
		return nil, SearchOutput{}, MapError(err)
	}
	defer permit.Release()

	opts := search.Options{
		Collection: input.Collection,
		Limit:      input.Limit,
		Offset:     input.Offset,
	}
	if input.EnableQueryEnhancement != nil && !*input.EnableQueryEnhancement {
		opts.DisableExpansion = true
	}

	results, err := s.c.Search.Search(ctx, input.Query, opts)
	if err != nil {
		return nil, SearchOutput{}, MapError(err)
	}

	out := SearchOutput{Results: make([]SearchResultOutput, 0, len(results))}
	for _, r := range results {
		if input.MinimumScore > 0 && float64(r.Scores.Fused) < input.MinimumScore {
			continue
		}
		out.Results = append(out.Results, toSearchResultOutput(r))
	}
	return nil, out, nil
}

func (s *Server) handleIndex(ctx context.Context, _ *mcp.CallToolRequest, input IndexInput) (
	*mcp.CallToolResult, IndexOutput, error,
) {
	if input.Path == "" {
		return nil, IndexOutput{}, NewInvalidParamsError("path is required")
	}
	if input.Collection == "" || !collectionNamePattern.MatchString(input.Collection) {
		return nil, IndexOutput{}, NewInvalidParamsError("collection must match [A-Za-z0-9_-]+")
	}

	if _, found, err := s.c.Collections.Get(ctx, input.Collection); err != nil {
		return nil, IndexOutput{}, MapError(err)
	} else if !found {
		if _, err := s.c.Collections.Create(ctx, input.Collection, s.c.Embedder.Dimensions()); err != nil {
			return nil, IndexOutput{}, MapError(err)
		}
	}

	opts := indexer.DefaultOptions(container.DefaultLockDir(s.c.Config))
	opts.Force = input.Force
	opts.Filter.SafePatterns = input.SafePatterns
	opts.Filter.IgnorePatterns = input.IgnorePatterns
	opts.Filter.ClearDefaultIgnores = input.ClearDefaultIgnores
	opts.Filter.FollowSymlinks = input.FollowSymlinks
	if input.Recursive != nil {
		opts.Recursive = *input.Recursive
	}

	collection, path := input.Collection, input.Path
	go func() {
		bg := context.Background()
		if _, err := s.c.Indexer.IndexCollection(bg, collection, path, opts); err != nil {
			s.logger.Error("background index batch failed", "collection", collection, "error", err)
		}
	}()

	return nil, IndexOutput{Status: "started", Collection: input.Collection}, nil
}

func (s *Server) handleStatus(ctx context.Context, _ *mcp.CallToolRequest, _ StatusInput) (
	*mcp.CallToolResult, StatusOutput, error,
) {
	cols, err := s.c.Collections.List(ctx)
	if err != nil {
		return nil, StatusOutput{}, MapError(err)
	}

	totalVectors := 0
	for _, col := range cols {
		totalVectors += col.VectorCount
	}

	out := StatusOutput{
		CollectionCount: len(cols),
		VectorCount:     totalVectors,
		EmbedderDims:    s.c.Embedder.Dimensions(),
	}
	for _, snap := range s.c.Progress.Snapshots() {
		out.Indexing = append(out.Indexing, IndexingStatusInfo{
			Collection:     snap.Collection,
			Status:         snap.Status,
			Stage:          snap.Stage,
			FilesTotal:     snap.FilesTotal,
			FilesProcessed: snap.FilesProcessed,
			ChunksIndexed:  snap.ChunksIndexed,
			ProgressPct:    snap.ProgressPct,
		})
	}
	return nil, out, nil
}

// Serve runs the MCP server over stdio, the only transport the SDK
// currently supports for non-HTTP deployments (mirrors the teacher's own
// internal/mcp.Server.Serve).
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("starting MCP server", "transport", "stdio")
	err := s.mcp.Run(ctx, &mcp.StdioTransport{})
	if err != nil && err != context.Canceled {
		return svcerrors.ExternalService("mcp", fmt.Sprintf("server stopped: %v", err), err, false)
	}
	return nil
}
