// Package server exposes the aggregated search as MCP tools over stdio,
// for MCP-capable clients that want the same operations as the HTTP API.
package server

import (
	"context"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/reelearn/shorts-api/internal/search"
)

// Searcher runs one aggregated search.
type Searcher interface {
	Search(ctx context.Context, req search.Request) (*search.Result, error)
}

// Server wraps the MCP server with the search aggregator.
type Server struct {
	mcpServer *mcp.Server
	logger    *slog.Logger
	searcher  Searcher
}

// NewServer creates a new MCP server instance with all tools registered.
func NewServer(logger *slog.Logger, searcher Searcher) *Server {
	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    "shorts-api",
		Version: "1.0.0",
	}, nil)

	s := &Server{
		mcpServer: mcpServer,
		logger:    logger,
		searcher:  searcher,
	}
	s.registerSearchTools()

	return s
}

// Run starts the MCP server on the stdio transport.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("starting MCP server", "transport", "stdio")
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
