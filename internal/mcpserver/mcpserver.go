// Package mcpserver exposes auspex analyses as MCP tools over stdio.
package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server and registers all auspex analysis tools.
type Server struct {
	server *mcp.Server
}

// NewServer creates a new MCP server with all auspex tools registered.
func NewServer(version string) *Server {
	if version == "" {
		version = "dev"
	}
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "auspex",
			Version: version,
		},
		nil,
	)

	s := &Server{server: server}
	s.registerTools()
	s.registerPrompts()
	return s
}

// Run starts the MCP server over stdio transport.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// registerTools adds all auspex analyzer tools to the server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze_graph",
		Description: describeGraph(),
	}, handleAnalyzeGraph)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze_unused",
		Description: describeUnused(),
	}, handleAnalyzeUnused)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "graph_stats",
		Description: describeStats(),
	}, handleGraphStats)
}
