// Package mcp exposes the migration engine as MCP tools so coding
// assistants can scan, validate and transform Cadence without shelling
// out.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"
)

// NewCadmodMCPServer creates a new MCP server with the cadmod tools
// registered. projectPath is the root directory scans operate on.
func NewCadmodMCPServer(projectPath string) *server.MCPServer {
	s := server.NewMCPServer(
		"cadmod",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	registerTools(s, projectPath)
	return s
}
