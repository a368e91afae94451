package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/server"
	"github.com/primetrain/primetrain/internal/domain"
	"github.com/primetrain/primetrain/internal/logging"
)

// NewPrimeTrainMCPServer creates a new MCP server with all prime-train tools
// and resources registered. Relative config paths given to tools resolve
// against projectPath.
func NewPrimeTrainMCPServer(projectPath string, settings domain.Settings, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer(
		"prime-train",
		"0.1.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	d := deps{projectPath: projectPath, settings: settings, log: logging.OrDiscard(log)}
	registerTools(s, d)
	registerResources(s)

	return s
}
