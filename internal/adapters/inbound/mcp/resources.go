package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/primetrain/primetrain/internal/domain"
)

// registerResources registers all prime-train MCP resources on the given server.
func registerResources(s *server.MCPServer) {
	// 1. primetrain://gotchas - the gotcha catalogue
	s.AddResource(
		mcplib.NewResource(
			"primetrain://gotchas",
			"Gotcha Catalogue",
			mcplib.WithResourceDescription("Known training misconfigurations checked during validation"),
			mcplib.WithMIMEType("application/json"),
		),
		jsonResource("primetrain://gotchas", func() any { return gotchaList() }),
	)

	// 2. primetrain://presets - hardware presets
	s.AddResource(
		mcplib.NewResource(
			"primetrain://presets",
			"Hardware Presets",
			mcplib.WithResourceDescription("Tuned batch size, token and memory settings per GPU class"),
			mcplib.WithMIMEType("application/json"),
		),
		jsonResource("primetrain://presets", func() any { return domain.Presets() }),
	)
}

func jsonResource(uri string, load func() any) server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		data, err := json.MarshalIndent(load(), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling %s: %w", uri, err)
		}

		return []mcplib.ResourceContents{
			mcplib.TextResourceContents{
				URI:      uri,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	}
}
