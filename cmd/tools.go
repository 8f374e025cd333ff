package cmd

import (
	"fmt"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/giantswarm/mcp-assisted-service/internal/server"
	"github.com/giantswarm/mcp-assisted-service/internal/tools/catalog"
	"github.com/giantswarm/mcp-assisted-service/internal/tools/cluster"
	"github.com/giantswarm/mcp-assisted-service/internal/tools/download"
	"github.com/giantswarm/mcp-assisted-service/internal/tools/events"
	"github.com/giantswarm/mcp-assisted-service/internal/tools/host"
)

// toolGroups lists every tool category in registration order.
var toolGroups = []struct {
	name     string
	register func(*mcpserver.MCPServer, *server.ServerContext) error
}{
	{"cluster", cluster.RegisterClusterTools},
	{"events", events.RegisterEventTools},
	{"download", download.RegisterDownloadTools},
	{"catalog", catalog.RegisterCatalogTools},
	{"host", host.RegisterHostTools},
}

// registerTools registers all tool categories with the MCP server.
func registerTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	for _, group := range toolGroups {
		if err := group.register(s, sc); err != nil {
			return fmt.Errorf("failed to register %s tools: %w", group.name, err)
		}
	}
	return nil
}
