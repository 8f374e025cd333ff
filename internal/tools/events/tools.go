package events

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/giantswarm/mcp-assisted-service/internal/server"
	"github.com/giantswarm/mcp-assisted-service/internal/tools"
)

// Tool names.
const (
	ToolClusterEvents = "cluster_events"
	ToolHostEvents    = "host_events"
)

// RegisterEventTools registers the event tools with the MCP server.
func RegisterEventTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	clusterEventsTool := mcp.NewTool(ToolClusterEvents,
		mcp.WithDescription("Get the events of a cluster: installation progress, configuration changes and status updates. "+
			"Returns the events as JSON."),
		tools.WithRequiredID(tools.ArgClusterID, "The unique identifier of the cluster to get events for"),
	)
	s.AddTool(clusterEventsTool, tools.WrapWithAuditLogging(ToolClusterEvents, handleClusterEvents, sc))

	hostEventsTool := mcp.NewTool(ToolHostEvents,
		mcp.WithDescription("Get the events of a single host within a cluster: hardware validation, role assignment "+
			"and installation steps. Returns the events as JSON."),
		tools.WithRequiredID(tools.ArgClusterID, "The unique identifier of the cluster containing the host"),
		tools.WithRequiredID(tools.ArgHostID, "The unique identifier of the host to get events for"),
	)
	s.AddTool(hostEventsTool, tools.WrapWithAuditLogging(ToolHostEvents, handleHostEvents, sc))

	return nil
}
