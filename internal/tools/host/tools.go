// Package host provides the MCP tools that act on individual hosts of an
// infrastructure environment.
package host

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/giantswarm/mcp-assisted-service/internal/server"
	"github.com/giantswarm/mcp-assisted-service/internal/tools"
)

// ToolSetHostRole is the name of the host role tool.
const ToolSetHostRole = "set_host_role"

// ArgRole is the role argument of set_host_role.
const ArgRole = "role"

// RegisterHostTools registers the host tools with the MCP server.
func RegisterHostTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	setRoleTool := mcp.NewTool(ToolSetHostRole,
		mcp.WithDescription("Assign a role to a discovered host. The host is addressed by its ID and the ID "+
			"of the infrastructure environment it booted from. Returns the updated host as JSON."),
		tools.WithRequiredID(tools.ArgHostID, "The unique identifier of the host"),
		tools.WithRequiredID(tools.ArgInfraEnvID, "The unique identifier of the infrastructure environment the host belongs to"),
		tools.WithEnum(ArgRole, "The role to assign to the host", tools.HostRoles),
	)
	s.AddTool(setRoleTool, tools.WrapWithAuditLogging(ToolSetHostRole, handleSetHostRole, sc))

	return nil
}
