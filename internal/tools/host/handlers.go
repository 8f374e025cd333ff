package host

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/giantswarm/mcp-assisted-service/internal/assisted"
	"github.com/giantswarm/mcp-assisted-service/internal/logging"
	"github.com/giantswarm/mcp-assisted-service/internal/server"
	"github.com/giantswarm/mcp-assisted-service/internal/tools"
)

func handleSetHostRole(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	if result := tools.CheckMutatingOperation(sc, ToolSetHostRole); result != nil {
		return result, nil
	}

	hostID, err := tools.RequireID(request, tools.ArgHostID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	infraEnvID, err := tools.RequireID(request, tools.ArgInfraEnvID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	role, err := tools.RequireEnum(request, ArgRole, tools.HostRoles)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	logger := logging.WithTool(sc.Logger(), ToolSetHostRole).With(
		logging.HostID(hostID),
		logging.InfraEnvID(infraEnvID),
	)
	logger.InfoContext(ctx, "setting host role", "role", role)

	inventory, err := tools.GetInventory(ctx, sc)
	if err != nil {
		return tools.ErrorResult(ctx, sc, ToolSetHostRole, err), nil
	}

	host, err := inventory.UpdateHost(ctx, hostID, infraEnvID, assisted.HostUpdateParams{HostRole: role})
	if err != nil {
		return tools.ErrorResult(ctx, sc, ToolSetHostRole, err), nil
	}

	logger.InfoContext(ctx, "set host role", "role", role, logging.Status(host.Status))
	return mcp.NewToolResultText(host.String()), nil
}
