// Package events provides the MCP tools that read cluster and host events.
package events

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/giantswarm/mcp-assisted-service/internal/assisted"
	"github.com/giantswarm/mcp-assisted-service/internal/logging"
	"github.com/giantswarm/mcp-assisted-service/internal/server"
	"github.com/giantswarm/mcp-assisted-service/internal/tools"
)

// handleClusterEvents returns the user events of a cluster.
func handleClusterEvents(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	clusterID, err := tools.RequireID(request, tools.ArgClusterID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	logger := logging.WithCluster(logging.WithTool(sc.Logger(), ToolClusterEvents), clusterID)
	return listEvents(ctx, sc, ToolClusterEvents, logger, assisted.EventsFilter{ClusterID: clusterID})
}

// handleHostEvents returns the user events of one host.
func handleHostEvents(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	clusterID, err := tools.RequireID(request, tools.ArgClusterID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	hostID, err := tools.RequireID(request, tools.ArgHostID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	logger := logging.WithCluster(logging.WithTool(sc.Logger(), ToolHostEvents), clusterID).
		With(logging.HostID(hostID))
	return listEvents(ctx, sc, ToolHostEvents, logger, assisted.EventsFilter{ClusterID: clusterID, HostID: hostID})
}

// listEvents returns the raw events document unchanged.
func listEvents(ctx context.Context, sc *server.ServerContext, tool string, logger *slog.Logger, filter assisted.EventsFilter) (*mcp.CallToolResult, error) {
	logger.InfoContext(ctx, "retrieving events")

	inventory, err := tools.GetInventory(ctx, sc)
	if err != nil {
		return tools.ErrorResult(ctx, sc, tool, err), nil
	}

	events, err := inventory.GetEvents(ctx, filter)
	if err != nil {
		return tools.ErrorResult(ctx, sc, tool, err), nil
	}

	logger.InfoContext(ctx, "retrieved events")
	return mcp.NewToolResultText(events), nil
}
