package catalog

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/giantswarm/mcp-assisted-service/internal/assisted"
	"github.com/giantswarm/mcp-assisted-service/internal/logging"
	"github.com/giantswarm/mcp-assisted-service/internal/server"
	"github.com/giantswarm/mcp-assisted-service/internal/tools"
	"github.com/giantswarm/mcp-assisted-service/internal/tools/output"
)

// handleListVersions returns the latest OpenShift versions.
func handleListVersions(ctx context.Context, _ mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	logger := logging.WithTool(sc.Logger(), ToolListVersions)
	logger.InfoContext(ctx, "retrieving available OpenShift versions")

	inventory, err := tools.GetInventory(ctx, sc)
	if err != nil {
		return tools.ErrorResult(ctx, sc, ToolListVersions, err), nil
	}

	versions, err := inventory.ListVersions(ctx, true)
	if err != nil {
		return tools.ErrorResult(ctx, sc, ToolListVersions, err), nil
	}

	text, err := output.JSON(versions)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to marshal versions: %v", err)), nil
	}

	logger.InfoContext(ctx, "retrieved OpenShift versions", "versions", versions.Names())
	return mcp.NewToolResultText(text), nil
}

// handleListOperatorBundles returns every operator bundle.
func handleListOperatorBundles(ctx context.Context, _ mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	logger := logging.WithTool(sc.Logger(), ToolListOperatorBundles)
	logger.InfoContext(ctx, "retrieving available operator bundles")

	inventory, err := tools.GetInventory(ctx, sc)
	if err != nil {
		return tools.ErrorResult(ctx, sc, ToolListOperatorBundles, err), nil
	}

	bundles, err := inventory.ListOperatorBundles(ctx)
	if err != nil {
		return tools.ErrorResult(ctx, sc, ToolListOperatorBundles, err), nil
	}
	if bundles == nil {
		bundles = []assisted.OperatorBundle{}
	}

	text, err := output.JSON(bundles)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to marshal operator bundles: %v", err)), nil
	}

	logger.InfoContext(ctx, "retrieved operator bundles", "count", len(bundles))
	return mcp.NewToolResultText(text), nil
}

// handleAddOperatorBundleToCluster selects the operators of a bundle on a
// cluster.
func handleAddOperatorBundleToCluster(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	if result := tools.CheckMutatingOperation(sc, ToolAddOperatorBundleToCluster); result != nil {
		return result, nil
	}

	clusterID, err := tools.RequireID(request, tools.ArgClusterID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	bundleName, err := tools.RequireID(request, "bundle_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	logger := logging.WithCluster(logging.WithTool(sc.Logger(), ToolAddOperatorBundleToCluster), clusterID)
	logger.InfoContext(ctx, "adding operator bundle to cluster", "bundle", bundleName)

	inventory, err := tools.GetInventory(ctx, sc)
	if err != nil {
		return tools.ErrorResult(ctx, sc, ToolAddOperatorBundleToCluster, err), nil
	}

	cluster, err := inventory.AddOperatorBundleToCluster(ctx, clusterID, bundleName)
	if err != nil {
		return tools.ErrorResult(ctx, sc, ToolAddOperatorBundleToCluster, err), nil
	}

	logger.InfoContext(ctx, "added operator bundle to cluster", "bundle", bundleName)
	return mcp.NewToolResultText(cluster.String()), nil
}
