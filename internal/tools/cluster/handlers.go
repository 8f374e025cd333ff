package cluster

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

// clusterTag marks clusters created through this server.
const clusterTag = "chatbot"

// handleClusterInfo returns the full document of one cluster.
func handleClusterInfo(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	clusterID, err := tools.RequireID(request, tools.ArgClusterID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	logger := logging.WithCluster(logging.WithTool(sc.Logger(), ToolClusterInfo), clusterID)
	logger.InfoContext(ctx, "retrieving cluster information")

	inventory, err := tools.GetInventory(ctx, sc)
	if err != nil {
		return tools.ErrorResult(ctx, sc, ToolClusterInfo, err), nil
	}

	cluster, err := inventory.GetCluster(ctx, clusterID)
	if err != nil {
		return tools.ErrorResult(ctx, sc, ToolClusterInfo, err), nil
	}

	logger.InfoContext(ctx, "retrieved cluster information")
	return mcp.NewToolResultText(cluster.String()), nil
}

// handleListClusters returns a trimmed summary of every cluster.
func handleListClusters(ctx context.Context, _ mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	logger := logging.WithTool(sc.Logger(), ToolListClusters)
	logger.InfoContext(ctx, "retrieving list of all clusters")

	inventory, err := tools.GetInventory(ctx, sc)
	if err != nil {
		return tools.ErrorResult(ctx, sc, ToolListClusters, err), nil
	}

	clusters, err := inventory.ListClusters(ctx)
	if err != nil {
		return tools.ErrorResult(ctx, sc, ToolListClusters, err), nil
	}

	text, err := output.JSON(output.SummarizeClusters(clusters))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to marshal clusters: %v", err)), nil
	}

	logger.InfoContext(ctx, "retrieved clusters", "count", len(clusters))
	return mcp.NewToolResultText(text), nil
}

// handleCreateCluster registers a cluster and an infrastructure environment
// for it, and returns the cluster ID.
func handleCreateCluster(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	if result := tools.CheckMutatingOperation(sc, ToolCreateCluster); result != nil {
		return result, nil
	}

	name, err := tools.RequireID(request, "name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	version, err := tools.RequireID(request, "version")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	baseDomain, err := tools.RequireID(request, "base_domain")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	singleNode, ok := request.GetArguments()["single_node"].(bool)
	if !ok {
		return mcp.NewToolResultError("required argument \"single_node\" not found or not a boolean"), nil
	}

	logger := logging.WithTool(sc.Logger(), ToolCreateCluster)
	logger.InfoContext(ctx, "creating cluster",
		"name", name,
		"version", version,
		"base_domain", baseDomain,
		"single_node", singleNode)

	inventory, err := tools.GetInventory(ctx, sc)
	if err != nil {
		return tools.ErrorResult(ctx, sc, ToolCreateCluster, err), nil
	}

	cluster, err := inventory.CreateCluster(ctx, name, version, singleNode, assisted.ClusterParams{
		BaseDNSDomain: baseDomain,
		Tags:          clusterTag,
	})
	if err != nil {
		return tools.ErrorResult(ctx, sc, ToolCreateCluster, err), nil
	}
	if cluster.ID == "" {
		msg := fmt.Sprintf("Failed to create cluster %s: cluster ID is unset", name)
		logger.ErrorContext(ctx, msg)
		return mcp.NewToolResultText(msg), nil
	}

	logger = logging.WithCluster(logger, cluster.ID)
	logger.InfoContext(ctx, "created cluster")

	infraEnv, err := inventory.CreateInfraEnv(ctx, name, assisted.InfraEnvParams{
		ClusterID:        cluster.ID,
		OpenshiftVersion: cluster.OpenshiftVersion,
	})
	if err != nil {
		return tools.ErrorResult(ctx, sc, ToolCreateCluster, err), nil
	}

	logger.InfoContext(ctx, "created infrastructure environment for cluster", logging.InfraEnvID(infraEnv.ID))
	return mcp.NewToolResultText(cluster.ID), nil
}

// handleSetClusterVIPs sets the API and ingress VIPs of a cluster.
func handleSetClusterVIPs(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	if result := tools.CheckMutatingOperation(sc, ToolSetClusterVIPs); result != nil {
		return result, nil
	}

	clusterID, err := tools.RequireID(request, tools.ArgClusterID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	apiVIP, err := tools.RequireID(request, "api_vip")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ingressVIP, err := tools.RequireID(request, "ingress_vip")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	logger := logging.WithCluster(logging.WithTool(sc.Logger(), ToolSetClusterVIPs), clusterID)
	logger.InfoContext(ctx, "setting cluster VIPs", "api_vip", apiVIP, "ingress_vip", ingressVIP)

	inventory, err := tools.GetInventory(ctx, sc)
	if err != nil {
		return tools.ErrorResult(ctx, sc, ToolSetClusterVIPs, err), nil
	}

	cluster, err := inventory.UpdateCluster(ctx, clusterID, assisted.ClusterUpdateParams{
		APIVIP:     apiVIP,
		IngressVIP: ingressVIP,
	})
	if err != nil {
		return tools.ErrorResult(ctx, sc, ToolSetClusterVIPs, err), nil
	}

	logger.InfoContext(ctx, "set cluster VIPs")
	return mcp.NewToolResultText(cluster.String()), nil
}

// handleInstallCluster starts the installation of a cluster.
func handleInstallCluster(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	if result := tools.CheckMutatingOperation(sc, ToolInstallCluster); result != nil {
		return result, nil
	}

	clusterID, err := tools.RequireID(request, tools.ArgClusterID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	logger := logging.WithCluster(logging.WithTool(sc.Logger(), ToolInstallCluster), clusterID)
	logger.InfoContext(ctx, "triggering cluster installation")

	inventory, err := tools.GetInventory(ctx, sc)
	if err != nil {
		return tools.ErrorResult(ctx, sc, ToolInstallCluster, err), nil
	}

	cluster, err := inventory.InstallCluster(ctx, clusterID)
	if err != nil {
		return tools.ErrorResult(ctx, sc, ToolInstallCluster, err), nil
	}

	logger.InfoContext(ctx, "triggered cluster installation", logging.Status(cluster.Status))
	return mcp.NewToolResultText(cluster.String()), nil
}
