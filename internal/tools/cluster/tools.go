package cluster

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/giantswarm/mcp-assisted-service/internal/server"
	"github.com/giantswarm/mcp-assisted-service/internal/tools"
)

// Tool names.
const (
	ToolClusterInfo    = "cluster_info"
	ToolListClusters   = "list_clusters"
	ToolCreateCluster  = "create_cluster"
	ToolSetClusterVIPs = "set_cluster_vips"
	ToolInstallCluster = "install_cluster"
)

// RegisterClusterTools registers all cluster management tools with the MCP server
func RegisterClusterTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// cluster_info tool
	clusterInfoTool := mcp.NewTool(ToolClusterInfo,
		mcp.WithDescription("Get comprehensive information about a specific assisted installer cluster, "+
			"including configuration, status, hosts, network settings and installation progress."),
		tools.WithRequiredID(tools.ArgClusterID, "The unique identifier (UUID) of the cluster"),
	)
	s.AddTool(clusterInfoTool, tools.WrapWithAuditLogging(ToolClusterInfo, handleClusterInfo, sc))

	// list_clusters tool
	listClustersTool := mcp.NewTool(ToolListClusters,
		mcp.WithDescription("List all assisted installer clusters for the current user. "+
			"Returns a JSON array with the name, id, openshift_version and status of each cluster. "+
			"Use cluster_info to get the full details of one cluster."),
	)
	s.AddTool(listClustersTool, tools.WrapWithAuditLogging(ToolListClusters, handleListClusters, sc))

	// create_cluster tool
	createClusterTool := mcp.NewTool(ToolCreateCluster,
		mcp.WithDescription("Create a new OpenShift cluster definition together with its infrastructure environment. "+
			"Returns the ID of the created cluster."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("The name for the new cluster. Must be unique within your account"),
		),
		mcp.WithString("version",
			mcp.Required(),
			mcp.Description("The OpenShift version to install (e.g. 4.18.2). Use list_versions to see available versions"),
		),
		mcp.WithString("base_domain",
			mcp.Required(),
			mcp.Description("The base DNS domain for the cluster (e.g. example.com). The API is served at api.<name>.<base_domain>"),
		),
		mcp.WithBoolean("single_node",
			mcp.Required(),
			mcp.Description("Create a single-node cluster for edge or resource-constrained environments instead of a highly available one"),
		),
	)
	s.AddTool(createClusterTool, tools.WrapWithAuditLogging(ToolCreateCluster, handleCreateCluster, sc))

	// set_cluster_vips tool
	setVIPsTool := mcp.NewTool(ToolSetClusterVIPs,
		mcp.WithDescription("Configure the virtual IP addresses for cluster API and ingress traffic. "+
			"The addresses must be available within the cluster's machine network."),
		tools.WithRequiredID(tools.ArgClusterID, "The unique identifier of the cluster to configure"),
		mcp.WithString("api_vip",
			mcp.Required(),
			mcp.Description("The IP address for the cluster API endpoint"),
		),
		mcp.WithString("ingress_vip",
			mcp.Required(),
			mcp.Description("The IP address for ingress traffic to applications running in the cluster"),
		),
	)
	s.AddTool(setVIPsTool, tools.WrapWithAuditLogging(ToolSetClusterVIPs, handleSetClusterVIPs, sc))

	// install_cluster tool
	installClusterTool := mcp.NewTool(ToolInstallCluster,
		mcp.WithDescription("Trigger the installation of a prepared cluster on all discovered and validated hosts. "+
			"All hosts must be ready, networking configured and cluster validations passing."),
		tools.WithRequiredID(tools.ArgClusterID, "The unique identifier of the cluster to install"),
	)
	s.AddTool(installClusterTool, tools.WrapWithAuditLogging(ToolInstallCluster, handleInstallCluster, sc))

	return nil
}
