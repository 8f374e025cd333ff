// Package catalog provides the MCP tools for the OpenShift version and
// operator bundle catalogues.
package catalog

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/giantswarm/mcp-assisted-service/internal/server"
	"github.com/giantswarm/mcp-assisted-service/internal/tools"
)

// Tool names.
const (
	ToolListVersions               = "list_versions"
	ToolListOperatorBundles        = "list_operator_bundles"
	ToolAddOperatorBundleToCluster = "add_operator_bundle_to_cluster"
)

// RegisterCatalogTools registers the catalogue tools with the MCP server.
func RegisterCatalogTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	listVersionsTool := mcp.NewTool(ToolListVersions,
		mcp.WithDescription("List the OpenShift versions available for installation with their release metadata "+
			"and support level. Returns JSON."),
	)
	s.AddTool(listVersionsTool, tools.WrapWithAuditLogging(ToolListVersions, handleListVersions, sc))

	listBundlesTool := mcp.NewTool(ToolListOperatorBundles,
		mcp.WithDescription("List the operator bundles that can be installed together with a cluster, "+
			"such as virtualization or AI bundles. Returns a JSON array."),
	)
	s.AddTool(listBundlesTool, tools.WrapWithAuditLogging(ToolListOperatorBundles, handleListOperatorBundles, sc))

	addBundleTool := mcp.NewTool(ToolAddOperatorBundleToCluster,
		mcp.WithDescription("Add an operator bundle to be installed with the cluster. "+
			"Use list_operator_bundles to see the available bundle names."),
		tools.WithRequiredID(tools.ArgClusterID, "The unique identifier of the cluster to configure"),
		mcp.WithString("bundle_name",
			mcp.Required(),
			mcp.Description("The name (id) of the operator bundle to add"),
		),
	)
	s.AddTool(addBundleTool, tools.WrapWithAuditLogging(ToolAddOperatorBundleToCluster, handleAddOperatorBundleToCluster, sc))

	return nil
}
