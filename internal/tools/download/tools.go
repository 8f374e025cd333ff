package download

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/giantswarm/mcp-assisted-service/internal/server"
	"github.com/giantswarm/mcp-assisted-service/internal/tools"
)

// Tool names.
const (
	ToolClusterISODownloadURL         = "cluster_iso_download_url"
	ToolClusterCredentialsDownloadURL = "cluster_credentials_download_url"
)

// RegisterDownloadTools registers the presigned URL tools with the MCP server.
func RegisterDownloadTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	isoTool := mcp.NewTool(ToolClusterISODownloadURL,
		mcp.WithDescription("Get the discovery ISO download URL(s) for a cluster. "+
			"Each ISO is returned as 'URL: <url>' followed by 'Expires at: <timestamp>' when the URL expires. "+
			"Multiple ISOs are separated by blank lines."),
		tools.WithRequiredID(tools.ArgClusterID, "The unique identifier of the cluster"),
	)
	s.AddTool(isoTool, tools.WrapWithAuditLogging(ToolClusterISODownloadURL, handleClusterISODownloadURL, sc))

	credentialsTool := mcp.NewTool(ToolClusterCredentialsDownloadURL,
		mcp.WithDescription("Get a presigned download URL for a cluster credential file. "+
			"For a successfully installed cluster prefer kubeconfig over kubeconfig-noingress. "+
			"The URL is time-limited; tell the user when it expires whenever an expiry is returned."),
		tools.WithRequiredID(tools.ArgClusterID, "The unique identifier of the cluster to get credentials for"),
		tools.WithEnum("file_name",
			"The credential file: kubeconfig (standard kubeconfig), kubeconfig-noingress "+
				"(kubeconfig without ingress configuration) or kubeadmin-password (the kubeadmin user password)",
			tools.CredentialFileNames),
	)
	s.AddTool(credentialsTool, tools.WrapWithAuditLogging(ToolClusterCredentialsDownloadURL, handleClusterCredentialsDownloadURL, sc))

	return nil
}
