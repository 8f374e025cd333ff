package download

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"golang.org/x/sync/errgroup"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"

	"github.com/giantswarm/mcp-assisted-service/internal/logging"
	"github.com/giantswarm/mcp-assisted-service/internal/server"
	"github.com/giantswarm/mcp-assisted-service/internal/tools"
	"github.com/giantswarm/mcp-assisted-service/internal/tools/output"
)

// maxConcurrentLookups bounds the presigned URL requests in flight for one
// ISO listing.
const maxConcurrentLookups = 4

// handleClusterISODownloadURL returns one URL block per infrastructure
// environment of the cluster.
func handleClusterISODownloadURL(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	clusterID, err := tools.RequireID(request, tools.ArgClusterID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	logger := logging.WithCluster(logging.WithTool(sc.Logger(), ToolClusterISODownloadURL), clusterID)
	logger.InfoContext(ctx, "retrieving ISO download URLs")

	inventory, err := tools.GetInventory(ctx, sc)
	if err != nil {
		return tools.ErrorResult(ctx, sc, ToolClusterISODownloadURL, err), nil
	}

	infraEnvs, err := inventory.ListInfraEnvs(ctx, clusterID)
	if err != nil {
		return tools.ErrorResult(ctx, sc, ToolClusterISODownloadURL, err), nil
	}
	if len(infraEnvs) == 0 {
		logger.InfoContext(ctx, "no infrastructure environments found")
		return mcp.NewToolResultText(output.NoISODownloadURLs), nil
	}

	blocks := make([]string, len(infraEnvs))
	errs := make([]error, len(infraEnvs))

	var g errgroup.Group
	g.SetLimit(maxConcurrentLookups)
	for i, env := range infraEnvs {
		g.Go(func() error {
			presigned, err := inventory.GetInfraEnvDownloadURL(ctx, env.ID)
			if err != nil {
				errs[i] = fmt.Errorf("infra env %s: %w", env.ID, err)
				return nil
			}
			if presigned == nil || presigned.URL == "" {
				logger.WarnContext(ctx, "no ISO download URL found for infra env", logging.InfraEnvID(env.ID))
				return nil
			}
			blocks[i] = output.FormatPresignedURL(*presigned)
			return nil
		})
	}
	_ = g.Wait()

	if agg := utilerrors.NewAggregate(errs); agg != nil {
		logger.WarnContext(ctx, "skipped infrastructure environments with failed URL lookups",
			"skipped", len(agg.Errors()),
			logging.Err(agg))
	}

	found := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if b != "" {
			found = append(found, b)
		}
	}

	logger.InfoContext(ctx, "returning ISO download URLs", "count", len(found))
	return mcp.NewToolResultText(output.JoinBlocks(found)), nil
}

// handleClusterCredentialsDownloadURL returns the presigned URL of a
// credential file.
func handleClusterCredentialsDownloadURL(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	clusterID, err := tools.RequireID(request, tools.ArgClusterID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	fileName, err := tools.RequireEnum(request, "file_name", tools.CredentialFileNames)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	logger := logging.WithCluster(logging.WithTool(sc.Logger(), ToolClusterCredentialsDownloadURL), clusterID)
	logger.InfoContext(ctx, "retrieving credentials download URL", "file_name", fileName)

	inventory, err := tools.GetInventory(ctx, sc)
	if err != nil {
		return tools.ErrorResult(ctx, sc, ToolClusterCredentialsDownloadURL, err), nil
	}

	presigned, err := inventory.GetCredentialsDownloadURL(ctx, clusterID, fileName)
	if err != nil {
		return tools.ErrorResult(ctx, sc, ToolClusterCredentialsDownloadURL, err), nil
	}

	logger.InfoContext(ctx, "retrieved credentials download URL",
		"file_name", fileName,
		"expires", output.HasExpiry(presigned.ExpiresAt))
	return mcp.NewToolResultText(output.FormatPresignedURL(*presigned)), nil
}
