package tools

import (
	"context"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/giantswarm/mcp-assisted-service/internal/assisted"
	"github.com/giantswarm/mcp-assisted-service/internal/logging"
	"github.com/giantswarm/mcp-assisted-service/internal/mcp/oauth"
	"github.com/giantswarm/mcp-assisted-service/internal/server"
)

// GetInventory returns an assisted service client authenticated with the
// credentials of the request in ctx.
//
// Tool handlers should use this function instead of building clients
// themselves so that token resolution follows the same priority everywhere:
// Authorization header, then OFFLINE_TOKEN, then the OCM-Offline-Token header.
func GetInventory(ctx context.Context, sc *server.ServerContext) (assisted.Inventory, error) {
	return sc.InventoryForContext(ctx)
}

// IsAuthenticationError returns true if err means no usable credential was
// available or the assisted service rejected it.
func IsAuthenticationError(err error) bool {
	return errors.Is(err, oauth.ErrNoOfflineToken) || assisted.IsUnauthorized(err)
}

// ErrorResult logs err and converts it into a tool error result. The error
// text is passed to the caller unchanged.
func ErrorResult(ctx context.Context, sc *server.ServerContext, tool string, err error) *mcp.CallToolResult {
	attrs := []any{logging.Tool(tool), logging.Err(err)}
	if code := assisted.StatusCode(err); code != 0 {
		attrs = append(attrs, logging.StatusCode(code))
	}
	if IsAuthenticationError(err) {
		sc.Logger().WarnContext(ctx, "tool call not authenticated", attrs...)
	} else {
		sc.Logger().ErrorContext(ctx, "tool call failed", attrs...)
	}
	return mcp.NewToolResultError(err.Error())
}
