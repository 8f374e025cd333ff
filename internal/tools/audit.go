// Package tools provides shared utilities and types for MCP tool implementations.
package tools

import (
	"context"
	"errors"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"go.opentelemetry.io/otel/attribute"

	"github.com/giantswarm/mcp-assisted-service/internal/instrumentation"
	"github.com/giantswarm/mcp-assisted-service/internal/server"
)

// Argument names shared by several tools.
const (
	ArgClusterID  = "cluster_id"
	ArgHostID     = "host_id"
	ArgInfraEnvID = "infraenv_id"
)

// ToolHandler is the signature for MCP tool handler functions that take ServerContext.
type ToolHandler func(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error)

// WrapWithAuditLogging wraps a tool handler with tracing, metrics and audit logging.
// The wrapper captures:
//   - Tool invocation timing
//   - Cluster, host and infrastructure environment IDs from request arguments
//   - Success/error status from the handler result
//   - OpenTelemetry trace context for correlation
//
// Audit records go to the provider's AuditLogger, or to the server logger when
// instrumentation is not configured.
func WrapWithAuditLogging(
	toolName string,
	handler ToolHandler,
	sc *server.ServerContext,
) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		ctx, span := instrumentation.StartToolSpan(ctx, toolName, spanAttributes(args)...)
		defer span.End()

		invocation := instrumentation.NewToolInvocation(toolName).WithSpanContext(ctx)
		extractAuditInfoFromArgs(invocation, args)

		result, err := handler(ctx, request, sc)

		switch {
		case err != nil:
			invocation.CompleteWithError(err)
			instrumentation.SetSpanError(span, err)
		case result != nil && result.IsError:
			// MCP tool errors are returned in the result, not as Go errors
			invocation.Complete(false, nil)
			if len(result.Content) > 0 {
				if textContent, ok := result.Content[0].(mcp.TextContent); ok {
					invocation.Error = textContent.Text
				}
			}
			instrumentation.SetSpanError(span, errors.New(invocation.Error))
		default:
			invocation.CompleteSuccess()
			instrumentation.SetSpanSuccess(span)
		}

		sc.Metrics().RecordToolInvocation(ctx, toolName, invocation.Status(), time.Since(invocation.StartTime))
		auditLogger(sc).LogToolInvocation(ctx, invocation)

		return result, err
	}
}

func auditLogger(sc *server.ServerContext) *instrumentation.AuditLogger {
	if provider := sc.InstrumentationProvider(); provider != nil && provider.AuditLogger() != nil {
		return provider.AuditLogger()
	}
	return instrumentation.NewAuditLogger(sc.Logger())
}

// extractAuditInfoFromArgs copies the entity IDs of a tool request into the
// audit record.
func extractAuditInfoFromArgs(invocation *instrumentation.ToolInvocation, args map[string]any) {
	if clusterID, ok := args[ArgClusterID].(string); ok && clusterID != "" {
		invocation.WithCluster(clusterID)
	}

	hostID, _ := args[ArgHostID].(string)
	infraEnvID, _ := args[ArgInfraEnvID].(string)
	if hostID != "" || infraEnvID != "" {
		invocation.WithHost(infraEnvID, hostID)
	}
}

func spanAttributes(args map[string]any) []attribute.KeyValue {
	b := instrumentation.NewSpanAttributeBuilder()
	if v, ok := args[ArgClusterID].(string); ok {
		b.WithClusterID(v)
	}
	if v, ok := args[ArgHostID].(string); ok {
		b.WithHostID(v)
	}
	if v, ok := args[ArgInfraEnvID].(string); ok {
		b.WithInfraEnvID(v)
	}
	return b.Build()
}
