// Package instrumentation provides OpenTelemetry instrumentation
// for the mcp-assisted-service server.
//
// This package enables production-grade observability through:
//   - OpenTelemetry metrics for HTTP requests, MCP tool calls and assisted service API calls
//   - Distributed tracing for tool invocations, outbound API calls and SSO token exchanges
//   - Prometheus metrics export via /metrics endpoint
//   - OTLP export support for modern observability platforms
//   - An audit trail of tool invocations
//
// # Metrics
//
// Server/HTTP Metrics:
//   - http_requests_total: Counter of HTTP requests by method, path, and status
//   - http_request_duration_seconds: Histogram of HTTP request durations
//
// Tool Metrics:
//   - mcp_tool_invocations_total: Counter of tool calls by tool and status
//   - mcp_tool_duration_seconds: Histogram of tool call durations
//
// Assisted Service Metrics:
//   - assisted_service_requests_total: Counter of API calls by operation and status
//   - assisted_service_request_duration_seconds: Histogram of API call durations
//
// Credential Metrics:
//   - token_resolutions_total: Counter of token resolutions by source and result
//   - sso_token_exchange_duration_seconds: Histogram of offline token exchange latency
//
// # Cardinality Considerations
//
// Cluster, host and infrastructure environment IDs are never used as metric
// labels. They appear on spans and in audit records only. The exact HTTP
// status code of assisted service calls is added as a label only when
// METRICS_DETAILED_LABELS=true.
//
// # Configuration
//
// Instrumentation can be configured via environment variables:
//   - INSTRUMENTATION_ENABLED: Enable/disable instrumentation (default: false)
//   - METRICS_EXPORTER: Metrics exporter type (prometheus, otlp, stdout, default: prometheus)
//   - TRACING_EXPORTER: Tracing exporter type (otlp, stdout, none, default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint for traces/metrics
//   - OTEL_EXPORTER_OTLP_INSECURE: Use plain HTTP for OTLP export
//   - OTEL_TRACES_SAMPLER_ARG: Sampling rate (0.0 to 1.0, default: 0.1)
//   - OTEL_SERVICE_NAME: Service name (default: mcp-assisted-service)
//   - METRICS_DETAILED_LABELS: Add status_code to assisted service metrics
//
// The stdout exporters write to stderr so they never interleave with the
// stdio transport.
//
// # Example Usage
//
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.DefaultConfig(),
//		instrumentation.WithLogger(logger))
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	provider.Metrics().RecordAssistedRequest(ctx, "get_cluster", 200, time.Since(start))
package instrumentation
