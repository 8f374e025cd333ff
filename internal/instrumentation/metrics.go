package instrumentation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys - using constants for consistency and DRY
const (
	attrMethod     = "method"
	attrPath       = "path"
	attrStatus     = "status"
	attrStatusCode = "status_code"
	attrOperation  = "operation"
	attrTool       = "tool"
	attrSource     = "source"
	attrResult     = "result"
)

var durationBuckets = []float64{0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0}

// Metrics provides methods for recording observability metrics.
type Metrics struct {
	// HTTP metrics
	httpRequestsTotal   metric.Int64Counter
	httpRequestDuration metric.Float64Histogram

	// MCP tool metrics
	toolInvocationsTotal metric.Int64Counter
	toolDuration         metric.Float64Histogram

	// Assisted service API metrics
	assistedRequestsTotal   metric.Int64Counter
	assistedRequestDuration metric.Float64Histogram

	// Credential metrics
	tokenResolutionsTotal metric.Int64Counter
	ssoExchangeDuration   metric.Float64Histogram

	// detailedLabels adds status_code to assisted service request metrics.
	detailedLabels bool
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
// The detailedLabels parameter controls whether high-cardinality labels are included.
func NewMetrics(meter metric.Meter, detailedLabels bool) (*Metrics, error) {
	m := &Metrics{
		detailedLabels: detailedLabels,
	}

	var err error

	m.httpRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_requests_total counter: %w", err)
	}

	m.httpRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBuckets...),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_request_duration_seconds histogram: %w", err)
	}

	m.toolInvocationsTotal, err = meter.Int64Counter(
		"mcp_tool_invocations_total",
		metric.WithDescription("Total number of MCP tool invocations"),
		metric.WithUnit("{invocation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_invocations_total counter: %w", err)
	}

	m.toolDuration, err = meter.Float64Histogram(
		"mcp_tool_duration_seconds",
		metric.WithDescription("MCP tool invocation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBuckets...),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_duration_seconds histogram: %w", err)
	}

	m.assistedRequestsTotal, err = meter.Int64Counter(
		"assisted_service_requests_total",
		metric.WithDescription("Total number of requests sent to the assisted service API"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create assisted_service_requests_total counter: %w", err)
	}

	m.assistedRequestDuration, err = meter.Float64Histogram(
		"assisted_service_request_duration_seconds",
		metric.WithDescription("Assisted service API request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBuckets...),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create assisted_service_request_duration_seconds histogram: %w", err)
	}

	m.tokenResolutionsTotal, err = meter.Int64Counter(
		"token_resolutions_total",
		metric.WithDescription("Total number of access token resolutions by credential source and result"),
		metric.WithUnit("{resolution}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create token_resolutions_total counter: %w", err)
	}

	m.ssoExchangeDuration, err = meter.Float64Histogram(
		"sso_token_exchange_duration_seconds",
		metric.WithDescription("Duration of offline token exchanges at the SSO endpoint"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBuckets...),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sso_token_exchange_duration_seconds histogram: %w", err)
	}

	return m, nil
}

// RecordHTTPRequest records an HTTP request with method, path, status code, and duration.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	if m == nil || m.httpRequestsTotal == nil || m.httpRequestDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrMethod, method),
		attribute.String(attrPath, path),
		attribute.String(attrStatus, strconv.Itoa(statusCode)),
	}

	m.httpRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.httpRequestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordToolInvocation records an MCP tool call with its outcome and duration.
func (m *Metrics) RecordToolInvocation(ctx context.Context, tool, status string, duration time.Duration) {
	if m == nil || m.toolInvocationsTotal == nil || m.toolDuration == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(attrTool, tool),
		attribute.String(attrStatus, status),
	)
	m.toolInvocationsTotal.Add(ctx, 1, attrs)
	m.toolDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordAssistedRequest records a call to the assisted service API.
// statusCode is zero when the request failed before a response arrived.
//
// CARDINALITY NOTE: operation and status are always recorded. The exact
// status code is only added when detailed labels are enabled.
func (m *Metrics) RecordAssistedRequest(ctx context.Context, operation string, statusCode int, duration time.Duration) {
	if m == nil || m.assistedRequestsTotal == nil || m.assistedRequestDuration == nil {
		return
	}

	status := StatusSuccess
	if statusCode == 0 || statusCode >= 400 {
		status = StatusError
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	}
	if m.detailedLabels {
		attrs = append(attrs, attribute.String(attrStatusCode, strconv.Itoa(statusCode)))
	}

	m.assistedRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.assistedRequestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordTokenResolution records which credential source produced (or failed
// to produce) an access token.
func (m *Metrics) RecordTokenResolution(ctx context.Context, source, result string) {
	if m == nil || m.tokenResolutionsTotal == nil {
		return
	}

	m.tokenResolutionsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrSource, source),
		attribute.String(attrResult, result),
	))
}

// RecordSSOExchange records the latency of an offline token exchange.
func (m *Metrics) RecordSSOExchange(ctx context.Context, result string, duration time.Duration) {
	if m == nil || m.ssoExchangeDuration == nil {
		return
	}

	m.ssoExchangeDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String(attrResult, result),
	))
}
