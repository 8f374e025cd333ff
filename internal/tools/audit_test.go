package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/giantswarm/mcp-assisted-service/internal/instrumentation"
	"github.com/giantswarm/mcp-assisted-service/internal/server"
	"github.com/giantswarm/mcp-assisted-service/internal/tools/testdata"
)

// auditRecords returns the "tool invocation" records written to buf.
func auditRecords(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var records []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec))
		if rec["msg"] == "tool invocation" {
			records = append(records, rec)
		}
	}
	return records
}

func TestWrapWithAuditLogging(t *testing.T) {
	tests := []struct {
		name        string
		args        map[string]any
		handler     ToolHandler
		wantErr     bool
		wantLevel   string
		wantSuccess bool
		wantFields  map[string]string
	}{
		{
			name: "success with cluster id",
			args: map[string]any{"cluster_id": "c-1"},
			handler: func(context.Context, mcp.CallToolRequest, *server.ServerContext) (*mcp.CallToolResult, error) {
				return mcp.NewToolResultText("ok"), nil
			},
			wantLevel:   "INFO",
			wantSuccess: true,
			wantFields:  map[string]string{"tool": "test_tool", "cluster_id": "c-1"},
		},
		{
			name: "tool error result",
			args: map[string]any{"cluster_id": "c-2"},
			handler: func(context.Context, mcp.CallToolRequest, *server.ServerContext) (*mcp.CallToolResult, error) {
				return mcp.NewToolResultError("GET /clusters/c-2 returned 404: not found"), nil
			},
			wantLevel:  "WARN",
			wantFields: map[string]string{"cluster_id": "c-2", "error": "GET /clusters/c-2 returned 404: not found"},
		},
		{
			name: "go error",
			handler: func(context.Context, mcp.CallToolRequest, *server.ServerContext) (*mcp.CallToolResult, error) {
				return nil, errors.New("handler exploded")
			},
			wantErr:    true,
			wantLevel:  "WARN",
			wantFields: map[string]string{"error": "handler exploded"},
		},
		{
			name: "host and infra env ids",
			args: map[string]any{"host_id": "h-1", "infraenv_id": "ie-1", "role": "worker"},
			handler: func(context.Context, mcp.CallToolRequest, *server.ServerContext) (*mcp.CallToolResult, error) {
				return mcp.NewToolResultText("{}"), nil
			},
			wantLevel:   "INFO",
			wantSuccess: true,
			wantFields:  map[string]string{"host_id": "h-1", "infra_env_id": "ie-1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc, logs := testdata.NewServerContext(t, &testdata.MockInventory{})
			wrapped := WrapWithAuditLogging("test_tool", tt.handler, sc)

			_, err := wrapped(context.Background(), testdata.CallToolRequest("test_tool", tt.args))
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}

			records := auditRecords(t, logs)
			require.Len(t, records, 1)
			rec := records[0]
			assert.Equal(t, tt.wantLevel, rec["level"])
			assert.Equal(t, tt.wantSuccess, rec["success"])
			assert.NotEmpty(t, rec["invocation_id"])
			for k, v := range tt.wantFields {
				assert.Equal(t, v, rec[k], "field %s", k)
			}
			if tt.wantSuccess {
				assert.NotContains(t, rec, "error")
			}
		})
	}
}

func TestWrapWithAuditLogging_PassesThroughResult(t *testing.T) {
	sc, _ := testdata.NewServerContext(t, &testdata.MockInventory{})
	want := mcp.NewToolResultText("payload")

	var gotRequest mcp.CallToolRequest
	wrapped := WrapWithAuditLogging("test_tool", func(_ context.Context, req mcp.CallToolRequest, got *server.ServerContext) (*mcp.CallToolResult, error) {
		gotRequest = req
		assert.Same(t, sc, got)
		return want, nil
	}, sc)

	result, err := wrapped(context.Background(), testdata.CallToolRequest("test_tool", map[string]any{"cluster_id": "c-1"}))
	require.NoError(t, err)
	assert.Same(t, want, result)
	assert.Equal(t, "c-1", gotRequest.GetArguments()["cluster_id"])
}

func TestWrapWithAuditLogging_UsesProviderAuditLogger(t *testing.T) {
	var auditBuf bytes.Buffer
	reader := sdkmetric.NewManualReader()

	cfg := instrumentation.DefaultConfig()
	cfg.Enabled = true
	cfg.MetricsExporter = instrumentation.MetricsExporterPrometheus
	cfg.TracingExporter = instrumentation.TracingExporterNone
	provider, err := instrumentation.NewProvider(context.Background(), cfg,
		instrumentation.WithMetricReader(reader),
		instrumentation.WithLogger(slog.New(slog.NewJSONHandler(&auditBuf, nil))),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	sc, serverLogs := testdata.NewServerContext(t, &testdata.MockInventory{}, server.WithInstrumentationProvider(provider))

	ok := WrapWithAuditLogging("list_clusters", func(context.Context, mcp.CallToolRequest, *server.ServerContext) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText("[]"), nil
	}, sc)
	failing := WrapWithAuditLogging("install_cluster", func(context.Context, mcp.CallToolRequest, *server.ServerContext) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultError("conflict"), nil
	}, sc)

	_, err = ok(context.Background(), testdata.CallToolRequest("list_clusters", nil))
	require.NoError(t, err)
	_, err = failing(context.Background(), testdata.CallToolRequest("install_cluster", map[string]any{"cluster_id": "c-1"}))
	require.NoError(t, err)

	assert.Len(t, auditRecords(t, &auditBuf), 2)
	assert.Empty(t, auditRecords(t, serverLogs), "audit records belong to the provider's logger")

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	counts := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "mcp_tool_invocations_total" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				tool, _ := dp.Attributes.Value("tool")
				status, _ := dp.Attributes.Value("status")
				counts[tool.AsString()+"/"+status.AsString()] += dp.Value
			}
		}
	}
	assert.Equal(t, map[string]int64{
		"list_clusters/" + instrumentation.StatusSuccess: 1,
		"install_cluster/" + instrumentation.StatusError: 1,
	}, counts)
}

func TestExtractAuditInfoFromArgs(t *testing.T) {
	tests := []struct {
		name         string
		args         map[string]any
		wantCluster  string
		wantHost     string
		wantInfraEnv string
	}{
		{name: "no args"},
		{name: "cluster only", args: map[string]any{"cluster_id": "c-1"}, wantCluster: "c-1"},
		{name: "empty cluster ignored", args: map[string]any{"cluster_id": ""}},
		{name: "non string ignored", args: map[string]any{"cluster_id": 42}},
		{name: "host only", args: map[string]any{"host_id": "h-1"}, wantHost: "h-1"},
		{
			name:         "host and infra env",
			args:         map[string]any{"host_id": "h-1", "infraenv_id": "ie-1"},
			wantHost:     "h-1",
			wantInfraEnv: "ie-1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ti := instrumentation.NewToolInvocation("test")
			extractAuditInfoFromArgs(ti, tt.args)
			assert.Equal(t, tt.wantCluster, ti.ClusterID)
			assert.Equal(t, tt.wantHost, ti.HostID)
			assert.Equal(t, tt.wantInfraEnv, ti.InfraEnvID)
		})
	}
}

func TestSpanAttributes(t *testing.T) {
	attrs := spanAttributes(map[string]any{"cluster_id": "c-1", "host_id": "h-1", "other": "x"})

	got := map[string]string{}
	for _, kv := range attrs {
		got[string(kv.Key)] = kv.Value.AsString()
	}
	assert.Equal(t, map[string]string{
		instrumentation.SpanAttrClusterID: "c-1",
		instrumentation.SpanAttrHostID:    "h-1",
	}, got)
}
