package instrumentation

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestToolInvocation_NewAndComplete(t *testing.T) {
	ti := NewToolInvocation("cluster_info")

	if ti.Tool != "cluster_info" {
		t.Errorf("Tool = %q, want %q", ti.Tool, "cluster_info")
	}
	if ti.StartTime.IsZero() {
		t.Error("StartTime should not be zero")
	}
	if _, err := uuid.Parse(ti.InvocationID); err != nil {
		t.Errorf("InvocationID %q is not a UUID: %v", ti.InvocationID, err)
	}

	time.Sleep(1 * time.Millisecond)
	ti.CompleteSuccess()

	if !ti.Success {
		t.Error("Success should be true")
	}
	if ti.Duration == 0 {
		t.Error("Duration should be non-zero")
	}
	if ti.Error != "" {
		t.Errorf("Error should be empty, got %q", ti.Error)
	}
}

func TestToolInvocation_UniqueIDs(t *testing.T) {
	a := NewToolInvocation("list_clusters")
	b := NewToolInvocation("list_clusters")
	if a.InvocationID == b.InvocationID {
		t.Error("invocation IDs should differ")
	}
}

func TestToolInvocation_CompleteWithError(t *testing.T) {
	ti := NewToolInvocation("install_cluster")
	ti.CompleteWithError(errors.New("409 Conflict"))

	if ti.Success {
		t.Error("Success should be false")
	}
	if ti.Error != "409 Conflict" {
		t.Errorf("Error = %q, want %q", ti.Error, "409 Conflict")
	}
	if ti.Status() != StatusError {
		t.Errorf("Status() = %q, want %q", ti.Status(), StatusError)
	}
}

func TestToolInvocation_Complete_NilError(t *testing.T) {
	ti := NewToolInvocation("test")
	ti.Complete(true, nil)

	if ti.Error != "" {
		t.Errorf("Error = %q, want empty string", ti.Error)
	}
	if ti.Status() != StatusSuccess {
		t.Errorf("Status() = %q, want %q", ti.Status(), StatusSuccess)
	}
}

func TestToolInvocation_LogAuditAttrs(t *testing.T) {
	ti := NewToolInvocation("set_host_role").
		WithCluster("c-1").
		WithHost("ie-1", "h-1").
		CompleteSuccess()
	ti.TraceID = "abc123def456"
	ti.SpanID = "span789"

	attrMap := make(map[string]slog.Attr)
	for _, attr := range ti.LogAuditAttrs() {
		attrMap[attr.Key] = attr
	}

	want := map[string]string{
		"tool":         "set_host_role",
		"cluster_id":   "c-1",
		"infra_env_id": "ie-1",
		"host_id":      "h-1",
		"trace_id":     "abc123def456",
		"span_id":      "span789",
	}
	for k, v := range want {
		if got := attrMap[k].Value.String(); got != v {
			t.Errorf("%s = %q, want %q", k, got, v)
		}
	}
	if _, ok := attrMap["error"]; ok {
		t.Error("error attribute should be omitted on success")
	}
	if _, ok := attrMap["invocation_id"]; !ok {
		t.Error("invocation_id attribute missing")
	}
}

func TestToolInvocation_LogAttrs(t *testing.T) {
	ti := NewToolInvocation("list_versions").WithCluster("c-1").CompleteSuccess()

	keys := make(map[string]bool)
	for _, attr := range ti.LogAttrs() {
		keys[attr.Key] = true
	}
	for _, k := range []string{"tool", "success", "duration"} {
		if !keys[k] {
			t.Errorf("Missing attribute: %s", k)
		}
	}
	if keys["cluster_id"] {
		t.Error("LogAttrs should not include cluster_id")
	}
}

func TestAuditLogger_LogToolInvocation(t *testing.T) {
	var buf bytes.Buffer
	al := NewAuditLogger(slog.New(slog.NewJSONHandler(&buf, nil)))

	al.LogToolInvocation(context.Background(), NewToolInvocation("install_cluster").WithCluster("c-9").CompleteWithError(errors.New("boom")))

	out := buf.String()
	if !strings.Contains(out, `"level":"WARN"`) {
		t.Errorf("failed invocation should log at WARN: %s", out)
	}
	if !strings.Contains(out, `"cluster_id":"c-9"`) || !strings.Contains(out, `"error":"boom"`) {
		t.Errorf("unexpected audit record: %s", out)
	}
}

func TestAuditLogger_New(t *testing.T) {
	al := NewAuditLogger(nil)
	if al.logger == nil {
		t.Error("logger should not be nil when created with nil")
	}

	logger := slog.Default()
	al = NewAuditLogger(logger)
	if al.logger != logger {
		t.Error("logger should be the provided logger")
	}
}

func TestToolInvocation_WithSpanContext(t *testing.T) {
	ti := NewToolInvocation("test").WithSpanContext(context.Background())
	if ti.TraceID != "" || ti.SpanID != "" {
		t.Errorf("expected empty IDs without a span, got %q/%q", ti.TraceID, ti.SpanID)
	}

	ctx, span, _ := createTestSpanContext()
	defer span.End()
	ti = NewToolInvocation("test").WithSpanContext(ctx)
	if ti.TraceID == "" || ti.TraceID != TraceIDFromContext(ctx) {
		t.Errorf("TraceID = %q, want %q", ti.TraceID, TraceIDFromContext(ctx))
	}
}
