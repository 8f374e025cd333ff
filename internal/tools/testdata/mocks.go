// Package testdata provides mock implementations for testing the tool packages.
package testdata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/giantswarm/mcp-assisted-service/internal/assisted"
	"github.com/giantswarm/mcp-assisted-service/internal/server"
)

// Compile-time interface compliance checks.
// These ensure the mocks always satisfy the interfaces they're meant to implement.
var (
	_ assisted.Inventory     = (*MockInventory)(nil)
	_ assisted.ClientFactory = (*MockClientFactory)(nil)
)

// Call records one method invocation on MockInventory.
type Call struct {
	Method string
	Args   []any
}

// MockInventory implements assisted.Inventory for testing. Each method calls
// the matching function field when set and returns zero values otherwise.
// Every call is recorded.
type MockInventory struct {
	GetClusterFunc                 func(ctx context.Context, clusterID string) (*assisted.Cluster, error)
	ListClustersFunc               func(ctx context.Context) ([]assisted.Cluster, error)
	CreateClusterFunc              func(ctx context.Context, name, version string, singleNode bool, params assisted.ClusterParams) (*assisted.Cluster, error)
	UpdateClusterFunc              func(ctx context.Context, clusterID string, params assisted.ClusterUpdateParams) (*assisted.Cluster, error)
	InstallClusterFunc             func(ctx context.Context, clusterID string) (*assisted.Cluster, error)
	AddOperatorBundleToClusterFunc func(ctx context.Context, clusterID, bundleName string) (*assisted.Cluster, error)
	GetCredentialsDownloadURLFunc  func(ctx context.Context, clusterID, fileName string) (*assisted.PresignedURL, error)
	GetEventsFunc                  func(ctx context.Context, filter assisted.EventsFilter) (string, error)
	ListInfraEnvsFunc              func(ctx context.Context, clusterID string) ([]assisted.InfraEnv, error)
	GetInfraEnvFunc                func(ctx context.Context, infraEnvID string) (*assisted.InfraEnv, error)
	GetInfraEnvDownloadURLFunc     func(ctx context.Context, infraEnvID string) (*assisted.PresignedURL, error)
	CreateInfraEnvFunc             func(ctx context.Context, name string, params assisted.InfraEnvParams) (*assisted.InfraEnv, error)
	ListVersionsFunc               func(ctx context.Context, onlyLatest bool) (*assisted.OpenshiftVersions, error)
	ListOperatorBundlesFunc        func(ctx context.Context) ([]assisted.OperatorBundle, error)
	UpdateHostFunc                 func(ctx context.Context, hostID, infraEnvID string, params assisted.HostUpdateParams) (*assisted.Host, error)

	mu    sync.Mutex
	calls []Call
}

func (m *MockInventory) record(method string, args ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, Call{Method: method, Args: args})
}

// Calls returns the recorded calls in order.
func (m *MockInventory) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Call(nil), m.calls...)
}

// CallCount returns how often method was called.
func (m *MockInventory) CallCount(method string) int {
	n := 0
	for _, c := range m.Calls() {
		if c.Method == method {
			n++
		}
	}
	return n
}

// GetCluster implements assisted.ClusterManager.
func (m *MockInventory) GetCluster(ctx context.Context, clusterID string) (*assisted.Cluster, error) {
	m.record("GetCluster", clusterID)
	if m.GetClusterFunc != nil {
		return m.GetClusterFunc(ctx, clusterID)
	}
	return &assisted.Cluster{}, nil
}

// ListClusters implements assisted.ClusterManager.
func (m *MockInventory) ListClusters(ctx context.Context) ([]assisted.Cluster, error) {
	m.record("ListClusters")
	if m.ListClustersFunc != nil {
		return m.ListClustersFunc(ctx)
	}
	return nil, nil
}

// CreateCluster implements assisted.ClusterManager.
func (m *MockInventory) CreateCluster(ctx context.Context, name, version string, singleNode bool, params assisted.ClusterParams) (*assisted.Cluster, error) {
	m.record("CreateCluster", name, version, singleNode, params)
	if m.CreateClusterFunc != nil {
		return m.CreateClusterFunc(ctx, name, version, singleNode, params)
	}
	return &assisted.Cluster{}, nil
}

// UpdateCluster implements assisted.ClusterManager.
func (m *MockInventory) UpdateCluster(ctx context.Context, clusterID string, params assisted.ClusterUpdateParams) (*assisted.Cluster, error) {
	m.record("UpdateCluster", clusterID, params)
	if m.UpdateClusterFunc != nil {
		return m.UpdateClusterFunc(ctx, clusterID, params)
	}
	return &assisted.Cluster{}, nil
}

// InstallCluster implements assisted.ClusterManager.
func (m *MockInventory) InstallCluster(ctx context.Context, clusterID string) (*assisted.Cluster, error) {
	m.record("InstallCluster", clusterID)
	if m.InstallClusterFunc != nil {
		return m.InstallClusterFunc(ctx, clusterID)
	}
	return &assisted.Cluster{}, nil
}

// AddOperatorBundleToCluster implements assisted.ClusterManager.
func (m *MockInventory) AddOperatorBundleToCluster(ctx context.Context, clusterID, bundleName string) (*assisted.Cluster, error) {
	m.record("AddOperatorBundleToCluster", clusterID, bundleName)
	if m.AddOperatorBundleToClusterFunc != nil {
		return m.AddOperatorBundleToClusterFunc(ctx, clusterID, bundleName)
	}
	return &assisted.Cluster{}, nil
}

// GetCredentialsDownloadURL implements assisted.ClusterManager.
func (m *MockInventory) GetCredentialsDownloadURL(ctx context.Context, clusterID, fileName string) (*assisted.PresignedURL, error) {
	m.record("GetCredentialsDownloadURL", clusterID, fileName)
	if m.GetCredentialsDownloadURLFunc != nil {
		return m.GetCredentialsDownloadURLFunc(ctx, clusterID, fileName)
	}
	return &assisted.PresignedURL{}, nil
}

// GetEvents implements assisted.ClusterManager.
func (m *MockInventory) GetEvents(ctx context.Context, filter assisted.EventsFilter) (string, error) {
	m.record("GetEvents", filter)
	if m.GetEventsFunc != nil {
		return m.GetEventsFunc(ctx, filter)
	}
	return "[]", nil
}

// ListInfraEnvs implements assisted.InfraEnvManager.
func (m *MockInventory) ListInfraEnvs(ctx context.Context, clusterID string) ([]assisted.InfraEnv, error) {
	m.record("ListInfraEnvs", clusterID)
	if m.ListInfraEnvsFunc != nil {
		return m.ListInfraEnvsFunc(ctx, clusterID)
	}
	return nil, nil
}

// GetInfraEnv implements assisted.InfraEnvManager.
func (m *MockInventory) GetInfraEnv(ctx context.Context, infraEnvID string) (*assisted.InfraEnv, error) {
	m.record("GetInfraEnv", infraEnvID)
	if m.GetInfraEnvFunc != nil {
		return m.GetInfraEnvFunc(ctx, infraEnvID)
	}
	return &assisted.InfraEnv{}, nil
}

// GetInfraEnvDownloadURL implements assisted.InfraEnvManager.
func (m *MockInventory) GetInfraEnvDownloadURL(ctx context.Context, infraEnvID string) (*assisted.PresignedURL, error) {
	m.record("GetInfraEnvDownloadURL", infraEnvID)
	if m.GetInfraEnvDownloadURLFunc != nil {
		return m.GetInfraEnvDownloadURLFunc(ctx, infraEnvID)
	}
	return &assisted.PresignedURL{}, nil
}

// CreateInfraEnv implements assisted.InfraEnvManager.
func (m *MockInventory) CreateInfraEnv(ctx context.Context, name string, params assisted.InfraEnvParams) (*assisted.InfraEnv, error) {
	m.record("CreateInfraEnv", name, params)
	if m.CreateInfraEnvFunc != nil {
		return m.CreateInfraEnvFunc(ctx, name, params)
	}
	return &assisted.InfraEnv{}, nil
}

// ListVersions implements assisted.CatalogReader.
func (m *MockInventory) ListVersions(ctx context.Context, onlyLatest bool) (*assisted.OpenshiftVersions, error) {
	m.record("ListVersions", onlyLatest)
	if m.ListVersionsFunc != nil {
		return m.ListVersionsFunc(ctx, onlyLatest)
	}
	return &assisted.OpenshiftVersions{}, nil
}

// ListOperatorBundles implements assisted.CatalogReader.
func (m *MockInventory) ListOperatorBundles(ctx context.Context) ([]assisted.OperatorBundle, error) {
	m.record("ListOperatorBundles")
	if m.ListOperatorBundlesFunc != nil {
		return m.ListOperatorBundlesFunc(ctx)
	}
	return nil, nil
}

// UpdateHost implements assisted.HostManager.
func (m *MockInventory) UpdateHost(ctx context.Context, hostID, infraEnvID string, params assisted.HostUpdateParams) (*assisted.Host, error) {
	m.record("UpdateHost", hostID, infraEnvID, params)
	if m.UpdateHostFunc != nil {
		return m.UpdateHostFunc(ctx, hostID, infraEnvID, params)
	}
	return &assisted.Host{}, nil
}

// MockClientFactory hands out the same Inventory for every token and records
// the tokens it was given.
type MockClientFactory struct {
	Inventory assisted.Inventory
	Err       error

	mu     sync.Mutex
	tokens []string
}

// NewClient implements assisted.ClientFactory.
func (f *MockClientFactory) NewClient(accessToken string) (assisted.Inventory, error) {
	f.mu.Lock()
	f.tokens = append(f.tokens, accessToken)
	f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Inventory, nil
}

// Tokens returns the access tokens passed to NewClient.
func (f *MockClientFactory) Tokens() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.tokens...)
}

// StaticResolver returns a fixed token or error.
type StaticResolver struct {
	Token string
	Err   error
}

// AccessToken implements oauth.TokenResolver.
func (r StaticResolver) AccessToken(_ context.Context) (string, error) {
	return r.Token, r.Err
}

// NewServerContext returns a ServerContext whose tool calls reach inv with
// the token "test-token". Log output is captured in the returned buffer.
func NewServerContext(t *testing.T, inv assisted.Inventory, opts ...server.Option) (*server.ServerContext, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	base := []server.Option{
		server.WithClientFactory(&MockClientFactory{Inventory: inv}),
		server.WithTokenResolver(StaticResolver{Token: "test-token"}),
		server.WithLogger(slog.New(slog.NewJSONHandler(&lockedWriter{w: buf}, &slog.HandlerOptions{Level: slog.LevelDebug}))),
	}
	sc, err := server.NewServerContext(context.Background(), append(base, opts...)...)
	if err != nil {
		t.Fatalf("failed to create server context: %v", err)
	}
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc, buf
}

// lockedWriter serializes writes from concurrent handlers.
type lockedWriter struct {
	mu sync.Mutex
	w  *bytes.Buffer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

// CallToolRequest builds a request for tool with args.
func CallToolRequest(tool string, args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = tool
	req.Params.Arguments = args
	return req
}

// ResultText returns the text of the first content item of result.
func ResultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil || len(result.Content) == 0 {
		t.Fatalf("expected a result with content, got %#v", result)
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected TextContent in result, got %T", result.Content[0])
	}
	return text.Text
}

// Cluster decodes a cluster document, failing the test on error.
func Cluster(t *testing.T, doc string) *assisted.Cluster {
	t.Helper()
	var c assisted.Cluster
	if err := json.Unmarshal([]byte(doc), &c); err != nil {
		t.Fatalf("invalid cluster document: %v", err)
	}
	return &c
}

// Host decodes a host document, failing the test on error.
func Host(t *testing.T, doc string) *assisted.Host {
	t.Helper()
	var h assisted.Host
	if err := json.Unmarshal([]byte(doc), &h); err != nil {
		t.Fatalf("invalid host document: %v", err)
	}
	return &h
}

// InfraEnvs builds infra envs with the given IDs.
func InfraEnvs(ids ...string) []assisted.InfraEnv {
	envs := make([]assisted.InfraEnv, 0, len(ids))
	for i, id := range ids {
		envs = append(envs, assisted.InfraEnv{ID: id, Name: fmt.Sprintf("env-%d", i)})
	}
	return envs
}
