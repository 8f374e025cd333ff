package assisted

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/giantswarm/mcp-assisted-service/internal/instrumentation"
	"github.com/giantswarm/mcp-assisted-service/internal/logging"
)

const (
	// DefaultInventoryURL is the hosted assisted service. Only its scheme and
	// host are used; the API path is always BasePath.
	DefaultInventoryURL = "https://api.openshift.com/api/assisted-install/v2"

	// DefaultPullSecretURL is the accounts management endpoint that issues
	// the caller's pull secret.
	DefaultPullSecretURL = "https://api.openshift.com/api/accounts_mgmt/v1/access_token"

	// BasePath is the path prefix of the v2 API.
	BasePath = "/api/assisted-install/v2"

	// PullSecretTimeout bounds the pull secret request.
	PullSecretTimeout = 30 * time.Second
)

// Inventory is the set of assisted service operations used by the tools.
type Inventory interface {
	ClusterManager
	InfraEnvManager
	CatalogReader
	HostManager
}

// ClusterManager handles cluster operations.
type ClusterManager interface {
	// GetCluster returns a single cluster.
	GetCluster(ctx context.Context, clusterID string) (*Cluster, error)

	// ListClusters returns all clusters visible to the caller.
	ListClusters(ctx context.Context) ([]Cluster, error)

	// CreateCluster registers a new cluster. With singleNode set the cluster
	// is created with one control plane node and user managed networking.
	CreateCluster(ctx context.Context, name, version string, singleNode bool, params ClusterParams) (*Cluster, error)

	// UpdateCluster applies a partial update.
	UpdateCluster(ctx context.Context, clusterID string, params ClusterUpdateParams) (*Cluster, error)

	// InstallCluster starts the installation.
	InstallCluster(ctx context.Context, clusterID string) (*Cluster, error)

	// AddOperatorBundleToCluster selects every operator of a bundle for
	// installation on the cluster.
	AddOperatorBundleToCluster(ctx context.Context, clusterID, bundleName string) (*Cluster, error)

	// GetCredentialsDownloadURL returns a presigned URL for a credentials file.
	GetCredentialsDownloadURL(ctx context.Context, clusterID, fileName string) (*PresignedURL, error)

	// GetEvents returns the raw event listing.
	GetEvents(ctx context.Context, filter EventsFilter) (string, error)
}

// InfraEnvManager handles infrastructure environment operations.
type InfraEnvManager interface {
	ListInfraEnvs(ctx context.Context, clusterID string) ([]InfraEnv, error)
	GetInfraEnv(ctx context.Context, infraEnvID string) (*InfraEnv, error)
	GetInfraEnvDownloadURL(ctx context.Context, infraEnvID string) (*PresignedURL, error)
	CreateInfraEnv(ctx context.Context, name string, params InfraEnvParams) (*InfraEnv, error)
}

// CatalogReader reads the version and operator catalogues.
type CatalogReader interface {
	ListVersions(ctx context.Context, onlyLatest bool) (*OpenshiftVersions, error)
	ListOperatorBundles(ctx context.Context) ([]OperatorBundle, error)
}

// HostManager handles host operations.
type HostManager interface {
	UpdateHost(ctx context.Context, hostID, infraEnvID string, params HostUpdateParams) (*Host, error)
}

// ClientFactory creates an Inventory bound to one access token.
type ClientFactory interface {
	NewClient(accessToken string) (Inventory, error)
}

// Config configures clients created by a Factory.
type Config struct {
	// InventoryURL supplies the scheme and host of the assisted service.
	InventoryURL string

	// PullSecretURL is the accounts management endpoint.
	PullSecretURL string

	// Debug logs every request and response at debug level.
	Debug bool

	// RequestTimeout bounds each API call. Zero means no timeout beyond ctx.
	RequestTimeout time.Duration

	// HTTPClient is shared by all clients when set. By default each client
	// gets its own.
	HTTPClient *http.Client

	Metrics *instrumentation.Metrics
	Logger  *slog.Logger
}

var (
	_ Inventory     = (*Client)(nil)
	_ ClientFactory = (*Factory)(nil)
)

// Factory implements ClientFactory.
type Factory struct {
	baseURL       *url.URL
	pullSecretURL string
	config        Config
}

// NewFactory validates cfg and returns a Factory.
func NewFactory(cfg Config) (*Factory, error) {
	if cfg.InventoryURL == "" {
		cfg.InventoryURL = DefaultInventoryURL
	}
	if cfg.PullSecretURL == "" {
		cfg.PullSecretURL = DefaultPullSecretURL
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	baseURL, err := parseInventoryURL(cfg.InventoryURL)
	if err != nil {
		return nil, err
	}
	if _, err := parseHTTPURL(cfg.PullSecretURL); err != nil {
		return nil, fmt.Errorf("invalid pull secret URL: %w", err)
	}

	return &Factory{
		baseURL:       baseURL,
		pullSecretURL: cfg.PullSecretURL,
		config:        cfg,
	}, nil
}

// NewClient returns a new Client for accessToken.
func (f *Factory) NewClient(accessToken string) (Inventory, error) {
	return f.newClient(accessToken)
}

func (f *Factory) newClient(accessToken string) (*Client, error) {
	if accessToken == "" {
		return nil, ErrMissingToken
	}

	httpClient := f.config.HTTPClient
	if httpClient == nil {
		httpClient = cleanhttp.DefaultClient()
	}

	base := *f.baseURL
	return &Client{
		accessToken:    accessToken,
		baseURL:        &base,
		pullSecretURL:  f.pullSecretURL,
		httpClient:     httpClient,
		requestTimeout: f.config.RequestTimeout,
		debug:          f.config.Debug,
		metrics:        f.config.Metrics,
		logger:         f.config.Logger,
	}, nil
}

// BaseURL returns the API root clients send requests to.
func (f *Factory) BaseURL() string {
	return f.baseURL.String()
}

// Client talks to the assisted service on behalf of one caller. It is safe
// for concurrent use.
type Client struct {
	accessToken    string
	baseURL        *url.URL
	pullSecretURL  string
	httpClient     *http.Client
	requestTimeout time.Duration
	debug          bool
	metrics        *instrumentation.Metrics
	logger         *slog.Logger

	pullSecretOnce sync.Once
	pullSecret     string
	pullSecretErr  error
}

// PullSecret returns the caller's pull secret. The first call fetches it and
// later calls return the same result, including a failure.
func (c *Client) PullSecret(ctx context.Context) (string, error) {
	fetched := false
	c.pullSecretOnce.Do(func() {
		fetched = true
		c.pullSecret, c.pullSecretErr = c.fetchPullSecret(ctx)
	})
	if !fetched && c.pullSecretErr == nil {
		instrumentation.AddSpanEvent(trace.SpanFromContext(ctx), "pull_secret.reused")
	}
	return c.pullSecret, c.pullSecretErr
}

func (c *Client) fetchPullSecret(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, PullSecretTimeout)
	defer cancel()

	body, err := c.send(ctx, request{
		operation:      "get_pull_secret",
		method:         http.MethodPost,
		secretResponse: true,
	}, c.pullSecretURL)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// request is one API call relative to BasePath.
type request struct {
	operation string
	method    string
	path      string
	query     url.Values
	body      any
	attrs     []attribute.KeyValue

	// secretResponse keeps the response body out of debug logs.
	secretResponse bool
}

// do sends req and decodes a successful response into out, unless out is nil.
func (c *Client) do(ctx context.Context, req request, out any) error {
	body, err := c.call(ctx, req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", req.operation, err)
	}
	return nil
}

// call sends req and returns the raw response body of a successful response.
func (c *Client) call(ctx context.Context, req request) ([]byte, error) {
	if c.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.requestTimeout)
		defer cancel()
	}

	u := c.baseURL.JoinPath(req.path)
	if len(req.query) > 0 {
		u.RawQuery = req.query.Encode()
	}

	return c.send(ctx, req, u.String())
}

func (c *Client) send(ctx context.Context, req request, rawURL string) ([]byte, error) {
	operation, method, payload := req.operation, req.method, req.body

	ctx, span := instrumentation.StartAssistedSpan(ctx, operation, method, req.attrs...)
	defer span.End()

	path := requestPath(rawURL)
	logger := logging.WithOperation(c.logger, operation)

	var reqBody io.Reader
	var encoded []byte
	if payload != nil {
		var err error
		encoded, err = json.Marshal(payload)
		if err != nil {
			instrumentation.SetSpanError(span, err)
			return nil, fmt.Errorf("failed to encode %s request: %w", operation, err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, rawURL, reqBody)
	if err != nil {
		instrumentation.SetSpanError(span, err)
		return nil, fmt.Errorf("failed to build %s request: %w", operation, err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.accessToken)
	httpReq.Header.Set("Accept", "application/json")
	if encoded != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	if c.debug {
		logger.DebugContext(ctx, "sending request",
			logging.Method(method),
			logging.Path(path),
			slog.String("body", logging.Redact(string(encoded))))
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.metrics.RecordAssistedRequest(ctx, operation, 0, time.Since(start))
		instrumentation.SetSpanError(span, err)
		logger.ErrorContext(ctx, "request failed",
			logging.Method(method),
			logging.Path(path),
			logging.Err(err))
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	duration := time.Since(start)
	c.metrics.RecordAssistedRequest(ctx, operation, resp.StatusCode, duration)
	span.SetAttributes(attribute.Int(instrumentation.SpanAttrHTTPStatusCode, resp.StatusCode))
	if err != nil {
		instrumentation.SetSpanError(span, err)
		logger.ErrorContext(ctx, "failed to read response",
			logging.Method(method),
			logging.Path(path),
			logging.StatusCode(resp.StatusCode),
			logging.Err(err))
		return nil, fmt.Errorf("failed to read %s response: %w", operation, err)
	}

	if c.debug {
		logged := logging.Redact(string(body))
		if req.secretResponse {
			logged = logging.MaskPullSecret
		}
		logger.DebugContext(ctx, "received response",
			logging.Method(method),
			logging.Path(path),
			logging.StatusCode(resp.StatusCode),
			slog.Duration(logging.KeyDuration, duration),
			slog.String("body", logged))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := newAPIError(operation, method, path, resp.StatusCode, body)
		instrumentation.SetSpanError(span, apiErr)
		logger.ErrorContext(ctx, "assisted service returned an error",
			logging.Method(method),
			logging.Path(path),
			logging.StatusCode(resp.StatusCode),
			slog.String("reason", apiErr.Reason))
		return nil, apiErr
	}

	instrumentation.SetSpanSuccess(span)
	return body, nil
}

// parseInventoryURL keeps the scheme and host of raw and appends BasePath.
func parseInventoryURL(raw string) (*url.URL, error) {
	u, err := parseHTTPURL(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid inventory URL: %w", err)
	}
	return &url.URL{Scheme: u.Scheme, Host: u.Host, Path: BasePath}, nil
}

func parseHTTPURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme %q in %q", u.Scheme, raw)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("missing host in %q", raw)
	}
	return u, nil
}

func requestPath(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return strings.TrimPrefix(u.EscapedPath(), BasePath)
}
