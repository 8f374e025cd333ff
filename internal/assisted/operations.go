package assisted

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/giantswarm/mcp-assisted-service/internal/instrumentation"
)

// Values sent for single-node clusters.
const (
	singleNodeControlPlaneCount = 1
	singleNodeHAMode            = "None"
)

// apiPath escapes each segment and joins them into a path below BasePath.
func apiPath(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	return strings.Join(escaped, "/")
}

func clusterAttr(id string) attribute.KeyValue {
	return attribute.String(instrumentation.SpanAttrClusterID, id)
}

func infraEnvAttr(id string) attribute.KeyValue {
	return attribute.String(instrumentation.SpanAttrInfraEnvID, id)
}

// GetCluster returns a single cluster.
func (c *Client) GetCluster(ctx context.Context, clusterID string) (*Cluster, error) {
	var cluster Cluster
	err := c.do(ctx, request{
		operation: "get_cluster",
		method:    http.MethodGet,
		path:      apiPath("clusters", clusterID),
		query:     url.Values{"get_unregistered_clusters": {"false"}},
		attrs:     []attribute.KeyValue{clusterAttr(clusterID)},
	}, &cluster)
	if err != nil {
		return nil, err
	}
	return &cluster, nil
}

// ListClusters returns all clusters visible to the caller.
func (c *Client) ListClusters(ctx context.Context) ([]Cluster, error) {
	var clusters []Cluster
	err := c.do(ctx, request{
		operation: "list_clusters",
		method:    http.MethodGet,
		path:      "clusters",
	}, &clusters)
	if err != nil {
		return nil, err
	}
	return clusters, nil
}

// GetEvents returns the event listing exactly as the service sent it.
func (c *Client) GetEvents(ctx context.Context, filter EventsFilter) (string, error) {
	query := url.Values{}
	if filter.ClusterID != "" {
		query.Set("cluster_id", filter.ClusterID)
	}
	if filter.HostID != "" {
		query.Set("host_id", filter.HostID)
	}
	if filter.InfraEnvID != "" {
		query.Set("infra_env_id", filter.InfraEnvID)
	}
	categories := filter.Categories
	if len(categories) == 0 {
		categories = DefaultEventCategories
	}
	query.Set("categories", strings.Join(categories, ","))

	attrs := []attribute.KeyValue{clusterAttr(filter.ClusterID)}
	if filter.HostID != "" {
		attrs = append(attrs, attribute.String(instrumentation.SpanAttrHostID, filter.HostID))
	}

	body, err := c.call(ctx, request{
		operation: "list_events",
		method:    http.MethodGet,
		path:      "events",
		query:     query,
		attrs:     attrs,
	})
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// ListInfraEnvs returns the infrastructure environments of a cluster.
func (c *Client) ListInfraEnvs(ctx context.Context, clusterID string) ([]InfraEnv, error) {
	var envs []InfraEnv
	err := c.do(ctx, request{
		operation: "list_infra_envs",
		method:    http.MethodGet,
		path:      "infra-envs",
		query:     url.Values{"cluster_id": {clusterID}},
		attrs:     []attribute.KeyValue{clusterAttr(clusterID)},
	}, &envs)
	if err != nil {
		return nil, err
	}
	return envs, nil
}

// GetInfraEnv returns a single infrastructure environment.
func (c *Client) GetInfraEnv(ctx context.Context, infraEnvID string) (*InfraEnv, error) {
	var env InfraEnv
	err := c.do(ctx, request{
		operation: "get_infra_env",
		method:    http.MethodGet,
		path:      apiPath("infra-envs", infraEnvID),
		attrs:     []attribute.KeyValue{infraEnvAttr(infraEnvID)},
	}, &env)
	if err != nil {
		return nil, err
	}
	return &env, nil
}

// GetInfraEnvDownloadURL returns a presigned discovery ISO URL.
func (c *Client) GetInfraEnvDownloadURL(ctx context.Context, infraEnvID string) (*PresignedURL, error) {
	var presigned PresignedURL
	err := c.do(ctx, request{
		operation: "get_infra_env_download_url",
		method:    http.MethodGet,
		path:      apiPath("infra-envs", infraEnvID, "downloads", "image-url"),
		attrs:     []attribute.KeyValue{infraEnvAttr(infraEnvID)},
	}, &presigned)
	if err != nil {
		return nil, err
	}
	return &presigned, nil
}

// CreateCluster registers a new cluster with the caller's pull secret.
func (c *Client) CreateCluster(ctx context.Context, name, version string, singleNode bool, params ClusterParams) (*Cluster, error) {
	pullSecret, err := c.PullSecret(ctx)
	if err != nil {
		return nil, err
	}

	body := clusterCreateRequest{
		Name:             name,
		OpenshiftVersion: version,
		PullSecret:       pullSecret,
		ClusterParams:    params,
	}
	if singleNode {
		count := singleNodeControlPlaneCount
		userManaged := true
		body.ControlPlaneCount = &count
		body.HighAvailabilityMode = singleNodeHAMode
		body.UserManagedNetworking = &userManaged
	}

	var cluster Cluster
	err = c.do(ctx, request{
		operation: "register_cluster",
		method:    http.MethodPost,
		path:      "clusters",
		body:      body,
	}, &cluster)
	if err != nil {
		return nil, err
	}
	return &cluster, nil
}

// CreateInfraEnv registers a new infrastructure environment with the caller's
// pull secret.
func (c *Client) CreateInfraEnv(ctx context.Context, name string, params InfraEnvParams) (*InfraEnv, error) {
	pullSecret, err := c.PullSecret(ctx)
	if err != nil {
		return nil, err
	}

	var env InfraEnv
	err = c.do(ctx, request{
		operation: "register_infra_env",
		method:    http.MethodPost,
		path:      "infra-envs",
		body: infraEnvCreateRequest{
			Name:           name,
			PullSecret:     pullSecret,
			InfraEnvParams: params,
		},
		attrs: []attribute.KeyValue{clusterAttr(params.ClusterID)},
	}, &env)
	if err != nil {
		return nil, err
	}
	return &env, nil
}

// UpdateCluster applies a partial update. A non-empty APIVIP or IngressVIP
// replaces the corresponding VIP list with that single address.
func (c *Client) UpdateCluster(ctx context.Context, clusterID string, params ClusterUpdateParams) (*Cluster, error) {
	body := clusterUpdateRequest{ClusterUpdateParams: params}
	if params.APIVIP != "" {
		body.APIVIPs = []VIP{{ClusterID: clusterID, IP: params.APIVIP}}
	}
	if params.IngressVIP != "" {
		body.IngressVIPs = []VIP{{ClusterID: clusterID, IP: params.IngressVIP}}
	}

	var cluster Cluster
	err := c.do(ctx, request{
		operation: "update_cluster",
		method:    http.MethodPatch,
		path:      apiPath("clusters", clusterID),
		body:      body,
		attrs:     []attribute.KeyValue{clusterAttr(clusterID)},
	}, &cluster)
	if err != nil {
		return nil, err
	}
	return &cluster, nil
}

// InstallCluster starts the installation of a cluster.
func (c *Client) InstallCluster(ctx context.Context, clusterID string) (*Cluster, error) {
	var cluster Cluster
	err := c.do(ctx, request{
		operation: "install_cluster",
		method:    http.MethodPost,
		path:      apiPath("clusters", clusterID, "actions", "install"),
		attrs:     []attribute.KeyValue{clusterAttr(clusterID)},
	}, &cluster)
	if err != nil {
		return nil, err
	}
	return &cluster, nil
}

// ListVersions returns the OpenShift version catalogue.
func (c *Client) ListVersions(ctx context.Context, onlyLatest bool) (*OpenshiftVersions, error) {
	var versions OpenshiftVersions
	err := c.do(ctx, request{
		operation: "list_versions",
		method:    http.MethodGet,
		path:      "openshift-versions",
		query:     url.Values{"only_latest": {strconv.FormatBool(onlyLatest)}},
	}, &versions)
	if err != nil {
		return nil, err
	}
	return &versions, nil
}

// ListOperatorBundles returns all operator bundles.
func (c *Client) ListOperatorBundles(ctx context.Context) ([]OperatorBundle, error) {
	var bundles []OperatorBundle
	err := c.do(ctx, request{
		operation: "list_bundles",
		method:    http.MethodGet,
		path:      "operators/bundles",
	}, &bundles)
	if err != nil {
		return nil, err
	}
	return bundles, nil
}

// GetOperatorBundle returns a single operator bundle.
func (c *Client) GetOperatorBundle(ctx context.Context, bundleName string) (*OperatorBundle, error) {
	var bundle OperatorBundle
	err := c.do(ctx, request{
		operation: "get_bundle",
		method:    http.MethodGet,
		path:      apiPath("operators", "bundles", bundleName),
	}, &bundle)
	if err != nil {
		return nil, err
	}
	return &bundle, nil
}

// AddOperatorBundleToCluster looks up a bundle and selects all of its
// operators on the cluster. The lookup and the update are separate calls;
// a failed lookup sends no update and a failed update is not rolled back.
func (c *Client) AddOperatorBundleToCluster(ctx context.Context, clusterID, bundleName string) (*Cluster, error) {
	bundle, err := c.GetOperatorBundle(ctx, bundleName)
	if err != nil {
		return nil, err
	}

	operators := make([]OperatorCreateParams, 0, len(bundle.Operators))
	for _, name := range bundle.Operators {
		operators = append(operators, OperatorCreateParams{Name: name})
	}

	return c.UpdateCluster(ctx, clusterID, ClusterUpdateParams{OLMOperators: operators})
}

// UpdateHost applies a partial update to a host.
func (c *Client) UpdateHost(ctx context.Context, hostID, infraEnvID string, params HostUpdateParams) (*Host, error) {
	var host Host
	err := c.do(ctx, request{
		operation: "update_host",
		method:    http.MethodPatch,
		path:      apiPath("infra-envs", infraEnvID, "hosts", hostID),
		body:      params,
		attrs: []attribute.KeyValue{
			infraEnvAttr(infraEnvID),
			attribute.String(instrumentation.SpanAttrHostID, hostID),
		},
	}, &host)
	if err != nil {
		return nil, err
	}
	return &host, nil
}

// GetCredentialsDownloadURL returns a presigned URL for one of the cluster
// credential files.
func (c *Client) GetCredentialsDownloadURL(ctx context.Context, clusterID, fileName string) (*PresignedURL, error) {
	var presigned PresignedURL
	err := c.do(ctx, request{
		operation: "get_credentials_presigned_url",
		method:    http.MethodGet,
		path:      apiPath("clusters", clusterID, "downloads", "credentials-presigned"),
		query:     url.Values{"file_name": {fileName}},
		attrs:     []attribute.KeyValue{clusterAttr(clusterID)},
	}, &presigned)
	if err != nil {
		return nil, err
	}
	return &presigned, nil
}
