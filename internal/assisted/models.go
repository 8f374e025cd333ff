package assisted

import (
	"bytes"
	"encoding/json"

	"k8s.io/apimachinery/pkg/util/sets"
)

// Cluster is an assisted service cluster. Only the fields the server reads
// are decoded; the full document is kept for output.
type Cluster struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	OpenshiftVersion string `json:"openshift_version"`
	Status           string `json:"status"`
	StatusInfo       string `json:"status_info,omitempty"`
	BaseDNSDomain    string `json:"base_dns_domain,omitempty"`

	raw json.RawMessage
}

func (c *Cluster) UnmarshalJSON(data []byte) error {
	type plain Cluster
	if err := json.Unmarshal(data, (*plain)(c)); err != nil {
		return err
	}
	c.raw = bytes.Clone(data)
	return nil
}

func (c Cluster) MarshalJSON() ([]byte, error) {
	type plain Cluster
	return marshalDocument(c.raw, plain(c))
}

// String returns the cluster document as indented JSON.
func (c Cluster) String() string {
	return indentDocument(c.MarshalJSON())
}

// Host is a host registered to an infrastructure environment.
type Host struct {
	ID                string `json:"id"`
	InfraEnvID        string `json:"infra_env_id,omitempty"`
	ClusterID         string `json:"cluster_id,omitempty"`
	Role              string `json:"role,omitempty"`
	Status            string `json:"status,omitempty"`
	RequestedHostname string `json:"requested_hostname,omitempty"`

	raw json.RawMessage
}

func (h *Host) UnmarshalJSON(data []byte) error {
	type plain Host
	if err := json.Unmarshal(data, (*plain)(h)); err != nil {
		return err
	}
	h.raw = bytes.Clone(data)
	return nil
}

func (h Host) MarshalJSON() ([]byte, error) {
	type plain Host
	return marshalDocument(h.raw, plain(h))
}

// String returns the host document as indented JSON.
func (h Host) String() string {
	return indentDocument(h.MarshalJSON())
}

// InfraEnv is an infrastructure environment, the unit a discovery ISO is
// generated for.
type InfraEnv struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	ClusterID        string `json:"cluster_id,omitempty"`
	OpenshiftVersion string `json:"openshift_version,omitempty"`
	DownloadURL      string `json:"download_url,omitempty"`

	raw json.RawMessage
}

func (i *InfraEnv) UnmarshalJSON(data []byte) error {
	type plain InfraEnv
	if err := json.Unmarshal(data, (*plain)(i)); err != nil {
		return err
	}
	i.raw = bytes.Clone(data)
	return nil
}

func (i InfraEnv) MarshalJSON() ([]byte, error) {
	type plain InfraEnv
	return marshalDocument(i.raw, plain(i))
}

// String returns the infrastructure environment document as indented JSON.
func (i InfraEnv) String() string {
	return indentDocument(i.MarshalJSON())
}

// OperatorBundle groups operators that are installed together.
type OperatorBundle struct {
	ID          string   `json:"id"`
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Operators   []string `json:"operators,omitempty"`

	raw json.RawMessage
}

func (b *OperatorBundle) UnmarshalJSON(data []byte) error {
	type plain OperatorBundle
	if err := json.Unmarshal(data, (*plain)(b)); err != nil {
		return err
	}
	b.raw = bytes.Clone(data)
	return nil
}

func (b OperatorBundle) MarshalJSON() ([]byte, error) {
	type plain OperatorBundle
	return marshalDocument(b.raw, plain(b))
}

// PresignedURL is a time-limited download link.
type PresignedURL struct {
	URL string `json:"url"`

	// ExpiresAt is kept as sent. The service reports "0001-01-01T00:00:00Z"
	// for links that do not expire.
	ExpiresAt string `json:"expires_at,omitempty"`
}

// OpenshiftVersions is the version catalogue keyed by version string.
type OpenshiftVersions struct {
	raw json.RawMessage
}

func (v *OpenshiftVersions) UnmarshalJSON(data []byte) error {
	v.raw = bytes.Clone(data)
	return nil
}

func (v OpenshiftVersions) MarshalJSON() ([]byte, error) {
	if len(v.raw) == 0 {
		return []byte("{}"), nil
	}
	return v.raw, nil
}

// Names returns the sorted version keys of the catalogue.
func (v OpenshiftVersions) Names() []string {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(v.raw, &m); err != nil {
		return nil
	}
	return sets.List(sets.KeySet(m))
}

// String returns the catalogue as indented JSON.
func (v OpenshiftVersions) String() string {
	return indentDocument(v.MarshalJSON())
}

// ClusterParams are the optional settings of a new cluster.
type ClusterParams struct {
	BaseDNSDomain   string `json:"base_dns_domain,omitempty"`
	Tags            string `json:"tags,omitempty"`
	CPUArchitecture string `json:"cpu_architecture,omitempty"`
	SSHPublicKey    string `json:"ssh_public_key,omitempty"`
}

// InfraEnvParams are the optional settings of a new infrastructure environment.
type InfraEnvParams struct {
	ClusterID        string `json:"cluster_id,omitempty"`
	OpenshiftVersion string `json:"openshift_version,omitempty"`
	CPUArchitecture  string `json:"cpu_architecture,omitempty"`
	SSHAuthorizedKey string `json:"ssh_authorized_key,omitempty"`
	ImageType        string `json:"image_type,omitempty"`
}

// ClusterUpdateParams is a partial cluster update. Empty fields are not sent.
type ClusterUpdateParams struct {
	APIVIP     string `json:"-"`
	IngressVIP string `json:"-"`

	Name          string                 `json:"name,omitempty"`
	BaseDNSDomain string                 `json:"base_dns_domain,omitempty"`
	OLMOperators  []OperatorCreateParams `json:"olm_operators,omitempty"`
}

// OperatorCreateParams selects an OLM operator for installation.
type OperatorCreateParams struct {
	Name string `json:"name"`
}

// VIP is a virtual IP assigned to a cluster.
type VIP struct {
	ClusterID string `json:"cluster_id"`
	IP        string `json:"ip"`
}

// HostUpdateParams is a partial host update. Empty fields are not sent.
type HostUpdateParams struct {
	HostRole string `json:"host_role,omitempty"`
	HostName string `json:"host_name,omitempty"`
}

// EventsFilter narrows an event listing. Empty IDs are not sent.
type EventsFilter struct {
	ClusterID  string
	HostID     string
	InfraEnvID string

	// Categories defaults to DefaultEventCategories.
	Categories []string
}

// DefaultEventCategories restricts event listings to user-facing events.
var DefaultEventCategories = []string{"user"}

type clusterCreateRequest struct {
	Name             string `json:"name"`
	OpenshiftVersion string `json:"openshift_version"`
	PullSecret       string `json:"pull_secret"`
	ClusterParams

	ControlPlaneCount     *int   `json:"control_plane_count,omitempty"`
	HighAvailabilityMode  string `json:"high_availability_mode,omitempty"`
	UserManagedNetworking *bool  `json:"user_managed_networking,omitempty"`
}

type infraEnvCreateRequest struct {
	Name       string `json:"name"`
	PullSecret string `json:"pull_secret"`
	InfraEnvParams
}

type clusterUpdateRequest struct {
	ClusterUpdateParams

	APIVIPs     []VIP `json:"api_vips,omitempty"`
	IngressVIPs []VIP `json:"ingress_vips,omitempty"`
}

func marshalDocument(raw json.RawMessage, fallback any) ([]byte, error) {
	if len(raw) > 0 {
		return raw, nil
	}
	return json.Marshal(fallback)
}

func indentDocument(data []byte, err error) string {
	if err != nil {
		return ""
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return string(data)
	}
	return buf.String()
}
