package tools

import (
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"k8s.io/apimachinery/pkg/util/sets"
)

// Credential files that can be downloaded for an installed cluster.
var CredentialFileNames = sets.New("kubeconfig", "kubeconfig-noingress", "kubeadmin-password")

// Roles that can be assigned to a discovered host.
var HostRoles = sets.New("auto-assign", "master", "worker")

// WithRequiredID returns a required string parameter holding an assisted
// service identifier.
func WithRequiredID(name, description string) mcp.ToolOption {
	return mcp.WithString(name,
		mcp.Required(),
		mcp.Description(description),
	)
}

// WithEnum returns a required string parameter restricted to allowed.
func WithEnum(name, description string, allowed sets.Set[string]) mcp.ToolOption {
	return mcp.WithString(name,
		mcp.Required(),
		mcp.Description(description),
		mcp.Enum(sets.List(allowed)...),
	)
}

// RequireEnum returns the value of a required enum argument, or an error
// naming the accepted values.
func RequireEnum(request mcp.CallToolRequest, name string, allowed sets.Set[string]) (string, error) {
	value, err := request.RequireString(name)
	if err != nil {
		return "", err
	}
	if !allowed.Has(value) {
		return "", fmt.Errorf("invalid %s %q: must be one of %s", name, value, strings.Join(sets.List(allowed), ", "))
	}
	return value, nil
}

// RequireID returns the value of a required, non-empty string argument.
func RequireID(request mcp.CallToolRequest, name string) (string, error) {
	value, err := request.RequireString(name)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(value) == "" {
		return "", fmt.Errorf("%s must not be empty", name)
	}
	return value, nil
}
