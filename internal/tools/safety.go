package tools

import (
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/giantswarm/mcp-assisted-service/internal/server"
)

// CheckMutatingOperation verifies if a tool that changes remote state may run
// given the current server configuration. Returns an error result if blocked,
// nil if allowed.
//
// Mutating tools: create_cluster, set_cluster_vips, install_cluster,
// add_operator_bundle_to_cluster, set_host_role.
func CheckMutatingOperation(sc *server.ServerContext, tool string) *mcp.CallToolResult {
	if !sc.ReadOnly() {
		return nil
	}

	return mcp.NewToolResultError(fmt.Sprintf(
		"%s is not allowed in read-only mode",
		cases.Title(language.English).String(strings.ReplaceAll(tool, "_", " ")),
	))
}
