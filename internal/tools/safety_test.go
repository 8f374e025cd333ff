package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giantswarm/mcp-assisted-service/internal/server"
	"github.com/giantswarm/mcp-assisted-service/internal/tools/testdata"
)

func TestCheckMutatingOperation_BlockedInReadOnlyMode(t *testing.T) {
	sc, _ := testdata.NewServerContext(t, &testdata.MockInventory{}, server.WithReadOnly(true))

	tests := []struct {
		tool string
		want string
	}{
		{"create_cluster", "Create Cluster is not allowed in read-only mode"},
		{"set_cluster_vips", "Set Cluster Vips is not allowed in read-only mode"},
		{"install_cluster", "Install Cluster is not allowed in read-only mode"},
		{"add_operator_bundle_to_cluster", "Add Operator Bundle To Cluster is not allowed in read-only mode"},
		{"set_host_role", "Set Host Role is not allowed in read-only mode"},
	}

	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			result := CheckMutatingOperation(sc, tt.tool)
			require.NotNil(t, result, "%s should be blocked in read-only mode", tt.tool)
			assert.True(t, result.IsError)
			assert.Equal(t, tt.want, testdata.ResultText(t, result))
		})
	}
}

func TestCheckMutatingOperation_AllowedByDefault(t *testing.T) {
	sc, _ := testdata.NewServerContext(t, &testdata.MockInventory{})

	for _, tool := range []string{"create_cluster", "install_cluster", "set_host_role"} {
		assert.Nil(t, CheckMutatingOperation(sc, tool), "%s should be allowed", tool)
	}
}
