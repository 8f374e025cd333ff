package output

import (
	"encoding/json"

	"github.com/giantswarm/mcp-assisted-service/internal/assisted"
)

// ClusterSummary is the trimmed view of a cluster returned by list_clusters.
type ClusterSummary struct {
	Name             string `json:"name"`
	ID               string `json:"id"`
	OpenshiftVersion string `json:"openshift_version"`
	Status           string `json:"status"`
}

// SummarizeClusters keeps the name, ID, version and status of each cluster,
// preserving order.
func SummarizeClusters(clusters []assisted.Cluster) []ClusterSummary {
	summaries := make([]ClusterSummary, 0, len(clusters))
	for _, c := range clusters {
		summaries = append(summaries, ClusterSummary{
			Name:             c.Name,
			ID:               c.ID,
			OpenshiftVersion: c.OpenshiftVersion,
			Status:           c.Status,
		})
	}
	return summaries
}

// JSON renders v as compact JSON.
func JSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
