// Package output renders assisted service data into the text returned by
// MCP tools.
//
// Tool handlers return JSON for structured data and short line-oriented text
// for presigned download URLs:
//
//	URL: https://example.com/cluster.iso
//	Expires at: 2026-01-01T00:00:00Z
//
// [SummarizeClusters] trims the cluster list to the fields an agent needs to
// pick a cluster. [FormatPresignedURL] drops the expiry line when the service
// reports the zero timestamp.
package output
