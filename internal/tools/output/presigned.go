package output

import (
	"strings"

	"github.com/giantswarm/mcp-assisted-service/internal/assisted"
)

// NoISODownloadURLs is returned when a cluster has no infrastructure
// environment that yields an ISO download URL.
const NoISODownloadURLs = "No ISO download URLs found for this cluster."

// unsetTimestampPrefix marks the zero time the assisted service sends when a
// presigned URL has no expiry.
const unsetTimestampPrefix = "0001-01-01"

// FormatPresignedURL renders a presigned URL as
//
//	URL: <url>
//	Expires at: <timestamp>
//
// The second line is left out when the expiry is empty or the zero date.
func FormatPresignedURL(p assisted.PresignedURL) string {
	var b strings.Builder
	b.WriteString("URL: ")
	b.WriteString(p.URL)
	if HasExpiry(p.ExpiresAt) {
		b.WriteString("\nExpires at: ")
		b.WriteString(p.ExpiresAt)
	}
	return b.String()
}

// HasExpiry reports whether expiresAt is a real timestamp.
func HasExpiry(expiresAt string) bool {
	return expiresAt != "" && !strings.HasPrefix(expiresAt, unsetTimestampPrefix)
}

// JoinBlocks joins formatted blocks with a blank line. It returns
// NoISODownloadURLs when there are no blocks.
func JoinBlocks(blocks []string) string {
	if len(blocks) == 0 {
		return NoISODownloadURLs
	}
	return strings.Join(blocks, "\n\n")
}
