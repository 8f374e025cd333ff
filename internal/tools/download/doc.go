// Package download provides the MCP tools that hand out presigned download
// URLs: discovery ISOs of a cluster's infrastructure environments and cluster
// credential files.
//
// The ISO tool lists the infrastructure environments of a cluster and looks up
// one presigned URL per environment. Lookups run concurrently but the output
// keeps the listing order. An environment whose lookup fails or returns no URL
// is left out and logged; it never fails the whole call.
package download
