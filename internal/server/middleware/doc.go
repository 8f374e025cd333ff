// Package middleware provides HTTP middleware for the assisted service MCP server.
// These middleware functions handle security headers, CORS, request size limits and
// request metrics.
package middleware
