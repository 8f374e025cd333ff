// Package cmd provides the command-line interface for mcp-assisted-service.
//
// This package implements a Cobra-based CLI with multiple subcommands:
//   - serve: Starts the MCP server (default behavior when no subcommand is provided)
//   - version: Displays the application version
//   - self-update: Updates the binary to the latest version from GitHub releases
//
// Command Structure:
//
//	mcp-assisted-service [flags]           # Starts the MCP server (default)
//	mcp-assisted-service serve [flags]     # Explicitly starts the MCP server
//	mcp-assisted-service version           # Shows version information
//	mcp-assisted-service self-update       # Updates to latest release
//
// The serve command supports multiple transport options:
//   - sse: Server-Sent Events over HTTP (default)
//   - streamable-http: Streamable HTTP transport
//   - stdio: Standard input/output, for local clients that spawn the server
//
// Transport Configuration Examples:
//
//	mcp-assisted-service serve --transport sse --http-addr :8000
//	mcp-assisted-service serve --transport streamable-http --http-endpoint /mcp
//	OFFLINE_TOKEN=... mcp-assisted-service serve --transport stdio
//
// Every flag that configures the assisted service connection or logging can
// also be set through an environment variable (SSO_URL, INVENTORY_URL,
// PULL_SECRET_URL, CLIENT_DEBUG, LOGGING_LEVEL, LOG_FILE, READ_ONLY).
// Explicitly set flags win over the environment. The offline token is only
// read from OFFLINE_TOKEN.
package cmd
