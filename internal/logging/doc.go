// Package logging provides structured logging utilities for the mcp-assisted-service application.
//
// This package centralizes logging patterns to ensure consistent, structured logging
// throughout the codebase using the standard library's slog package.
//
// # Key Features
//
//   - Logger construction from configuration (level, format, optional rotated file)
//   - Redaction of pull secrets, SSH keys and vSphere credentials
//   - Host/URL sanitization for transport errors
//   - Consistent attribute naming across the codebase
//
// # Usage Patterns
//
// Build the process logger once and inject it:
//
//	logger, closer, err := logging.New(logging.Options{Level: "debug", Format: "json"})
//	if err != nil {
//	    return err
//	}
//	defer closer.Close()
//
// Attach standard attributes:
//
//	logger := logging.WithTool(logger, "cluster_info")
//	logger.Info("fetching cluster", logging.ClusterID(id))
//
// # Security Considerations
//
// Every record that passes through a logger built by [New] is scrubbed by
// [RedactingHandler]. Attributes named pull_secret, ssh_public_key,
// vsphere_username or vsphere_password are masked outright, and occurrences of
// those fields inside string values (JSON bodies, key=value dumps) are masked
// in place. Tokens are never logged; use [SanitizeToken] to log their length.
package logging
