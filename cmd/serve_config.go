package cmd

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/giantswarm/mcp-assisted-service/internal/server"
)

// Transport type constants for the MCP server.
const (
	transportStdio          = "stdio"
	transportSSE            = server.TransportSSE
	transportStreamableHTTP = server.TransportStreamableHTTP
)

// envValueTrue is the string value used to enable boolean environment variables.
const envValueTrue = "true"

// ServeConfig holds all configuration for the serve command.
type ServeConfig struct {
	// Transport settings
	Transport string
	HTTPAddr  string

	// Endpoint paths
	SSEEndpoint      string
	MessageEndpoint  string
	HTTPEndpoint     string
	DisableStreaming bool

	// HTTP security settings
	EnableHSTS     bool
	AllowedOrigins string

	Assisted AssistedServeConfig
	Logging  LoggingServeConfig
	Metrics  MetricsServeConfig

	// ReadOnly disables the tools that create or modify remote state.
	ReadOnly bool
}

// AssistedServeConfig holds the assisted service and SSO settings.
type AssistedServeConfig struct {
	// OfflineToken is read from OFFLINE_TOKEN only, never from a flag.
	OfflineToken   string
	SSOURL         string
	InventoryURL   string
	PullSecretURL  string
	ClientDebug    bool
	RequestTimeout time.Duration
}

// LoggingServeConfig holds the process logger settings.
type LoggingServeConfig struct {
	Level  string
	Format string
	File   string
}

// MetricsServeConfig holds the dedicated metrics server settings.
type MetricsServeConfig struct {
	Enabled bool
	Addr    string
}

// loadEnvIfEmpty loads an environment variable into a string pointer if it's empty.
func loadEnvIfEmpty(target *string, envKey string) {
	if *target == "" {
		*target = os.Getenv(envKey)
	}
}

// parseBoolEnv parses a boolean from an environment variable value.
// Returns the parsed value and true if successful, or false and false if parsing fails.
// Logs a warning if the value is present but invalid.
func parseBoolEnv(value, envName string) (bool, bool) {
	if value == "" {
		return false, false
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Warning: invalid boolean for %s=%q: %v", envName, value, err)
		return false, false
	}
	return b, true
}

// parseDurationEnv parses a duration from an environment variable value.
// Returns the parsed duration and true if successful, or zero and false if parsing fails.
// Logs a warning if the value is present but invalid.
func parseDurationEnv(value, envName string) (time.Duration, bool) {
	if value == "" {
		return 0, false
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Warning: invalid duration for %s=%q: %v", envName, value, err)
		return 0, false
	}
	return d, true
}

// stringEnvFlags maps string flags to the environment variables that fill
// them when the flag was not set explicitly.
var stringEnvFlags = []struct {
	flag string
	env  string
	get  func(*ServeConfig) *string
}{
	{"transport", "MCP_TRANSPORT", func(c *ServeConfig) *string { return &c.Transport }},
	{"sso-url", "SSO_URL", func(c *ServeConfig) *string { return &c.Assisted.SSOURL }},
	{"inventory-url", "INVENTORY_URL", func(c *ServeConfig) *string { return &c.Assisted.InventoryURL }},
	{"pull-secret-url", "PULL_SECRET_URL", func(c *ServeConfig) *string { return &c.Assisted.PullSecretURL }},
	{"log-level", "LOGGING_LEVEL", func(c *ServeConfig) *string { return &c.Logging.Level }},
	{"log-format", "LOG_FORMAT", func(c *ServeConfig) *string { return &c.Logging.Format }},
	{"log-file", "LOG_FILE", func(c *ServeConfig) *string { return &c.Logging.File }},
	{"metrics-addr", "METRICS_ADDR", func(c *ServeConfig) *string { return &c.Metrics.Addr }},
}

// boolEnvFlags maps boolean flags to their environment variables.
var boolEnvFlags = []struct {
	flag string
	env  string
	get  func(*ServeConfig) *bool
}{
	{"client-debug", "CLIENT_DEBUG", func(c *ServeConfig) *bool { return &c.Assisted.ClientDebug }},
	{"read-only", "READ_ONLY", func(c *ServeConfig) *bool { return &c.ReadOnly }},
	{"enable-metrics", "ENABLE_METRICS", func(c *ServeConfig) *bool { return &c.Metrics.Enabled }},
}

// loadServeEnvVars fills config from environment variables. Environment
// variables only override flag values when the flag was not explicitly set.
func loadServeEnvVars(cmd *cobra.Command, config *ServeConfig) {
	// The offline token has no flag so it never shows up in process listings.
	config.Assisted.OfflineToken = os.Getenv("OFFLINE_TOKEN")

	for _, f := range stringEnvFlags {
		if cmd.Flags().Changed(f.flag) {
			continue
		}
		if v := os.Getenv(f.env); v != "" {
			*f.get(config) = v
		}
	}

	for _, f := range boolEnvFlags {
		if cmd.Flags().Changed(f.flag) {
			continue
		}
		if v, ok := parseBoolEnv(os.Getenv(f.env), f.env); ok {
			*f.get(config) = v
		}
	}

	if !cmd.Flags().Changed("request-timeout") {
		if d, ok := parseDurationEnv(os.Getenv("REQUEST_TIMEOUT"), "REQUEST_TIMEOUT"); ok {
			config.Assisted.RequestTimeout = d
		}
	}

	config.EnableHSTS = config.EnableHSTS || os.Getenv("ENABLE_HSTS") == envValueTrue
	loadEnvIfEmpty(&config.AllowedOrigins, "ALLOWED_ORIGINS")
}

// validateServeConfig rejects configurations the server cannot start with.
func validateServeConfig(config ServeConfig) error {
	switch config.Transport {
	case transportStdio, transportSSE, transportStreamableHTTP:
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: %s, %s, %s)",
			config.Transport, transportStdio, transportSSE, transportStreamableHTTP)
	}

	if config.Transport != transportStdio {
		if config.HTTPAddr == "" {
			return fmt.Errorf("--http-addr is required for the %s transport", config.Transport)
		}
		for name, path := range map[string]string{
			"--sse-endpoint":     config.SSEEndpoint,
			"--message-endpoint": config.MessageEndpoint,
			"--http-endpoint":    config.HTTPEndpoint,
		} {
			if !strings.HasPrefix(path, "/") {
				return fmt.Errorf("%s must start with '/', got %q", name, path)
			}
		}
	}

	if config.Assisted.RequestTimeout < 0 {
		return fmt.Errorf("--request-timeout must not be negative, got %v", config.Assisted.RequestTimeout)
	}

	if config.Metrics.Enabled && config.Metrics.Addr == "" {
		return fmt.Errorf("--metrics-addr is required when metrics are enabled")
	}

	return nil
}
