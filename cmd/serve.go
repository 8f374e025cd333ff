package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/giantswarm/mcp-assisted-service/internal/assisted"
	"github.com/giantswarm/mcp-assisted-service/internal/instrumentation"
	"github.com/giantswarm/mcp-assisted-service/internal/logging"
	"github.com/giantswarm/mcp-assisted-service/internal/mcp/oauth"
	"github.com/giantswarm/mcp-assisted-service/internal/server"
)

// newServeCmd creates the Cobra command for starting the MCP server.
func newServeCmd() *cobra.Command {
	config := defaultServeConfig()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP assisted service server",
		Long: `Start the MCP server that exposes the Red Hat Assisted Installer service
as tools via the Model Context Protocol.

Supports multiple transport types:
  - sse: Server-Sent Events over HTTP (default)
  - streamable-http: Streamable HTTP transport
  - stdio: Standard input/output

Authentication, in priority order:
  - An "Authorization: Bearer <token>" request header, used as is
  - The OFFLINE_TOKEN environment variable, exchanged at the SSO endpoint
  - An "OCM-Offline-Token" request header, exchanged at the SSO endpoint

Credentials are resolved for every tool call. Nothing is cached between calls.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			loadServeEnvVars(cmd, &config)
			if err := validateServeConfig(config); err != nil {
				return err
			}
			return runServe(cmd.Context(), config)
		},
	}

	// Transport flags
	cmd.Flags().StringVar(&config.Transport, "transport", config.Transport, "Transport type: sse, streamable-http, or stdio (can also be set via MCP_TRANSPORT env var)")
	cmd.Flags().StringVar(&config.HTTPAddr, "http-addr", config.HTTPAddr, "HTTP server address (for sse and streamable-http transports)")
	cmd.Flags().StringVar(&config.SSEEndpoint, "sse-endpoint", config.SSEEndpoint, "SSE endpoint path (for sse transport)")
	cmd.Flags().StringVar(&config.MessageEndpoint, "message-endpoint", config.MessageEndpoint, "Message endpoint path (for sse transport)")
	cmd.Flags().StringVar(&config.HTTPEndpoint, "http-endpoint", config.HTTPEndpoint, "HTTP endpoint path (for streamable-http transport)")
	cmd.Flags().BoolVar(&config.DisableStreaming, "disable-streaming", false, "Disable streaming for streamable-http transport")

	// Assisted service flags
	cmd.Flags().StringVar(&config.Assisted.SSOURL, "sso-url", config.Assisted.SSOURL, "SSO token endpoint for offline token exchange (can also be set via SSO_URL env var)")
	cmd.Flags().StringVar(&config.Assisted.InventoryURL, "inventory-url", config.Assisted.InventoryURL, "Assisted service API URL; only scheme and host are used (can also be set via INVENTORY_URL env var)")
	cmd.Flags().StringVar(&config.Assisted.PullSecretURL, "pull-secret-url", config.Assisted.PullSecretURL, "Pull secret endpoint (can also be set via PULL_SECRET_URL env var)")
	cmd.Flags().BoolVar(&config.Assisted.ClientDebug, "client-debug", false, "Log every assisted service request and response at debug level (can also be set via CLIENT_DEBUG env var)")
	cmd.Flags().DurationVar(&config.Assisted.RequestTimeout, "request-timeout", 0, "Timeout for each assisted service API call, 0 for none (can also be set via REQUEST_TIMEOUT env var)")
	cmd.Flags().BoolVar(&config.ReadOnly, "read-only", false, "Disable the tools that create or modify clusters and hosts (can also be set via READ_ONLY env var)")

	// Logging flags
	cmd.Flags().StringVar(&config.Logging.Level, "log-level", config.Logging.Level, "Log level: debug, info, warn, or error (can also be set via LOGGING_LEVEL env var)")
	cmd.Flags().StringVar(&config.Logging.Format, "log-format", config.Logging.Format, "Log format: text or json (can also be set via LOG_FORMAT env var)")
	cmd.Flags().StringVar(&config.Logging.File, "log-file", "", "Also write logs to this size-rotated file (can also be set via LOG_FILE env var)")

	// Metrics flags
	cmd.Flags().BoolVar(&config.Metrics.Enabled, "enable-metrics", true, "Serve /metrics on a dedicated port when instrumentation is enabled (can also be set via ENABLE_METRICS env var)")
	cmd.Flags().StringVar(&config.Metrics.Addr, "metrics-addr", config.Metrics.Addr, "Metrics server address (can also be set via METRICS_ADDR env var)")

	return cmd
}

// defaultServeConfig returns the flag defaults.
func defaultServeConfig() ServeConfig {
	return ServeConfig{
		Transport:       transportSSE,
		HTTPAddr:        ":8000",
		SSEEndpoint:     "/sse",
		MessageEndpoint: "/message",
		HTTPEndpoint:    "/mcp",
		Assisted: AssistedServeConfig{
			SSOURL:        oauth.DefaultSSOURL,
			InventoryURL:  assisted.DefaultInventoryURL,
			PullSecretURL: assisted.DefaultPullSecretURL,
		},
		Logging: LoggingServeConfig{
			Level:  "info",
			Format: logging.FormatText,
		},
		Metrics: MetricsServeConfig{
			Enabled: true,
			Addr:    server.DefaultMetricsAddr,
		},
	}
}

// runServe contains the main server logic with support for multiple transports
func runServe(ctx context.Context, config ServeConfig) error {
	if ctx == nil {
		ctx = context.Background()
	}

	// stdout belongs to the MCP protocol in stdio mode, so logs always go to stderr.
	logger, logCloser, err := logging.New(logging.Options{
		Level:  config.Logging.Level,
		Format: config.Logging.Format,
		File:   config.Logging.File,
		Output: os.Stderr,
	})
	if err != nil {
		return fmt.Errorf("failed to configure logging: %w", err)
	}
	defer func() { _ = logCloser.Close() }()
	slog.SetDefault(logger)

	// Setup graceful shutdown - listen for both SIGINT and SIGTERM
	shutdownCtx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	instrumentationConfig := instrumentation.DefaultConfig()
	instrumentationConfig.ServiceVersion = rootCmd.Version
	instrumentationProvider, err := instrumentation.NewProvider(shutdownCtx, instrumentationConfig,
		instrumentation.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if shutdownErr := instrumentationProvider.Shutdown(context.Background()); shutdownErr != nil {
			logger.Error("error during instrumentation shutdown", logging.Err(shutdownErr))
		}
	}()

	if instrumentationProvider.Enabled() {
		logger.Info("OpenTelemetry instrumentation enabled",
			"metrics_exporter", instrumentationConfig.MetricsExporter,
			"tracing_exporter", instrumentationConfig.TracingExporter)
	}

	serverContext, err := newServerContext(shutdownCtx, config, logger, instrumentationProvider)
	if err != nil {
		return err
	}
	defer func() {
		if err := serverContext.Shutdown(); err != nil {
			logger.Error("error during server context shutdown", logging.Err(err))
		}
	}()

	mcpSrv, err := newMCPServer(serverContext)
	if err != nil {
		return err
	}

	logger.Info("starting MCP assisted service server",
		"transport", config.Transport,
		"version", rootCmd.Version,
		"read_only", config.ReadOnly,
		logging.Host(config.Assisted.InventoryURL),
		"offline_token_configured", config.Assisted.OfflineToken != "")

	switch config.Transport {
	case transportStdio:
		return runStdioServer(shutdownCtx, mcpSrv, os.Stdin, os.Stdout)
	default:
		return runHTTPServer(shutdownCtx, mcpSrv, serverContext, server.HTTPConfig{
			Transport:        config.Transport,
			Addr:             config.HTTPAddr,
			SSEEndpoint:      config.SSEEndpoint,
			MessageEndpoint:  config.MessageEndpoint,
			MCPEndpoint:      config.HTTPEndpoint,
			DisableStreaming: config.DisableStreaming,
			EnableHSTS:       config.EnableHSTS,
			AllowedOrigins:   config.AllowedOrigins,
		}, config.Metrics)
	}
}

// newServerContext wires the token resolver and the client factory into a
// ServerContext.
func newServerContext(ctx context.Context, config ServeConfig, logger *slog.Logger, provider *instrumentation.Provider) (*server.ServerContext, error) {
	factory, err := assisted.NewFactory(assisted.Config{
		InventoryURL:   config.Assisted.InventoryURL,
		PullSecretURL:  config.Assisted.PullSecretURL,
		Debug:          config.Assisted.ClientDebug,
		RequestTimeout: config.Assisted.RequestTimeout,
		Metrics:        provider.Metrics(),
		Logger:         logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create assisted service client factory: %w", err)
	}

	resolver := oauth.NewResolver(oauth.ResolverConfig{
		OfflineToken: config.Assisted.OfflineToken,
		SSOURL:       config.Assisted.SSOURL,
		Metrics:      provider.Metrics(),
		Logger:       logger,
	})

	serverConfig := server.NewDefaultConfig()
	serverConfig.Version = rootCmd.Version
	serverConfig.InventoryURL = factory.BaseURL()
	serverConfig.PullSecretURL = config.Assisted.PullSecretURL
	serverConfig.SSOURL = config.Assisted.SSOURL
	serverConfig.RequestTimeout = config.Assisted.RequestTimeout
	serverConfig.ClientDebug = config.Assisted.ClientDebug
	serverConfig.ReadOnly = config.ReadOnly
	serverConfig.LogLevel = config.Logging.Level
	serverConfig.LogFormat = config.Logging.Format

	serverContext, err := server.NewServerContext(ctx,
		server.WithConfig(serverConfig),
		server.WithLogger(logger),
		server.WithClientFactory(factory),
		server.WithTokenResolver(resolver),
		server.WithInstrumentationProvider(provider),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create server context: %w", err)
	}
	return serverContext, nil
}

// newMCPServer creates the MCP server and registers every tool.
func newMCPServer(sc *server.ServerContext) (*mcpserver.MCPServer, error) {
	mcpSrv := mcpserver.NewMCPServer(sc.Config().ServerName, rootCmd.Version,
		mcpserver.WithToolCapabilities(true),
	)
	if err := registerTools(mcpSrv, sc); err != nil {
		return nil, err
	}
	return mcpSrv, nil
}
