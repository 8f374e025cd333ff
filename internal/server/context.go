package server

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/giantswarm/mcp-assisted-service/internal/assisted"
	"github.com/giantswarm/mcp-assisted-service/internal/instrumentation"
	"github.com/giantswarm/mcp-assisted-service/internal/logging"
	"github.com/giantswarm/mcp-assisted-service/internal/mcp/oauth"
)

// ServerContext encapsulates all dependencies needed by the MCP server
// and provides a clean abstraction for dependency injection and lifecycle management.
type ServerContext struct {
	// Core dependencies
	clientFactory assisted.ClientFactory
	tokenResolver oauth.TokenResolver
	logger        *slog.Logger
	config        *Config

	instrumentationProvider *instrumentation.Provider

	// Context management
	ctx    context.Context
	cancel context.CancelFunc

	// Lifecycle management
	mu       sync.RWMutex
	shutdown bool
}

// NewServerContext creates a new ServerContext with default values.
// Use the provided functional options to customize the context.
func NewServerContext(ctx context.Context, opts ...Option) (*ServerContext, error) {
	serverCtx, cancel := context.WithCancel(ctx)

	sc := &ServerContext{
		ctx:    serverCtx,
		cancel: cancel,
		config: NewDefaultConfig(),
		logger: slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(sc); err != nil {
			cancel()
			return nil, err
		}
	}

	if err := sc.validate(); err != nil {
		cancel()
		return nil, err
	}

	return sc, nil
}

// Context returns the server context for cancellation and deadlines.
func (sc *ServerContext) Context() context.Context {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.ctx
}

// ClientFactory returns the factory used to build assisted service clients.
func (sc *ServerContext) ClientFactory() assisted.ClientFactory {
	return sc.clientFactory
}

// TokenResolver returns the resolver that turns request credentials into
// access tokens.
func (sc *ServerContext) TokenResolver() oauth.TokenResolver {
	return sc.tokenResolver
}

// InventoryForContext resolves the caller's access token from ctx and returns
// a new assisted service client bound to it. Every call returns a fresh
// client; nothing is shared between invocations.
func (sc *ServerContext) InventoryForContext(ctx context.Context) (assisted.Inventory, error) {
	token, err := sc.tokenResolver.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	client, err := sc.clientFactory.NewClient(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create assisted service client: %w", err)
	}
	return client, nil
}

// Logger returns the structured logger.
func (sc *ServerContext) Logger() *slog.Logger {
	return sc.logger
}

// LeveledLogger returns the logger through the leveled key/value interface.
func (sc *ServerContext) LeveledLogger() logging.Logger {
	return logging.NewSlogAdapter(sc.logger)
}

// Config returns the server configuration.
func (sc *ServerContext) Config() *Config {
	return sc.config
}

// InstrumentationProvider returns the instrumentation provider, which may be nil.
func (sc *ServerContext) InstrumentationProvider() *instrumentation.Provider {
	return sc.instrumentationProvider
}

// Metrics returns the metrics recorder. It is nil-safe to use even when
// instrumentation is disabled.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	return sc.instrumentationProvider.Metrics()
}

// ReadOnly reports whether mutating tools are disabled.
func (sc *ServerContext) ReadOnly() bool {
	return sc.config.ReadOnly
}

// Shutdown gracefully shuts down the server context.
// This cancels the context and releases any resources.
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.logger.Info("Shutting down server context")

	if sc.cancel != nil {
		sc.cancel()
	}
	sc.shutdown = true

	sc.logger.Info("Server context shutdown complete")
	return nil
}

// IsShutdown returns true if the server context has been shutdown.
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// validate ensures all required dependencies are set.
func (sc *ServerContext) validate() error {
	if sc.clientFactory == nil {
		return ErrMissingClientFactory
	}
	if sc.tokenResolver == nil {
		return ErrMissingTokenResolver
	}
	if sc.logger == nil {
		return ErrMissingLogger
	}
	if sc.config == nil {
		return ErrMissingConfig
	}
	return nil
}

// Config holds the server configuration.
type Config struct {
	// Server settings
	ServerName string `json:"serverName"`
	Version    string `json:"version"`

	// Assisted service settings
	InventoryURL   string        `json:"inventoryURL"`
	PullSecretURL  string        `json:"pullSecretURL"`
	SSOURL         string        `json:"ssoURL"`
	RequestTimeout time.Duration `json:"requestTimeout"`
	ClientDebug    bool          `json:"clientDebug"`

	// ReadOnly disables the tools that create or modify remote state.
	ReadOnly bool `json:"readOnly"`

	// Logging settings
	LogLevel  string `json:"logLevel"`
	LogFormat string `json:"logFormat"`
}

// NewDefaultConfig creates a configuration with sensible defaults.
func NewDefaultConfig() *Config {
	return &Config{
		ServerName:    "mcp-assisted-service",
		Version:       "0.1.0",
		InventoryURL:  assisted.DefaultInventoryURL,
		PullSecretURL: assisted.DefaultPullSecretURL,
		SSOURL:        oauth.DefaultSSOURL,
		LogLevel:      "info",
		LogFormat:     logging.FormatText,
	}
}

// Clone creates a copy of the configuration.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}
