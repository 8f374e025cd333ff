package server

import (
	"errors"
	"log/slog"

	"github.com/giantswarm/mcp-assisted-service/internal/assisted"
	"github.com/giantswarm/mcp-assisted-service/internal/instrumentation"
	"github.com/giantswarm/mcp-assisted-service/internal/mcp/oauth"
)

// Option is a functional option for configuring ServerContext.
type Option func(*ServerContext) error

// WithClientFactory sets the factory for per-invocation assisted service clients.
func WithClientFactory(factory assisted.ClientFactory) Option {
	return func(sc *ServerContext) error {
		if factory == nil {
			return ErrMissingClientFactory
		}
		sc.clientFactory = factory
		return nil
	}
}

// WithTokenResolver sets the credential resolver.
func WithTokenResolver(resolver oauth.TokenResolver) Option {
	return func(sc *ServerContext) error {
		if resolver == nil {
			return ErrMissingTokenResolver
		}
		sc.tokenResolver = resolver
		return nil
	}
}

// WithLogger sets the logger for the ServerContext.
func WithLogger(logger *slog.Logger) Option {
	return func(sc *ServerContext) error {
		if logger == nil {
			return ErrMissingLogger
		}
		sc.logger = logger
		return nil
	}
}

// WithConfig sets the configuration for the ServerContext.
func WithConfig(config *Config) Option {
	return func(sc *ServerContext) error {
		if config == nil {
			return ErrMissingConfig
		}
		sc.config = config.Clone()
		return nil
	}
}

// WithServerName sets the server name in the configuration.
func WithServerName(name string) Option {
	return func(sc *ServerContext) error {
		if sc.config == nil {
			sc.config = NewDefaultConfig()
		}
		sc.config.ServerName = name
		return nil
	}
}

// WithReadOnly enables or disables read-only mode.
func WithReadOnly(enabled bool) Option {
	return func(sc *ServerContext) error {
		if sc.config == nil {
			sc.config = NewDefaultConfig()
		}
		sc.config.ReadOnly = enabled
		return nil
	}
}

// WithLogLevel sets the logging level.
func WithLogLevel(level string) Option {
	return func(sc *ServerContext) error {
		if sc.config == nil {
			sc.config = NewDefaultConfig()
		}
		sc.config.LogLevel = level
		return nil
	}
}

// WithInstrumentationProvider sets the OpenTelemetry instrumentation provider.
func WithInstrumentationProvider(provider *instrumentation.Provider) Option {
	return func(sc *ServerContext) error {
		sc.instrumentationProvider = provider
		return nil
	}
}

// Error definitions for ServerContext validation and operations.
var (
	ErrMissingClientFactory = errors.New("assisted service client factory is required")
	ErrMissingTokenResolver = errors.New("token resolver is required")
	ErrMissingLogger        = errors.New("logger is required")
	ErrMissingConfig        = errors.New("configuration is required")
	ErrServerShutdown       = errors.New("server context has been shutdown")
)
