package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/giantswarm/mcp-assisted-service/internal/mcp/oauth"
	"github.com/giantswarm/mcp-assisted-service/internal/server/middleware"
)

// HTTP transports.
const (
	TransportSSE            = "sse"
	TransportStreamableHTTP = "streamable-http"
)

const (
	// DefaultReadHeaderTimeout is the default timeout for reading request headers
	DefaultReadHeaderTimeout = 10 * time.Second

	// DefaultIdleTimeout is the default idle timeout for keepalive connections
	DefaultIdleTimeout = 120 * time.Second

	// DefaultShutdownTimeout is the default timeout for graceful server shutdown
	DefaultShutdownTimeout = 30 * time.Second

	// DefaultMaxRequestBytes caps inbound request bodies (1 MiB).
	DefaultMaxRequestBytes int64 = 1 << 20
)

// HTTPConfig configures an HTTPServer.
type HTTPConfig struct {
	Transport string
	Addr      string

	// SSE endpoints.
	SSEEndpoint     string
	MessageEndpoint string

	// Streamable HTTP endpoint.
	MCPEndpoint      string
	DisableStreaming bool

	// HTTP security settings
	EnableHSTS     bool
	AllowedOrigins string

	// MaxRequestBytes defaults to DefaultMaxRequestBytes. Negative disables the limit.
	MaxRequestBytes int64
}

// HTTPServer serves an MCP server over SSE or streamable HTTP together with
// the health endpoints. The credential headers of every request are copied
// into the request context before the MCP handler sees it.
type HTTPServer struct {
	mcpServer  *mcpserver.MCPServer
	sc         *ServerContext
	config     HTTPConfig
	health     *HealthChecker
	sseServer  *mcpserver.SSEServer
	httpServer *http.Server
}

// NewHTTPServer builds the handler chain for config.Transport.
func NewHTTPServer(mcpServer *mcpserver.MCPServer, sc *ServerContext, config HTTPConfig) (*HTTPServer, error) {
	allowedOrigins, err := middleware.ValidateAllowedOrigins(config.AllowedOrigins)
	if err != nil {
		return nil, fmt.Errorf("invalid ALLOWED_ORIGINS: %w", err)
	}

	s := &HTTPServer{
		mcpServer: mcpServer,
		sc:        sc,
		config:    config,
		health:    NewHealthChecker(sc),
	}

	mux := http.NewServeMux()
	if err := s.setupMCPRoutes(mux); err != nil {
		return nil, err
	}
	s.health.RegisterHealthEndpoints(mux)

	maxBytes := config.MaxRequestBytes
	if maxBytes == 0 {
		maxBytes = DefaultMaxRequestBytes
	}

	var handler http.Handler = mux
	handler = middleware.MaxRequestSize(maxBytes)(handler)
	handler = middleware.CORS(allowedOrigins)(handler)
	handler = middleware.SecurityHeaders(middleware.SecurityHeadersConfig{EnableHSTS: config.EnableHSTS})(handler)
	handler = middleware.HTTPMetrics(sc.InstrumentationProvider(), s.knownPaths()...)(handler)

	// WriteTimeout stays unset: SSE and streaming responses are long-lived.
	s.httpServer = &http.Server{
		Addr:              config.Addr,
		Handler:           handler,
		ReadHeaderTimeout: DefaultReadHeaderTimeout,
		IdleTimeout:       DefaultIdleTimeout,
	}
	return s, nil
}

// setupMCPRoutes registers MCP endpoints on the mux.
func (s *HTTPServer) setupMCPRoutes(mux *http.ServeMux) error {
	switch s.config.Transport {
	case TransportSSE:
		s.sseServer = mcpserver.NewSSEServer(s.mcpServer,
			mcpserver.WithSSEEndpoint(s.config.SSEEndpoint),
			mcpserver.WithMessageEndpoint(s.config.MessageEndpoint),
			mcpserver.WithSSEContextFunc(oauth.HTTPContextFunc),
		)
		mux.Handle(s.config.SSEEndpoint, s.sseServer.SSEHandler())
		mux.Handle(s.config.MessageEndpoint, s.sseServer.MessageHandler())
		return nil
	case TransportStreamableHTTP:
		handler := mcpserver.NewStreamableHTTPServer(s.mcpServer,
			mcpserver.WithEndpointPath(s.config.MCPEndpoint),
			mcpserver.WithDisableStreaming(s.config.DisableStreaming),
			mcpserver.WithHTTPContextFunc(oauth.HTTPContextFunc),
		)
		mux.Handle(s.config.MCPEndpoint, handler)
		return nil
	default:
		return fmt.Errorf("unsupported server type: %s", s.config.Transport)
	}
}

// knownPaths lists the routes reported under their own metric label.
func (s *HTTPServer) knownPaths() []string {
	paths := []string{"/healthz", "/readyz", "/healthz/detailed"}
	if s.config.Transport == TransportSSE {
		return append(paths, s.config.SSEEndpoint, s.config.MessageEndpoint)
	}
	return append(paths, s.config.MCPEndpoint)
}

// Handler returns the full handler chain.
func (s *HTTPServer) Handler() http.Handler {
	return s.httpServer.Handler
}

// HealthChecker returns the checker backing /healthz and /readyz.
func (s *HTTPServer) HealthChecker() *HealthChecker {
	return s.health
}

// Start listens on the configured address until Shutdown.
func (s *HTTPServer) Start() error {
	s.sc.LeveledLogger().Info("HTTP server starting",
		"transport", s.config.Transport,
		"addr", s.config.Addr,
		"health_endpoints", []string{"/healthz", "/readyz"})
	return s.httpServer.ListenAndServe()
}

// Shutdown marks the server not ready and drains connections.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	s.health.SetReady(false)
	if s.sseServer != nil {
		if err := s.sseServer.Shutdown(ctx); err != nil {
			return err
		}
	}
	return s.httpServer.Shutdown(ctx)
}
