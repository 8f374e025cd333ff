package oauth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"golang.org/x/oauth2"

	"github.com/giantswarm/mcp-assisted-service/internal/instrumentation"
	"github.com/giantswarm/mcp-assisted-service/internal/logging"
)

const (
	// DefaultSSOURL is the Red Hat SSO token endpoint.
	DefaultSSOURL = "https://sso.redhat.com/auth/realms/redhat-external/protocol/openid-connect/token"

	// ClientID is the public client used for the refresh token grant.
	ClientID = "cloud-services"

	// DefaultExchangeTimeout bounds a single SSO exchange.
	DefaultExchangeTimeout = 30 * time.Second
)

// Credential sources, in priority order.
const (
	SourceAuthorizationHeader = "authorization-header"
	SourceEnvironment         = "env"
	SourceRequestHeader       = "request-header"
	SourceNone                = "none"
)

// ErrNoOfflineToken is returned when neither a bearer header nor an offline
// token is available.
var ErrNoOfflineToken = errors.New("no offline token found in environment or request headers")

// TokenResolver produces the bearer token for an outbound assisted service call.
type TokenResolver interface {
	AccessToken(ctx context.Context) (string, error)
}

// ResolverConfig configures a Resolver.
type ResolverConfig struct {
	// OfflineToken is the process-wide offline token (OFFLINE_TOKEN).
	OfflineToken string

	// SSOURL is the token endpoint. Defaults to DefaultSSOURL.
	SSOURL string

	// Timeout bounds each exchange. Defaults to DefaultExchangeTimeout.
	Timeout time.Duration

	// HTTPClient overrides the client used for the exchange.
	HTTPClient *http.Client

	Metrics *instrumentation.Metrics
	Logger  *slog.Logger
}

// Resolver implements TokenResolver. It holds no per-request state and
// caches nothing, so one instance serves all concurrent requests.
type Resolver struct {
	offlineToken string
	ssoURL       string
	timeout      time.Duration
	httpClient   *http.Client
	metrics      *instrumentation.Metrics
	logger       *slog.Logger
}

// NewResolver returns a Resolver for cfg.
func NewResolver(cfg ResolverConfig) *Resolver {
	r := &Resolver{
		offlineToken: cfg.OfflineToken,
		ssoURL:       cfg.SSOURL,
		timeout:      cfg.Timeout,
		httpClient:   cfg.HTTPClient,
		metrics:      cfg.Metrics,
		logger:       cfg.Logger,
	}
	if r.ssoURL == "" {
		r.ssoURL = DefaultSSOURL
	}
	if r.timeout <= 0 {
		r.timeout = DefaultExchangeTimeout
	}
	if r.httpClient == nil {
		r.httpClient = cleanhttp.DefaultClient()
		r.httpClient.Timeout = r.timeout
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// AccessToken resolves a bearer token for the request in ctx.
//
// A well-formed "Bearer <token>" Authorization header wins and is used as is.
// Otherwise an offline token is taken from the configured environment value or,
// failing that, the OCM-Offline-Token request header, and exchanged at the SSO
// endpoint.
func (r *Resolver) AccessToken(ctx context.Context) (string, error) {
	if header, ok := AuthorizationFromContext(ctx); ok {
		if token, ok := ParseBearer(header); ok {
			r.metrics.RecordTokenResolution(ctx, SourceAuthorizationHeader, instrumentation.TokenResultSuccess)
			r.logger.DebugContext(ctx, "using bearer token from Authorization header",
				logging.TokenSource(SourceAuthorizationHeader))
			return token, nil
		}
		r.logger.DebugContext(ctx, "ignoring malformed Authorization header")
	}

	offline, source := r.offlineToken, SourceEnvironment
	if offline == "" {
		offline, _ = OfflineTokenFromContext(ctx)
		source = SourceRequestHeader
	}
	if offline == "" {
		r.metrics.RecordTokenResolution(ctx, SourceNone, instrumentation.TokenResultFailure)
		return "", ErrNoOfflineToken
	}

	token, err := r.exchange(ctx, offline, source)
	if err != nil {
		r.metrics.RecordTokenResolution(ctx, source, instrumentation.TokenResultFailure)
		return "", err
	}
	r.metrics.RecordTokenResolution(ctx, source, instrumentation.TokenResultSuccess)
	return token, nil
}

func (r *Resolver) exchange(ctx context.Context, offline, source string) (string, error) {
	ctx, span := instrumentation.StartTokenExchangeSpan(ctx, source)
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	ctx = context.WithValue(ctx, oauth2.HTTPClient, r.httpClient)

	conf := &oauth2.Config{
		ClientID: ClientID,
		Endpoint: oauth2.Endpoint{
			TokenURL:  r.ssoURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}

	start := time.Now()
	tok, err := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: offline}).Token()
	duration := time.Since(start)
	if err != nil {
		r.metrics.RecordSSOExchange(ctx, instrumentation.TokenResultFailure, duration)
		instrumentation.SetSpanError(span, err)
		r.logger.ErrorContext(ctx, "offline token exchange failed",
			logging.TokenSource(source),
			logging.Host(r.ssoURL),
			logging.SanitizedErr(err))
		return "", fmt.Errorf("failed to exchange offline token: %w", err)
	}

	r.metrics.RecordSSOExchange(ctx, instrumentation.TokenResultSuccess, duration)
	instrumentation.SetSpanSuccess(span)
	r.logger.DebugContext(ctx, "exchanged offline token",
		logging.TokenSource(source),
		slog.String("access_token", logging.SanitizeToken(tok.AccessToken)),
		slog.Duration(logging.KeyDuration, duration))
	return tok.AccessToken, nil
}

// ParseBearer extracts the token from an Authorization header value. It
// accepts exactly two whitespace-separated fields with a case-insensitive
// "bearer" scheme.
func ParseBearer(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}
