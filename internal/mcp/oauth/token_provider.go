package oauth

import (
	"context"
	"net/http"
)

// Inbound request headers that carry credentials.
const (
	HeaderAuthorization = "Authorization"
	HeaderOfflineToken  = "OCM-Offline-Token"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// authorizationKey holds the raw Authorization header of the inbound request.
	authorizationKey contextKey = "authorization_header"

	// offlineTokenKey holds the raw OCM-Offline-Token header of the inbound request.
	offlineTokenKey contextKey = "offline_token_header"
)

// ContextWithAuthorization stores the raw Authorization header value in ctx.
func ContextWithAuthorization(ctx context.Context, value string) context.Context {
	return context.WithValue(ctx, authorizationKey, value)
}

// AuthorizationFromContext returns the raw Authorization header value, if any.
func AuthorizationFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(authorizationKey).(string)
	return v, ok && v != ""
}

// ContextWithOfflineToken stores the OCM-Offline-Token header value in ctx.
func ContextWithOfflineToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, offlineTokenKey, token)
}

// OfflineTokenFromContext returns the OCM-Offline-Token header value, if any.
func OfflineTokenFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(offlineTokenKey).(string)
	return v, ok && v != ""
}

// ContextWithRequestHeaders copies the credential headers of an inbound HTTP
// request into ctx. Transports call it from their context functions so tool
// handlers see only the credentials of the request they are serving.
func ContextWithRequestHeaders(ctx context.Context, h http.Header) context.Context {
	if v := h.Get(HeaderAuthorization); v != "" {
		ctx = ContextWithAuthorization(ctx, v)
	}
	if v := h.Get(HeaderOfflineToken); v != "" {
		ctx = ContextWithOfflineToken(ctx, v)
	}
	return ctx
}

// HTTPContextFunc matches the context function signature of the SSE and
// streamable HTTP transports.
func HTTPContextFunc(ctx context.Context, r *http.Request) context.Context {
	return ContextWithRequestHeaders(ctx, r.Header)
}
