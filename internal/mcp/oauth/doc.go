// Package oauth resolves the bearer token used for outbound assisted service
// calls.
//
// Credentials arrive in three ways, checked in this order:
//
//  1. An inbound "Authorization: Bearer <token>" header. The token is used as is.
//  2. The OFFLINE_TOKEN environment variable, captured at startup.
//  3. An inbound "OCM-Offline-Token" header.
//
// Offline tokens are exchanged at the Red Hat SSO token endpoint with the
// refresh_token grant for the cloud-services client. Nothing is cached: every
// tool invocation resolves its own token.
//
// HTTP transports copy the two headers into the request context with
// [HTTPContextFunc]. The stdio transport has no headers, so only the
// environment token applies there.
package oauth
