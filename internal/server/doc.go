// Package server provides the ServerContext and the HTTP plumbing of the
// assisted service MCP server.
//
// The ServerContext carries everything a tool handler needs:
//
//   - the assisted service client factory
//   - the token resolver that turns request credentials into access tokens
//   - the structured logger
//   - the server configuration
//   - the optional instrumentation provider
//   - a cancellable context and shutdown state
//
// Dependencies are injected with functional options:
//
//	sc, err := server.NewServerContext(ctx,
//		server.WithClientFactory(factory),
//		server.WithTokenResolver(resolver),
//		server.WithLogger(logger),
//		server.WithReadOnly(true),
//	)
//	if err != nil {
//		return err
//	}
//	defer sc.Shutdown()
//
//	// Inside a tool handler
//	inventory, err := sc.InventoryForContext(ctx)
//
// InventoryForContext builds a new client on every call. Credentials come
// from the request being served, so nothing authenticated is shared between
// invocations.
//
// HTTPServer serves the MCP server over SSE or streamable HTTP next to the
// /healthz, /readyz and /healthz/detailed endpoints. MetricsServer exposes
// Prometheus metrics on a separate listener.
package server
