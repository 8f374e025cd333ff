// Package assisted is a thin client for the Assisted Installer REST API.
//
// A Client is bound to one bearer token and is meant to live for a single
// tool invocation. Operations forward their parameters to the remote
// service without caching, retries or local validation. Responses keep the
// raw JSON document returned by the service so tool output can reproduce it
// faithfully.
//
// Clusters and infrastructure environments are created with the caller's
// pull secret. It is fetched from the accounts management endpoint the first
// time it is needed and reused for the rest of the client's lifetime.
//
// Non-2xx responses are returned as *APIError:
//
//	cluster, err := client.GetCluster(ctx, id)
//	if assisted.IsNotFound(err) {
//		...
//	}
package assisted
