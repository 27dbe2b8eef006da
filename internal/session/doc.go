// Package session opens the configured link for callers.
//
// Ownership boundary:
// - timeouts applied to a transport handle
// - connect retry and backoff policy for socket links
//
// The transport layer never retries; any retry lives here, on the caller's
// side of it.
package session
