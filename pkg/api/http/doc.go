// Package http provides the HTTP ops API.
//
// The HTTP server exposes endpoints for:
//   - Health checks backed by the run loop watchdog
//   - Prometheus metrics
//   - A read-only view of the current session
//   - The live event feed, when a websocket handler is attached
package http
