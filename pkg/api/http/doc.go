// Package http provides the HTTP REST API implementation.
//
// The HTTP server exposes the dashboard endpoints under /api:
//   - Stats, posts, users, campaigns and alerts listings
//   - Simulated collection from Twitter, Reddit and YouTube
//   - Text classification, preprocessing and URL analysis
//   - Campaign and bot detection
//
// plus /health for liveness and /metrics for Prometheus. Responses use the
// envelope {"status", "message", "data"}.
package http
