// Package main provides the entry point for craftgate-server.
//
// craftgate-server runs an embedded game server host and exposes it
// through:
//
//   - HTTP/HTTPS JSON API with bearer token authentication
//   - Prometheus metrics on /metrics
//   - Local Unix socket console (no token required)
//
// Usage:
//
//	craftgate-server [flags]
//	craftgate-server --config /etc/craftgate/config.yaml
//	craftgate-server --config config.yaml --addr 127.0.0.1:4567 --log-level debug
//
// Environment variables prefixed with CRAFTGATE_ override the file, e.g.
// CRAFTGATE_SECURITY_JWT_SECRET. The --addr and --log-level flags override
// both.
package main
