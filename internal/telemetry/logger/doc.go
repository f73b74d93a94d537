// Package logger provides structured logging for craftgate.
//
// It wraps the standard library log/slog:
//
//   - logger.go: Logger interface, handler construction, global level
//   - context.go: request ID and client IP carried on the request context
//   - redact.go: sensitive data redaction
//
// Features:
//
//   - JSON and text output formats
//   - Runtime level changes (config hot reload)
//   - Redaction of passwords, secrets, bearer tokens and JWTs
package logger
