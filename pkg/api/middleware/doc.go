// Package middleware provides HTTP middleware for the ormlens API server.
//
// The package is organized into separate files by concern:
//
//   - recovery.go: panic recovery
//   - logging.go: structured request logging
//   - security_headers.go: response security headers
//   - body_limit.go: request body size limiting
//   - request_id.go: request ID generation and propagation
//   - ratelimit.go: per-client token bucket rate limiting
//   - metrics.go: HTTP metrics collection
//
// All middleware follows the standard pattern: func(http.Handler) http.Handler
//
//	handler := middleware.PanicRecovery(logger)(mux)
//	handler = middleware.Logging(logger)(handler)
//	handler = middleware.RequestID()(handler)
package middleware
