// Package middleware contains the HTTP middleware applied by the router:
// trace ID propagation and JWT authentication.
package middleware

import (
	"log/slog"
	"net/http"

	"github.com/coursewise/coursewise/internal/api/shared"
)

// TraceMiddleware adds a trace ID to the request context. Applied early in
// the chain so all subsequent handlers can correlate logs.
func TraceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := shared.SetTraceID(r.Context())
		traceID := shared.GetTraceID(ctx)

		slog.Debug("request started",
			slog.String("trace_id", traceID),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote_addr", r.RemoteAddr))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
