package middleware

import (
	"context"
	"log/slog"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
)

type requestIDKey struct{}

// RequestIDHeader is echoed on every response so clients can quote it in reports.
const RequestIDHeader = "X-Request-Id"

// RequestID copies chi's request ID into our context key and the response
// headers. It must run after chi's RequestID middleware.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := chimw.GetReqID(r.Context())
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		w.Header().Set(RequestIDHeader, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID retrieves the request ID from context.
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// RequestAttrs returns the request ID and, once Principal has run, the
// caller's ID, for handlers that log outside the access log line.
func RequestAttrs(ctx context.Context) []slog.Attr {
	attrs := []slog.Attr{slog.String("request_id", GetRequestID(ctx))}
	if id, ok := GetPrincipal(ctx); ok {
		attrs = append(attrs, slog.String("principal_id", id.String()))
	}
	return attrs
}
