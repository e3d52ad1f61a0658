package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mwork/mwork-api/internal/pkg/apperror"
)

// RequestID assigns a request ID (reusing an inbound X-Request-ID header
// if present), attaches it to the response header and to the request
// context so downstream handlers and apperror logging can read it back.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		w.Header().Set("X-Request-ID", requestID)

		ctx := apperror.WithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID extracts the request ID from context, or "unknown" if
// RequestID never ran for this request.
func GetRequestID(ctx context.Context) string {
	return apperror.RequestIDFrom(ctx)
}

// Timeout bounds total request handling time.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, timeout, "Request timeout")
	}
}
