package ratelimiter

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/mwork/mwork-api/internal/middleware"
	"github.com/mwork/mwork-api/internal/pkg/apperror"
	"github.com/mwork/mwork-api/internal/pkg/metrics"
)

// Options configures Middleware's per-route behavior.
type Options struct {
	Route                   string
	SkipSuccessfulRequests  bool
}

// Middleware wraps next with the sliding-window admission check keyed
// by caller IP and route. On a KV failure it logs a SECURITY event and
// admits or denies by the limiter's local fallback token bucket.
func Middleware(limiter *Limiter, opts Options) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := middleware.ClientIP(r)
			key := Key(ip, opts.Route)

			decision, err := limiter.Allow(r.Context(), key)
			if err != nil {
				apperror.SecurityLog(r.Context(), "rate limiter KV failure, using local fallback limiter", map[string]interface{}{
					"route": opts.Route,
					"err":   err.Error(),
				})
			}

			if !decision.Allowed {
				w.Header().Set("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
				w.Header().Set("X-RateLimit-Remaining", "0")
				w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(decision.ResetAt.Unix(), 10))
				w.Header().Set("Retry-After", fmt.Sprintf("%.0f", decision.RetryAfter.Seconds()))
				metrics.RateLimitHitsTotal.WithLabelValues(opts.Route).Inc()
				apperror.SecurityLog(r.Context(), "rate limit exceeded", map[string]interface{}{
					"route": opts.Route,
					"ip":    ip,
				})
				apperror.Write(r.Context(), w, apperror.RateLimited("rate limit exceeded", nil))
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(decision.ResetAt.Unix(), 10))

			if opts.SkipSuccessfulRequests && decision.Member != "" {
				rec := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
				next.ServeHTTP(rec, r)
				if rec.statusCode < 400 {
					_ = limiter.Release(r.Context(), key, decision.Member)
				}
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.statusCode = code
	s.ResponseWriter.WriteHeader(code)
}
