// Package ratelimiter implements the Redis-backed sliding-window rate
// limiter protecting the mint and redeem endpoints, grounded on the
// verification service's use of a TTL'd Redis key for short-lived state.
package ratelimiter

import "time"

// Scope distinguishes the per-IP and per-account key schemes.
type Scope string

const (
	ScopeIP   Scope = "ip"
	ScopeUser Scope = "user"
)

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter time.Duration
	// Member is the sorted-set member added for this request, set only
	// when Allowed is true. skipSuccessfulRequests callers pass it back
	// to Release to evict it after a non-error response.
	Member string
}
