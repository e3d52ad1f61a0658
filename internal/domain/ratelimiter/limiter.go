package ratelimiter

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// Limiter implements a sliding-window algorithm over a
// Redis sorted set per key: members are request identifiers scored by
// the timestamp they were admitted at.
//
// fallback is a local token bucket used only when the Redis pipeline
// itself errors. Without it a KV outage fails open to unlimited traffic;
// with it, a Redis outage degrades to a conservative process-wide cap
// instead.
type Limiter struct {
	client   *redis.Client
	window   time.Duration
	max      int
	fallback *rate.Limiter
}

func NewLimiter(client *redis.Client, window time.Duration, max int) *Limiter {
	perSecond := float64(max) / window.Seconds()
	return &Limiter{
		client:   client,
		window:   window,
		max:      max,
		fallback: rate.NewLimiter(rate.Limit(perSecond), max),
	}
}

// Key builds the default per-IP key.
func Key(ip, route string) string {
	return fmt.Sprintf("rate_limit:%s:%s", ip, route)
}

// UserKey builds the authenticated-scope key.
func UserKey(userID, route string) string {
	return fmt.Sprintf("rate_limit:user:%s:%s", userID, route)
}

// Allow runs the sliding-window admission check for key. On a KV
// failure it neither fails fully open nor fully closed: Allowed is the
// answer of the local fallback token bucket, and the KV error is
// returned alongside so callers can log a SECURITY event.
func (l *Limiter) Allow(ctx context.Context, key string) (Decision, error) {
	now := time.Now()
	windowStart := now.Add(-l.window)

	pipe := l.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", windowStart.UnixMilli()))
	countCmd := pipe.ZCard(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{Allowed: l.fallback.Allow()}, err
	}

	count := int(countCmd.Val())
	if count >= l.max {
		ttl, err := l.client.TTL(ctx, key).Result()
		if err != nil || ttl < 0 {
			ttl = l.window
		}
		return Decision{
			Allowed:    false,
			Limit:      l.max,
			Remaining:  0,
			ResetAt:    now.Add(ttl),
			RetryAfter: ttl,
		}, nil
	}

	member := uuid.New().String()
	addPipe := l.client.TxPipeline()
	addPipe.ZAdd(ctx, key, redis.Z{Score: float64(now.UnixMilli()), Member: member})
	addPipe.Expire(ctx, key, time.Duration(math.Ceil(l.window.Seconds()))*time.Second)
	if _, err := addPipe.Exec(ctx); err != nil {
		return Decision{Allowed: l.fallback.Allow()}, err
	}

	return Decision{
		Allowed:    true,
		Limit:      l.max,
		Remaining:  l.max - count - 1,
		ResetAt:    now.Add(l.window),
		RetryAfter: 0,
		Member:     member,
	}, nil
}

// Release removes member from key, implementing the optional
// skipSuccessfulRequests behavior: callers invoke this after a
// downstream handler returns a non-error status.
func (l *Limiter) Release(ctx context.Context, key, member string) error {
	return l.client.ZRem(ctx, key, member).Err()
}
