package ratelimiter_test

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mwork/mwork-api/internal/domain/ratelimiter"
)

func TestSlidingWindowAdmitsUpToMax(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	limiter := ratelimiter.NewLimiter(client, time.Minute, 10)
	key := ratelimiter.Key("198.51.100.1", "/tokens")
	defer client.Del(context.Background(), key)

	for i := 0; i < 10; i++ {
		decision, err := limiter.Allow(context.Background(), key)
		if err != nil {
			t.Fatalf("allow %d failed: %v", i, err)
		}
		if !decision.Allowed {
			t.Fatalf("request %d expected allowed, got denied", i)
		}
	}

	decision, err := limiter.Allow(context.Background(), key)
	if err != nil {
		t.Fatalf("11th allow failed: %v", err)
	}
	if decision.Allowed {
		t.Fatal("11th request expected denied")
	}
	if decision.RetryAfter <= 0 || decision.RetryAfter > time.Minute {
		t.Fatalf("expected RetryAfter in (0, 60s], got %v", decision.RetryAfter)
	}
}

func TestSlidingWindowEvictsExpiredMembers(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	limiter := ratelimiter.NewLimiter(client, 200*time.Millisecond, 1)
	key := ratelimiter.Key("198.51.100.2", "/tokens")
	defer client.Del(context.Background(), key)

	decision, err := limiter.Allow(context.Background(), key)
	if err != nil || !decision.Allowed {
		t.Fatalf("first request expected allowed, got %v err=%v", decision.Allowed, err)
	}

	decision, err = limiter.Allow(context.Background(), key)
	if err != nil || decision.Allowed {
		t.Fatalf("second immediate request expected denied, got %v err=%v", decision.Allowed, err)
	}

	time.Sleep(250 * time.Millisecond)

	decision, err = limiter.Allow(context.Background(), key)
	if err != nil || !decision.Allowed {
		t.Fatalf("request after window expiry expected allowed, got %v err=%v", decision.Allowed, err)
	}
}

func setupTestRedis(t *testing.T) *redis.Client {
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("redis not available: %v", err)
	}
	return client
}
