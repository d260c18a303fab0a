package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// fakeStore implements the cmdable subset FixedWindowAllow touches, tracking
// Expire calls so tests can assert the window TTL is set exactly once.
type fakeStore struct {
	counters map[string]int64
	expired  []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{counters: map[string]int64{}}
}

func (f *fakeStore) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (f *fakeStore) Incr(ctx context.Context, key string) *redis.IntCmd {
	f.counters[key]++
	return redis.NewIntResult(f.counters[key], nil)
}

func (f *fakeStore) Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	f.expired = append(f.expired, key)
	return redis.NewBoolResult(true, nil)
}

func (f *fakeStore) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(f.counters, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

func TestFixedWindowAllow(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	client := &Client{store: store}

	window := func() (bool, int64) {
		allowed, count, err := client.FixedWindowAllow(ctx, "test-scope", 2, time.Second)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return allowed, count
	}

	allowed, count := window()
	if !allowed || count != 1 {
		t.Fatalf("first request: allowed=%v count=%d", allowed, count)
	}
	if len(store.expired) != 1 {
		t.Fatalf("expected TTL set on first increment, got %d expire calls", len(store.expired))
	}

	allowed, count = window()
	if !allowed || count != 2 {
		t.Fatalf("second request: allowed=%v count=%d", allowed, count)
	}
	if len(store.expired) != 1 {
		t.Fatalf("TTL must not be reset mid-window")
	}

	if allowed, _ = window(); allowed {
		t.Fatalf("third request should exceed the limit")
	}
}

func TestKeyBuilders(t *testing.T) {
	client := &Client{}
	if got := client.RateLimitKey("login:1.2.3.4"); got != "agl:rate_limit:login:1.2.3.4" {
		t.Fatalf("unexpected rate limit key %s", got)
	}
	if got := client.CounterKey("hits"); got != "agl:counter:hits" {
		t.Fatalf("unexpected counter key %s", got)
	}
	if got := buildKey(rateLimitPrefix, ""); got != "agl:rate_limit" {
		t.Fatalf("empty parts should be skipped, got %s", got)
	}
}
