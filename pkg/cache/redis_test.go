package cache

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisCache connects to STACKREEL_TEST_REDIS, skipping when it is unset.
func redisCache(t *testing.T) *RedisCache {
	t.Helper()
	url := os.Getenv("STACKREEL_TEST_REDIS")
	if url == "" {
		t.Skip("STACKREEL_TEST_REDIS not set")
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		t.Fatalf("parse %s: %v", url, err)
	}
	c := NewRedisCacheFromClient(redis.NewClient(opts), "stackreel-test:"+t.Name()+":")
	t.Cleanup(func() {
		_ = c.Clear(context.Background())
		c.Close()
	})
	return c
}

func TestRedisCache(t *testing.T) {
	ctx := context.Background()
	c := redisCache(t)

	if _, hit, err := c.Get(ctx, "missing"); hit || err != nil {
		t.Fatalf("Get(missing) = %v, %v", hit, err)
	}
	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "v" {
		t.Fatalf("Get = %q, %v, %v", data, hit, err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("deleted key should miss")
	}
}

func TestRedisCacheClear(t *testing.T) {
	ctx := context.Background()
	c := redisCache(t)
	for _, k := range []string{"a", "b"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}
	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("Clear should remove every prefixed key")
	}
}

func TestNewRedisCacheUnreachable(t *testing.T) {
	defer func(d time.Duration) { retryDelay = d }(retryDelay)
	retryDelay = time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	// Port 1 is reserved and never serves Redis.
	_, err := NewRedisCache(ctx, "redis://127.0.0.1:1/0")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("error = %v, want ErrUnavailable", err)
	}
}
