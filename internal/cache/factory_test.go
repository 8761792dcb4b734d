package cache

import (
	"context"
	"testing"
	"time"
)

func TestNewCache_DefaultsToMemory(t *testing.T) {
	c := NewCache(DefaultConfig())
	t.Cleanup(func() { _ = c.Close() })

	if _, ok := c.(*MemoryCache); !ok {
		t.Fatalf("NewCache = %T, want *MemoryCache", c)
	}
}

func TestNewCache_UnreachableRedisFallsBack(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RedisURL = "redis://127.0.0.1:1/0" // nothing listens there
	cfg.Prefix = "cdesk:"

	c := NewCache(cfg)
	t.Cleanup(func() { _ = c.Close() })

	if _, ok := c.(*MemoryCache); !ok {
		t.Fatalf("NewCache = %T, want memory fallback", c)
	}

	// The fallback must be usable
	ctx := context.Background()
	if err := c.Set(ctx, "key", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set on fallback: %v", err)
	}
	if _, err := c.Get(ctx, "key"); err != nil {
		t.Fatalf("Get on fallback: %v", err)
	}
}

func TestNewRedisCache_RequiresURL(t *testing.T) {
	if _, err := NewRedisCache(RedisCacheOptions{}); err == nil {
		t.Error("NewRedisCache should reject an empty URL")
	}
}

func TestNewRedisCache_RejectsMalformedURL(t *testing.T) {
	if _, err := NewRedisCache(RedisCacheOptions{URL: "not-a-url"}); err == nil {
		t.Error("NewRedisCache should reject a malformed URL")
	}
}
