package redis

import (
	"bytes"
	"context"
	"testing"
	"time"
)

func TestCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	cache := NewCache(newTestClient(t))

	if err := cache.Set(ctx, "names", []byte(`{"200":"Sales"}`), time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	got, err := cache.Get(ctx, "names")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}

	if !bytes.Equal(got, []byte(`{"200":"Sales"}`)) {
		t.Fatalf("unexpected cached value: %s", got)
	}
}

func TestCacheMiss(t *testing.T) {
	ctx := context.Background()
	cache := NewCache(newTestClient(t))

	got, err := cache.Get(ctx, "missing")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}

	if got != nil {
		t.Fatalf("expected nil on miss, got %s", got)
	}
}
