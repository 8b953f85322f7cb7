package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeClock is a hand-stepped time source for expiry tests.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestCache(t *testing.T, clock *fakeClock, opts ...MemoryOption) *MemoryCache {
	t.Helper()
	opts = append([]MemoryOption{
		WithMemoryClock(clock.Now),
		WithMemoryCleanup(time.Hour),
	}, opts...)
	mc := NewMemoryCache(opts...)
	t.Cleanup(func() { _ = mc.Close() })
	return mc
}

func TestMemoryCacheSetGet(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	mc := newTestCache(t, clock)

	if err := mc.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	var got string
	if err := mc.Get(ctx, "k", &got); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "v" {
		t.Fatalf("got %q", got)
	}

	if err := mc.Get(ctx, "missing", &got); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss, got %v", err)
	}
}

func TestMemoryCacheTTL(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	mc := newTestCache(t, clock)

	if err := mc.Set(ctx, "k", "v", time.Hour); err != nil {
		t.Fatalf("set: %v", err)
	}

	clock.Advance(59 * time.Minute)
	var got string
	if err := mc.Get(ctx, "k", &got); err != nil {
		t.Fatalf("entry expired early: %v", err)
	}

	clock.Advance(2 * time.Minute)
	if err := mc.Get(ctx, "k", &got); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected expiry after TTL, got %v", err)
	}

	// The expired entry is dropped for good, not resurrected.
	if err := mc.Get(ctx, "k", &got); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected miss to stick, got %v", err)
	}
}

func TestMemoryCacheDelete(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	mc := newTestCache(t, clock)

	_ = mc.Set(ctx, "a", "1", time.Hour)
	_ = mc.Set(ctx, "b", "2", time.Hour)

	if err := mc.Delete(ctx, "a", "b", "never-existed"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var got string
	if err := mc.Get(ctx, "a", &got); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("a should be gone, got %v", err)
	}
	if err := mc.Get(ctx, "b", &got); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("b should be gone, got %v", err)
	}
}

func TestMemoryCacheLRUEviction(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	mc := newTestCache(t, clock, WithMemoryMaxSize(2))

	_ = mc.Set(ctx, "a", "1", time.Hour)
	clock.Advance(time.Second)
	_ = mc.Set(ctx, "b", "2", time.Hour)
	clock.Advance(time.Second)

	// Touch "a" so "b" becomes the least recently used entry.
	var got string
	if err := mc.Get(ctx, "a", &got); err != nil {
		t.Fatalf("get a: %v", err)
	}
	clock.Advance(time.Second)

	_ = mc.Set(ctx, "c", "3", time.Hour)

	if err := mc.Get(ctx, "b", &got); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected b evicted, got %v", err)
	}
	if err := mc.Get(ctx, "a", &got); err != nil {
		t.Fatalf("a should survive: %v", err)
	}
	if err := mc.Get(ctx, "c", &got); err != nil {
		t.Fatalf("c should exist: %v", err)
	}
}

func TestMemoryCacheDestTypes(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	mc := newTestCache(t, clock)

	_ = mc.Set(ctx, "s", "text", time.Minute)

	var anyDest interface{}
	if err := mc.Get(ctx, "s", &anyDest); err != nil {
		t.Fatalf("get into interface: %v", err)
	}
	if anyDest.(string) != "text" {
		t.Fatalf("got %v", anyDest)
	}

	var intDest int
	if err := mc.Get(ctx, "s", &intDest); err == nil {
		t.Fatal("expected error for unsupported destination")
	}
}

func TestMemoryCacheDefaultTTL(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	mc := newTestCache(t, clock)

	// Non-positive TTLs fall back to the long default instead of expiring
	// immediately.
	if err := mc.Set(ctx, "k", "v", 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	clock.Advance(24 * time.Hour)

	var got string
	if err := mc.Get(ctx, "k", &got); err != nil {
		t.Fatalf("get after a day: %v", err)
	}
}
