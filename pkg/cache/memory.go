package cache

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Entries written with a non-positive TTL fall back to this lifetime.
const defaultEntryTTL = 7 * 24 * time.Hour

type memoryEntry struct {
	value    interface{}
	expireAt time.Time
}

func (e *memoryEntry) expired(now time.Time) bool {
	return now.After(e.expireAt)
}

// MemoryCache is an in-process Service with TTL expiry and least-recently-
// used eviction once the entry count reaches the configured cap.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	touched map[string]time.Time

	maxSize int
	now     func() time.Time

	ticker *time.Ticker
	stop   chan struct{}
}

// NewMemoryCache creates an in-process cache. A background goroutine sweeps
// expired entries until Close is called.
func NewMemoryCache(opts ...MemoryOption) *MemoryCache {
	cfg := &MemoryConfig{
		MaxSize:         1000,
		CleanupInterval: 5 * time.Minute,
		Clock:           time.Now,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}

	mc := &MemoryCache{
		entries: make(map[string]*memoryEntry),
		touched: make(map[string]time.Time),
		maxSize: cfg.MaxSize,
		now:     cfg.Clock,
		ticker:  time.NewTicker(cfg.CleanupInterval),
		stop:    make(chan struct{}),
	}
	go mc.sweep()
	return mc
}

func (mc *MemoryCache) Set(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if len(mc.entries) >= mc.maxSize {
		mc.evictOldest()
	}

	now := mc.now()
	if expiration <= 0 {
		expiration = defaultEntryTTL
	}
	mc.entries[key] = &memoryEntry{value: value, expireAt: now.Add(expiration)}
	mc.touched[key] = now
	return nil
}

func (mc *MemoryCache) Get(_ context.Context, key string, dest interface{}) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	entry, ok := mc.entries[key]
	if !ok {
		return ErrCacheMiss
	}
	if entry.expired(mc.now()) {
		mc.drop(key)
		return ErrCacheMiss
	}
	mc.touched[key] = mc.now()

	switch d := dest.(type) {
	case *string:
		s, ok := entry.value.(string)
		if !ok {
			return fmt.Errorf("cache: value for %q is %T, not string", key, entry.value)
		}
		*d = s
	case *interface{}:
		*d = entry.value
	default:
		return fmt.Errorf("cache: unsupported destination type %T", dest)
	}
	return nil
}

func (mc *MemoryCache) Delete(_ context.Context, keys ...string) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	for _, key := range keys {
		mc.drop(key)
	}
	return nil
}

// Close stops the sweep goroutine.
func (mc *MemoryCache) Close() error {
	mc.ticker.Stop()
	close(mc.stop)
	return nil
}

// drop and evictOldest are called with mc.mu held.

func (mc *MemoryCache) drop(key string) {
	delete(mc.entries, key)
	delete(mc.touched, key)
}

func (mc *MemoryCache) evictOldest() {
	var oldestKey string
	var oldestAt time.Time
	for key, at := range mc.touched {
		if oldestKey == "" || at.Before(oldestAt) {
			oldestKey, oldestAt = key, at
		}
	}
	if oldestKey != "" {
		mc.drop(oldestKey)
	}
}

func (mc *MemoryCache) sweep() {
	for {
		select {
		case <-mc.ticker.C:
			mc.mu.Lock()
			now := mc.now()
			for key, entry := range mc.entries {
				if entry.expired(now) {
					mc.drop(key)
				}
			}
			mc.mu.Unlock()
		case <-mc.stop:
			return
		}
	}
}
