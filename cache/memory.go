package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/exp/maps"
)

type memoryEntry struct {
	value   []byte
	expires time.Time
}

type memoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	cfg     config
}

var _ Cache = (*memoryCache)(nil)

// NewMemory returns a bounded in-process Cache. Expired entries are dropped
// lazily on access and swept when the cache is full; there is no background
// goroutine, so instances can be created freely (one per accessor) without a
// teardown step.
func NewMemory(opts ...Option) Cache {
	return &memoryCache{
		entries: make(map[string]memoryEntry),
		cfg:     applyOptions(opts),
	}
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	if e.expires.Before(time.Now()) {
		delete(c.entries, key)
		return nil, false, nil
	}
	return e.value, true, nil
}

func (c *memoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return ErrInvalidTTL
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; !ok && len(c.entries) >= c.cfg.maxEntries {
		c.evictLocked()
	}
	c.entries[key] = memoryEntry{value: value, expires: time.Now().Add(ttl)}
	return nil
}

func (c *memoryCache) Delete(_ context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	if ok {
		delete(c.entries, key)
	}
	return ok, nil
}

// evictLocked drops all expired entries, and if nothing had expired, the
// entry closest to expiry.
func (c *memoryCache) evictLocked() {
	now := time.Now()
	var soonest string
	var soonestAt time.Time
	evicted := false
	for _, key := range maps.Keys(c.entries) {
		e := c.entries[key]
		if e.expires.Before(now) {
			delete(c.entries, key)
			evicted = true
			continue
		}
		if soonest == "" || e.expires.Before(soonestAt) {
			soonest = key
			soonestAt = e.expires
		}
	}
	if !evicted && soonest != "" {
		delete(c.entries, soonest)
	}
}
