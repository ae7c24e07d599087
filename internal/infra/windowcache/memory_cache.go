package windowcache

import (
	"context"
	"sync"
	"time"

	"github.com/yanqian/skyplan/internal/domain/astro"
	"github.com/yanqian/skyplan/internal/domain/recommend"
)

// sweepEvery is how many writes pass between sweeps of expired entries.
const sweepEvery = 256

type entry struct {
	window    astro.VisibilityWindow
	expiresAt time.Time
}

// MemoryCache is an in-process window cache for tests/dev and the fallback
// when Valkey is not configured.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	writes  int
	now     func() time.Time
}

// NewMemoryCache constructs an empty cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]entry), now: time.Now}
}

// Get implements recommend.WindowCache.
func (c *MemoryCache) Get(_ context.Context, key string) (astro.VisibilityWindow, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return astro.VisibilityWindow{}, false, nil
	}
	if !e.expiresAt.IsZero() && !c.now().Before(e.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return astro.VisibilityWindow{}, false, nil
	}
	return e.window, true, nil
}

// Set implements recommend.WindowCache. A non-positive ttl keeps the entry
// until it is overwritten. Every sweepEvery writes the expired entries are
// dropped, so keys that are never read again do not accumulate.
func (c *MemoryCache) Set(_ context.Context, key string, window astro.VisibilityWindow, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	exp := time.Time{}
	if ttl > 0 {
		exp = c.now().Add(ttl)
	}
	c.entries[key] = entry{window: window, expiresAt: exp}
	c.writes++
	if c.writes%sweepEvery == 0 {
		c.purgeLocked()
	}
	return nil
}

// Purge drops expired entries and reports how many remain.
func (c *MemoryCache) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.purgeLocked()
	return len(c.entries)
}

// Len reports the number of stored entries, expired or not.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *MemoryCache) purgeLocked() {
	now := c.now()
	for key, e := range c.entries {
		if !e.expiresAt.IsZero() && !now.Before(e.expiresAt) {
			delete(c.entries, key)
		}
	}
}

var _ recommend.WindowCache = (*MemoryCache)(nil)
