package recurrence

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"
)

// cacheEntry holds one memoized Expand result.
type cacheEntry struct {
	instances  []Instance
	expiresAt  time.Time
	accessedAt time.Time
}

// CacheConfig holds configuration for an expansion cache.
type CacheConfig struct {
	TTL             time.Duration // How long entries stay valid.
	MaxEntries      int           // Entries kept before cleanup evicts.
	CleanupInterval time.Duration // How often the background sweep runs.
}

// DefaultCacheConfig provides sensible defaults for expansion caching.
var DefaultCacheConfig = CacheConfig{
	TTL:             15 * time.Minute,
	MaxEntries:      1000,
	CleanupInterval: 5 * time.Minute,
}

// expansionCache memoizes Expand results keyed by event identity + request,
// adapted from the teacher's RecurrenceCache (server/recurrence/cache.go):
// same TTL/max-entries/background-cleanup shape, repurposed to cache whole
// Instance slices rather than a single bool/[]time.Time result.
type expansionCache struct {
	mu          sync.RWMutex
	entries     map[string]*cacheEntry
	ttl         time.Duration
	maxEntries  int
	stopCleanup chan struct{}
}

func newExpansionCache(config CacheConfig) *expansionCache {
	c := &expansionCache{
		entries:     make(map[string]*cacheEntry),
		ttl:         config.TTL,
		maxEntries:  config.MaxEntries,
		stopCleanup: make(chan struct{}),
	}
	go c.cleanupLoop(config.CleanupInterval)
	return c
}

func (c *expansionCache) key(event *Event, request ExpansionRequest) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%s|%v", event.UID, request.From.Format(time.RFC3339Nano),
		request.To.Format(time.RFC3339Nano), request.Options)
	return fmt.Sprintf("%x", h.Sum(nil))
}

func (c *expansionCache) get(event *Event, request ExpansionRequest) ([]Instance, bool) {
	key := c.key(event, request)

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	now := time.Now()
	if now.After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}

	c.mu.Lock()
	entry.accessedAt = now
	c.mu.Unlock()
	return entry.instances, true
}

func (c *expansionCache) set(event *Event, request ExpansionRequest, instances []Instance) {
	key := c.key(event, request)
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = &cacheEntry{
		instances:  instances,
		expiresAt:  now.Add(c.ttl),
		accessedAt: now,
	}
	if len(c.entries) > c.maxEntries {
		c.evictLocked()
	}
}

// evictLocked removes expired entries, then the least recently accessed
// remaining entries until the cache is back under its limit. Callers must
// hold c.mu for writing.
func (c *expansionCache) evictLocked() {
	now := time.Now()
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}

	if len(c.entries) <= c.maxEntries {
		return
	}

	type keyAccess struct {
		key        string
		accessedAt time.Time
	}
	ordered := make([]keyAccess, 0, len(c.entries))
	for key, entry := range c.entries {
		ordered = append(ordered, keyAccess{key, entry.accessedAt})
	}
	for i := 0; i < len(ordered)-1; i++ {
		for j := i + 1; j < len(ordered); j++ {
			if ordered[i].accessedAt.After(ordered[j].accessedAt) {
				ordered[i], ordered[j] = ordered[j], ordered[i]
			}
		}
	}

	toRemove := len(c.entries) - c.maxEntries
	for i := 0; i < toRemove && i < len(ordered); i++ {
		delete(c.entries, ordered[i].key)
	}
}

func (c *expansionCache) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.mu.Lock()
			c.evictLocked()
			c.mu.Unlock()
		case <-c.stopCleanup:
			return
		}
	}
}

func (c *expansionCache) close() {
	close(c.stopCleanup)
	c.mu.Lock()
	c.entries = make(map[string]*cacheEntry)
	c.mu.Unlock()
}

// CachedEngine wraps an *Engine with a TTL-based memoization layer so
// repeated Expand calls over the same event and window within the TTL skip
// re-running the expansion.
type CachedEngine struct {
	engine *Engine
	cache  *expansionCache
}

// NewCachedEngine wraps engine with a cache configured by config.
func NewCachedEngine(engine *Engine, config CacheConfig) *CachedEngine {
	return &CachedEngine{engine: engine, cache: newExpansionCache(config)}
}

// Expand returns the cached result for (event, request) if present and
// unexpired, otherwise delegates to the wrapped Engine and caches the
// result.
func (c *CachedEngine) Expand(event *Event, request ExpansionRequest) ([]Instance, error) {
	if event.UID != "" {
		if cached, ok := c.cache.get(event, request); ok {
			return cached, nil
		}
	}

	instances, err := c.engine.Expand(event, request)
	if err != nil {
		return nil, err
	}

	if event.UID != "" {
		c.cache.set(event, request, instances)
	}
	return instances, nil
}

// Close stops the cache's background cleanup goroutine and clears it.
func (c *CachedEngine) Close() {
	c.cache.close()
}
