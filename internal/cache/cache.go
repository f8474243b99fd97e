package cache

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// minTTL is the floor applied to non-positive TTLs instead of erroring.
const minTTL = time.Second

// DefaultSweepInterval is how often the background sweep runs unless
// configured otherwise.
const DefaultSweepInterval = 5 * time.Minute

type entry struct {
	data      any
	expiresAt time.Time
}

// Cache is an in-process key/value store with per-entry expiry. Expired
// entries are evicted lazily on lookup and periodically by a background
// sweep; both paths may race on the same key and eviction is idempotent.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	logger  *zap.Logger
	now     func() time.Time
	stopCh  chan struct{}
	stopped sync.Once
}

// Stats is a point-in-time snapshot of the cache contents.
type Stats struct {
	Size int      `json:"size"`
	Keys []string `json:"keys"`
}

// New creates a cache and starts its background sweep.
func New(logger *zap.Logger, sweepInterval time.Duration) *Cache {
	return NewWithClock(logger, sweepInterval, time.Now)
}

// NewWithClock creates a cache with an injected clock. Used by tests to
// control expiry without sleeping.
func NewWithClock(logger *zap.Logger, sweepInterval time.Duration, now func() time.Time) *Cache {
	if sweepInterval <= 0 {
		sweepInterval = DefaultSweepInterval
	}
	c := &Cache{
		entries: make(map[string]entry),
		logger:  logger,
		now:     now,
		stopCh:  make(chan struct{}),
	}

	go c.sweepLoop(sweepInterval)

	return c
}

// Set stores value under key with the given TTL, overwriting any existing
// entry. Non-positive TTLs are clamped to one second.
func (c *Cache) Set(key string, value any, ttl time.Duration) {
	if ttl < minTTL {
		ttl = minTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{
		data:      value,
		expiresAt: c.now().Add(ttl),
	}
}

// Get returns the value stored under key if present and not expired. A
// stale hit is evicted before reporting a miss.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if c.now().After(e.expiresAt) {
		c.mu.Lock()
		// Re-check under the write lock; a Set may have replaced the entry.
		if cur, ok := c.entries[key]; ok && c.now().After(cur.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}

	return e.data, true
}

// Has reports whether key holds a fresh entry.
func (c *Cache) Has(key string) bool {
	_, ok := c.Get(key)
	return ok
}

// Delete removes the entry for key and reports whether one was present.
func (c *Cache) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.entries[key]
	delete(c.entries, key)
	return ok
}

// Clear removes all entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]entry)
}

// Stats returns the current size and key set. Introspection only.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	return Stats{Size: len(c.entries), Keys: keys}
}

// Destroy stops the background sweep and clears all entries. Safe to call
// more than once; required so the cache never leaks its ticker goroutine
// across test runs or process shutdown.
func (c *Cache) Destroy() {
	c.stopped.Do(func() {
		close(c.stopCh)
	})
	c.Clear()
}

// sweep evicts every expired entry.
func (c *Cache) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	expired := 0
	for k, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, k)
			expired++
		}
	}

	if expired > 0 {
		c.logger.Debug("Evicted expired cache entries", zap.Int("expired_count", expired))
	}
}

func (c *Cache) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.sweep()
		case <-c.stopCh:
			return
		}
	}
}

// Fetch returns the cached value for key when fresh, otherwise invokes
// producer, caches its result and returns it. A producer failure propagates
// unchanged and caches nothing.
func Fetch[T any](c *Cache, key string, ttl time.Duration, producer func() (T, error)) (T, error) {
	if v, ok := c.Get(key); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}

	value, err := producer()
	if err != nil {
		var zero T
		return zero, err
	}

	c.Set(key, value, ttl)
	return value, nil
}
