package xlsx

import (
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"docextract/internal/domain"
)

// DefaultCacheTTL is how long a loaded table snapshot is served before it is reloaded.
const DefaultCacheTTL = 60 * time.Second

type cacheKey struct {
	partition domain.Partition
	table     string
}

func (k cacheKey) String() string {
	return string(k.partition) + "/" + k.table
}

type cacheEntry struct {
	value    any
	loadedAt time.Time
}

// tableCache holds materialized table snapshots keyed by (partition, table). Concurrent
// cold loads of one key share a single load.
type tableCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[cacheKey]cacheEntry
	loads   singleflight.Group
}

func newTableCache(ttl time.Duration) *tableCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &tableCache{
		ttl:     ttl,
		now:     time.Now,
		entries: map[cacheKey]cacheEntry{},
	}
}

func (c *tableCache) get(key cacheKey) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || c.now().Sub(e.loadedAt) >= c.ttl {
		return nil, false
	}
	return e.value, true
}

func (c *tableCache) put(key cacheKey, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{value: value, loadedAt: c.now()}
}

func (c *tableCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = map[cacheKey]cacheEntry{}
}

// getOrLoad returns the cached value for key or runs load once for all concurrent
// callers. load is responsible for storing its result with put.
func (c *tableCache) getOrLoad(key cacheKey, load func() (any, error)) (any, error) {
	if v, ok := c.get(key); ok {
		return v, nil
	}
	v, err, _ := c.loads.Do(key.String(), func() (any, error) {
		if v, ok := c.get(key); ok {
			return v, nil
		}
		return load()
	})
	return v, err
}
