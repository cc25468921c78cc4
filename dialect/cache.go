package dialect

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"
)

// Cache is the interface for caching query results.
// Users should implement this interface with their preferred caching solution
// (e.g., Redis, Memcached, in-memory).
type Cache interface {
	// Get retrieves cached rows. Returns nil, false if the key is absent or
	// expired.
	Get(ctx context.Context, key string) ([]map[string]any, bool)

	// Set stores rows under the key with an optional TTL.
	// If ttl is 0, the entry does not expire.
	Set(ctx context.Context, key string, rows []map[string]any, ttl time.Duration)

	// Clear removes every entry.
	Clear(ctx context.Context)
}

// CacheKey identifies one query execution: the text plus its parameters in
// sorted order.
func CacheKey(text string, params map[string]any) string {
	if len(params) == 0 {
		return text
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	var b strings.Builder
	b.WriteString(text)
	for _, k := range keys {
		fmt.Fprintf(&b, "|%s=%v", k, params[k])
	}
	return b.String()
}

type memoryEntry struct {
	rows    []map[string]any
	expires time.Time
}

// MemoryCache is a process-local Cache.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

// NewMemoryCache returns an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryEntry)}
}

// Get retrieves cached rows.
func (c *MemoryCache) Get(_ context.Context, key string) ([]map[string]any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !e.expires.IsZero() && time.Now().After(e.expires) {
		delete(c.entries, key)
		return nil, false
	}
	return e.rows, true
}

// Set stores rows under the key.
func (c *MemoryCache) Set(_ context.Context, key string, rows []map[string]any, ttl time.Duration) {
	e := memoryEntry{rows: rows}
	if ttl > 0 {
		e.expires = time.Now().Add(ttl)
	}
	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()
}

// Clear removes every entry.
func (c *MemoryCache) Clear(_ context.Context) {
	c.mu.Lock()
	c.entries = make(map[string]memoryEntry)
	c.mu.Unlock()
}

// CachedQuerier wraps a Querier with read-through result caching. Graph reads
// are idempotent, so repeated identical queries within the TTL are served
// from memory.
type CachedQuerier struct {
	next  Querier
	cache Cache
	ttl   time.Duration
}

// NewCachedQuerier wraps next with the given cache. A zero TTL caches
// without expiry.
func NewCachedQuerier(next Querier, cache Cache, ttl time.Duration) *CachedQuerier {
	return &CachedQuerier{next: next, cache: cache, ttl: ttl}
}

// Query serves from the cache when possible. Failed executions are never
// cached.
func (q *CachedQuerier) Query(ctx context.Context, text string, params map[string]any) ([]map[string]any, error) {
	key := CacheKey(text, params)
	if rows, ok := q.cache.Get(ctx, key); ok {
		return rows, nil
	}
	rows, err := q.next.Query(ctx, text, params)
	if err != nil {
		return nil, err
	}
	q.cache.Set(ctx, key, rows, q.ttl)
	return rows, nil
}
