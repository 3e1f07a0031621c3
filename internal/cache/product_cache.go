// Package cache provides a best-effort, single-process memoization of
// resolved products. It is not a system of record: growth is bounded only by
// the distinct (source, id) pairs seen, and expiry is evaluated lazily on
// lookup instead of by a background sweep.
package cache

import (
	"sync"
	"time"

	"github.com/nutrilog/nutrilog/internal/domain/models"
)

type cacheKey struct {
	source models.Source
	id     string
}

type cacheEntry struct {
	product    models.Product
	insertedAt time.Time
}

// ProductCache is a TTL-bounded map keyed by (source, id). Products are not
// tenant-scoped; nutrition facts are public catalog data. Concurrent writes
// for the same key race last-writer-wins, which is fine because cached
// values for one key are semantically equal.
type ProductCache struct {
	mu    sync.RWMutex
	ttl   time.Duration
	now   func() time.Time
	items map[cacheKey]cacheEntry
}

// New builds a cache whose entries expire ttl after insertion.
func New(ttl time.Duration) *ProductCache {
	return &ProductCache{
		ttl:   ttl,
		now:   time.Now,
		items: make(map[cacheKey]cacheEntry),
	}
}

// Get returns the cached product when present and fresh. Expired entries are
// evicted on the spot so they can never resurface.
func (c *ProductCache) Get(source models.Source, productID string) (models.Product, bool) {
	key := cacheKey{source: source, id: productID}

	c.mu.RLock()
	entry, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return models.Product{}, false
	}

	if c.now().Sub(entry.insertedAt) >= c.ttl {
		c.mu.Lock()
		// Re-check under the write lock; a concurrent Put may have refreshed it.
		if current, still := c.items[key]; still && c.now().Sub(current.insertedAt) >= c.ttl {
			delete(c.items, key)
		}
		c.mu.Unlock()
		return models.Product{}, false
	}

	return entry.product, true
}

// Put unconditionally overwrites the cached value for the key.
func (c *ProductCache) Put(source models.Source, productID string, product models.Product) {
	c.mu.Lock()
	c.items[cacheKey{source: source, id: productID}] = cacheEntry{
		product:    product,
		insertedAt: c.now(),
	}
	c.mu.Unlock()
}
