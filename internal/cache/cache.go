// Package cache is the Cache Layer: content-hash
// memoisation for parsed sources and merged artifact sets, thread-safe for
// read-mostly concurrent access using a sync.Map plus atomic hit/miss
// counters, keyed with xxhash rather than a cryptographic hash since this
// is a non-cryptographic content-addressed cache key.
package cache

import (
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
)

// Key is a content-hash cache key: 64-bit xxhash of the source bytes,
// combined with a namespace so the same bytes parsed by two different
// adapters (or merged under two different task-index fingerprints) don't
// collide.
type Key uint64

// HashKey computes the cache key for namespace (e.g. an adapter's
// Language(), or "merge") over content.
func HashKey(namespace string, content []byte) Key {
	d := xxhash.New()
	d.WriteString(namespace)
	d.Write([]byte{0})
	d.Write(content)
	return Key(d.Sum64())
}

// Cache is a lock-free, read-mostly memoisation table keyed by content
// hash. One Cache instance is shared across every worker goroutine in a
// validation run.
type Cache struct {
	entries sync.Map // map[Key]any

	hits   int64
	misses int64
}

// New builds an empty Cache.
func New() *Cache {
	return &Cache{}
}

// Get returns the cached value for key, if present.
func (c *Cache) Get(key Key) (any, bool) {
	v, ok := c.entries.Load(key)
	if ok {
		atomic.AddInt64(&c.hits, 1)
	} else {
		atomic.AddInt64(&c.misses, 1)
	}
	return v, ok
}

// Put stores value under key, replacing any value already stored there:
// the in-memory table does not enforce write-once (DiskCache.Store does).
func (c *Cache) Put(key Key, value any) {
	c.entries.Store(key, value)
}

// GetOrCompute returns the cached value for key, computing and storing it
// via compute if absent.
func (c *Cache) GetOrCompute(key Key, compute func() any) any {
	if v, ok := c.Get(key); ok {
		return v
	}
	v := compute()
	c.Put(key, v)
	return v
}

// Stats reports cumulative hit/miss counts.
type Stats struct {
	Hits   int64
	Misses int64
}

// Stats returns a snapshot of c's hit/miss counters.
func (c *Cache) Stats() Stats {
	return Stats{Hits: atomic.LoadInt64(&c.hits), Misses: atomic.LoadInt64(&c.misses)}
}
