package cache

import (
	"bytes"
	"math"
	"sync"

	"github.com/hashicorp/golang-lru/v2/simplelru"
)

// Key identifies a rendered artifact by its amounts and payload format.
// The amounts are the exact strings written into the payload, so two keys are
// equal only when the rendered images are.
type Key struct {
	AmountA string `json:"amount_a"`
	AmountB string `json:"amount_b"`
	Format  string `json:"format"`
}

// NewKey builds a cache key from rendered amount strings and a format name.
func NewKey(amountA, amountB, format string) Key {
	return Key{AmountA: amountA, AmountB: amountB, Format: format}
}

// String renders the key for logs and object names.
func (k Key) String() string {
	return k.AmountA + "|" + k.AmountB + "|" + k.Format
}

// Entry is a stored artifact. It is owned by the cache.
type Entry struct {
	Key       Key
	Artifact  []byte
	SizeBytes int64
}

// Stats is a read-only snapshot of cache counters.
type Stats struct {
	Hits       uint64 `json:"hits"`
	Misses     uint64 `json:"misses"`
	TotalBytes int64  `json:"total_bytes"`
	Count      int    `json:"count"`
	// Capacity is 0 when the cache is unbounded.
	Capacity int `json:"capacity"`
}

// Cache is a least-recently-used store for rendered QR artifacts with
// hit/miss accounting. Eviction is purely capacity driven; nothing expires.
type Cache struct {
	mu         sync.Mutex
	lru        *simplelru.LRU[Key, *Entry]
	capacity   int
	hits       uint64
	misses     uint64
	totalBytes int64
}

// New creates a cache holding at most capacity entries.
// A capacity of zero or less means unbounded.
func New(capacity int) *Cache {
	c := &Cache{capacity: capacity}
	if capacity <= 0 {
		c.capacity = 0
	}
	c.lru = c.newLRU()
	return c
}

func (c *Cache) newLRU() *simplelru.LRU[Key, *Entry] {
	size := c.capacity
	if size == 0 {
		size = math.MaxInt
	}
	// NewLRU only fails for a non-positive size
	l, _ := simplelru.NewLRU[Key, *Entry](size, func(_ Key, e *Entry) {
		c.totalBytes -= e.SizeBytes
	})
	return l
}

// Lookup returns a copy of the artifact stored under key.
// A hit marks the key as most recently used.
func (c *Cache) Lookup(key Key) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.lru.Get(key)
	if !ok {
		c.misses++
		return nil, false
	}
	c.hits++
	return bytes.Clone(e.Artifact), true
}

// Insert stores artifact under key as the most recently used entry.
// When the cache is full and key is new, the least recently used entry is
// evicted first. Re-inserting a key replaces its artifact.
// A non-positive sizeBytes falls back to len(artifact).
func (c *Cache) Insert(key Key, artifact []byte, sizeBytes int64) {
	if sizeBytes <= 0 {
		sizeBytes = int64(len(artifact))
	}
	e := &Entry{Key: key, Artifact: bytes.Clone(artifact), SizeBytes: sizeBytes}

	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.lru.Peek(key); ok {
		c.totalBytes -= old.SizeBytes
	}
	// Add fires the eviction callback for the oldest entry when full
	c.lru.Add(key, e)
	c.totalBytes += sizeBytes
}

// Statistics returns a snapshot of the counters. It has no side effects.
func (c *Cache) Statistics() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Stats{
		Hits:       c.hits,
		Misses:     c.misses,
		TotalBytes: c.totalBytes,
		Count:      c.lru.Len(),
		Capacity:   c.capacity,
	}
}

// Keys returns the stored keys from least to most recently used.
func (c *Cache) Keys() []Key {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Keys()
}

// Clear drops every entry and resets all counters.
// It is a maintenance action, never part of the normal flow.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lru = c.newLRU()
	c.hits = 0
	c.misses = 0
	c.totalBytes = 0
}

// Purge drops every entry but keeps the hit and miss counters.
// Callers use it when the payload behind unchanged keys has changed.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lru = c.newLRU()
	c.totalBytes = 0
}

// Restore seeds the hit and miss counters, typically from persisted state.
func (c *Cache) Restore(hits, misses uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.hits = hits
	c.misses = misses
}
