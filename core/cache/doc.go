// Package cache keeps rendered QR artifacts so that repeated (amount, format)
// combinations do not hit the renderer again.
//
// The cache is a bounded LRU: when full, inserting a new key evicts exactly one
// entry, the least recently touched. Lookups count hits and misses; the byte
// total tracks the size estimate passed to Insert.
//
// # Keys
//
// A Key holds the amount strings exactly as the payload encoder emits them
// (see payload.CacheKey). Two triples share a key only when they would render
// the same image, and float noise never leaks into the key.
//
// # Concurrency
//
// The owning converter session is the only writer. A mutex still guards the
// state so that statistics can be read from HTTP handlers.
//
// # Usage
//
//	c := cache.New(64)
//	key := cache.NewKey("1,000", "1165000", "fast_payment")
//	if png, ok := c.Lookup(key); ok {
//	    return png
//	}
//	png := render(...)
//	c.Insert(key, png, int64(len(png)))
package cache
