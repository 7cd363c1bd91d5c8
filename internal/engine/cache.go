package engine

import "time"

// The inter-frame result cache suppresses one-off misreads during live
// scanning. A payload seen for the first time is uncertain (count -1) and
// held back; seeing it again within the consistency window verifies it
// (count 0) and each further sighting increments the duplicate count.
// Entries that go unseen for the window's length start over.

const cacheWindow = 3 * time.Second

type cacheEntry struct {
	count int
	seen  time.Time
}

type resultCache struct {
	entries map[string]*cacheEntry
}

func newResultCache() *resultCache {
	return &resultCache{entries: make(map[string]*cacheEntry)}
}

// sight records one sighting of a payload and returns its cache count.
func (c *resultCache) sight(typ SymbolType, data string, now time.Time) int {
	key := typ.String() + "\x00" + data
	e := c.entries[key]
	if e == nil || now.Sub(e.seen) > cacheWindow {
		if len(c.entries) > 256 {
			c.expire(now)
		}
		c.entries[key] = &cacheEntry{count: -1, seen: now}
		return -1
	}
	e.count++
	e.seen = now
	return e.count
}

func (c *resultCache) expire(now time.Time) {
	for k, e := range c.entries {
		if now.Sub(e.seen) > cacheWindow {
			delete(c.entries, k)
		}
	}
}
