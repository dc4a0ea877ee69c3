package ai

import "sync"

// expansionCache deduplicates completion requests by key. The first caller
// for a key fires the upstream call; late arrivals for the same key block on
// the same entry and share its result. Failures are not cached so a later
// request can retry.
type expansionCache struct {
	mu       sync.Mutex
	entries  map[string]*cacheEntry
	capacity int
}

type cacheEntry struct {
	done chan struct{}
	text string
	err  error
}

func newExpansionCache(capacity int) *expansionCache {
	if capacity < 1 {
		capacity = 64
	}
	return &expansionCache{
		entries:  make(map[string]*cacheEntry),
		capacity: capacity,
	}
}

func (c *expansionCache) do(key string, fn func() (string, error)) (string, error) {
	c.mu.Lock()
	if entry, ok := c.entries[key]; ok {
		c.mu.Unlock()
		<-entry.done
		return entry.text, entry.err
	}

	c.evictLocked()

	entry := &cacheEntry{done: make(chan struct{})}
	c.entries[key] = entry
	c.mu.Unlock()

	entry.text, entry.err = fn()
	if entry.err != nil {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
	}
	close(entry.done)

	return entry.text, entry.err
}

// evictLocked drops one completed entry when the cache is full. In-flight
// entries are never evicted; their waiters hold references to them.
func (c *expansionCache) evictLocked() {
	if len(c.entries) < c.capacity {
		return
	}
	for key, entry := range c.entries {
		select {
		case <-entry.done:
			delete(c.entries, key)
			return
		default:
		}
	}
}
