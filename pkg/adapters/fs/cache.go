package fs

import (
	"sync"
	"time"
)

// cacheEntry is the identification of one file at a given modification time
// and size.
type cacheEntry struct {
	modTime time.Time
	size    int64
	page    Page
	ok      bool
}

// cache remembers how files were identified so that a rescan only parses the
// front matter of files that changed since. Writes and moves through the
// Tree invalidate their paths.
type cache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry // Key is the relative path
	hits    int
}

func newCache() *cache {
	return &cache{entries: make(map[string]cacheEntry)}
}

// Get returns the cached identification of rel if the file did not change.
func (c *cache) Get(rel string, modTime time.Time, size int64) (Page, bool, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, found := c.entries[rel]
	if !found || !e.modTime.Equal(modTime) || e.size != size {
		return Page{}, false, false
	}
	c.hits++
	return e.page, e.ok, true
}

// Set stores the identification of rel.
func (c *cache) Set(rel string, modTime time.Time, size int64, page Page, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[rel] = cacheEntry{modTime: modTime, size: size, page: page, ok: ok}
}

// Forget drops the entries of the given paths.
func (c *cache) Forget(rels ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, rel := range rels {
		delete(c.entries, rel)
	}
}

// Len returns the number of cached files.
func (c *cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Hits returns how many lookups were served from the cache.
func (c *cache) Hits() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits
}
