package viewer

import (
	gocache "github.com/patrickmn/go-cache"
)

// Cache maps note paths to their raw markdown for the lifetime of a
// session. Entries never expire; a path is stored at most once until
// Clear.
type Cache struct {
	items *gocache.Cache
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{items: gocache.New(gocache.NoExpiration, 0)}
}

// Get returns the cached text for path.
func (c *Cache) Get(path string) (string, bool) {
	v, ok := c.items.Get(path)
	if !ok {
		return "", false
	}
	return v.(string), true
}

// Put stores text for path. It reports false, leaving the cache
// unchanged, if path is already present.
func (c *Cache) Put(path, text string) bool {
	return c.items.Add(path, text, gocache.NoExpiration) == nil
}

// Has reports whether path is cached.
func (c *Cache) Has(path string) bool {
	_, ok := c.items.Get(path)
	return ok
}

// Len returns the number of cached notes.
func (c *Cache) Len() int {
	return c.items.ItemCount()
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.items.Flush()
}
