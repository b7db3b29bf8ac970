package raster

import "sync"

// GridCache keeps grids read from a Source so that repeated reads of the
// same path skip the disk.
//
// Grids are keyed by the exact path string. A cached grid is shared between
// callers, so callers must treat it as read-only and Clone before mutating.
//
// GridCache is safe for concurrent use.
type GridCache struct {
	src Source

	mu    sync.RWMutex
	grids map[string]*Grid
}

// NewGridCache wraps src with an empty cache.
func NewGridCache(src Source) *GridCache {
	return &GridCache{
		src:   src,
		grids: make(map[string]*Grid),
	}
}

// Read implements Source. It returns the cached grid for path, reading it
// from the underlying source on first use. Failed reads are not cached.
func (c *GridCache) Read(path string) (*Grid, error) {
	c.mu.RLock()
	if g, ok := c.grids[path]; ok {
		c.mu.RUnlock()
		return g, nil
	}
	c.mu.RUnlock()

	g, err := c.src.Read(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.grids[path] = g
	c.mu.Unlock()

	return g, nil
}

// Evict removes path from the cache. Unknown paths are ignored.
func (c *GridCache) Evict(path string) {
	c.mu.Lock()
	delete(c.grids, path)
	c.mu.Unlock()
}

// Clear drops every cached grid.
func (c *GridCache) Clear() {
	c.mu.Lock()
	c.grids = make(map[string]*Grid)
	c.mu.Unlock()
}

// Len returns the number of cached grids.
func (c *GridCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.grids)
}
