package texture

import (
	"image"
	"os"
	"path/filepath"
	"sync"
)

// Cache is a concurrency-safe texture cache rooted at a directory.
type Cache struct {
	mu    sync.RWMutex
	items map[string]*cacheEntry
	dir   string
	index *Index
}

type cacheEntry struct {
	img *image.NRGBA
	err error
}

// NewCache creates a cache that resolves names relative to dir, falling
// back to index (which may be nil) for names that are not a file there.
func NewCache(dir string, index *Index) *Cache {
	return &Cache{
		items: make(map[string]*cacheEntry),
		dir:   dir,
		index: index,
	}
}

// Path returns the file a texture name refers to.
func (c *Cache) Path(texName string) (string, bool) {
	p := texName
	if !filepath.IsAbs(p) {
		p = filepath.Join(c.dir, p)
	}
	if info, err := os.Stat(p); err == nil && !info.IsDir() {
		return p, true
	}
	if c.index == nil {
		return "", false
	}
	return c.index.ResolvePath(texName)
}

// Load decodes and caches a texture by name. Failures are cached too.
func (c *Cache) Load(texName string) (*image.NRGBA, error) {
	path, ok := c.Path(texName)
	if !ok {
		return nil, &os.PathError{Op: "resolve", Path: texName, Err: os.ErrNotExist}
	}

	// Fast path: read lock
	c.mu.RLock()
	if entry, exists := c.items[path]; exists {
		c.mu.RUnlock()
		return entry.img, entry.err
	}
	c.mu.RUnlock()

	img, err := Load(path)

	// Write lock with double-check
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, exists := c.items[path]; exists {
		return entry.img, entry.err
	}
	c.items[path] = &cacheEntry{img: img, err: err}
	return img, err
}
