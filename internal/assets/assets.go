// Package assets loads meshes and textures from data directories and
// hands them to a GPU uploader, caching both raw files and uploaded
// handles.
package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
)

// ErrNotFound is returned when no root contains the requested file.
var ErrNotFound = errors.New("asset not found")

// Manager reads files from an ordered list of roots.
type Manager struct {
	roots []fs.FS
	names []string
	cache *Cache
	mu    sync.RWMutex
}

// NewManager creates a new asset manager.
func NewManager() *Manager {
	return &Manager{
		cache: NewCache(),
	}
}

// AddDir adds a directory root. Roots are searched in reverse order
// (last added = highest priority).
func (m *Manager) AddDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("opening asset dir %s: %w", path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("opening asset dir %s: not a directory", path)
	}
	m.AddFS(path, os.DirFS(path))
	return nil
}

// AddFS adds an arbitrary file system root, such as an embed.FS.
func (m *Manager) AddFS(name string, fsys fs.FS) {
	m.mu.Lock()
	m.roots = append(m.roots, fsys)
	m.names = append(m.names, name)
	m.mu.Unlock()
}

// Load reads a file by slash-separated path.
func (m *Manager) Load(path string) ([]byte, error) {
	if data, ok := m.cache.Get(path); ok {
		return data, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.roots) - 1; i >= 0; i-- {
		data, err := fs.ReadFile(m.roots[i], path)
		if err == nil {
			m.cache.Set(path, data)
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading %s from %s: %w", path, m.names[i], err)
		}
	}

	return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
}

// Roots returns the root names in search order.
func (m *Manager) Roots() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.names))
	for i := len(m.names) - 1; i >= 0; i-- {
		out = append(out, m.names[i])
	}
	return out
}

// Close drops all roots and cached data.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.roots = nil
	m.names = nil
	m.cache.Clear()
}

// Cache is a simple in-memory cache for loaded files.
type Cache struct {
	data map[string][]byte
	mu   sync.RWMutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string][]byte),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return data, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string][]byte)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
