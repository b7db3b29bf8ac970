package raster

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"sync"
)

// MemoryStore is an in-memory Source and Sink. Written grids can be read
// back by path, which makes it a stand-in for GDAL in tests.
type MemoryStore struct {
	mu    sync.RWMutex
	grids map[string]*Grid

	// FailWrites, when set, makes Write fail for the listed paths.
	FailWrites map[string]bool
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{grids: make(map[string]*Grid)}
}

// Put stores a copy of g under path.
func (m *MemoryStore) Put(path string, g *Grid) {
	m.mu.Lock()
	m.grids[filepath.Clean(path)] = g.Clone()
	m.mu.Unlock()
}

// Read implements Source. It returns a copy of the stored grid.
func (m *MemoryStore) Read(path string) (*Grid, error) {
	m.mu.RLock()
	g, ok := m.grids[filepath.Clean(path)]
	m.mu.RUnlock()
	if !ok {
		return nil, &ReadError{Path: path, Err: fs.ErrNotExist}
	}
	return g.Clone(), nil
}

// Write implements Sink.
func (m *MemoryStore) Write(ref *Grid, path string, data *Grid) error {
	if m.FailWrites[path] {
		return &WriteError{Path: path, Err: fs.ErrPermission}
	}
	if err := data.Validate(); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	out := outputGrid(ref, data).Clone()
	m.mu.Lock()
	m.grids[filepath.Clean(path)] = out
	m.mu.Unlock()
	return nil
}

// Paths lists the stored paths in lexical order.
func (m *MemoryStore) Paths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	paths := make([]string, 0, len(m.grids))
	for p := range m.grids {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// String implements fmt.Stringer.
func (m *MemoryStore) String() string {
	return fmt.Sprintf("MemoryStore(%d grids)", len(m.Paths()))
}
