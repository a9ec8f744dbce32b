package pipeline

import (
	"fmt"
	"io/fs"
	"slices"
	"sync"
)

// MemoryWriter implements Writer and Reader without touching the filesystem.
type MemoryWriter struct {
	mu    sync.RWMutex
	Files map[string][]byte
}

// WriteFile stores a copy of data.
func (m *MemoryWriter) WriteFile(path string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Files == nil {
		m.Files = make(map[string][]byte)
	}
	m.Files[path] = append([]byte(nil), data...)
	return nil
}

// GetFile retrieves a file's content.
func (m *MemoryWriter) GetFile(path string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.Files[path]
	return data, ok
}

// ReadFile returns a copy of the content stored at path, or an error
// matching fs.ErrNotExist.
func (m *MemoryWriter) ReadFile(path string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.Files[path]
	if !ok {
		return nil, fmt.Errorf("memory writer: %s: %w", path, fs.ErrNotExist)
	}
	return append([]byte(nil), data...), nil
}

// Paths returns the written paths in sorted order.
func (m *MemoryWriter) Paths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]string, 0, len(m.Files))
	for p := range m.Files {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

// Clear removes all files.
func (m *MemoryWriter) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Files = make(map[string][]byte)
}

var (
	_ Writer = (*MemoryWriter)(nil)
	_ Reader = (*MemoryWriter)(nil)
)
