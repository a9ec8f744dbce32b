package cache

import (
	"sync"
	"time"
)

// Memory implements Cache using in-memory storage. It is safe for
// concurrent use.
type Memory[V any] struct {
	mu    sync.RWMutex
	items map[string]entry[V]
	now   func() time.Time
}

// NewMemory creates an empty in-memory cache.
func NewMemory[V any]() *Memory[V] {
	return &Memory[V]{
		items: make(map[string]entry[V]),
		now:   time.Now,
	}
}

// Get retrieves a value from the cache.
func (m *Memory[V]) Get(key string) (V, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.items[key]
	if !ok || e.expired(m.now()) {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores a value. A non-positive ttl keeps the entry until it is
// deleted.
func (m *Memory[V]) Set(key string, value V, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := entry[V]{value: value}
	if ttl > 0 {
		e.expiresAt = m.now().Add(ttl)
	}
	m.items[key] = e
}

// GetOrCompute returns the cached value for key, computing and storing it
// on a miss. Errors from compute are returned and nothing is stored.
func (m *Memory[V]) GetOrCompute(key string, compute func() (V, error)) (V, error) {
	if v, ok := m.Get(key); ok {
		return v, nil
	}
	v, err := compute()
	if err != nil {
		return v, err
	}
	m.Set(key, v, 0)
	return v, nil
}

// Delete removes a value from the cache.
func (m *Memory[V]) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.items, key)
}

// Len returns the number of items in the cache (including expired).
func (m *Memory[V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.items)
}

// Ensure Memory implements Cache interface
var _ Cache[int] = (*Memory[int])(nil)
