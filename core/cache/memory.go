package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type memoryEntry struct {
	value []byte
	built time.Time
	ttl   time.Duration
}

func (e *memoryEntry) isExpired() bool {
	if e.ttl == 0 {
		return true
	}
	return time.Since(e.built) > e.ttl
}

// Memory is an in-process Cache. Concurrent misses for the same key share one
// load through singleflight.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]*memoryEntry
	tags    map[string]map[string]struct{}
	sf      singleflight.Group
	ttl     time.Duration
}

// NewMemory creates an empty in-process cache. A zero ttl disables caching.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		entries: make(map[string]*memoryEntry),
		tags:    make(map[string]map[string]struct{}),
		ttl:     ttl,
	}
}

// GetOrLoad implements Cache.
func (m *Memory) GetOrLoad(ctx context.Context, key string, tags []string, load Loader) ([]byte, error) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()
	if ok && !entry.isExpired() {
		return entry.value, nil
	}

	result, err, _ := m.sf.Do(key, func() (interface{}, error) {
		m.mu.RLock()
		entry, ok := m.entries[key]
		m.mu.RUnlock()
		if ok && !entry.isExpired() {
			return entry.value, nil
		}

		value, err := load(ctx)
		if err != nil {
			return nil, err
		}

		m.mu.Lock()
		m.entries[key] = &memoryEntry{value: value, built: time.Now(), ttl: m.ttl}
		for _, tag := range tags {
			keys, ok := m.tags[tag]
			if !ok {
				keys = make(map[string]struct{})
				m.tags[tag] = keys
			}
			keys[key] = struct{}{}
		}
		m.mu.Unlock()

		return value, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]byte), nil
}

// InvalidateTag implements Invalidator.
func (m *Memory) InvalidateTag(_ context.Context, tag string) error {
	m.mu.Lock()
	for key := range m.tags[tag] {
		delete(m.entries, key)
	}
	delete(m.tags, tag)
	m.mu.Unlock()
	return nil
}

// Len reports the number of stored entries, expired ones included.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
