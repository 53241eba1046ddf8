package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// DefaultMemoryEntries bounds a Memory store created with a non-positive size.
const DefaultMemoryEntries = 1024

type memoryEntry struct {
	value   string
	expires time.Time // zero means the store's own TTL applies
}

// Memory is an in-process Store backed by an expiring LRU. Least recently
// used entries are evicted when it is full. Every entry lives at most
// maxTTL; a shorter ttl passed to Put is honoured per entry.
type Memory struct {
	lru *expirable.LRU[string, memoryEntry]
	now func() time.Time
}

// NewMemory creates a Memory store holding at most maxEntries values for
// at most maxTTL each. A non-positive maxTTL keeps entries until evicted.
func NewMemory(maxEntries int, maxTTL time.Duration) *Memory {
	if maxEntries <= 0 {
		maxEntries = DefaultMemoryEntries
	}
	return &Memory{
		lru: expirable.NewLRU[string, memoryEntry](maxEntries, nil, maxTTL),
		now: time.Now,
	}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	e, ok := m.lru.Get(key)
	if !ok {
		return "", false, nil
	}
	if !e.expires.IsZero() && !m.now().Before(e.expires) {
		m.lru.Remove(key)
		return "", false, nil
	}
	return e.value, true, nil
}

func (m *Memory) Put(_ context.Context, key, value string, ttl time.Duration) error {
	e := memoryEntry{value: value}
	if ttl > 0 {
		e.expires = m.now().Add(ttl)
	}
	m.lru.Add(key, e)
	return nil
}

// Len reports the number of stored entries.
func (m *Memory) Len() int {
	return m.lru.Len()
}
