package cache

import (
	"context"
	"sync"
	"time"

	"clients_backend/internal/models"
)

type memoryItem struct {
	client    models.Client
	expiresAt time.Time
}

// MemoryCache is an in-process Cache with a fixed TTL. Expired entries are
// dropped lazily on read. A zero TTL keeps entries until invalidated.
type MemoryCache struct {
	mu    sync.RWMutex
	items map[string]memoryItem
	ttl   time.Duration
	now   func() time.Time
}

// NewMemoryCache creates an empty MemoryCache.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		items: make(map[string]memoryItem),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (m *MemoryCache) Get(_ context.Context, key string) (*models.Client, error) {
	m.mu.RLock()
	item, ok := m.items[key]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrMiss
	}
	if !item.expiresAt.IsZero() && m.now().After(item.expiresAt) {
		m.mu.Lock()
		if cur, ok := m.items[key]; ok && cur.expiresAt.Equal(item.expiresAt) {
			delete(m.items, key)
		}
		m.mu.Unlock()
		return nil, ErrMiss
	}
	client := item.client
	return &client, nil
}

func (m *MemoryCache) Put(_ context.Context, key string, client *models.Client) error {
	item := memoryItem{client: *client}
	if m.ttl > 0 {
		item.expiresAt = m.now().Add(m.ttl)
	}
	m.mu.Lock()
	m.items[key] = item
	m.mu.Unlock()
	return nil
}

func (m *MemoryCache) Invalidate(_ context.Context, keys ...string) error {
	m.mu.Lock()
	for _, k := range keys {
		delete(m.items, k)
	}
	m.mu.Unlock()
	return nil
}

// Len reports the number of stored entries, expired or not.
func (m *MemoryCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}
