package cache

import (
	"context"
	"encoding/json"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache is an in-process Cache used when Redis is not configured or
// unreachable. Values are stored JSON-encoded so callers see the same
// copy semantics as with Redis.
type MemoryCache struct {
	store *gocache.Cache
}

// NewMemoryCache creates a MemoryCache. Entries stored without an expiration
// use defaultExpiration; expired entries are purged every cleanupInterval.
func NewMemoryCache(defaultExpiration, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{store: gocache.New(defaultExpiration, cleanupInterval)}
}

// SetJSON stores a JSON-encoded value. A zero expiration uses the cache default.
func (m *MemoryCache) SetJSON(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if expiration == 0 {
		expiration = gocache.DefaultExpiration
	}
	m.store.Set(key, data, expiration)
	return nil
}

// GetJSON decodes the value stored under key into dest.
func (m *MemoryCache) GetJSON(_ context.Context, key string, dest interface{}) error {
	val, ok := m.store.Get(key)
	if !ok {
		return ErrNotFound
	}
	return json.Unmarshal(val.([]byte), dest)
}

func (m *MemoryCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		m.store.Delete(k)
	}
	return nil
}

// ItemCount returns the number of entries, including expired ones not yet
// purged.
func (m *MemoryCache) ItemCount() int {
	return m.store.ItemCount()
}

func (m *MemoryCache) Close() error {
	m.store.Flush()
	return nil
}
