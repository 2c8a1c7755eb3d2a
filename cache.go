package launchkey

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// KeyValueCache stores the service public key between requests. Get
// returns the empty string for a plain miss; a non-nil error marks a
// backend fault. The SDK treats faults as misses (Get) or no-ops (Set)
// and logs them, so a broken cache degrades performance, never
// correctness.
type KeyValueCache interface {
	Get(key string) (string, error)
	Set(key, value string, ttl time.Duration) error
}

// memoryCache is the default in-process cache.
type memoryCache struct {
	store *gocache.Cache
}

// NewMemoryCache returns an expiring in-memory KeyValueCache. It is safe
// for concurrent use and can be shared by several clients in one process.
func NewMemoryCache() KeyValueCache {
	return &memoryCache{store: gocache.New(gocache.NoExpiration, 10*time.Minute)}
}

func (m *memoryCache) Get(key string) (string, error) {
	v, ok := m.store.Get(key)
	if !ok {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", nil
	}
	return s, nil
}

func (m *memoryCache) Set(key, value string, ttl time.Duration) error {
	m.store.Set(key, value, ttl)
	return nil
}
