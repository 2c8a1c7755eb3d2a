package launchkey

import (
	"context"
	"time"
)

// publicKeyCacheKey is the cache slot holding the service public key.
const publicKeyCacheKey = "launchkey_public_key"

// keyCache hands out the service RSA public key, reusing a cached copy
// until its TTL lapses and fetching a fresh one otherwise.
//
// Cache faults never fail a lookup: a Get fault is a miss, a Set fault is
// a no-op, both are logged. There is deliberately no locking around the
// get-or-fetch sequence; concurrent misses may each fetch the key and the
// last write wins. The writes are idempotent and the fetch is cheap, so
// the race is left unserialized.
type keyCache struct {
	cache  KeyValueCache
	ttl    time.Duration
	logger Logger
	fetch  func(ctx context.Context) (string, error)
}

// publicKey returns the current service public key in PEM form.
func (k *keyCache) publicKey(ctx context.Context) (string, error) {
	cached, err := k.cache.Get(publicKeyCacheKey)
	if err != nil {
		k.logger.Errorf("public key cache get: %v", err)
	} else if cached != "" {
		return cached, nil
	}

	k.logger.Debugf("public key cache miss, fetching from service")
	key, err := k.fetch(ctx)
	if err != nil {
		return "", err
	}

	if err := k.cache.Set(publicKeyCacheKey, key, k.ttl); err != nil {
		k.logger.Errorf("public key cache set: %v", err)
	}
	return key, nil
}
