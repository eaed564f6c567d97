package auth

import (
	"context"
	"encoding/json"
	"time"
)

// Cache is the revocable key/value capability backing both the principal
// cache and the token ledger: get, set-with-ttl, implicit expiry. No delete
// is required; entries die by TTL only.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// UserCacheKey builds the cache key for a default principal snapshot.
func UserCacheKey(id string) string {
	return "user:" + id
}

// CustomerCacheKey builds the cache key for a customer principal snapshot,
// keyed by the opaque customer token.
func CustomerCacheKey(token string) string {
	return "customer:" + token
}

// Through resolves a value read-through: cache hit deserializes directly, a
// miss queries fetch and populates the cache before returning. There is no
// write-side invalidation; staleness is bounded by the TTL. A nil fetch
// result is returned as-is and never cached.
func Through[T any](ctx context.Context, cache Cache, key string, ttl time.Duration, fetch func(context.Context) (*T, error)) (*T, error) {
	raw, ok, err := cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if ok {
		var cached T
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			return &cached, nil
		}
		// undecodable entry: fall through to the store and overwrite
	}

	value, err := fetch(ctx)
	if err != nil || value == nil {
		return value, err
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	if err := cache.Set(ctx, key, string(encoded), ttl); err != nil {
		return nil, err
	}
	return value, nil
}
