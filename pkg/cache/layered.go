package cache

import (
	"context"
	"errors"
	"time"
)

// LayeredCache implements two-level cache (L1: memory, L2: any persisted
// Service, typically Redis or SQLite).
type LayeredCache struct {
	memCache *MemoryCache
	backing  Service
}

// NewLayeredCache creates a layered cache over the given backing store.
func NewLayeredCache(backing Service, opts ...LayeredOption) *LayeredCache {
	cfg := &LayeredConfig{
		MemoryMaxSize: 1000,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return &LayeredCache{
		memCache: NewMemoryCache(WithMemoryMaxSize(cfg.MemoryMaxSize)),
		backing:  backing,
	}
}

func (lc *LayeredCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	// Write-through: backing store first, then memory
	if err := lc.backing.Set(ctx, key, value, expiration); err != nil {
		return err
	}
	_ = lc.memCache.Set(ctx, key, value, expiration)
	return nil
}

func (lc *LayeredCache) Get(ctx context.Context, key string, dest interface{}) error {
	if err := lc.memCache.Get(ctx, key, dest); err == nil {
		return nil
	}

	var raw []byte
	if err := lc.backing.Get(ctx, key, &raw); err != nil {
		return err
	}

	// Promote with the remaining lifetime so a layer hop never extends a TTL.
	if remaining, err := lc.backing.TTL(ctx, key); err == nil && remaining > 0 {
		_ = lc.memCache.Set(ctx, key, raw, remaining)
	}

	return unmarshalValue(raw, dest)
}

func (lc *LayeredCache) Delete(ctx context.Context, keys ...string) error {
	_ = lc.memCache.Delete(ctx, keys...)
	return lc.backing.Delete(ctx, keys...)
}

func (lc *LayeredCache) Exists(ctx context.Context, keys ...string) (bool, error) {
	if ok, err := lc.memCache.Exists(ctx, keys...); err == nil && ok {
		return true, nil
	}
	return lc.backing.Exists(ctx, keys...)
}

func (lc *LayeredCache) TTL(ctx context.Context, key string) (time.Duration, error) {
	if ttl, err := lc.backing.TTL(ctx, key); err == nil {
		return ttl, nil
	} else if !errors.Is(err, ErrCacheMiss) {
		return 0, err
	}
	return lc.memCache.TTL(ctx, key)
}

// Backing exposes the persisted tier for maintenance tasks.
func (lc *LayeredCache) Backing() Service {
	return lc.backing
}

// Close closes both cache layers.
func (lc *LayeredCache) Close() error {
	_ = lc.memCache.Close()
	return lc.backing.Close()
}
