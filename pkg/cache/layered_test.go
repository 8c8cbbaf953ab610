package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestLayeredCacheReadThrough(t *testing.T) {
	backing := NewMemoryCache()
	lc := NewLayeredCache(backing)
	defer lc.Close()
	ctx := context.Background()

	// Seed the backing store only, as if a previous process wrote it.
	if err := backing.Set(ctx, "history:AAPL:1y", []float64{1, 2, 3}, time.Minute); err != nil {
		t.Fatalf("seed: %v", err)
	}

	var got []float64
	if err := lc.Get(ctx, "history:AAPL:1y", &got); err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 3 || got[2] != 3 {
		t.Fatalf("round trip mismatch: %v", got)
	}

	// The value must now be promoted into L1.
	var fromL1 []float64
	if err := lc.memCache.Get(ctx, "history:AAPL:1y", &fromL1); err != nil {
		t.Fatalf("expected L1 promotion, got %v", err)
	}
}

func TestLayeredCachePromotionKeepsRemainingTTL(t *testing.T) {
	backing := NewMemoryCache()
	lc := NewLayeredCache(backing)
	defer lc.Close()
	ctx := context.Background()

	if err := backing.Set(ctx, "k", "v", 50*time.Millisecond); err != nil {
		t.Fatalf("seed: %v", err)
	}

	var got string
	if err := lc.Get(ctx, "k", &got); err != nil {
		t.Fatalf("get: %v", err)
	}

	ttl, err := lc.memCache.TTL(ctx, "k")
	if err != nil {
		t.Fatalf("l1 ttl: %v", err)
	}
	if ttl > 50*time.Millisecond {
		t.Fatalf("promotion extended the TTL: %v", ttl)
	}

	// After the original deadline both layers must miss.
	time.Sleep(60 * time.Millisecond)
	if err := lc.Get(ctx, "k", &got); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected miss after deadline, got %v", err)
	}
}

func TestLayeredCacheWriteThrough(t *testing.T) {
	backing := NewMemoryCache()
	lc := NewLayeredCache(backing)
	defer lc.Close()
	ctx := context.Background()

	if err := lc.Set(ctx, "k", 42, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	var fromBacking int
	if err := backing.Get(ctx, "k", &fromBacking); err != nil || fromBacking != 42 {
		t.Fatalf("backing store should hold the value: %v %d", err, fromBacking)
	}

	if err := lc.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	var dest int
	if err := lc.Get(ctx, "k", &dest); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected miss after delete, got %v", err)
	}
}
