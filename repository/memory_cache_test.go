package repository

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestMemoryCache_SetGet(t *testing.T) {

	c := NewMemoryCache()
	ctx := context.Background()

	if _, ok := c.Get(ctx, "missing"); ok {
		t.Errorf("expected miss for unknown key")
	}

	if err := c.Set(ctx, "k", "v", 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	val, ok := c.Get(ctx, "k")
	if !ok || val != "v" {
		t.Errorf("expected v, got %q (hit=%v)", val, ok)
	}
}

func TestMemoryCache_Expiry(t *testing.T) {

	c := NewMemoryCache()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	_ = c.Set(ctx, "k", "v", time.Minute)

	now = now.Add(59 * time.Second)
	if _, ok := c.Get(ctx, "k"); !ok {
		t.Errorf("expected hit before expiry")
	}

	now = now.Add(time.Second)
	if _, ok := c.Get(ctx, "k"); ok {
		t.Errorf("expected miss at expiry")
	}
	if c.Len() != 0 {
		t.Errorf("expected expired entry to be evicted, have %d", c.Len())
	}
}

func TestMemoryCache_Concurrent(t *testing.T) {

	c := NewMemoryCache()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = c.Set(ctx, "shared", "v", time.Minute)
			c.Get(ctx, "shared")
		}()
	}
	wg.Wait()

	if c.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", c.Len())
	}
}
