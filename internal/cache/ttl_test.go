//nolint:testpackage // Tests override the clock hook
package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestTTLCache_GetSet(t *testing.T) {
	c := New(time.Hour)

	if _, ok := c.Get("missing"); ok {
		t.Fatal("expected miss on empty cache")
	}

	c.Set("k", "v")
	got, ok := c.Get("k")
	if !ok || got != "v" {
		t.Fatalf("expected hit with v, got %q ok=%v", got, ok)
	}

	c.Set("k", "v2")
	if got, _ := c.Get("k"); got != "v2" {
		t.Errorf("Set should replace, got %q", got)
	}
}

func TestTTLCache_LazyEvictionCountsAsMiss(t *testing.T) {
	c := New(time.Minute)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	now := base
	c.now = func() time.Time { return now }

	c.Set("k", "v")
	now = base.Add(2 * time.Minute)

	if _, ok := c.Get("k"); ok {
		t.Fatal("expected expired entry to miss")
	}

	stats := c.Stats()
	if stats.Size != 0 {
		t.Errorf("expired entry should be evicted, size=%d", stats.Size)
	}
	if stats.Misses != 1 || stats.Hits != 0 {
		t.Errorf("expected 1 miss 0 hits, got %d/%d", stats.Misses, stats.Hits)
	}
}

func TestTTLCache_SetRestartsLifetime(t *testing.T) {
	c := New(time.Minute)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	now := base
	c.now = func() time.Time { return now }

	c.Set("k", "v")
	now = base.Add(45 * time.Second)
	c.Set("k", "v")
	now = base.Add(90 * time.Second)

	if _, ok := c.Get("k"); !ok {
		t.Fatal("replacing Set should restart the lifetime")
	}
}

func TestTTLCache_Stats(t *testing.T) {
	c := New(time.Hour)
	c.Set("a", "1")
	c.Get("a")
	c.Get("a")
	c.Get("b")

	stats := c.Stats()
	if stats.Size != 1 || stats.Hits != 2 || stats.Misses != 1 || stats.Total != 3 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	want := 2.0 / 3.0
	if diff := stats.HitRate - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("hit rate = %v, want %v", stats.HitRate, want)
	}
}

func TestTTLCache_Clear(t *testing.T) {
	c := New(time.Hour)
	c.Set("a", "1")
	c.Get("a")
	c.Get("b")

	c.Clear()

	stats := c.Stats()
	if stats.Size != 0 || stats.Hits != 0 || stats.Misses != 0 {
		t.Errorf("Clear should reset everything, got %+v", stats)
	}
}

func TestTTLCache_ConcurrentAccess(t *testing.T) {
	c := New(time.Hour)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("k%d", j%7)
				c.Set(key, "v")
				c.Get(key)
			}
		}(i)
	}
	wg.Wait()

	if stats := c.Stats(); stats.Total == 0 {
		t.Error("expected recorded lookups")
	}
}
