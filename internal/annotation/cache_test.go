package annotation

import (
	"fmt"
	"testing"
)

func TestResultCacheEvictionOrder(t *testing.T) {
	c := newResultCache(3)

	for i := 0; i < 3; i++ {
		c.put(fmt.Sprintf("k%d", i), nil)
	}

	// Touch k0 so k1 becomes least recently used.
	if _, ok := c.get("k0"); !ok {
		t.Fatal("expected k0 present")
	}

	c.put("k3", nil)

	if _, ok := c.get("k1"); ok {
		t.Error("expected k1 evicted as least recently used")
	}
	for _, key := range []string{"k0", "k2", "k3"} {
		if _, ok := c.get(key); !ok {
			t.Errorf("expected %s to survive eviction", key)
		}
	}
}

func TestResultCacheUpdateExisting(t *testing.T) {
	c := newResultCache(2)

	a := []Annotation{{Text: "a", Kind: KindKeyword, Category: "X", Enabled: true}}
	b := []Annotation{{Text: "b", Kind: KindKeyword, Category: "X", Enabled: true}}

	c.put("k", a)
	c.put("k", b)

	got, ok := c.get("k")
	if !ok || len(got) != 1 || got[0].Text != "b" {
		t.Errorf("expected updated value, got %v", got)
	}
	if c.len() != 1 {
		t.Errorf("duplicate put grew the cache to %d entries", c.len())
	}
}

func TestResultCacheClear(t *testing.T) {
	c := newResultCache(4)
	c.put("k", nil)
	c.get("k")
	c.get("missing")

	c.clear()

	if c.len() != 0 {
		t.Errorf("expected empty cache after clear, got %d entries", c.len())
	}
	stats := c.stats()
	if stats.Hits != 0 || stats.Misses != 0 {
		t.Errorf("expected stats reset, got hits=%d misses=%d", stats.Hits, stats.Misses)
	}
}

func TestResultCacheDefaultCapacity(t *testing.T) {
	c := newResultCache(0)
	if c.capacity != DefaultCacheCapacity {
		t.Errorf("expected default capacity %d, got %d", DefaultCacheCapacity, c.capacity)
	}
}

func TestResultCacheKeysMRUFirst(t *testing.T) {
	c := newResultCache(3)
	c.put("first", nil)
	c.put("second", nil)
	c.get("first")

	keys := c.keys()
	if len(keys) != 2 || keys[0] != "first" || keys[1] != "second" {
		t.Errorf("expected [first second], got %v", keys)
	}
}
