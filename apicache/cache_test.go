package apicache_test

import (
	"errors"
	"testing"
	"time"

	"github.com/courtside/hoopapi/apicache"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestCache_MissThenHit(t *testing.T) {
	c := apicache.New()

	if _, ok := c.Get("/games", nil); ok {
		t.Fatal("expected miss on empty cache")
	}

	if err := c.Set("/games", []byte(`[{"id":1}]`), nil, time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	val, ok := c.Get("/games", nil)
	if !ok {
		t.Fatal("expected hit after set")
	}
	if string(val) != `[{"id":1}]` {
		t.Errorf("got %q", val)
	}
}

func TestCache_Expiry(t *testing.T) {
	clock := newFakeClock()
	c := apicache.New(apicache.WithClock(clock.Now))

	if err := c.Set("/games", []byte("v"), nil, 10*time.Millisecond); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := c.Get("/games", nil); !ok {
		t.Fatal("expected hit before expiry")
	}

	clock.Advance(10 * time.Millisecond)
	if _, ok := c.Get("/games", nil); ok {
		t.Error("expected miss once ttl elapsed")
	}
}

func TestCache_DefaultTTL(t *testing.T) {
	clock := newFakeClock()
	c := apicache.New(
		apicache.WithClock(clock.Now),
		apicache.WithDefaultTTL(30*time.Second),
	)

	// ttl of zero means "use the default"
	if err := c.Set("/games", []byte("v"), nil, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	clock.Advance(29 * time.Second)
	if _, ok := c.Get("/games", nil); !ok {
		t.Fatal("expected hit inside default ttl")
	}
	clock.Advance(2 * time.Second)
	if _, ok := c.Get("/games", nil); ok {
		t.Error("expected miss past default ttl")
	}
}

func TestCache_Overwrite(t *testing.T) {
	c := apicache.New()
	params := map[string]any{"page": 1}

	_ = c.Set("/games", []byte("v1"), params, time.Minute)
	_ = c.Set("/games", []byte("v2"), params, time.Minute)

	val, ok := c.Get("/games", params)
	if !ok {
		t.Fatal("expected hit")
	}
	if string(val) != "v2" {
		t.Errorf("expected later set to win, got %q", val)
	}
}

func TestCache_OverwriteResetsStoredAt(t *testing.T) {
	clock := newFakeClock()
	c := apicache.New(apicache.WithClock(clock.Now))

	_ = c.Set("/games", []byte("v1"), nil, 10*time.Second)
	clock.Advance(8 * time.Second)
	_ = c.Set("/games", []byte("v2"), nil, 10*time.Second)

	// 8s after the first set, 4s after the second: still live
	clock.Advance(4 * time.Second)
	if _, ok := c.Get("/games", nil); !ok {
		t.Error("fresh set should reset the entry's stored-at time")
	}
}

func TestCache_ScopedClear(t *testing.T) {
	c := apicache.New()

	_ = c.Set("/games", []byte("p1"), map[string]any{"page": 1}, time.Minute)
	_ = c.Set("/games", []byte("p2"), map[string]any{"page": 2}, time.Minute)

	if err := c.Clear("/games", map[string]any{"page": 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := c.Get("/games", map[string]any{"page": 1}); ok {
		t.Error("cleared variant should be gone")
	}
	if _, ok := c.Get("/games", map[string]any{"page": 2}); !ok {
		t.Error("other variant should survive a scoped clear")
	}
}

func TestCache_ClearWholeEndpoint(t *testing.T) {
	c := apicache.New()

	_ = c.Set("/games", []byte("bare"), nil, time.Minute)
	_ = c.Set("/games", []byte("p1"), map[string]any{"page": 1}, time.Minute)
	_ = c.Set("/games", []byte("p2"), map[string]any{"page": 2}, time.Minute)
	_ = c.Set("/teams", []byte("t"), nil, time.Minute)

	if err := c.Clear("/games", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := c.Get("/games", nil); ok {
		t.Error("bare variant should be cleared")
	}
	if _, ok := c.Get("/games", map[string]any{"page": 1}); ok {
		t.Error("page 1 variant should be cleared")
	}
	if _, ok := c.Get("/games", map[string]any{"page": 2}); ok {
		t.Error("page 2 variant should be cleared")
	}
	if _, ok := c.Get("/teams", nil); !ok {
		t.Error("a distinct endpoint must not be affected")
	}
}

func TestCache_ClearAll(t *testing.T) {
	c := apicache.New()

	_ = c.Set("/games", []byte("g"), nil, time.Minute)
	_ = c.Set("/teams", []byte("t"), map[string]any{"league": "nba"}, time.Minute)

	c.ClearAll()

	if _, ok := c.Get("/games", nil); ok {
		t.Error("clearAll should empty the store")
	}
	if _, ok := c.Get("/teams", map[string]any{"league": "nba"}); ok {
		t.Error("clearAll should empty the store")
	}
}

func TestCache_ReorderedParams(t *testing.T) {
	c := apicache.New()

	err := c.Set("/x", []byte(`{"a":1}`), map[string]any{"page": 1, "limit": 50}, 5*time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	val, ok := c.Get("/x", map[string]any{"limit": 50, "page": 1})
	if !ok {
		t.Fatal("reordered params should hit the same entry")
	}
	if string(val) != `{"a":1}` {
		t.Errorf("got %q", val)
	}
}

func TestCache_NilPayloadIsStillAHit(t *testing.T) {
	c := apicache.New()

	// a legitimately cached empty payload must be distinguishable from a miss
	_ = c.Set("/games", nil, nil, time.Minute)
	val, ok := c.Get("/games", nil)
	if !ok {
		t.Fatal("nil payload should still be a hit")
	}
	if val != nil {
		t.Errorf("expected nil payload back, got %q", val)
	}
}

func TestCache_BadParams(t *testing.T) {
	c := apicache.New()

	err := c.Set("/games", []byte("v"), map[string]any{"bad": []int{1}}, time.Minute)
	if !errors.Is(err, apicache.ErrUnsupportedParam) {
		t.Errorf("expected ErrUnsupportedParam from Set, got %v", err)
	}

	// get never fails: unencodable params are just a miss
	if _, ok := c.Get("/games", map[string]any{"bad": []int{1}}); ok {
		t.Error("expected miss for unencodable params")
	}

	err = c.Clear("/games", map[string]any{"bad": []int{1}})
	if !errors.Is(err, apicache.ErrUnsupportedParam) {
		t.Errorf("expected ErrUnsupportedParam from Clear, got %v", err)
	}
}

func TestCache_DeadEntryDroppedOnRead(t *testing.T) {
	clock := newFakeClock()
	store := apicache.NewMapStore()
	c := apicache.New(apicache.WithClock(clock.Now), apicache.WithStore(store))

	_ = c.Set("/games", []byte("v"), nil, time.Second)
	clock.Advance(2 * time.Second)

	if _, ok := c.Get("/games", nil); ok {
		t.Fatal("expected miss for dead entry")
	}
	if store.Len() != 0 {
		t.Errorf("dead entry should be dropped on read, store holds %d", store.Len())
	}
}
