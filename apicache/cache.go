// Package apicache implements the client-side response cache that endpoint
// wrappers consult before issuing a network request. Entries are keyed by a
// canonical (endpoint, parameters) string, carry a per-entry TTL, and can be
// invalidated one variant at a time or per endpoint after a mutation.
//
// A Cache is constructed explicitly with New and shared by passing the
// instance around; there is no package-level singleton.
package apicache

import (
	"sync"
	"time"
)

// DefaultTTL is applied when Set is called with a non-positive ttl.
const DefaultTTL = 60 * time.Second

// Cache maps (endpoint, parameters) to opaque response payloads.
//
// All methods are safe for concurrent use. A single mutex covers each
// operation end to end, so a read-then-write sequence inside one call can
// never interleave with another caller's.
type Cache struct {
	mu    sync.Mutex
	store Store

	// byEndpoint indexes every key derived from an endpoint so Clear
	// without params does not have to scan the whole store.
	byEndpoint map[string]map[string]struct{}

	defaultTTL time.Duration
	now        func() time.Time
}

// Option configures a Cache at construction.
type Option func(*Cache)

// WithStore replaces the default unbounded MapStore backend.
func WithStore(s Store) Option {
	return func(c *Cache) { c.store = s }
}

// WithDefaultTTL sets the TTL used when Set receives a non-positive ttl.
func WithDefaultTTL(d time.Duration) Option {
	return func(c *Cache) {
		if d > 0 {
			c.defaultTTL = d
		}
	}
}

// WithClock swaps the time source. Tests use this to simulate expiry.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// New constructs an empty Cache.
func New(opts ...Option) *Cache {
	c := &Cache{
		store:      NewMapStore(),
		byEndpoint: make(map[string]map[string]struct{}),
		defaultTTL: DefaultTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Get returns the cached payload for (endpoint, params) and whether a live
// entry was found. The boolean is the miss marker: a cached payload that is
// itself nil or empty still reports true. Get never fails; parameters that
// cannot be encoded count as a miss. Dead entries are dropped on read.
func (c *Cache) Get(endpoint string, params map[string]any) ([]byte, bool) {
	key, err := EncodeKey(endpoint, params)
	if err != nil {
		return nil, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.store.Get(key)
	if !ok {
		return nil, false
	}
	if !e.Live(c.now()) {
		c.deleteLocked(endpoint, key)
		return nil, false
	}
	return e.Value, true
}

// Set unconditionally overwrites the entry for (endpoint, params) with the
// given payload, stamping it with the current time. A non-positive ttl
// selects the cache's default. The only error condition is an unencodable
// parameter mapping.
func (c *Cache) Set(endpoint string, value []byte, params map[string]any, ttl time.Duration) error {
	key, err := EncodeKey(endpoint, params)
	if err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.store.Set(key, Entry{
		Key:      key,
		Value:    value,
		StoredAt: c.now(),
		TTL:      ttl,
	})
	keys := c.byEndpoint[endpoint]
	if keys == nil {
		keys = make(map[string]struct{})
		c.byEndpoint[endpoint] = keys
	}
	keys[key] = struct{}{}
	return nil
}

// Clear removes the entry for the exact (endpoint, params) variant. With a
// nil params mapping it removes every entry derived from the endpoint,
// regardless of parameters, including the bare no-parameter variant.
func (c *Cache) Clear(endpoint string, params map[string]any) error {
	if params == nil {
		c.mu.Lock()
		defer c.mu.Unlock()
		for key := range c.byEndpoint[endpoint] {
			c.store.Delete(key)
		}
		delete(c.byEndpoint, endpoint)
		return nil
	}

	key, err := EncodeKey(endpoint, params)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deleteLocked(endpoint, key)
	return nil
}

// ClearAll empties the cache unconditionally.
func (c *Cache) ClearAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store.Purge()
	c.byEndpoint = make(map[string]map[string]struct{})
}

// deleteLocked removes one key from the store and the endpoint index.
// Callers must hold c.mu.
func (c *Cache) deleteLocked(endpoint, key string) {
	c.store.Delete(key)
	if keys := c.byEndpoint[endpoint]; keys != nil {
		delete(keys, key)
		if len(keys) == 0 {
			delete(c.byEndpoint, endpoint)
		}
	}
}
