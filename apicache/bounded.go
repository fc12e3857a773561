package apicache

import (
	"fmt"

	"github.com/maypok86/otter/v2"
)

// BoundedStore is a capacity-limited Store backed by an otter W-TinyLFU
// cache. When the entry count reaches maxSize, otter evicts low-value keys;
// an evicted key simply turns into a cache miss, which the Cache contract
// already allows at any time. Liveness is still decided by the Cache from
// each Entry's own StoredAt/TTL.
type BoundedStore struct {
	cache *otter.Cache[string, Entry]
}

// NewBoundedStore creates a Store holding at most maxSize entries.
func NewBoundedStore(maxSize int) (*BoundedStore, error) {
	c, err := otter.New[string, Entry](&otter.Options[string, Entry]{
		MaximumSize: maxSize,
	})
	if err != nil {
		return nil, fmt.Errorf("create bounded store: %w", err)
	}
	return &BoundedStore{cache: c}, nil
}

func (s *BoundedStore) Get(key string) (Entry, bool) {
	return s.cache.GetIfPresent(key)
}

func (s *BoundedStore) Set(key string, e Entry) {
	s.cache.Set(key, e)
}

func (s *BoundedStore) Delete(key string) {
	s.cache.Invalidate(key)
}

func (s *BoundedStore) Purge() {
	s.cache.InvalidateAll()
}
