package apicache

// Store is the entry backend behind a Cache. Implementations do not need to
// be safe for concurrent use on their own: the Cache serializes every
// operation under its own mutex.
type Store interface {
	Get(key string) (Entry, bool)
	Set(key string, e Entry)
	Delete(key string)
	Purge()
}

// MapStore is the unbounded in-memory backend. Entries accumulate until
// cleared or overwritten; under sustained unique-parameter traffic the map
// grows without limit. Use NewBoundedStore where that is a concern.
type MapStore struct {
	entries map[string]Entry
}

// NewMapStore creates an empty MapStore.
func NewMapStore() *MapStore {
	return &MapStore{entries: make(map[string]Entry)}
}

func (s *MapStore) Get(key string) (Entry, bool) {
	e, ok := s.entries[key]
	return e, ok
}

func (s *MapStore) Set(key string, e Entry) {
	s.entries[key] = e
}

func (s *MapStore) Delete(key string) {
	delete(s.entries, key)
}

func (s *MapStore) Purge() {
	s.entries = make(map[string]Entry)
}

// Len returns the number of physically present entries, live or not.
func (s *MapStore) Len() int {
	return len(s.entries)
}
