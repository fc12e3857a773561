package apicache

import "time"

// Entry is a stored response payload plus the bookkeeping needed to decide
// whether it is still live. The payload is held as raw bytes exactly as the
// endpoint wrapper supplied it; the cache never inspects or mutates it.
type Entry struct {
	Key      string
	Value    []byte
	StoredAt time.Time
	TTL      time.Duration
}

// Live reports whether the entry is still valid at the given instant.
// An entry past its TTL is logically absent even while physically present.
func (e Entry) Live(now time.Time) bool {
	return now.Sub(e.StoredAt) < e.TTL
}
