package common

import "time"

// ResponseCache is the client-side response cache consumed by the endpoint
// wrapper modules. Values are stored as raw []byte exactly as received from
// the backend; wrappers marshal/unmarshal JSON around it.
//
// The boolean returned by Get is the miss marker: a cached nil payload is
// still a hit. A nil params mapping passed to Clear drops every variant of
// the endpoint; ClearAll empties the cache.
//
// The canonical implementation is apicache.Cache; callers construct one
// instance at their composition root and pass it to each module client.
type ResponseCache interface {
	Get(endpoint string, params map[string]any) ([]byte, bool)
	Set(endpoint string, value []byte, params map[string]any, ttl time.Duration) error
	Clear(endpoint string, params map[string]any) error
	ClearAll()
}
