package apicache

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ErrUnsupportedParam is returned by EncodeKey when a parameter value is not
// a scalar. Maps, slices and structs are rejected rather than stringified so
// that two distinct mappings can never collide on a formatted representation.
var ErrUnsupportedParam = errors.New("apicache: unsupported parameter value type")

// EncodeKey derives the canonical cache key for an endpoint and an optional
// parameter mapping. Parameters are serialized with lexicographically sorted
// keys as "endpoint?k1=v1&k2=v2", so the caller's insertion order never
// affects the result. A nil or empty mapping yields the endpoint alone.
func EncodeKey(endpoint string, params map[string]any) (string, error) {
	if len(params) == 0 {
		return endpoint, nil
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(endpoint)
	for i, k := range keys {
		v, err := FormatValue(params[k])
		if err != nil {
			return "", fmt.Errorf("parameter %q: %w", k, err)
		}
		if i == 0 {
			b.WriteByte('?')
		} else {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(v)
	}
	return b.String(), nil
}

// FormatValue renders a supported scalar value deterministically. Endpoint
// wrappers use the same formatting when turning a parameter mapping into
// query-string values, so the cache key and the issued URL always agree.
func FormatValue(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case bool:
		return strconv.FormatBool(x), nil
	case int:
		return strconv.Itoa(x), nil
	case int8:
		return strconv.FormatInt(int64(x), 10), nil
	case int16:
		return strconv.FormatInt(int64(x), 10), nil
	case int32:
		return strconv.FormatInt(int64(x), 10), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case uint:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint64:
		return strconv.FormatUint(x, 10), nil
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32), nil
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64), nil
	default:
		return "", fmt.Errorf("%w: %T", ErrUnsupportedParam, v)
	}
}
