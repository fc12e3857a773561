package common

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// Backend responses arrive in several wrapper shapes depending on which
// upstream feed produced them: a bare array, {"games":[...]},
// {"responseObject":{"games":[...]}}, {"data":{"games":[...]}} or
// {"response":{"games":[...]}}. Envelope probing walks an explicit ordered
// candidate list so a shape change surfaces as an error instead of a silent
// empty result.

// ErrNoEnvelopeMatch is returned when none of the known wrapper shapes
// contains the requested field.
var ErrNoEnvelopeMatch = errors.New("common: no envelope shape matched")

// Envelope is the outcome of shape detection: which candidate path matched
// and the raw JSON found there. Path is empty when the whole-body fallback
// applied.
type Envelope struct {
	Path string
	Raw  []byte
}

// candidatePaths lists the wrapper shapes in probe order; first match wins.
func candidatePaths(field string) []string {
	return []string{
		field,
		"responseObject." + field,
		"data." + field,
		"response." + field,
	}
}

// ExtractField locates field inside one of the known wrapper shapes.
// Documented fallback: a body that is itself a JSON array is returned whole,
// covering feeds that skip the wrapper object entirely.
func ExtractField(body []byte, field string) (Envelope, error) {
	if !gjson.ValidBytes(body) {
		return Envelope{}, fmt.Errorf("common: response body is not valid JSON")
	}
	for _, path := range candidatePaths(field) {
		if res := gjson.GetBytes(body, path); res.Exists() {
			return Envelope{Path: path, Raw: []byte(res.Raw)}, nil
		}
	}
	if gjson.ParseBytes(body).IsArray() {
		return Envelope{Raw: body}, nil
	}
	return Envelope{}, fmt.Errorf("%w: field %q", ErrNoEnvelopeMatch, field)
}
