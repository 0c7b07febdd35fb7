package util

import (
	"encoding/json"
	"fmt"
)

// CanonicalJSON serializes a value into a stable JSON form: object keys are
// emitted in sorted order regardless of how the value was constructed. Two
// semantically equal payloads therefore always produce the same bytes, which
// makes the output safe to embed in cache keys.
//
// The value is round-tripped through encoding/json's generic representation;
// map keys are sorted by the final marshal. Struct field order is already
// deterministic but structs are normalized too so that a struct and its map
// equivalent key identically.
func CanonicalJSON(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("canonical json: %w", err)
	}

	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return "", fmt.Errorf("canonical json: %w", err)
	}

	normalized, err := json.Marshal(generic)
	if err != nil {
		return "", fmt.Errorf("canonical json: %w", err)
	}

	return string(normalized), nil
}

// MustJSON marshals v, returning "null" when marshaling fails. Used where a
// best-effort JSON rendition is preferable to an error path (activity
// records, log attributes).
func MustJSON(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(raw)
}
