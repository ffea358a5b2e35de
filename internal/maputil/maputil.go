// Package maputil provides typed, presence-checked accessors and deep-copy
// helpers for generic YAML trees (map[string]interface{} / []interface{}).
package maputil

import "fmt"

// Map returns m[key] as a map. The second result is false when the key is
// absent, null, or holds something other than a string-keyed mapping.
func Map(m map[string]interface{}, key string) (map[string]interface{}, bool) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, false
	}

	out, ok := v.(map[string]interface{})

	return out, ok
}

// Slice returns m[key] as a sequence. Absent and null keys report ok=true
// with a nil slice; a present non-sequence value reports ok=false.
func Slice(m map[string]interface{}, key string) ([]interface{}, bool) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, true
	}

	out, ok := v.([]interface{})

	return out, ok
}

// String returns m[key] as a string. Scalars that YAML decoded as numbers or
// booleans are rendered with fmt so that `token: 1234` is still usable.
func String(m map[string]interface{}, key string) (string, bool) {
	return scalarString(m[key])
}

func scalarString(v interface{}) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case int, int64, uint64, float64, bool:
		return fmt.Sprint(val), true
	default:
		return "", false
	}
}

// NonEmptyString is String restricted to non-empty values.
func NonEmptyString(m map[string]interface{}, key string) (string, bool) {
	s, ok := String(m, key)

	return s, ok && s != ""
}

// Bool reports whether m[key] is the literal boolean true.
func Bool(m map[string]interface{}, key string) bool {
	b, ok := m[key].(bool)

	return ok && b
}

// StringSlice returns m[key] as a list of strings, skipping entries that are
// not scalars.
func StringSlice(m map[string]interface{}, key string) []string {
	items, ok := Slice(m, key)
	if !ok || len(items) == 0 {
		return nil
	}

	out := make([]string, 0, len(items))

	for _, item := range items {
		if s, ok := scalarString(item); ok {
			out = append(out, s)
		}
	}

	return out
}

// DeepCopyMap performs a deep copy of a map[string]interface{}.
func DeepCopyMap(src map[string]interface{}) map[string]interface{} {
	if src == nil {
		return nil
	}

	dst := make(map[string]interface{}, len(src))

	for k, v := range src {
		dst[k] = DeepCopyValue(v)
	}

	return dst
}

// DeepCopySlice performs a deep copy of a []interface{}.
func DeepCopySlice(src []interface{}) []interface{} {
	if src == nil {
		return nil
	}

	dst := make([]interface{}, len(src))

	for i, v := range src {
		dst[i] = DeepCopyValue(v)
	}

	return dst
}

// DeepCopyValue copies nested maps and slices; scalars are returned as-is.
func DeepCopyValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		return DeepCopyMap(val)
	case []interface{}:
		return DeepCopySlice(val)
	default:
		return v
	}
}
