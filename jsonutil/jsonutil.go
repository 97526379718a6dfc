// Package jsonutil provides get-or-default navigation over untyped JSON
// trees (map[string]any). The upstream document is third-party data whose
// shape drifts without notice, so every accessor tolerates a missing key,
// a null, or a value of the wrong type and returns the zero value instead.
package jsonutil

import "strings"

// Object returns the object at key, or nil if absent or not an object.
func Object(m map[string]any, key string) map[string]any {
	if m == nil {
		return nil
	}
	obj, _ := m[key].(map[string]any)
	return obj
}

// Array returns the array at key, or nil if absent or not an array.
func Array(m map[string]any, key string) []any {
	if m == nil {
		return nil
	}
	arr, _ := m[key].([]any)
	return arr
}

// String returns the string at key, or "" if absent, null, or not a string.
func String(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return s
}

// Bool returns the bool at key, or false if absent, null, or not a bool.
func Bool(m map[string]any, key string) bool {
	if m == nil {
		return false
	}
	b, _ := m[key].(bool)
	return b
}

// Int returns the number at key truncated to int, or 0. encoding/json
// decodes numbers as float64, but hand-built trees carry native ints, so
// both are accepted.
func Int(m map[string]any, key string) int {
	if m == nil {
		return 0
	}
	n, ok := asInt64(m[key])
	if !ok {
		return 0
	}
	return int(n)
}

// Count reads the nested aggregate shape {key: {"count": N}} and returns N,
// or 0 when the aggregate node itself is missing.
func Count(m map[string]any, key string) int {
	return Int(Object(m, key), "count")
}

// Epoch returns the numeric value at key as an epoch-seconds int64. The
// second return is false when the value is missing or non-numeric.
func Epoch(m map[string]any, key string) (int64, bool) {
	if m == nil {
		return 0, false
	}
	return asInt64(m[key])
}

// StringOrJoined returns the value at key as a string. A string value is
// returned as-is; an array of strings is joined with sep. Anything else
// yields "".
func StringOrJoined(m map[string]any, key, sep string) string {
	if m == nil {
		return ""
	}
	switch v := m[key].(type) {
	case string:
		return v
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, sep)
	default:
		return ""
	}
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int:
		return int64(n), true
	case int64:
		return n, true
	default:
		return 0, false
	}
}
