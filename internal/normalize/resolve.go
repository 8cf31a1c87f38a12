// Package normalize reconciles the backend's heterogeneous, versioned JSON
// payloads into the canonical records in internal/models. The backend schema
// has drifted across releases (snake_case, camelCase, nested vs flat), so
// every semantic field is resolved through an ordered list of candidate
// spellings kept in one place per field.
//
// All functions here are total except CaseRecord/CaseDetail, which fail only
// when no case id can be resolved at all. Everything else degrades to a
// documented default and never panics.
package normalize

import (
	"strconv"
	"strings"
	"time"
)

// Raw is an untyped backend payload as decoded by encoding/json.
type Raw = map[string]interface{}

// Resolve returns the first defined, non-nil value among the candidate keys.
// A key may contain a single dot to reach one level into a nested object
// ("worker.name"); missing intermediate objects are treated as absent, never
// as an error.
func Resolve(rec Raw, keys ...string) interface{} {
	if rec == nil {
		return nil
	}
	for _, key := range keys {
		if parent, child, ok := strings.Cut(key, "."); ok {
			nested, _ := rec[parent].(map[string]interface{})
			if nested == nil {
				continue
			}
			if v, present := nested[child]; present && v != nil {
				return v
			}
			continue
		}
		if v, present := rec[key]; present && v != nil {
			return v
		}
	}
	return nil
}

// ResolveString resolves the candidate keys and coerces the winner to a
// string. Numbers are formatted without a trailing ".0" so numeric ids
// survive the round trip through JSON's float64.
func ResolveString(rec Raw, keys ...string) string {
	return Stringify(Resolve(rec, keys...))
}

// ResolveInt resolves the candidate keys to an integer, defaulting to 0.
func ResolveInt(rec Raw, keys ...string) int {
	switch v := Resolve(rec, keys...).(type) {
	case float64:
		return int(v)
	case int:
		return v
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return 0
}

// ResolveFloat resolves the candidate keys to a float64, defaulting to 0.
func ResolveFloat(rec Raw, keys ...string) float64 {
	switch v := Resolve(rec, keys...).(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f
		}
	}
	return 0
}

// ResolveTime resolves the candidate keys to a timestamp, or nil when absent
// or unparsable.
func ResolveTime(rec Raw, keys ...string) *time.Time {
	return ParseTime(Resolve(rec, keys...))
}

// Stringify coerces a raw JSON value to a string. Nil, objects and arrays
// yield "".
func Stringify(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	default:
		return ""
	}
}

// timeLayouts are the timestamp formats observed across backend releases.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTime parses a raw timestamp value, returning nil when it cannot be
// understood. Unparsable timestamps are a recoverable degradation, not an
// error.
func ParseTime(v interface{}) *time.Time {
	s := strings.TrimSpace(Stringify(v))
	if s == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
