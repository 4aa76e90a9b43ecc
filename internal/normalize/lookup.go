// Package normalize maps raw scraper items into canonical Post records.
//
// Scraper field names differ per platform and per provider version, so every
// metric is resolved through an ordered list of candidate keys and the first
// present value wins. Normalization never fails: anything missing or
// unparsable becomes 0 or the empty string.
package normalize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Item is a raw scraper result at the system boundary.
type Item = map[string]any

// Lookup returns the value of the first key that is present and non-nil.
// Keys may be dotted paths into nested objects, e.g. "authorMeta.fans".
func Lookup(item Item, keys ...string) (any, bool) {
	for _, key := range keys {
		if v, ok := lookupPath(item, key); ok {
			return v, true
		}
	}
	return nil, false
}

func lookupPath(node any, path string) (any, bool) {
	if m, ok := node.(map[string]any); ok {
		if v, ok := m[path]; ok {
			return v, v != nil
		}
	}

	head, rest, nested := strings.Cut(path, ".")
	if !nested {
		return step(node, path)
	}
	child, ok := step(node, head)
	if !ok {
		return nil, false
	}
	return lookupPath(child, rest)
}

// step descends one path segment into an object key or array index.
func step(node any, segment string) (any, bool) {
	switch n := node.(type) {
	case map[string]any:
		v, ok := n[segment]
		return v, ok && v != nil
	case []any:
		idx, err := strconv.Atoi(segment)
		if err != nil || idx < 0 || idx >= len(n) {
			return nil, false
		}
		return n[idx], n[idx] != nil
	default:
		return nil, false
	}
}

// LookupInt64 resolves keys and coerces the result, defaulting to 0.
func LookupInt64(item Item, keys ...string) int64 {
	v, _ := Lookup(item, keys...)
	return ToInt64(v)
}

// LookupString resolves keys and returns the first non-empty string.
func LookupString(item Item, keys ...string) string {
	for _, key := range keys {
		if v, ok := lookupPath(item, key); ok {
			if s := ToString(v); s != "" {
				return s
			}
		}
	}
	return ""
}

// ToInt64 coerces a loosely typed JSON value into a non-negative integer.
func ToInt64(v any) int64 {
	switch n := v.(type) {
	case nil:
		return 0
	case float64:
		return clampFloat(n)
	case float32:
		return clampFloat(float64(n))
	case int:
		return clampInt(int64(n))
	case int32:
		return clampInt(int64(n))
	case int64:
		return clampInt(n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return clampInt(i)
		}
		f, err := n.Float64()
		if err != nil {
			return 0
		}
		return clampFloat(f)
	case string:
		return parseCount(n)
	case bool:
		if n {
			return 1
		}
		return 0
	default:
		return 0
	}
}

// ToFloat coerces a loosely typed JSON value into a non-negative float.
func ToFloat(v any) float64 {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		f, _ = n.Float64()
	case string:
		f, _ = strconv.ParseFloat(strings.TrimSpace(n), 64)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}

// ToString coerces scalars to text; objects and arrays become "".
func ToString(v any) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case json.Number:
		return s.String()
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	default:
		return ""
	}
}

// ToBool coerces booleans and the strings "true"/"false".
func ToBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		parsed, _ := strconv.ParseBool(strings.TrimSpace(b))
		return parsed
	default:
		return false
	}
}

func clampInt(n int64) int64 {
	if n < 0 {
		return 0
	}
	return n
}

func clampFloat(f float64) int64 {
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return 0
	}
	if f >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(math.Round(f))
}

// parseCount parses counts such as "12,100", "1.2K" or "3M".
func parseCount(s string) int64 {
	s = strings.TrimSpace(s)
	s = strings.NewReplacer(",", "", "_", "", " ", "").Replace(s)
	if s == "" {
		return 0
	}

	multiplier := 1.0
	switch s[len(s)-1] {
	case 'k', 'K':
		multiplier = 1e3
	case 'm', 'M':
		multiplier = 1e6
	case 'b', 'B':
		multiplier = 1e9
	}
	if multiplier != 1 {
		s = s[:len(s)-1]
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return clampFloat(f * multiplier)
}
