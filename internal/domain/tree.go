package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// ConfigTree is a parsed training configuration: an untyped nested mapping
// navigated by dotted key paths. Consumers never mutate it.
type ConfigTree map[string]any

// Lookup resolves a dotted path such as "trainer.model.dtype".
func (t ConfigTree) Lookup(path string) (any, bool) {
	if t == nil {
		return nil, false
	}
	var cur any = map[string]any(t)
	for _, key := range strings.Split(path, ".") {
		m, ok := asMap(cur)
		if !ok {
			return nil, false
		}
		cur, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Has reports whether the path exists, whatever its value.
func (t ConfigTree) Has(path string) bool {
	_, ok := t.Lookup(path)
	return ok
}

// Section returns the mapping at path. The second value is false when the
// path is absent or not a mapping.
func (t ConfigTree) Section(path string) (ConfigTree, bool) {
	v, ok := t.Lookup(path)
	if !ok {
		return nil, false
	}
	m, ok := asMap(v)
	if !ok {
		return nil, false
	}
	return ConfigTree(m), true
}

// String returns the string at path, or def when absent or not a string.
func (t ConfigTree) String(path, def string) string {
	v, ok := t.Lookup(path)
	if !ok {
		return def
	}
	s, ok := v.(string)
	if !ok {
		return def
	}
	return s
}

// Float returns the number at path, or def when absent or not numeric.
func (t ConfigTree) Float(path string, def float64) float64 {
	v, ok := t.Lookup(path)
	if !ok {
		return def
	}
	f, ok := toFloat(v)
	if !ok {
		return def
	}
	return f
}

// Int returns the integer at path, or def when absent or not numeric.
func (t ConfigTree) Int(path string, def int) int {
	v, ok := t.Lookup(path)
	if !ok {
		return def
	}
	f, ok := toFloat(v)
	if !ok {
		return def
	}
	return int(f)
}

// Bool returns the truthiness of the value at path, or def when absent.
func (t ConfigTree) Bool(path string, def bool) bool {
	v, ok := t.Lookup(path)
	if !ok {
		return def
	}
	return Truthy(v)
}

// Keys returns the top-level keys in no particular order.
func (t ConfigTree) Keys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	return keys
}

// Truthy mirrors the usual scripting notion of truth: nil, false, zero,
// empty strings and empty collections are false.
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case map[string]any:
		return len(x) > 0
	case ConfigTree:
		return len(x) > 0
	case []any:
		return len(x) > 0
	}
	if f, ok := toFloat(v); ok {
		return f != 0
	}
	return true
}

// Number converts a numeric leaf to float64.
func Number(v any) (float64, bool) {
	return toFloat(v)
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case ConfigTree:
		return map[string]any(m), true
	}
	return nil, false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// Text renders the tree as a flat, deterministic-enough string for coarse
// substring heuristics. It is not a serialization format.
func (t ConfigTree) Text() string {
	return fmt.Sprint(map[string]any(t))
}
