// Package tree implements path operations over decoded JSON documents.
//
// A tree is built from map[string]any, []any, string, json.Number, bool and nil.
// Like a realtime database, it never stores nulls or empty objects: writing nil
// removes a child and a parent left without children disappears with it.
package tree

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Split turns a "/"-separated path into segments, ignoring empty ones.
func Split(path string) []string {
	parts := strings.Split(path, "/")
	segs := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			segs = append(segs, p)
		}
	}

	return segs
}

// Join builds a path from segments.
func Join(segs ...string) string {
	return strings.Join(segs, "/")
}

// Normalize converts any JSON-encodable value into tree form and prunes it.
func Normalize(value any) (any, error) {
	if value == nil {
		return nil, nil
	}

	raw, ok := value.(json.RawMessage)
	if !ok {
		var err error
		raw, err = json.Marshal(value)
		if err != nil {
			return nil, errors.Wrap(err, "encode value")
		}
	}

	return Decode(raw)
}

// Decode parses JSON into tree form and prunes it.
func Decode(raw []byte) (any, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, errors.Wrap(err, "decode value")
	}

	return Prune(v), nil
}

// Encode marshals a tree, "null" for an empty one.
func Encode(v any) ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}

	raw, err := json.Marshal(v)

	return raw, errors.Wrap(err, "encode tree")
}

// Prune removes nulls and empty objects recursively. Arrays are kept as they are.
func Prune(v any) any {
	m, ok := v.(map[string]any)
	if !ok {
		return v
	}

	for k, child := range m {
		child = Prune(child)
		if child == nil {
			delete(m, k)

			continue
		}
		m[k] = child
	}

	if len(m) == 0 {
		return nil
	}

	return m
}

// Get returns the subtree at segs, nil when absent.
func Get(root any, segs []string) any {
	current := root
	for _, seg := range segs {
		m, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current = m[seg]
	}

	return current
}

// Set places value at segs and returns the new root. A nil value removes the
// subtree. value must already be in tree form.
func Set(root any, segs []string, value any) any {
	if len(segs) == 0 {
		return Prune(value)
	}

	m, ok := root.(map[string]any)
	if !ok {
		if value == nil {
			return root
		}
		m = map[string]any{}
	}
	if _, exists := m[segs[0]]; !exists && value == nil {
		return root
	}

	child := Set(m[segs[0]], segs[1:], value)
	if child == nil {
		delete(m, segs[0])
	} else {
		m[segs[0]] = child
	}

	if len(m) == 0 {
		return nil
	}

	return m
}

// Update merges fields into the subtree at segs and returns the new root.
// Field keys may themselves be nested paths.
func Update(root any, segs []string, fields map[string]any) any {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		target := append(append([]string{}, segs...), Split(k)...)
		root = Set(root, target, fields[k])
	}

	return root
}

// Overlaps reports whether a write at one path can change the value seen at the other.
func Overlaps(a, b []string) bool {
	n := min(len(a), len(b))
	for i := range n {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

// LimitToLast keeps the last n children of an object in key order.
// Non-objects and n <= 0 are returned unchanged.
func LimitToLast(v any, n int) any {
	m, ok := v.(map[string]any)
	if !ok || n <= 0 || len(m) <= n {
		return v
	}

	keys := SortedKeys(m)
	limited := make(map[string]any, n)
	for _, k := range keys[len(keys)-n:] {
		limited[k] = m[k]
	}

	return limited
}

// SortedKeys orders keys the way a realtime database orders by key:
// 32-bit integer keys first in numeric order, then the rest lexically.
func SortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return KeyLess(keys[i], keys[j])
	})

	return keys
}

// KeyLess compares two keys in realtime database key order.
func KeyLess(a, b string) bool {
	ai, aInt := intKey(a)
	bi, bInt := intKey(b)

	switch {
	case aInt && bInt:
		return ai < bi
	case aInt:
		return true
	case bInt:
		return false
	default:
		return a < b
	}
}

func intKey(k string) (int64, bool) {
	v, err := strconv.ParseInt(k, 10, 32)
	if err != nil {
		return 0, false
	}

	return v, true
}

// Clone deep-copies a tree.
func Clone(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, child := range t {
			out[k] = Clone(child)
		}

		return out
	case []any:
		out := make([]any, len(t))
		for i, child := range t {
			out[i] = Clone(child)
		}

		return out
	default:
		return v
	}
}
