// Package langmap provides the ordered key→value mapping shared by all
// format codecs and the merge pipeline.
//
// A Mapping preserves insertion order: the .lang format is order-significant,
// Crowdin source files are deliberately emitted in insertion order, and the
// merge engine's first-write-wins rule depends on encounter order. Lookups
// go through a key index, so Get/Has are O(1).
package langmap

import "sort"

// Mapping is an insertion-ordered string→string map.
type Mapping struct {
	keys   []string
	values map[string]string
}

// New returns an empty Mapping.
func New() *Mapping {
	return &Mapping{values: make(map[string]string)}
}

// Add inserts key→value only if key is not already present and reports
// whether the insert happened. This is the merge engine's first-write-wins
// primitive.
func (m *Mapping) Add(key, value string) bool {
	if _, exists := m.values[key]; exists {
		return false
	}
	m.keys = append(m.keys, key)
	m.values[key] = value
	return true
}

// Put inserts key→value, overwriting the value of an existing key while
// keeping its original position.
func (m *Mapping) Put(key, value string) {
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value for key and whether it was found.
func (m *Mapping) Get(key string) (string, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Has reports whether key is present.
func (m *Mapping) Has(key string) bool {
	_, ok := m.values[key]
	return ok
}

// Len returns the number of entries.
func (m *Mapping) Len() int {
	return len(m.keys)
}

// Keys returns the keys in insertion order. The returned slice is a copy.
func (m *Mapping) Keys() []string {
	keys := make([]string, len(m.keys))
	copy(keys, m.keys)
	return keys
}

// SortedKeys returns the keys in lexicographic order.
func (m *Mapping) SortedKeys() []string {
	keys := m.Keys()
	sort.Strings(keys)
	return keys
}
