// Package jsonfile implements reading and writing of JSON language mappings.
//
// Two shapes are supported: plain string→string objects (merged output,
// extracted pack files) and Crowdin source objects whose values carry a
// translator context record:
//
//	{
//	    "item.apple.name": {
//	        "text": "Apple",
//	        "crowdinContext": "Original Translation\nzh_CN: 苹果"
//	    }
//	}
//
// Object key order is preserved on parse. Output uses two-space
// indentation; merged files are key-sorted, Crowdin source files keep
// insertion order on purpose (human-curated ordering matters there).
package jsonfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bedrock-zh/langpack/langmap"
)

// ---------------------------------------------------------------------------
// Plain mappings
// ---------------------------------------------------------------------------

// Parse decodes a top-level JSON object of string→string into an ordered
// mapping, preserving object key order.
func Parse(data []byte) (*langmap.Mapping, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	if err := expectObjectStart(dec); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	m := langmap.New()
	for dec.More() {
		key, err := readKey(dec)
		if err != nil {
			return nil, fmt.Errorf("parsing JSON: %w", err)
		}

		vt, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parsing JSON: %w", err)
		}
		value, ok := vt.(string)
		if !ok {
			return nil, fmt.Errorf("parsing JSON: key %q has non-string value %v", key, vt)
		}

		m.Put(key, value)
	}

	return m, nil
}

// ParseFile reads and parses a JSON mapping file from disk.
func ParseFile(path string) (*langmap.Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Marshal encodes the mapping as a two-space-indented JSON object. With
// sortKeys the output keys are lexicographically sorted; otherwise
// insertion order is kept.
func Marshal(m *langmap.Mapping, sortKeys bool) []byte {
	keys := m.Keys()
	if sortKeys {
		keys = m.SortedKeys()
	}

	var b bytes.Buffer
	b.WriteString("{")
	for i, key := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		value, _ := m.Get(key)
		b.WriteString("\n  ")
		b.WriteString(encodeString(key))
		b.WriteString(": ")
		b.WriteString(encodeString(value))
	}
	if len(keys) > 0 {
		b.WriteByte('\n')
	}
	b.WriteString("}")
	return b.Bytes()
}

// WriteFile serialises the mapping and writes it to path, creating parent
// directories with 0755 permissions.
func WriteFile(path string, m *langmap.Mapping, sortKeys bool) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, Marshal(m, sortKeys), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Crowdin source mappings
// ---------------------------------------------------------------------------

// SourceString is a source text annotated with translator context.
type SourceString struct {
	Text           string `json:"text"`
	CrowdinContext string `json:"crowdinContext"`
}

// SourceMapping is an insertion-ordered mapping from key to SourceString.
type SourceMapping struct {
	keys   []string
	values map[string]SourceString
}

// NewSourceMapping returns an empty SourceMapping.
func NewSourceMapping() *SourceMapping {
	return &SourceMapping{values: make(map[string]SourceString)}
}

// Add inserts or overwrites key→value, keeping the position of an
// existing key.
func (sm *SourceMapping) Add(key string, value SourceString) {
	if _, exists := sm.values[key]; !exists {
		sm.keys = append(sm.keys, key)
	}
	sm.values[key] = value
}

// AppendContext appends one line to the crowdinContext of an existing key.
// Unknown keys are ignored.
func (sm *SourceMapping) AppendContext(key, line string) {
	v, ok := sm.values[key]
	if !ok {
		return
	}
	v.CrowdinContext += "\n" + line
	sm.values[key] = v
}

// Get returns the value for key and whether it was found.
func (sm *SourceMapping) Get(key string) (SourceString, bool) {
	v, ok := sm.values[key]
	return v, ok
}

// Len returns the number of entries.
func (sm *SourceMapping) Len() int {
	return len(sm.keys)
}

// Keys returns the keys in insertion order. The returned slice is a copy.
func (sm *SourceMapping) Keys() []string {
	keys := make([]string, len(sm.keys))
	copy(keys, sm.keys)
	return keys
}

// ParseSource decodes a Crowdin source JSON object, preserving key order.
func ParseSource(data []byte) (*SourceMapping, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	if err := expectObjectStart(dec); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	sm := NewSourceMapping()
	for dec.More() {
		key, err := readKey(dec)
		if err != nil {
			return nil, fmt.Errorf("parsing JSON: %w", err)
		}

		var value SourceString
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("parsing JSON: key %q: %w", key, err)
		}
		sm.Add(key, value)
	}

	return sm, nil
}

// MarshalSource encodes the source mapping as two-space-indented JSON in
// insertion order. Crowdin source files are intentionally not key-sorted.
func MarshalSource(sm *SourceMapping) []byte {
	var b bytes.Buffer
	b.WriteString("{")
	for i, key := range sm.keys {
		if i > 0 {
			b.WriteByte(',')
		}
		v := sm.values[key]
		b.WriteString("\n  ")
		b.WriteString(encodeString(key))
		b.WriteString(": {\n    \"text\": ")
		b.WriteString(encodeString(v.Text))
		b.WriteString(",\n    \"crowdinContext\": ")
		b.WriteString(encodeString(v.CrowdinContext))
		b.WriteString("\n  }")
	}
	if len(sm.keys) > 0 {
		b.WriteByte('\n')
	}
	b.WriteString("}")
	return b.Bytes()
}

// WriteSourceFile serialises the source mapping and writes it to path.
func WriteSourceFile(path string, sm *SourceMapping) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, MarshalSource(sm), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Decoder helpers
// ---------------------------------------------------------------------------

func expectObjectStart(dec *json.Decoder) error {
	t, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := t.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected object, got %v", t)
	}
	return nil
}

func readKey(dec *json.Decoder) (string, error) {
	t, err := dec.Token()
	if err != nil {
		return "", err
	}
	key, ok := t.(string)
	if !ok {
		return "", fmt.Errorf("expected string key, got %T", t)
	}
	return key, nil
}

// encodeString JSON-encodes a single string without HTML escaping, matching
// the output of the original tooling.
func encodeString(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		// Strings cannot fail to encode.
		panic(err)
	}
	return strings.TrimRight(buf.String(), "\n")
}
