// Package langfile implements reading and writing of Minecraft Bedrock
// .lang language files.
//
// Format: key=value pairs, one per line. Lines starting with "##" are
// comments. A value may carry a trailing comment introduced by a literal
// tab followed by '#'; everything from the tab onward is stripped.
// Duplicate keys keep the first occurrence.
//
// Whitespace handling is deliberate: blank-line detection and value
// trimming strip ASCII whitespace only (space, tab, CR, LF, form feed,
// vertical tab). U+00A0 no-break space is content in game strings and is
// never stripped.
package langfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bedrock-zh/langpack/langmap"
)

// asciiSpace is the cutset used for blank detection and value trimming.
// It intentionally excludes U+00A0.
const asciiSpace = " \t\r\n\f\v"

// bom is the UTF-8 byte-order mark some extracted files start with.
const bom = "\uFEFF"

// ---------------------------------------------------------------------------
// Parsing
// ---------------------------------------------------------------------------

// Parse parses .lang content into an ordered mapping.
//
// The input is normalised first (BOM stripped, CRLF/CR → LF). Blank lines
// and "##" comment lines are skipped. The first '=' splits key from value;
// it must not be the first character of the line, otherwise the line is
// ignored. Duplicate keys keep the first occurrence.
func Parse(text string) *langmap.Mapping {
	m := langmap.New()

	for _, raw := range splitLines(normalize(text)) {
		line := strings.Trim(raw, asciiSpace)

		if line == "" || strings.HasPrefix(line, "##") {
			continue
		}

		eq := strings.Index(line, "=")
		if eq <= 0 {
			continue
		}

		key := strings.TrimSpace(line[:eq])
		value := strings.Trim(line[eq+1:], asciiSpace)

		// Strip trailing "\t# ..." comments embedded in values.
		if tc := strings.Index(value, "\t#"); tc != -1 {
			value = strings.TrimRight(value[:tc], asciiSpace)
		}

		m.Add(key, value)
	}

	return m
}

// ParseFile reads and parses a .lang file from disk.
func ParseFile(path string) (*langmap.Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Parse(string(data)), nil
}

// ---------------------------------------------------------------------------
// Serialization
// ---------------------------------------------------------------------------

// Serialize emits one key=value line per entry in mapping order, joined by
// LF with no trailing newline.
func Serialize(m *langmap.Mapping) string {
	var b strings.Builder
	for i, key := range m.Keys() {
		if i > 0 {
			b.WriteByte('\n')
		}
		value, _ := m.Get(key)
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(value)
	}
	return b.String()
}

// Group is a run of entries credited to one source pack file, used when
// re-emitting patched translations grouped by origin.
type Group struct {
	// Source identifies the pack file the entries came from,
	// e.g. "vanilla/zh_CN.lang".
	Source string
	// Entries holds the group's key→value pairs in partition order.
	Entries *langmap.Mapping
}

// SerializeGrouped emits groups of key=value lines, each non-empty group
// preceded by a "## <source>" comment line and groups separated by one
// blank line. Entirely empty input yields an empty string.
func SerializeGrouped(groups []Group) string {
	var b strings.Builder
	first := true

	for _, g := range groups {
		if g.Entries == nil || g.Entries.Len() == 0 {
			continue
		}
		if !first {
			b.WriteString("\n\n")
		}
		first = false

		b.WriteString("## ")
		b.WriteString(g.Source)
		for _, key := range g.Entries.Keys() {
			value, _ := g.Entries.Get(key)
			b.WriteByte('\n')
			b.WriteString(key)
			b.WriteByte('=')
			b.WriteString(value)
		}
	}

	return b.String()
}

// WriteFile serialises the mapping and writes it to path, creating parent
// directories with 0755 permissions.
func WriteFile(path string, m *langmap.Mapping) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(Serialize(m)), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Cleaning
// ---------------------------------------------------------------------------

// Clean normalises raw .lang content: strips the BOM, converts all line
// endings to LF, drops lines that are blank after ASCII-whitespace
// stripping, and removes duplicate keys (first occurrence wins). Comment
// lines survive cleaning. An input that is entirely blank yields "".
func Clean(raw string) string {
	text := normalize(raw)

	var kept []string
	for _, line := range splitLines(text) {
		if strings.Trim(line, asciiSpace) != "" {
			kept = append(kept, line)
		}
	}
	if len(kept) == 0 {
		return ""
	}

	return RemoveDuplicateKeys(strings.Join(kept, "\n"))
}

// RemoveDuplicateKeys drops lines whose key was already seen, keeping the
// first occurrence. Comment lines, blank lines, and lines without a valid
// key=value split are preserved verbatim.
func RemoveDuplicateKeys(text string) string {
	seen := make(map[string]bool)
	var out []string

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)

		if trimmed == "" || strings.HasPrefix(trimmed, "##") {
			out = append(out, line)
			continue
		}

		eq := strings.Index(trimmed, "=")
		if eq <= 0 {
			out = append(out, line)
			continue
		}

		key := strings.TrimSpace(trimmed[:eq])
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, line)
	}

	return strings.Join(out, "\n")
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// normalize strips a leading BOM and converts CRLF and bare CR to LF.
func normalize(text string) string {
	text = strings.TrimPrefix(text, bom)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}

// splitLines splits normalised text into lines, dropping the empty
// trailing element of newline-terminated input.
func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
