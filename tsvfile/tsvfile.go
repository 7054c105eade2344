// Package tsvfile implements reading and writing of tab-delimited
// translation worksheets.
//
// The format follows csv conventions with a tab delimiter: fields that
// contain tabs, quotes, or newlines (worksheet Context cells span several
// lines) are quoted. The first row is the header row; data rows may be
// shorter than the header.
package tsvfile

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrColumnMissing is returned when a worksheet lacks a required header
// column. Match with errors.Is.
var ErrColumnMissing = errors.New("required column missing")

// Table is a parsed tab-delimited worksheet.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Parse decodes tab-delimited content. The first record becomes Headers;
// remaining records become Rows. Rows of uneven length are allowed.
func Parse(text string) (*Table, error) {
	text = strings.TrimPrefix(text, "\uFEFF")

	r := csv.NewReader(strings.NewReader(text))
	r.Comma = '\t'
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing TSV: %w", err)
	}
	if len(records) == 0 {
		return &Table{}, nil
	}

	return &Table{Headers: records[0], Rows: records[1:]}, nil
}

// ParseFile reads and parses a worksheet file from disk.
func ParseFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	t, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Marshal serialises the table back to tab-delimited form, header row
// first. Fields containing tabs, quotes, or newlines are quoted.
func Marshal(t *Table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = '\t'

	if len(t.Headers) > 0 {
		if err := w.Write(t.Headers); err != nil {
			return nil, fmt.Errorf("writing TSV header: %w", err)
		}
	}
	for _, row := range t.Rows {
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("writing TSV row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("writing TSV: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile serialises the table and writes it to path, creating parent
// directories with 0755 permissions.
func WriteFile(path string, t *Table) error {
	data, err := Marshal(t)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Column returns the index of the named header column.
func (t *Table) Column(name string) (int, bool) {
	for i, h := range t.Headers {
		if h == name {
			return i, true
		}
	}
	return 0, false
}

// RequireColumn returns the index of the named header column, or an error
// wrapping ErrColumnMissing if the column is absent.
func (t *Table) RequireColumn(name string) (int, error) {
	if i, ok := t.Column(name); ok {
		return i, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrColumnMissing, name)
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := &Table{
		Headers: append([]string(nil), t.Headers...),
		Rows:    make([][]string, len(t.Rows)),
	}
	for i, row := range t.Rows {
		out.Rows[i] = append([]string(nil), row...)
	}
	return out
}
