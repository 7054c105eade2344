// Package worksheet builds translator-facing artifacts from merged locale
// mappings and extracts edited translations back out of them.
//
// A worksheet pairs every key of the base locale with its source text, a
// multi-line context block (the existing translations from secondary
// locales), and an editable Translation column. The same data can be
// rendered as a Crowdin source JSON, where the context block becomes the
// crowdinContext field.
package worksheet

import (
	"github.com/bedrock-zh/langpack/jsonfile"
	"github.com/bedrock-zh/langpack/langmap"
	"github.com/bedrock-zh/langpack/tsvfile"
)

// Worksheet header columns. Key and Translation are required by the
// extraction and patch operations; the others are informational.
const (
	HeaderKey         = "Key"
	HeaderSource      = "Source string"
	HeaderContext     = "Context"
	HeaderTranslation = "Translation"
)

// contextHeading is the first line of every context block.
const contextHeading = "Original Translation"

// Row is one worksheet line.
type Row struct {
	Key         string
	Source      string
	Context     string
	Translation string
}

// Secondary is a labelled secondary-locale mapping contributing context
// lines, e.g. {Label: "zh_CN", Mapping: <merged zh_CN>}.
type Secondary struct {
	Label   string
	Mapping *langmap.Mapping
}

// Build emits one row per base-mapping key in base order. The context
// block starts with "Original Translation" and gains one "<label>: <value>"
// line for each secondary mapping that also defines the key, in secondary
// order. The Translation column starts empty.
func Build(base *langmap.Mapping, secondaries []Secondary) []Row {
	rows := make([]Row, 0, base.Len())

	for _, key := range base.Keys() {
		source, _ := base.Get(key)
		rows = append(rows, Row{
			Key:     key,
			Source:  source,
			Context: contextFor(key, secondaries),
		})
	}

	return rows
}

// Table renders rows as a tabular worksheet with the standard headers.
func Table(rows []Row) *tsvfile.Table {
	t := &tsvfile.Table{
		Headers: []string{HeaderKey, HeaderSource, HeaderContext, HeaderTranslation},
		Rows:    make([][]string, 0, len(rows)),
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{r.Key, r.Source, r.Context, r.Translation})
	}
	return t
}

// SourceMapping renders the same data as a Crowdin source mapping: each
// base key maps to its text plus the context block as crowdinContext.
func SourceMapping(base *langmap.Mapping, secondaries []Secondary) *jsonfile.SourceMapping {
	sm := jsonfile.NewSourceMapping()
	for _, key := range base.Keys() {
		text, _ := base.Get(key)
		sm.Add(key, jsonfile.SourceString{
			Text:           text,
			CrowdinContext: contextFor(key, secondaries),
		})
	}
	return sm
}

func contextFor(key string, secondaries []Secondary) string {
	context := contextHeading
	for _, sec := range secondaries {
		if value, ok := sec.Mapping.Get(key); ok {
			context += "\n" + sec.Label + ": " + value
		}
	}
	return context
}

// ---------------------------------------------------------------------------
// Translation column round trip
// ---------------------------------------------------------------------------

// ExtractTranslations pulls the edited Translation column out of a
// worksheet as a flat mapping. Both the Key and Translation columns must
// exist (tsvfile.ErrColumnMissing otherwise); the check happens before
// any row is processed. Rows too short to carry both cells, and rows
// whose key or translation cell is empty, are skipped. Duplicate keys
// keep the first occurrence.
func ExtractTranslations(t *tsvfile.Table) (*langmap.Mapping, error) {
	keyIdx, err := t.RequireColumn(HeaderKey)
	if err != nil {
		return nil, err
	}
	trIdx, err := t.RequireColumn(HeaderTranslation)
	if err != nil {
		return nil, err
	}

	m := langmap.New()
	for _, row := range t.Rows {
		if len(row) <= keyIdx || len(row) <= trIdx {
			continue
		}
		key, translation := row[keyIdx], row[trIdx]
		if key == "" || translation == "" {
			continue
		}
		m.Add(key, translation)
	}

	return m, nil
}

// ApplyTranslations returns a copy of the worksheet with the Translation
// cells of matching rows overwritten from updates. A missing Translation
// column is added (padding existing rows); rows whose key is absent from
// updates are left unchanged.
func ApplyTranslations(t *tsvfile.Table, updates *langmap.Mapping) (*tsvfile.Table, error) {
	keyIdx, err := t.RequireColumn(HeaderKey)
	if err != nil {
		return nil, err
	}

	out := t.Clone()

	trIdx, ok := out.Column(HeaderTranslation)
	if !ok {
		trIdx = len(out.Headers)
		out.Headers = append(out.Headers, HeaderTranslation)
	}

	for i, row := range out.Rows {
		if len(row) <= keyIdx {
			continue
		}
		translation, ok := updates.Get(row[keyIdx])
		if !ok {
			continue
		}
		for len(row) <= trIdx {
			row = append(row, "")
		}
		row[trIdx] = translation
		out.Rows[i] = row
	}

	return out, nil
}
