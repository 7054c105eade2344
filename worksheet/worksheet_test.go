package worksheet

import (
	"errors"
	"reflect"
	"testing"

	"github.com/bedrock-zh/langpack/langmap"
	"github.com/bedrock-zh/langpack/tsvfile"
)

func mapping(pairs ...string) *langmap.Mapping {
	m := langmap.New()
	for i := 0; i+1 < len(pairs); i += 2 {
		m.Add(pairs[i], pairs[i+1])
	}
	return m
}

func TestBuild(t *testing.T) {
	base := mapping("item.apple", "Apple", "item.stone", "Stone")
	secondaries := []Secondary{
		{Label: "zh_CN", Mapping: mapping("item.apple", "苹果")},
		{Label: "zh_TW", Mapping: mapping("item.apple", "蘋果", "item.stone", "石頭")},
	}

	rows := Build(base, secondaries)

	want := []Row{
		{Key: "item.apple", Source: "Apple", Context: "Original Translation\nzh_CN: 苹果\nzh_TW: 蘋果"},
		{Key: "item.stone", Source: "Stone", Context: "Original Translation\nzh_TW: 石頭"},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("Build() = %+v, want %+v", rows, want)
	}
}

func TestBuild_NoSecondaries(t *testing.T) {
	rows := Build(mapping("k", "v"), nil)
	if len(rows) != 1 || rows[0].Context != "Original Translation" {
		t.Errorf("Build() = %+v, want bare context heading", rows)
	}
}

func TestTable(t *testing.T) {
	rows := []Row{{Key: "k", Source: "s", Context: "c", Translation: ""}}
	tbl := Table(rows)

	wantHeaders := []string{"Key", "Source string", "Context", "Translation"}
	if !reflect.DeepEqual(tbl.Headers, wantHeaders) {
		t.Errorf("Headers = %v, want %v", tbl.Headers, wantHeaders)
	}
	if want := [][]string{{"k", "s", "c", ""}}; !reflect.DeepEqual(tbl.Rows, want) {
		t.Errorf("Rows = %v, want %v", tbl.Rows, want)
	}
}

func TestSourceMapping(t *testing.T) {
	base := mapping("item.apple", "Apple")
	secondaries := []Secondary{{Label: "zh_CN.json", Mapping: mapping("item.apple", "苹果")}}

	sm := SourceMapping(base, secondaries)

	ss, ok := sm.Get("item.apple")
	if !ok {
		t.Fatal("item.apple missing from source mapping")
	}
	if ss.Text != "Apple" {
		t.Errorf("Text = %q, want %q", ss.Text, "Apple")
	}
	if want := "Original Translation\nzh_CN.json: 苹果"; ss.CrowdinContext != want {
		t.Errorf("CrowdinContext = %q, want %q", ss.CrowdinContext, want)
	}
}

func TestExtractTranslations(t *testing.T) {
	tbl := &tsvfile.Table{
		Headers: []string{"Key", "Source string", "Context", "Translation"},
		Rows: [][]string{
			{"item.apple", "Apple", "ctx", "苹果"},
			{"item.stone", "Stone", "ctx", ""},    // untranslated
			{"", "Orphan", "ctx", "孤儿"},           // no key
			{"item.short"},                        // too short
			{"item.apple", "Apple", "ctx", "重复"}, // duplicate keeps first
			{"item.dirt", "Dirt", "ctx", "泥土"},
		},
	}

	m, err := ExtractTranslations(tbl)
	if err != nil {
		t.Fatalf("ExtractTranslations() error: %v", err)
	}

	if want := []string{"item.apple", "item.dirt"}; !reflect.DeepEqual(m.Keys(), want) {
		t.Errorf("Keys() = %v, want %v", m.Keys(), want)
	}
	if got, _ := m.Get("item.apple"); got != "苹果" {
		t.Errorf("item.apple = %q, want %q", got, "苹果")
	}
}

func TestExtractTranslations_MissingColumn(t *testing.T) {
	tbl := &tsvfile.Table{Headers: []string{"Key", "Source string"}, Rows: [][]string{{"k", "v"}}}
	if _, err := ExtractTranslations(tbl); !errors.Is(err, tsvfile.ErrColumnMissing) {
		t.Errorf("err = %v, want ErrColumnMissing", err)
	}
}

func TestApplyTranslations(t *testing.T) {
	base := mapping("item.apple", "Apple", "item.stone", "Stone")
	tbl := Table(Build(base, nil))

	out, err := ApplyTranslations(tbl, mapping("item.apple", "苹果"))
	if err != nil {
		t.Fatalf("ApplyTranslations() error: %v", err)
	}

	if got := out.Rows[0][3]; got != "苹果" {
		t.Errorf("apple translation = %q, want %q", got, "苹果")
	}
	if got := out.Rows[1][3]; got != "" {
		t.Errorf("stone translation = %q, want empty", got)
	}

	// Input must stay untouched.
	if got := tbl.Rows[0][3]; got != "" {
		t.Errorf("input mutated: %q", got)
	}
}

func TestApplyTranslations_AddsColumn(t *testing.T) {
	tbl := &tsvfile.Table{
		Headers: []string{"Key", "Source string"},
		Rows:    [][]string{{"k", "v"}, {"other", "w"}},
	}

	out, err := ApplyTranslations(tbl, mapping("k", "t"))
	if err != nil {
		t.Fatalf("ApplyTranslations() error: %v", err)
	}

	if want := []string{"Key", "Source string", "Translation"}; !reflect.DeepEqual(out.Headers, want) {
		t.Errorf("Headers = %v, want %v", out.Headers, want)
	}
	if want := []string{"k", "v", "t"}; !reflect.DeepEqual(out.Rows[0], want) {
		t.Errorf("row 0 = %v, want %v", out.Rows[0], want)
	}
	// Unmatched rows are not padded.
	if want := []string{"other", "w"}; !reflect.DeepEqual(out.Rows[1], want) {
		t.Errorf("row 1 = %v, want %v", out.Rows[1], want)
	}
}

// Extracting from an applied worksheet recovers the applied updates.
func TestApplyExtract_RoundTrip(t *testing.T) {
	base := mapping("a", "Apple", "b", "Bread")
	tbl := Table(Build(base, nil))
	updates := mapping("a", "苹果", "b", "面包")

	applied, err := ApplyTranslations(tbl, updates)
	if err != nil {
		t.Fatal(err)
	}
	got, err := ExtractTranslations(applied)
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(got.Keys(), updates.Keys()) {
		t.Fatalf("keys = %v, want %v", got.Keys(), updates.Keys())
	}
	for _, key := range updates.Keys() {
		want, _ := updates.Get(key)
		if v, _ := got.Get(key); v != want {
			t.Errorf("%s = %q, want %q", key, v, want)
		}
	}
}
