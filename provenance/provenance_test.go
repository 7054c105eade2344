package provenance

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/bedrock-zh/langpack/langmap"
	"github.com/bedrock-zh/langpack/merge"
)

func literalLookup(files map[string][][2]string) SourceLookup {
	return func(pack string) (*langmap.Mapping, string, error) {
		source := pack + "/zh_CN.lang"
		entries, ok := files[pack]
		if !ok {
			return nil, source, nil
		}
		m := langmap.New()
		for _, kv := range entries {
			m.Add(kv[0], kv[1])
		}
		return m, source, nil
	}
}

func TestBuildIndex_EarliestPackWins(t *testing.T) {
	lookup := literalLookup(map[string][][2]string{
		"vanilla": {{"k", "1"}, {"a", "x"}},
		"oreui":   {{"k", "2"}, {"b", "y"}},
	})

	idx := BuildIndex([]string{"vanilla", "oreui"}, lookup)

	want := Index{
		"k": "vanilla/zh_CN.lang",
		"a": "vanilla/zh_CN.lang",
		"b": "oreui/zh_CN.lang",
	}
	if !reflect.DeepEqual(idx, want) {
		t.Errorf("BuildIndex() = %v, want %v", idx, want)
	}
}

func TestBuildIndex_SkipsBroken(t *testing.T) {
	lookup := func(pack string) (*langmap.Mapping, string, error) {
		if pack == "broken" {
			return nil, "", errors.New("bad syntax")
		}
		m := langmap.New()
		m.Add("key", "v")
		return m, pack + "/zh_CN.lang", nil
	}

	idx := BuildIndex([]string{"broken", "vanilla"}, lookup)
	if got := idx["key"]; got != "vanilla/zh_CN.lang" {
		t.Errorf("key credited to %q, want vanilla/zh_CN.lang", got)
	}
}

func TestDefaultSource(t *testing.T) {
	if got := DefaultSource([]string{"vanilla", "oreui"}, "zh_CN"); got != "vanilla/zh_CN.lang" {
		t.Errorf("DefaultSource() = %q, want %q", got, "vanilla/zh_CN.lang")
	}
	if got := DefaultSource(nil, "zh_CN"); got != "zh_CN.lang" {
		t.Errorf("DefaultSource(empty) = %q, want %q", got, "zh_CN.lang")
	}
}

func TestPartitionBySource(t *testing.T) {
	flat := langmap.New()
	flat.Add("a", "1")
	flat.Add("b", "2")
	flat.Add("c", "3")
	flat.Add("new.key", "added in worksheet")

	idx := Index{
		"a": "vanilla/zh_CN.lang",
		"b": "oreui/zh_CN.lang",
		"c": "vanilla/zh_CN.lang",
	}

	p := PartitionBySource(flat, idx, "vanilla/zh_CN.lang")

	wantSources := []string{"vanilla/zh_CN.lang", "oreui/zh_CN.lang"}
	if got := p.Sources(); !reflect.DeepEqual(got, wantSources) {
		t.Errorf("Sources() = %v, want %v", got, wantSources)
	}

	vanilla := p.Get("vanilla/zh_CN.lang")
	if want := []string{"a", "c", "new.key"}; !reflect.DeepEqual(vanilla.Keys(), want) {
		t.Errorf("vanilla keys = %v, want %v", vanilla.Keys(), want)
	}
	oreui := p.Get("oreui/zh_CN.lang")
	if want := []string{"b"}; !reflect.DeepEqual(oreui.Keys(), want) {
		t.Errorf("oreui keys = %v, want %v", oreui.Keys(), want)
	}

	if p.Get("missing/zh_CN.lang") != nil {
		t.Error("Get() for unknown source should be nil")
	}

	groups := p.Groups()
	if len(groups) != 2 || groups[0].Source != "vanilla/zh_CN.lang" || groups[1].Source != "oreui/zh_CN.lang" {
		t.Errorf("Groups() order wrong: %+v", groups)
	}
}

// Partitioning a merged mapping and re-merging the groups must reproduce
// the flat mapping exactly.
func TestPartition_RoundTripsThroughMerge(t *testing.T) {
	files := map[string][][2]string{
		"vanilla": {{"k", "1"}, {"a", "x"}},
		"oreui":   {{"k", "2"}, {"b", "y"}},
		"persona": {{"c", "z"}},
	}
	order := []string{"vanilla", "oreui", "persona"}

	flat := merge.Merge(order, func(pack string) (*langmap.Mapping, error) {
		m, _, err := literalLookup(files)(pack)
		return m, err
	})
	idx := BuildIndex(order, literalLookup(files))
	p := PartitionBySource(flat, idx, DefaultSource(order, "zh_CN"))

	rebuilt := langmap.New()
	for _, source := range p.Sources() {
		group := p.Get(source)
		for _, key := range group.Keys() {
			value, _ := group.Get(key)
			rebuilt.Add(key, value)
		}
	}

	if rebuilt.Len() != flat.Len() {
		t.Fatalf("rebuilt %d keys, want %d", rebuilt.Len(), flat.Len())
	}
	for _, key := range flat.Keys() {
		want, _ := flat.Get(key)
		got, ok := rebuilt.Get(key)
		if !ok || got != want {
			t.Errorf("rebuilt[%q] = %q, %v; want %q", key, got, ok, want)
		}
	}
}

func TestDirLookup_SourceAlwaysLang(t *testing.T) {
	dir := t.TempDir()
	pack := filepath.Join(dir, "oreui")
	if err := os.Mkdir(pack, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(pack, "zh_CN.json"), []byte("{\n  \"a\": \"1\"\n}"), 0644); err != nil {
		t.Fatal(err)
	}

	lookup := DirLookup(dir, "zh_CN")

	m, source, err := lookup("oreui")
	if err != nil {
		t.Fatalf("lookup(oreui) error: %v", err)
	}
	if source != "oreui/zh_CN.lang" {
		t.Errorf("source = %q, want oreui/zh_CN.lang even for json input", source)
	}
	if got, _ := m.Get("a"); got != "1" {
		t.Errorf("a = %q, want %q", got, "1")
	}

	m, source, err = lookup("missing")
	if err != nil || m != nil {
		t.Errorf("lookup(missing) = %v, %v, want nil mapping, nil error", m, err)
	}
	if source != "missing/zh_CN.lang" {
		t.Errorf("missing source = %q", source)
	}
}
