package packs

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestResolveOrder(t *testing.T) {
	available := []string{"experimental_foo", "oreui", "vanilla", "zzz"}
	patterns := []string{"vanilla", "experimental_*", "oreui"}

	want := []string{"vanilla", "experimental_foo", "oreui", "zzz"}
	if got := ResolveOrder(available, patterns); !reflect.DeepEqual(got, want) {
		t.Errorf("ResolveOrder() = %v, want %v", got, want)
	}
}

func TestResolveOrder_Permutation(t *testing.T) {
	available := []string{"a", "ab", "abc", "b"}
	// Overlapping patterns must not emit duplicates.
	patterns := []string{"ab", "a*", "missing", "a*"}

	got := ResolveOrder(available, patterns)
	want := []string{"ab", "a", "abc", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ResolveOrder() = %v, want %v", got, want)
	}

	seen := make(map[string]bool)
	for _, name := range got {
		if seen[name] {
			t.Fatalf("duplicate name %q in order", name)
		}
		seen[name] = true
	}
	if len(got) != len(available) {
		t.Fatalf("len = %d, want %d", len(got), len(available))
	}
}

func TestResolveOrder_NoPatterns(t *testing.T) {
	available := []string{"b", "a", "c"}
	if got := ResolveOrder(available, nil); !reflect.DeepEqual(got, available) {
		t.Errorf("ResolveOrder() = %v, want enumeration order %v", got, available)
	}
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"vanilla", "oreui", "beta"} {
		if err := os.Mkdir(filepath.Join(dir, name), 0755); err != nil {
			t.Fatal(err)
		}
	}
	// Plain files are not packs.
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := List(dir)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if want := []string{"beta", "oreui", "vanilla"}; !reflect.DeepEqual(got, want) {
		t.Errorf("List() = %v, want %v", got, want)
	}

	got, err = List(dir, "beta")
	if err != nil {
		t.Fatalf("List(exclude) error: %v", err)
	}
	if want := []string{"oreui", "vanilla"}; !reflect.DeepEqual(got, want) {
		t.Errorf("List(exclude beta) = %v, want %v", got, want)
	}
}

func TestList_MissingDir(t *testing.T) {
	got, err := List(filepath.Join(t.TempDir(), "missing"))
	if err != nil {
		t.Fatalf("List(missing) error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("List(missing) = %v, want empty", got)
	}
}

func TestBranchOrder_NestedAndExcluded(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"vanilla", "oreui", "previewapp",
		"beta/vanilla", "beta/experimental_x",
		"previewapp/vanilla",
	} {
		if err := os.MkdirAll(filepath.Join(dir, name), 0755); err != nil {
			t.Fatal(err)
		}
	}

	patterns := []string{"vanilla", "experimental_*", "oreui"}

	// Beta branch: previewapp excluded, beta subtree appended with prefix.
	got, err := BranchOrder(dir, patterns, []string{"previewapp"}, "beta")
	if err != nil {
		t.Fatalf("BranchOrder() error: %v", err)
	}
	want := []string{"vanilla", "oreui", "beta/vanilla", "beta/experimental_x"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("BranchOrder(beta) = %v, want %v", got, want)
	}

	// Preview branch: beta excluded, previewapp subtree appended.
	got, err = BranchOrder(dir, patterns, []string{"beta"}, "previewapp")
	if err != nil {
		t.Fatalf("BranchOrder() error: %v", err)
	}
	want = []string{"vanilla", "oreui", "previewapp/vanilla"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("BranchOrder(preview) = %v, want %v", got, want)
	}

	// Release branch: no exclusions, no nested subtree.
	got, err = BranchOrder(dir, patterns, nil, "")
	if err != nil {
		t.Fatalf("BranchOrder() error: %v", err)
	}
	want = []string{"vanilla", "oreui", "beta", "previewapp"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("BranchOrder(release) = %v, want %v", got, want)
	}
}

func TestBranchOrder_NestedOrderingWithinSubtree(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"vanilla", "beta/oreui", "beta/vanilla"} {
		if err := os.MkdirAll(filepath.Join(dir, name), 0755); err != nil {
			t.Fatal(err)
		}
	}

	got, err := BranchOrder(dir, []string{"vanilla", "oreui"}, nil, "beta")
	if err != nil {
		t.Fatalf("BranchOrder() error: %v", err)
	}
	want := []string{"vanilla", "beta/vanilla", "beta/oreui"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("BranchOrder() = %v, want %v", got, want)
	}
}

func TestLocaleFile_PrefersJSON(t *testing.T) {
	dir := t.TempDir()
	pack := filepath.Join(dir, "vanilla")
	if err := os.Mkdir(pack, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(pack, "zh_CN.lang"), []byte("a=1"), 0644); err != nil {
		t.Fatal(err)
	}

	path, ok := LocaleFile(dir, "vanilla", "zh_CN")
	if !ok || path != filepath.Join(pack, "zh_CN.lang") {
		t.Errorf("LocaleFile() = %q, %v, want lang fallback", path, ok)
	}

	if err := os.WriteFile(filepath.Join(pack, "zh_CN.json"), []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}
	path, ok = LocaleFile(dir, "vanilla", "zh_CN")
	if !ok || path != filepath.Join(pack, "zh_CN.json") {
		t.Errorf("LocaleFile() = %q, %v, want json preferred", path, ok)
	}

	if _, ok := LocaleFile(dir, "vanilla", "en_US"); ok {
		t.Error("LocaleFile() for absent locale should report false")
	}
}
