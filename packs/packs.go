// Package packs scans extracted resource-pack trees and resolves the
// merge precedence order over them.
//
// A pack is one subdirectory of a branch tree (vanilla, oreui, persona, …)
// holding per-locale files named <locale>.json and/or <locale>.lang. Packs
// are never merged structurally; only their per-locale mappings are folded,
// in the order this package computes.
package packs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// List returns the subdirectory names of dir in enumeration order
// (os.ReadDir's lexical order), minus the excluded names. A missing dir
// yields an empty list, not an error.
func List(dir string, exclude ...string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	skip := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		skip[name] = true
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() || skip[e.Name()] {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

// ResolveOrder totally orders the available pack names by the pattern
// list. Patterns are processed in order: a pattern containing '*' matches
// every available name starting with the text before the '*' (matches keep
// their enumeration order); a plain pattern matches that exact name. Names
// already emitted are skipped. Names matched by no pattern are appended
// afterwards in enumeration order.
//
// The result is always a permutation of available: no duplicates, no
// omissions.
func ResolveOrder(available, patterns []string) []string {
	emitted := make(map[string]bool, len(available))
	ordered := make([]string, 0, len(available))

	emit := func(name string) {
		if !emitted[name] {
			emitted[name] = true
			ordered = append(ordered, name)
		}
	}

	for _, pattern := range patterns {
		if strings.Contains(pattern, "*") {
			prefix := strings.ReplaceAll(pattern, "*", "")
			for _, name := range available {
				if strings.HasPrefix(name, prefix) {
					emit(name)
				}
			}
			continue
		}
		for _, name := range available {
			if name == pattern {
				emit(name)
			}
		}
	}

	for _, name := range available {
		emit(name)
	}

	return ordered
}

// BranchOrder resolves the precedence order for one branch tree.
//
// The top level of srcDir is resolved with the excluded names (and the
// nested subtree, if any) removed. When nested is non-empty, the packs
// under srcDir/nested are then resolved separately and appended with a
// "nested/" prefix, so they rank after every top-level pack. This is how
// the beta branch folds in beta/* packs and the preview branch folds in
// previewapp/* packs.
func BranchOrder(srcDir string, patterns, exclude []string, nested string) ([]string, error) {
	skip := exclude
	if nested != "" {
		skip = append(append([]string(nil), exclude...), nested)
	}

	top, err := List(srcDir, skip...)
	if err != nil {
		return nil, err
	}
	order := ResolveOrder(top, patterns)

	if nested != "" {
		sub, err := List(filepath.Join(srcDir, nested))
		if err != nil {
			return nil, err
		}
		for _, name := range ResolveOrder(sub, patterns) {
			order = append(order, nested+"/"+name)
		}
	}

	return order, nil
}

// LocaleFile returns the path of the pack's file for locale, preferring
// the extracted <locale>.json over the raw <locale>.lang. The second
// return is false when the pack has no file for the locale.
func LocaleFile(srcDir, pack, locale string) (string, bool) {
	jsonPath := filepath.Join(srcDir, filepath.FromSlash(pack), locale+".json")
	if fileExists(jsonPath) {
		return jsonPath, true
	}
	langPath := filepath.Join(srcDir, filepath.FromSlash(pack), locale+".lang")
	if fileExists(langPath) {
		return langPath, true
	}
	return "", false
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
