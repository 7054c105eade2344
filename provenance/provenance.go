// Package provenance tracks which pack file each translation key came
// from and re-partitions edited flat mappings back into per-source groups.
//
// The index is built by walking the precedence order in reverse and
// overwriting on every match: the earliest pack in normal order makes the
// final write, so a forward read of the index reflects the same
// first-wins rule the merge engine applies. The index lives for one run
// only; it is never persisted.
package provenance

import (
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/bedrock-zh/langpack/jsonfile"
	"github.com/bedrock-zh/langpack/langfile"
	"github.com/bedrock-zh/langpack/langmap"
	"github.com/bedrock-zh/langpack/packs"
)

// SourceLookup loads one pack's mapping for a locale along with the
// identifying path credited as provenance (e.g. "vanilla/zh_CN.lang").
// A nil mapping with nil error means the pack has no file for the locale.
type SourceLookup func(pack string) (*langmap.Mapping, string, error)

// Index maps each key to the identifying path of the pack file credited
// as its provenance.
type Index map[string]string

// BuildIndex scans the packs in reverse precedence order, unconditionally
// overwriting each key's entry, so the surviving value per key is the one
// from the earliest pack in normal order. Unreadable packs are skipped
// with a warning, matching the merge engine's tolerance.
func BuildIndex(order []string, lookup SourceLookup) Index {
	idx := make(Index)

	for i := len(order) - 1; i >= 0; i-- {
		m, source, err := lookup(order[i])
		if err != nil {
			log.Warn().Err(err).Str("pack", order[i]).Msg("Skipping unreadable pack")
			continue
		}
		if m == nil {
			continue
		}

		for _, key := range m.Keys() {
			idx[key] = source
		}
	}

	return idx
}

// DirLookup returns a filesystem-backed SourceLookup over srcDir. The
// identifying path is always "<pack>/<locale>.lang" — the original pack
// file as it appeared in the client — regardless of whether the mapping
// was loaded from the extracted .json or the raw .lang.
func DirLookup(srcDir, locale string) SourceLookup {
	return func(pack string) (*langmap.Mapping, string, error) {
		source := pack + "/" + locale + ".lang"

		path, ok := packs.LocaleFile(srcDir, pack, locale)
		if !ok {
			return nil, source, nil
		}

		var (
			m   *langmap.Mapping
			err error
		)
		if strings.HasSuffix(path, ".json") {
			m, err = jsonfile.ParseFile(path)
		} else {
			m, err = langfile.ParseFile(path)
		}
		return m, source, err
	}
}

// DefaultSource returns the fallback provenance for keys absent from
// every scanned pack: the first pack's file for the locale. Keys added
// only in the worksheet by a translator land there.
func DefaultSource(order []string, locale string) string {
	if len(order) == 0 {
		return locale + ".lang"
	}
	return order[0] + "/" + locale + ".lang"
}

// ---------------------------------------------------------------------------
// Partitioning
// ---------------------------------------------------------------------------

// Partition groups a flat mapping's entries by credited source, keeping
// both the order sources were first encountered and, within each group,
// the order keys were first encountered.
type Partition struct {
	sources []string
	groups  map[string]*langmap.Mapping
}

// PartitionBySource splits flat by provenance. Each key is credited via
// the index, falling back to defaultSource for unknown keys; groups are
// created on first use.
func PartitionBySource(flat *langmap.Mapping, idx Index, defaultSource string) *Partition {
	p := &Partition{groups: make(map[string]*langmap.Mapping)}

	for _, key := range flat.Keys() {
		source, ok := idx[key]
		if !ok {
			source = defaultSource
		}

		group, ok := p.groups[source]
		if !ok {
			group = langmap.New()
			p.groups[source] = group
			p.sources = append(p.sources, source)
		}

		value, _ := flat.Get(key)
		group.Add(key, value)
	}

	return p
}

// Sources returns the source identifiers in first-encounter order.
// The returned slice is a copy.
func (p *Partition) Sources() []string {
	sources := make([]string, len(p.sources))
	copy(sources, p.sources)
	return sources
}

// Get returns the group for a source, or nil if the source has no group.
func (p *Partition) Get(source string) *langmap.Mapping {
	return p.groups[source]
}

// Groups returns the partition as langfile groups, ready for grouped
// .lang serialization.
func (p *Partition) Groups() []langfile.Group {
	groups := make([]langfile.Group, 0, len(p.sources))
	for _, source := range p.sources {
		groups = append(groups, langfile.Group{Source: source, Entries: p.groups[source]})
	}
	return groups
}
