// Package merge folds per-pack locale mappings into one consolidated
// mapping along a precedence order.
//
// The rule is first-write-wins: the earliest pack in the order that
// defines a key determines its value; later packs' values for the same
// key are discarded silently. Packs without a file for the locale are
// skipped; packs whose file fails to decode are skipped with a warning
// so one broken file cannot abort the whole merge.
package merge

import (
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/bedrock-zh/langpack/jsonfile"
	"github.com/bedrock-zh/langpack/langfile"
	"github.com/bedrock-zh/langpack/langmap"
	"github.com/bedrock-zh/langpack/packs"
)

// Lookup loads one pack's mapping for the locale being merged. A nil
// mapping with nil error means the pack has no file for the locale.
type Lookup func(pack string) (*langmap.Mapping, error)

// Merge folds the packs in precedence order into a single mapping.
// The result preserves first-seen key order; key-sorted presentation is
// the codec's concern. For fixed inputs and a fixed order the output is
// byte-for-byte reproducible.
func Merge(order []string, lookup Lookup) *langmap.Mapping {
	merged := langmap.New()

	for _, pack := range order {
		m, err := lookup(pack)
		if err != nil {
			log.Warn().Err(err).Str("pack", pack).Msg("Skipping unreadable pack")
			continue
		}
		if m == nil {
			continue
		}

		for _, key := range m.Keys() {
			value, _ := m.Get(key)
			merged.Add(key, value)
		}
	}

	return merged
}

// DirLookup returns a filesystem-backed Lookup reading each pack's locale
// file under srcDir, preferring <locale>.json over <locale>.lang.
func DirLookup(srcDir, locale string) Lookup {
	return func(pack string) (*langmap.Mapping, error) {
		path, ok := packs.LocaleFile(srcDir, pack, locale)
		if !ok {
			return nil, nil
		}
		if strings.HasSuffix(path, ".json") {
			return jsonfile.ParseFile(path)
		}
		return langfile.ParseFile(path)
	}
}
