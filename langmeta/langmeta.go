// Package langmeta provides a registry of the locales the Bedrock client
// ships language packs for (native names and emoji flags), used by the
// CLI UI.
package langmeta

import (
	"sort"
	"strings"
)

// Meta describes locale display metadata.
type Meta struct {
	Name string
	Flag string
}

// Registry contains the locales present in the client's shipped packs,
// keyed by the underscore codes the pack files use (zh_CN.lang).
// Variant spellings are resolved in Resolve() via normalization and
// base-language fallback.
var Registry = map[string]Meta{
	"bg_BG": {Name: "Български", Flag: "🇧🇬"},
	"cs_CZ": {Name: "Čeština", Flag: "🇨🇿"},
	"da_DK": {Name: "Dansk", Flag: "🇩🇰"},
	"de_DE": {Name: "Deutsch", Flag: "🇩🇪"},
	"el_GR": {Name: "Ελληνικά", Flag: "🇬🇷"},
	"en_GB": {Name: "English (UK)", Flag: "🇬🇧"},
	"en_US": {Name: "English (US)", Flag: "🇺🇸"},
	"es_ES": {Name: "Español (España)", Flag: "🇪🇸"},
	"es_MX": {Name: "Español (México)", Flag: "🇲🇽"},
	"fi_FI": {Name: "Suomi", Flag: "🇫🇮"},
	"fr_CA": {Name: "Français (Canada)", Flag: "🇨🇦"},
	"fr_FR": {Name: "Français (France)", Flag: "🇫🇷"},
	"hu_HU": {Name: "Magyar", Flag: "🇭🇺"},
	"id_ID": {Name: "Bahasa Indonesia", Flag: "🇮🇩"},
	"it_IT": {Name: "Italiano", Flag: "🇮🇹"},
	"ja_JP": {Name: "日本語", Flag: "🇯🇵"},
	"ko_KR": {Name: "한국어", Flag: "🇰🇷"},
	"nb_NO": {Name: "Norsk bokmål", Flag: "🇳🇴"},
	"nl_NL": {Name: "Nederlands", Flag: "🇳🇱"},
	"pl_PL": {Name: "Polski", Flag: "🇵🇱"},
	"pt_BR": {Name: "Português (Brasil)", Flag: "🇧🇷"},
	"pt_PT": {Name: "Português (Portugal)", Flag: "🇵🇹"},
	"ru_RU": {Name: "Русский", Flag: "🇷🇺"},
	"sk_SK": {Name: "Slovenčina", Flag: "🇸🇰"},
	"sv_SE": {Name: "Svenska", Flag: "🇸🇪"},
	"tr_TR": {Name: "Türkçe", Flag: "🇹🇷"},
	"uk_UA": {Name: "Українська", Flag: "🇺🇦"},
	"zh_CN": {Name: "简体中文", Flag: "🇨🇳"},
	"zh_TW": {Name: "繁體中文", Flag: "🇹🇼"},
}

// canonicalize folds variant spellings onto the pack-file form:
// underscore separator, lowercase language, uppercase region.
func canonicalize(locale string) string {
	normalized := strings.ReplaceAll(strings.TrimSpace(locale), "-", "_")
	if normalized == "" {
		return ""
	}
	parts := strings.Split(normalized, "_")
	parts[0] = strings.ToLower(parts[0])
	if len(parts) >= 2 {
		parts[1] = strings.ToUpper(parts[1])
	}
	return strings.Join(parts, "_")
}

// Resolve returns best-effort display metadata for a locale code,
// accepting variants like zh-CN and ZH_cn and falling back to any
// registered locale of the same base language (pt -> pt_BR or pt_PT,
// whichever the registry yields). Unknown codes echo back as the name.
func Resolve(locale string) Meta {
	if m, ok := Registry[locale]; ok {
		return m
	}
	normalized := canonicalize(locale)
	if m, ok := Registry[normalized]; ok {
		return m
	}
	base := strings.SplitN(normalized, "_", 2)[0]
	if base != "" {
		// Doubled-region form first (de -> de_DE), then the first
		// registered variant in code order (zh -> zh_CN).
		if m, ok := Registry[base+"_"+strings.ToUpper(base)]; ok {
			return m
		}
		for _, code := range Codes() {
			if strings.HasPrefix(code, base+"_") {
				return Registry[code]
			}
		}
	}
	return Meta{Name: locale, Flag: ""}
}

// Known reports whether the locale (after normalization) is one the
// client ships packs for.
func Known(locale string) bool {
	if _, ok := Registry[locale]; ok {
		return true
	}
	_, ok := Registry[canonicalize(locale)]
	return ok
}

// Codes returns the registered locale codes in sorted order.
func Codes() []string {
	codes := make([]string, 0, len(Registry))
	for code := range Registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
