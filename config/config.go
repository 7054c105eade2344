// Package config — .langpack.yaml project configuration.
//
// The configuration carries everything that varies between patch projects:
// the merge-order patterns, the distribution branches with their tree
// layout quirks, and the source/target locales. When no .langpack.yaml
// exists in the project root, built-in defaults matching the upstream
// Bedrock client layout are used.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// FileName is the default config file name.
const FileName = ".langpack.yaml"

// ---------------------------------------------------------------------------
// YAML schema
// ---------------------------------------------------------------------------

// Branch describes one distribution branch of the extracted pack tree.
type Branch struct {
	// Name is the branch label used in output paths (release, beta, preview).
	Name string `yaml:"name"`
	// Path is the extracted tree for this branch, relative to the project root.
	// Branches may share a tree (beta and preview both read extracted/development).
	Path string `yaml:"path"`
	// Exclude lists subdirectories dropped from this branch's resolution
	// entirely (preview drops beta, beta drops previewapp).
	Exclude []string `yaml:"exclude,omitempty"`
	// Nested names a subtree whose packs are resolved separately and
	// appended after all top-level packs, prefixed with "<nested>/".
	Nested string `yaml:"nested,omitempty"`
}

// Config is the top-level .langpack.yaml structure.
type Config struct {
	// SourceLang is the base locale (default en_US).
	SourceLang string `yaml:"source_lang,omitempty"`
	// TargetLangs are the translation locales (default zh_CN, zh_TW).
	TargetLangs []string `yaml:"target_langs,omitempty"`
	// MergeOrder is the pack precedence pattern list; '*' is a wildcard.
	MergeOrder []string `yaml:"merge_order,omitempty"`
	// Branches are the distribution branches to process, in order.
	Branches []Branch `yaml:"branches,omitempty"`

	// MergedDir receives merged/<branch>/<locale>.json output.
	MergedDir string `yaml:"merged_dir,omitempty"`
	// SourcesDir receives Crowdin source artifacts.
	SourcesDir string `yaml:"sources_dir,omitempty"`
	// PatchedDir receives re-partitioned per-pack .lang output.
	PatchedDir string `yaml:"patched_dir,omitempty"`
}

// Default returns the built-in configuration matching the upstream
// Bedrock client pack layout.
func Default() *Config {
	return &Config{
		SourceLang:  "en_US",
		TargetLangs: []string{"zh_CN", "zh_TW"},
		MergeOrder: []string{
			"vanilla",
			"experimental_*",
			"oreui",
			"persona",
			"editor",
			"chemistry",
			"education",
			"education_demo",
		},
		Branches: []Branch{
			{Name: "release", Path: "extracted/release"},
			{Name: "beta", Path: "extracted/development", Exclude: []string{"previewapp"}, Nested: "beta"},
			{Name: "preview", Path: "extracted/development", Exclude: []string{"beta"}, Nested: "previewapp"},
		},
		MergedDir:  "merged",
		SourcesDir: "sources",
		PatchedDir: "patched",
	}
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Load reads .langpack.yaml from rootDir, falling back to Default when the
// file is absent. A .env file in rootDir and LANGPACK_* environment
// variables override the directory layout values.
func Load(rootDir string) (*Config, error) {
	cfg := Default()

	path := filepath.Join(rootDir, FileName)
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// No config file — defaults apply.
	case err != nil:
		return nil, fmt.Errorf("reading %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		applyDefaults(cfg)
		if err := validate(cfg, path); err != nil {
			return nil, err
		}
	}

	if err := godotenv.Load(filepath.Join(rootDir, ".env")); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("Ignoring unreadable .env file")
	}
	applyEnv(cfg)

	return cfg, nil
}

// applyDefaults fills fields a partial .langpack.yaml left unset.
func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.SourceLang == "" {
		cfg.SourceLang = def.SourceLang
	}
	if len(cfg.TargetLangs) == 0 {
		cfg.TargetLangs = def.TargetLangs
	}
	if len(cfg.MergeOrder) == 0 {
		cfg.MergeOrder = def.MergeOrder
	}
	if len(cfg.Branches) == 0 {
		cfg.Branches = def.Branches
	}
	if cfg.MergedDir == "" {
		cfg.MergedDir = def.MergedDir
	}
	if cfg.SourcesDir == "" {
		cfg.SourcesDir = def.SourcesDir
	}
	if cfg.PatchedDir == "" {
		cfg.PatchedDir = def.PatchedDir
	}
}

func validate(cfg *Config, path string) error {
	seen := make(map[string]bool)
	for i, b := range cfg.Branches {
		if b.Name == "" {
			return fmt.Errorf("%s: branch #%d has no name", path, i+1)
		}
		if b.Path == "" {
			return fmt.Errorf("%s: branch %q has no path", path, b.Name)
		}
		if seen[b.Name] {
			return fmt.Errorf("%s: duplicate branch name %q", path, b.Name)
		}
		seen[b.Name] = true
	}
	return nil
}

// applyEnv overrides directory layout values from the environment.
func applyEnv(cfg *Config) {
	if v := os.Getenv("LANGPACK_SOURCE_LANG"); v != "" {
		cfg.SourceLang = v
	}
	if v := os.Getenv("LANGPACK_MERGED_DIR"); v != "" {
		cfg.MergedDir = v
	}
	if v := os.Getenv("LANGPACK_SOURCES_DIR"); v != "" {
		cfg.SourcesDir = v
	}
	if v := os.Getenv("LANGPACK_PATCHED_DIR"); v != "" {
		cfg.PatchedDir = v
	}
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

// Locales returns the source locale followed by all target locales.
func (c *Config) Locales() []string {
	locales := make([]string, 0, 1+len(c.TargetLangs))
	locales = append(locales, c.SourceLang)
	return append(locales, c.TargetLangs...)
}

// Branch returns the named branch, or false if it is not configured.
func (c *Config) Branch(name string) (Branch, bool) {
	for _, b := range c.Branches {
		if b.Name == name {
			return b, true
		}
	}
	return Branch{}, false
}
