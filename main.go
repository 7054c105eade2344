// langpack — Bedrock localization pack toolkit: merges extracted client
// language packs, builds translator worksheets, and re-partitions edited
// translations for re-packaging.
package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/bedrock-zh/langpack/config"
	"github.com/bedrock-zh/langpack/i18n"
	"github.com/bedrock-zh/langpack/jsonfile"
	"github.com/bedrock-zh/langpack/langfile"
	"github.com/bedrock-zh/langpack/langmap"
	"github.com/bedrock-zh/langpack/langmeta"
	"github.com/bedrock-zh/langpack/merge"
	"github.com/bedrock-zh/langpack/packs"
	"github.com/bedrock-zh/langpack/provenance"
	"github.com/bedrock-zh/langpack/tsvfile"
	"github.com/bedrock-zh/langpack/worksheet"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// ---------------------------------------------------------------------------
// Global flag
// ---------------------------------------------------------------------------

var rootDir string

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "langpack",
		Short: "Bedrock localization pack toolkit",
		Long: `langpack — Bedrock localization pack toolkit.

Consumes an extracted client pack tree (one directory per distribution
branch, one subdirectory per resource pack, <locale>.lang / <locale>.json
files inside) and drives the translation round trip:

  normalize   Clean extracted .lang files and emit sibling .json files
  merge       Merge per-pack files into merged/<branch>/<locale>.json
  sources     Build Crowdin source artifacts (JSON or TSV worksheet)
  patch       Re-partition edited worksheet translations into per-pack files
  convert     Convert a single file between .lang, .json, and Crowdin formats

Pack precedence, branch layout, and locales come from .langpack.yaml in the
project root; without one, the upstream client defaults apply.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global persistent flag — inherited by all subcommands
	root.PersistentFlags().StringVar(&rootDir, "root", ".", "Project root directory")

	root.AddCommand(
		newConvertCmd(),
		newNormalizeCmd(),
		newMergeCmd(),
		newSourcesCmd(),
		newPatchCmd(),
		newLocalesCmd(),
		newVersionCmd(),
	)

	return root
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	i18n.Init("")

	if err := newRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}

// ---------------------------------------------------------------------------
// locales (show configured locales)
// ---------------------------------------------------------------------------

func newLocalesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "locales",
		Short: "Show the configured source and target locales",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(rootDir)
			if err != nil {
				return err
			}
			for _, line := range localeLines(cfg) {
				fmt.Println(line)
			}
			return nil
		},
	}
}

// localeLines renders one display line per configured locale, marking the
// source locale and flagging codes the client ships no packs for.
func localeLines(cfg *config.Config) []string {
	lines := make([]string, 0, 1+len(cfg.TargetLangs))
	for i, locale := range cfg.Locales() {
		meta := langmeta.Resolve(locale)
		line := fmt.Sprintf("%s %s  %s", meta.Flag, locale, meta.Name)
		if i == 0 {
			line += "  (" + i18n.T("source") + ")"
		}
		if !langmeta.Known(locale) {
			line += "  (" + i18n.T("not shipped by the client") + ")"
		}
		lines = append(lines, line)
	}
	return lines
}

// ---------------------------------------------------------------------------
// version (display version information)
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display version, commit hash, and build date.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("langpack version %s\n", version)
			fmt.Printf("  commit:    %s\n", commit)
			fmt.Printf("  built:     %s\n", date)
		},
	}
}

// ---------------------------------------------------------------------------
// convert (single-file format conversion)
// ---------------------------------------------------------------------------

func newConvertCmd() *cobra.Command {
	var crowdinSource bool
	var plainJSON bool

	cmd := &cobra.Command{
		Use:   "convert <input> [output]",
		Short: "Convert a single file between .lang, .json, and Crowdin formats",
		Long: `Convert one language file based on its extension.

.lang input is converted to Crowdin source JSON (use --json for a plain
key-sorted JSON mapping instead). .json input is converted to .lang
(use --crowdin-source to produce Crowdin source JSON instead).`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := ""
			if len(args) > 1 {
				output = args[1]
			}
			return runConvert(args[0], output, crowdinSource, plainJSON)
		},
	}

	cmd.Flags().BoolVar(&crowdinSource, "crowdin-source", false, "Produce Crowdin source JSON from .json input")
	cmd.Flags().BoolVar(&plainJSON, "json", false, "Produce plain key-sorted JSON from .lang input")

	return cmd
}

func runConvert(input, output string, crowdinSource, plainJSON bool) error {
	switch strings.ToLower(filepath.Ext(input)) {
	case ".lang":
		m, err := langfile.ParseFile(input)
		if err != nil {
			return err
		}

		if plainJSON {
			if output == "" {
				output = withSuffix(input, ".json")
			}
			if err := jsonfile.WriteFile(output, m, true); err != nil {
				return err
			}
			log.Info().Msgf(i18n.T("Converted %s to %s"), input, output)
			return nil
		}

		if output == "" {
			output = crowdinPath(input)
		}
		if err := jsonfile.WriteSourceFile(output, crowdinize(m)); err != nil {
			return err
		}
		log.Info().Msgf(i18n.T("Converted %s to Crowdin source format: %s"), input, output)
		return nil

	case ".json":
		m, err := jsonfile.ParseFile(input)
		if err != nil {
			return err
		}

		if crowdinSource {
			if output == "" {
				output = crowdinPath(input)
			}
			if err := jsonfile.WriteSourceFile(output, crowdinize(m)); err != nil {
				return err
			}
			log.Info().Msgf(i18n.T("Converted %s to Crowdin source format: %s"), input, output)
			return nil
		}

		if output == "" {
			output = withSuffix(input, ".lang")
		}
		if err := langfile.WriteFile(output, m); err != nil {
			return err
		}
		log.Info().Msgf(i18n.T("Converted %s to %s"), input, output)
		return nil

	default:
		return fmt.Errorf("unsupported file extension %q (supported: .lang, .json)", filepath.Ext(input))
	}
}

// crowdinize wraps a plain mapping as a Crowdin source mapping with empty
// context, preserving key order.
func crowdinize(m *langmap.Mapping) *jsonfile.SourceMapping {
	sm := jsonfile.NewSourceMapping()
	for _, key := range m.Keys() {
		text, _ := m.Get(key)
		sm.Add(key, jsonfile.SourceString{Text: text})
	}
	return sm
}

// crowdinPath derives the default Crowdin output path: en_US.lang ->
// en_US.crowdin.json.
func crowdinPath(input string) string {
	return withSuffix(input, ".crowdin.json")
}

func withSuffix(path, suffix string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + suffix
}

// ---------------------------------------------------------------------------
// normalize (clean extracted trees in place)
// ---------------------------------------------------------------------------

func newNormalizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize",
		Short: "Clean extracted .lang files and emit sibling .json files",
		Long: `Walk every configured branch tree, clean each .lang file in place
(BOM and line-ending normalization, blank-line and duplicate-key removal),
and write the parsed mapping as a sibling .json file.

Files that are empty after cleaning are left untouched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNormalize()
		},
	}
}

func runNormalize() error {
	cfg, err := config.Load(rootDir)
	if err != nil {
		return err
	}

	cleaned := 0
	for _, dir := range branchTrees(cfg) {
		srcDir := filepath.Join(rootDir, dir)
		if !dirExists(srcDir) {
			log.Warn().Msgf(i18n.T("Source directory does not exist: %s"), srcDir)
			continue
		}

		err := filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() || !strings.HasSuffix(path, ".lang") {
				return err
			}
			if err := normalizeLangFile(path); err != nil {
				return err
			}
			cleaned++
			return nil
		})
		if err != nil {
			return err
		}
	}

	log.Info().Msgf(i18n.N("Normalized %d file", "Normalized %d files", cleaned), cleaned)
	return nil
}

// normalizeLangFile cleans one .lang file in place and writes the parsed
// mapping as a sibling .json file. Files empty after cleaning are skipped.
func normalizeLangFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	content := langfile.Clean(string(data))
	if content == "" {
		return nil
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	m := langfile.Parse(content)
	jsonPath := withSuffix(path, ".json")
	if err := jsonfile.WriteFile(jsonPath, m, false); err != nil {
		return err
	}

	log.Debug().Msgf(i18n.T("Normalized %s"), path)
	return nil
}

// branchTrees returns the unique branch tree paths in configuration order
// (beta and preview share extracted/development).
func branchTrees(cfg *config.Config) []string {
	seen := make(map[string]bool)
	var dirs []string
	for _, b := range cfg.Branches {
		if !seen[b.Path] {
			seen[b.Path] = true
			dirs = append(dirs, b.Path)
		}
	}
	return dirs
}

// ---------------------------------------------------------------------------
// merge (fold per-pack files into consolidated per-locale mappings)
// ---------------------------------------------------------------------------

func newMergeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "merge",
		Short: "Merge per-pack language files into consolidated per-locale files",
		Long: `For every configured branch and locale, resolve the pack precedence
order and fold the per-pack files into merged/<branch>/<locale>.json with
key-sorted output. The earliest pack in the order wins key collisions.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMergeAll()
		},
	}
}

func runMergeAll() error {
	cfg, err := config.Load(rootDir)
	if err != nil {
		return err
	}

	for _, branch := range cfg.Branches {
		if err := mergeBranch(cfg, branch); err != nil {
			return err
		}
	}
	return nil
}

func mergeBranch(cfg *config.Config, branch config.Branch) error {
	srcDir := filepath.Join(rootDir, branch.Path)
	if !dirExists(srcDir) {
		log.Warn().Msgf(i18n.T("Source directory does not exist: %s"), srcDir)
		return nil
	}

	order, err := packs.BranchOrder(srcDir, cfg.MergeOrder, branch.Exclude, branch.Nested)
	if err != nil {
		return err
	}

	outDir := filepath.Join(rootDir, cfg.MergedDir, branch.Name)
	for _, locale := range cfg.Locales() {
		contributing := 0
		for _, pack := range order {
			if _, ok := packs.LocaleFile(srcDir, pack, locale); ok {
				contributing++
			}
		}
		if contributing == 0 {
			log.Warn().Msgf(i18n.T("No packs found for %s in %s"), locale, branch.Name)
			continue
		}

		merged := merge.Merge(order, merge.DirLookup(srcDir, locale))

		outFile := filepath.Join(outDir, locale+".json")
		if err := jsonfile.WriteFile(outFile, merged, true); err != nil {
			return err
		}

		log.Info().Msgf(i18n.T("Merged %d files to %s"), contributing, outFile)
		log.Info().Int("keys", merged.Len()).Str("branch", branch.Name).Str("locale", locale).Msg("Merge complete")
	}

	return nil
}

// ---------------------------------------------------------------------------
// sources (Crowdin source artifacts from merged output)
// ---------------------------------------------------------------------------

func newSourcesCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "sources",
		Short: "Build Crowdin source artifacts from merged output",
		Long: `Combine each branch's merged source-locale mapping with the merged
target-locale mappings into a translator artifact under sources/<branch>/.

With --format tsv (the default) the artifact is a tab-delimited worksheet
with Key, Source string, Context, and Translation columns. With
--format json it is a Crowdin source JSON whose values carry a
crowdinContext field. Both keep the merged file's key order; Crowdin
artifacts are intentionally not key-sorted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "tsv" && format != "json" {
				return fmt.Errorf("invalid --format %q (valid: tsv, json)", format)
			}
			return runSources(format)
		},
	}

	cmd.Flags().StringVar(&format, "format", "tsv", "Output format: tsv or json")

	return cmd
}

func runSources(format string) error {
	cfg, err := config.Load(rootDir)
	if err != nil {
		return err
	}

	for _, branch := range cfg.Branches {
		if err := buildBranchSources(cfg, branch, format); err != nil {
			return err
		}
	}
	return nil
}

func buildBranchSources(cfg *config.Config, branch config.Branch, format string) error {
	srcDir := filepath.Join(rootDir, cfg.MergedDir, branch.Name)
	if !dirExists(srcDir) {
		log.Warn().Msgf(i18n.T("Source directory does not exist: %s"), srcDir)
		return nil
	}

	base, err := jsonfile.ParseFile(filepath.Join(srcDir, cfg.SourceLang+".json"))
	if err != nil {
		log.Warn().Err(err).Str("branch", branch.Name).Msg("Skipping branch without merged source locale")
		return nil
	}

	var secondaries []worksheet.Secondary
	for _, locale := range cfg.TargetLangs {
		m, err := jsonfile.ParseFile(filepath.Join(srcDir, locale+".json"))
		if err != nil {
			log.Warn().Err(err).Str("locale", locale).Msg("Skipping unreadable merged locale")
			continue
		}
		label := locale
		if format == "json" {
			// Crowdin JSON context lines historically name the file.
			label = locale + ".json"
		}
		secondaries = append(secondaries, worksheet.Secondary{Label: label, Mapping: m})
	}

	outDir := filepath.Join(rootDir, cfg.SourcesDir, branch.Name)

	if format == "json" {
		outFile := filepath.Join(outDir, cfg.SourceLang+".json")
		sm := worksheet.SourceMapping(base, secondaries)
		if err := jsonfile.WriteSourceFile(outFile, sm); err != nil {
			return err
		}
		log.Info().Msgf(i18n.T("Wrote %s with %d entries"), outFile, sm.Len())
		return nil
	}

	outFile := filepath.Join(outDir, cfg.SourceLang+".tsv")
	rows := worksheet.Build(base, secondaries)
	if err := tsvfile.WriteFile(outFile, worksheet.Table(rows)); err != nil {
		return err
	}
	log.Info().Msgf(i18n.T("Wrote %s with %d entries"), outFile, len(rows))
	return nil
}

// ---------------------------------------------------------------------------
// patch (worksheet round trip)
// ---------------------------------------------------------------------------

func newPatchCmd() *cobra.Command {
	var branchName string
	var locale string
	var applyPath string

	cmd := &cobra.Command{
		Use:   "patch <worksheet.tsv> [output-dir]",
		Short: "Re-partition edited worksheet translations into per-pack files",
		Long: `Extract the Translation column from an edited worksheet, credit every
key to its originating pack file via the branch's precedence order, and
write the translations back out grouped by source: one <pack>/<locale>.lang
file per contributing pack plus a single grouped <locale>.lang overview.
Output defaults to patched/<branch>/.

With --apply <flat.json> the worksheet is instead updated in place (or to
[output-dir] interpreted as a file path): the flat mapping is written into
the Translation column of matching rows and all other rows are left alone.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := ""
			if len(args) > 1 {
				output = args[1]
			}
			if applyPath != "" {
				return runApply(args[0], applyPath, output)
			}
			return runPatch(args[0], output, branchName, locale)
		},
	}

	cmd.Flags().StringVar(&branchName, "branch", "release", "Branch whose precedence order credits provenance")
	cmd.Flags().StringVar(&locale, "lang", "", "Worksheet locale (default: first target language)")
	cmd.Flags().StringVar(&applyPath, "apply", "", "Apply a flat JSON mapping to the worksheet instead of patching")

	return cmd
}

func runApply(worksheetPath, applyPath, output string) error {
	table, err := tsvfile.ParseFile(worksheetPath)
	if err != nil {
		return err
	}

	updates, err := jsonfile.ParseFile(applyPath)
	if err != nil {
		return err
	}

	updated, err := worksheet.ApplyTranslations(table, updates)
	if err != nil {
		return err
	}

	if output == "" {
		output = worksheetPath
	}
	if err := tsvfile.WriteFile(output, updated); err != nil {
		return err
	}

	log.Info().Msgf(i18n.T("Applied %d translations to %s"), updates.Len(), output)
	return nil
}

func runPatch(worksheetPath, outDir, branchName, locale string) error {
	cfg, err := config.Load(rootDir)
	if err != nil {
		return err
	}

	branch, ok := cfg.Branch(branchName)
	if !ok {
		return fmt.Errorf("unknown branch %q", branchName)
	}
	if locale == "" {
		if len(cfg.TargetLangs) == 0 {
			return fmt.Errorf("no target languages configured")
		}
		locale = cfg.TargetLangs[0]
	}
	if outDir == "" {
		outDir = filepath.Join(rootDir, cfg.PatchedDir, branch.Name)
	}

	table, err := tsvfile.ParseFile(worksheetPath)
	if err != nil {
		return err
	}
	flat, err := worksheet.ExtractTranslations(table)
	if err != nil {
		return err
	}

	srcDir := filepath.Join(rootDir, branch.Path)
	order, err := packs.BranchOrder(srcDir, cfg.MergeOrder, branch.Exclude, branch.Nested)
	if err != nil {
		return err
	}

	index := provenance.BuildIndex(order, provenance.DirLookup(srcDir, locale))
	part := provenance.PartitionBySource(flat, index, provenance.DefaultSource(order, locale))

	for _, source := range part.Sources() {
		path := filepath.Join(outDir, filepath.FromSlash(source))
		if err := langfile.WriteFile(path, part.Get(source)); err != nil {
			return err
		}
	}

	grouped := langfile.SerializeGrouped(part.Groups())
	groupedPath := filepath.Join(outDir, locale+".lang")
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("mkdir %s: %w", outDir, err)
	}
	if err := os.WriteFile(groupedPath, []byte(grouped), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", groupedPath, err)
	}

	log.Info().Msgf(i18n.T("Patched %d keys into %d pack files"), flat.Len(), len(part.Sources()))
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
