// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/beansplit/pkg/types"
)

// splitFlagKeys maps command flags to their config keys.
var splitFlagKeys = map[string]string{
	"output-dir":  "split.output_dir",
	"backend":     "split.backend",
	"max-entries": "split.max_entries",
	"line-start":  "split.line_start",
	"normalize":   "split.normalize",
	"validate":    "split.validate",
	"ledger":      "split.ledger",
	"force":       "split.force",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("split.output_dir", ".")
	v.SetDefault("split.backend", string(types.BackendNative))
	v.SetDefault("split.validate", true)
}

// addExtractionFlags registers the flags every command that reads PDFs needs.
func addExtractionFlags(cmd *cobra.Command) {
	cmd.Flags().String("backend", string(types.BackendNative), "extraction backend: native, pdftotext, or container")
	cmd.Flags().Bool("normalize", false, "NFKC-normalize page text (full-width codes, ideographic spaces)")
	cmd.Flags().Bool("validate", true, "check the PDF page structure before extracting")
	cmd.Flags().Bool("line-start", false, "only treat codes at the start of a line as entries")
}

// addSplitFlags registers the extraction flags plus those that control output.
func addSplitFlags(cmd *cobra.Command) {
	addExtractionFlags(cmd)
	cmd.Flags().StringP("output-dir", "o", ".", "directory for <stem>_common.txt and <stem>_premium.txt")
	cmd.Flags().Int("max-entries", 0, "split sections with more entries into numbered chunk files (0 = never)")
	cmd.Flags().String("ledger", "", "SQLite ledger path; unchanged inputs are skipped")
	cmd.Flags().Bool("force", false, "split inputs even when the ledger reports them unchanged")
}

// bindFlags binds the flags cmd defines to their config keys. Called at run
// time so commands sharing a key do not overwrite each other's binding.
func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	for name, key := range splitFlagKeys {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding --%s: %w", name, err)
		}
	}
	return nil
}

// loadSplitConfig reads the split settings after flags are bound. Anchors
// come only from the config file.
func loadSplitConfig(v *viper.Viper) (types.SplitConfig, error) {
	cfg := types.SplitConfig{
		ExtractionConfig: types.ExtractionConfig{
			Backend:   types.ExtractionBackend(v.GetString("split.backend")),
			Validate:  v.GetBool("split.validate"),
			Normalize: v.GetBool("split.normalize"),
		},
		OutputDir:  v.GetString("split.output_dir"),
		MaxEntries: v.GetInt("split.max_entries"),
		LineStart:  v.GetBool("split.line_start"),
		LedgerPath: v.GetString("split.ledger"),
		Force:      v.GetBool("split.force"),
	}
	if cfg.MaxEntries < 0 {
		return cfg, fmt.Errorf("max-entries must not be negative, got %d", cfg.MaxEntries)
	}
	if v.IsSet("split.anchors") {
		if err := v.UnmarshalKey("split.anchors", &cfg.Anchors); err != nil {
			return cfg, fmt.Errorf("reading split.anchors: %w", err)
		}
	}
	return cfg, nil
}

// commandConfig binds cmd's flags and loads the split settings.
func commandConfig(cmd *cobra.Command) (types.SplitConfig, error) {
	v := viper.GetViper()
	if err := bindFlags(v, cmd); err != nil {
		return types.SplitConfig{}, err
	}
	return loadSplitConfig(v)
}
