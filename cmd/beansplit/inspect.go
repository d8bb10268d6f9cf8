// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/beansplit/internal/extract"
	"github.com/pdiddy/beansplit/internal/split"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect FILE.pdf",
	Short: "Show the sections and entry codes found in a PDF",
	Long: `Inspect extracts one PDF and prints a YAML report of its pages, the
sections found (with byte ranges into the extracted text), and the entry
codes of each section. Nothing is written.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	addExtractionFlags(inspectCmd)
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := commandConfig(cmd)
	if err != nil {
		return err
	}
	if err := extract.CheckPath(args[0]); err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	ex, err := extract.New(cfg.ExtractionConfig)
	if err != nil {
		return err
	}
	p, err := split.New(cfg, ex)
	if err != nil {
		return err
	}
	report, err := p.InspectFile(args[0])
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return enc.Close()
}
