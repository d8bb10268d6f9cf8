// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/pdiddy/beansplit/internal/extract"
	"github.com/pdiddy/beansplit/internal/ledger"
	"github.com/pdiddy/beansplit/internal/split"
	"github.com/pdiddy/beansplit/pkg/types"
)

var splitCmd = &cobra.Command{
	Use:   "split [pdfs...]",
	Short: "Split quotation PDFs into common and premium section files",
	Long: `Split extracts each PDF, locates the common and premium section headers
(whitespace between the header characters is ignored), and writes
<stem>_common.txt and <stem>_premium.txt with a '==========' line before
every bean entry. Files are processed one at a time; a failing file is
reported and the batch continues.

With --ledger, inputs whose content has not changed since their last
successful split are skipped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSplit,
}

func init() {
	addSplitFlags(splitCmd)
	rootCmd.AddCommand(splitCmd)
}

func runSplit(cmd *cobra.Command, args []string) error {
	cfg, err := commandConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	s, err := openSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	result := s.pipeline.SplitBatch(ctx, args, os.Stdout)
	if err := s.finish(result); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
	if !result.ProducedOutput() {
		return fmt.Errorf("no section output: %d file(s) empty, %d failed", result.Empty, result.Failed)
	}
	return nil
}

// session is a pipeline plus the ledger run it records into, if any.
type session struct {
	pipeline *split.Pipeline
	ledger   *ledger.Ledger
	runID    string
}

// openSession builds the extractor and pipeline for cfg and, when a ledger
// path is configured, opens the ledger and begins a run.
func openSession(ctx context.Context, cfg types.SplitConfig) (*session, error) {
	ex, err := extract.New(cfg.ExtractionConfig)
	if err != nil {
		return nil, err
	}
	p, err := split.New(cfg, ex)
	if err != nil {
		return nil, err
	}
	s := &session{pipeline: p}
	if cfg.LedgerPath == "" {
		return s, nil
	}

	l, err := ledger.Open(cfg.LedgerPath)
	if err != nil {
		return nil, err
	}
	runID, err := l.BeginRun(ctx)
	if err != nil {
		l.Close()
		return nil, err
	}
	s.ledger, s.runID = l, runID
	s.pipeline.WithLedger(l, runID)
	return s, nil
}

// finish stores the batch counts on the ledger run.
func (s *session) finish(result types.BatchResult) error {
	if s.ledger == nil {
		return nil
	}
	return s.ledger.FinishRun(context.Background(), s.runID, result)
}

func (s *session) Close() {
	if s.ledger != nil {
		s.ledger.Close()
	}
}
