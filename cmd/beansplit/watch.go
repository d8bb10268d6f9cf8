// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pdiddy/beansplit/internal/watch"
	"github.com/pdiddy/beansplit/pkg/types"
)

var watchCmd = &cobra.Command{
	Use:   "watch DIR",
	Short: "Split PDFs as they arrive in an inbox directory",
	Long: `Watch splits every PDF created or rewritten in DIR, one file at a time,
until interrupted. A file is picked up once it has not changed for the
settle duration. Combine with --ledger so restarts and repeated saves do
not split unchanged files again.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	addSplitFlags(watchCmd)
	watchCmd.Flags().Duration("settle", watch.DefaultSettle, "quiet period before a new file is split")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := commandConfig(cmd)
	if err != nil {
		return err
	}
	settle, _ := cmd.Flags().GetDuration("settle")

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := openSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	var result types.BatchResult
	handle := func(ctx context.Context, path string) {
		res := s.pipeline.SplitFile(ctx, path, os.Stdout)
		result.Add(res.Status)
		if res.Err != nil {
			logger.Warn("split failed", "file", path, "error", res.Err)
		}
	}

	w, err := watch.New(args[0], settle, logger, handle)
	if err != nil {
		return err
	}
	err = w.Run(ctx)

	logger.Info("watch summary",
		"split", result.Split, "empty", result.Empty,
		"skipped", result.Skipped, "failed", result.Failed)
	if ferr := s.finish(result); ferr != nil {
		logger.Warn("finishing ledger run", "error", ferr)
	}
	return err
}
