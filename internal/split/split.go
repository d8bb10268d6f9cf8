// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package split runs quotation PDFs through extraction, section
// segmentation, and entry delimiting, and writes one text file per
// section: <stem>_common.txt and <stem>_premium.txt.
package split

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/pdiddy/beansplit/internal/anchor"
	"github.com/pdiddy/beansplit/internal/delimit"
	"github.com/pdiddy/beansplit/internal/extract"
	"github.com/pdiddy/beansplit/internal/segment"
	"github.com/pdiddy/beansplit/pkg/types"
)

// Ledger remembers which inputs were already split and the files written
// for them. *ledger.Ledger implements it.
type Ledger interface {
	Unchanged(ctx context.Context, path, hash string) (bool, error)
	Outputs(ctx context.Context, inputPath string) ([]types.OutputFile, error)
	Record(ctx context.Context, runID string, res types.FileResult) error
}

// Pipeline splits PDFs one at a time. The anchors and code patterns are
// compiled once in New and shared by every file of the run.
type Pipeline struct {
	cfg       types.SplitConfig
	extractor extract.Extractor
	segmenter *segment.Segmenter
	delimiter *delimit.Delimiter

	ledger Ledger
	runID  string
}

// New builds a pipeline from cfg. Anchors default to the common and
// premium quotation headers.
func New(cfg types.SplitConfig, ex extract.Extractor) (*Pipeline, error) {
	anchorCfgs := cfg.Anchors
	if len(anchorCfgs) == 0 {
		anchorCfgs = types.DefaultAnchors()
	}
	anchors, err := anchor.FromConfig(anchorCfgs)
	if err != nil {
		return nil, err
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}
	if abs, err := filepath.Abs(cfg.OutputDir); err == nil {
		cfg.OutputDir = abs
	}
	return &Pipeline{
		cfg:       cfg,
		extractor: ex,
		segmenter: segment.New(anchors),
		delimiter: delimit.New(delimit.DefaultPatterns(), cfg.LineStart),
	}, nil
}

// WithLedger makes the pipeline skip unchanged inputs and record every
// outcome under runID.
func (p *Pipeline) WithLedger(l Ledger, runID string) *Pipeline {
	p.ledger = l
	p.runID = runID
	return p
}

// SplitFile processes one PDF and prints a status line to w. Failures are
// reported in the result, never returned, so a batch can continue.
func (p *Pipeline) SplitFile(ctx context.Context, path string, w io.Writer) types.FileResult {
	res := types.FileResult{Path: path}
	if abs, err := filepath.Abs(path); err == nil {
		res.Path = abs
	}
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	res.Brand, res.Period, _ = ParseStem(stem)

	if err := extract.CheckPath(path); err != nil {
		return p.fail(ctx, w, res, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return p.fail(ctx, w, res, fmt.Errorf("reading %s: %w", path, err))
	}
	res.ContentHash = hashContent(data)

	var prior []types.OutputFile
	if p.ledger != nil {
		prior, err = p.ledger.Outputs(ctx, res.Path)
		if err != nil {
			fmt.Fprintf(w, "warning: ledger lookup for %s failed: %v\n", stem, err)
		} else if !p.cfg.Force && p.unchanged(ctx, w, stem, res.Path, res.ContentHash, prior) {
			fmt.Fprintf(w, "skipped: %s (unchanged)\n", stem)
			res.Status = types.SplitSkipped
			res.Outputs = prior
			return res
		}
	}

	doc, err := p.extractor.Extract(path)
	if err != nil {
		return p.fail(ctx, w, res, err)
	}

	for _, sec := range p.segmenter.Segment(doc.Text()) {
		if sec.Blank() {
			continue
		}
		outs, err := p.writeSection(stem, sec)
		res.Outputs = append(res.Outputs, outs...)
		if err != nil {
			return p.fail(ctx, w, res, err)
		}
	}

	p.removeStale(w, prior, res.Outputs)

	if len(res.Outputs) == 0 {
		res.Status = types.SplitEmpty
		fmt.Fprintf(w, "empty:   %s (no sections found)\n", stem)
	} else {
		res.Status = types.SplitDone
		fmt.Fprintf(w, "split:   %s (%s)\n", stem, describe(res.Outputs))
	}
	p.record(ctx, w, res)
	return res
}

// SplitBatch processes paths in order, printing one status line per file
// and a summary.
func (p *Pipeline) SplitBatch(ctx context.Context, paths []string, w io.Writer) types.BatchResult {
	var result types.BatchResult
	for _, path := range paths {
		if ctx.Err() != nil {
			fmt.Fprintf(w, "interrupted: %d file(s) not processed\n", len(paths)-result.Total())
			break
		}
		result.Add(p.SplitFile(ctx, path, w).Status)
	}
	fmt.Fprintf(w, "\nBatch summary: %d split, %d empty, %d skipped, %d failed (total: %d)\n",
		result.Split, result.Empty, result.Skipped, result.Failed, result.Total())
	return result
}

// writeSection writes the delimited text of sec, chunked when it holds
// more than MaxEntries entries.
func (p *Pipeline) writeSection(stem string, sec types.Section) ([]types.OutputFile, error) {
	if err := os.MkdirAll(p.cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	chunks := p.delimiter.Chunk(sec.Text, p.cfg.MaxEntries)
	outs := make([]types.OutputFile, 0, len(chunks))
	for i, text := range chunks {
		out := types.OutputFile{Section: sec.Kind, Entries: p.delimiter.Count(text)}
		name := fmt.Sprintf("%s_%s.txt", stem, sec.Kind)
		if len(chunks) > 1 {
			out.Chunk = i + 1
			name = fmt.Sprintf("%s_%s_%d.txt", stem, sec.Kind, out.Chunk)
		}
		out.Path = filepath.Join(p.cfg.OutputDir, name)

		if err := os.WriteFile(out.Path, []byte(text), 0o644); err != nil {
			return outs, fmt.Errorf("writing %s: %w", name, err)
		}
		outs = append(outs, out)
	}
	return outs, nil
}

// unchanged reports whether the ledger holds a successful split of the
// same content whose files all still exist in the current output directory.
func (p *Pipeline) unchanged(ctx context.Context, w io.Writer, stem, path, hash string, prior []types.OutputFile) bool {
	same, err := p.ledger.Unchanged(ctx, path, hash)
	if err != nil {
		fmt.Fprintf(w, "warning: ledger lookup for %s failed: %v\n", stem, err)
		return false
	}
	if !same || len(prior) == 0 {
		return false
	}
	for _, o := range prior {
		if filepath.Dir(o.Path) != p.cfg.OutputDir {
			return false
		}
		if info, err := os.Stat(o.Path); err != nil || !info.Mode().IsRegular() {
			return false
		}
	}
	return true
}

// removeStale deletes files recorded for an earlier split of the same input
// in the current output directory that this split did not write again, such
// as chunk files left over after the chunk count changed.
func (p *Pipeline) removeStale(w io.Writer, prior, written []types.OutputFile) {
	keep := make(map[string]bool, len(written))
	for _, o := range written {
		keep[o.Path] = true
	}
	for _, o := range prior {
		if keep[o.Path] || filepath.Dir(o.Path) != p.cfg.OutputDir {
			continue
		}
		if err := os.Remove(o.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(w, "warning: removing stale %s: %v\n", filepath.Base(o.Path), err)
		}
	}
}

func (p *Pipeline) fail(ctx context.Context, w io.Writer, res types.FileResult, err error) types.FileResult {
	res.Status = types.SplitFailed
	res.Err = err
	stem := strings.TrimSuffix(filepath.Base(res.Path), filepath.Ext(res.Path))
	if errors.Is(err, extract.ErrNotPDF) {
		fmt.Fprintf(w, "failed:  %s (not a PDF file)\n", stem)
		return res
	}
	fmt.Fprintf(w, "failed:  %s (%v)\n", stem, err)
	p.record(ctx, w, res)
	return res
}

func (p *Pipeline) record(ctx context.Context, w io.Writer, res types.FileResult) {
	if p.ledger == nil || res.ContentHash == "" {
		return
	}
	if err := p.ledger.Record(ctx, p.runID, res); err != nil {
		fmt.Fprintf(w, "warning: ledger write for %s failed: %v\n", filepath.Base(res.Path), err)
	}
}

// describe summarizes outputs per section, e.g. "common: 2 entries,
// premium: 1 entry".
func describe(outs []types.OutputFile) string {
	var kinds []types.SectionKind
	entries := make(map[types.SectionKind]int)
	for _, o := range outs {
		if _, ok := entries[o.Section]; !ok {
			kinds = append(kinds, o.Section)
		}
		entries[o.Section] += o.Entries
	}
	parts := make([]string, len(kinds))
	for i, k := range kinds {
		noun := "entries"
		if entries[k] == 1 {
			noun = "entry"
		}
		parts[i] = fmt.Sprintf("%s: %d %s", k, entries[k], noun)
	}
	return strings.Join(parts, ", ")
}

func hashContent(data []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}

// ParseStem splits a quotation file stem of the form <Brand>_<YYYYMM>.
func ParseStem(stem string) (brand, period string, ok bool) {
	brand, period, found := strings.Cut(stem, "_")
	if !found || brand == "" || len(period) != 6 {
		return "", "", false
	}
	for _, c := range period {
		if c < '0' || c > '9' {
			return "", "", false
		}
	}
	return brand, period, true
}
