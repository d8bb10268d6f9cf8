// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract turns quotation PDFs into per-page plain text with
// pluggable backends: a pure-Go reader, the host's pdftotext, or pdftotext
// inside a container.
package extract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"golang.org/x/text/unicode/norm"

	"github.com/pdiddy/beansplit/internal/container"
	"github.com/pdiddy/beansplit/pkg/types"
)

var (
	// ErrNotPDF is returned for paths that are not regular .pdf files.
	ErrNotPDF = errors.New("not a PDF file")

	// ErrUnknownBackend is returned by New for an unrecognized backend name.
	ErrUnknownBackend = errors.New("unknown extraction backend")
)

// Extractor reads a PDF and returns its page text in reading order. Any
// file handle is released before Extract returns. A page without text
// yields "" instead of an error; failing to open or parse the file is one
// document-level error.
type Extractor interface {
	Extract(pdfPath string) (types.Document, error)
}

// New builds the extractor selected by cfg, wrapped with page-count
// validation and NFKC normalization when enabled.
func New(cfg types.ExtractionConfig) (Extractor, error) {
	var (
		ex  Extractor
		err error
	)
	switch cfg.Backend {
	case types.BackendNative, "":
		ex = NewNativeExtractor()
	case types.BackendPdftotext:
		ex, err = NewPdftotextExtractor()
	case types.BackendContainer:
		var rt container.Runtime
		rt, err = container.DetectRuntime()
		if err == nil {
			ex, err = NewContainerExtractor(rt)
		}
	default:
		return nil, fmt.Errorf("%w: %q (want native, pdftotext, or container)", ErrUnknownBackend, cfg.Backend)
	}
	if err != nil {
		return nil, err
	}

	if cfg.Normalize {
		ex = Normalizing(ex)
	}
	if cfg.Validate {
		ex = Validating(ex)
	}
	return ex, nil
}

// CheckPath returns ErrNotPDF unless path names a regular file with a .pdf
// extension.
func CheckPath(path string) error {
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return ErrNotPDF
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("checking %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return ErrNotPDF
	}
	return nil
}

// CountPages parses the PDF structure and returns its page count.
func CountPages(pdfPath string) (int, error) {
	f, err := os.Open(pdfPath)
	if err != nil {
		return 0, fmt.Errorf("opening PDF %s: %w", pdfPath, err)
	}
	defer f.Close()

	n, err := api.PageCount(f, nil)
	if err != nil {
		return 0, fmt.Errorf("reading page count of %s: %w", pdfPath, err)
	}
	return n, nil
}

type validating struct {
	next Extractor
}

// Validating rejects files whose structure pdfcpu cannot read before
// handing them to next.
func Validating(next Extractor) Extractor {
	return &validating{next: next}
}

func (v *validating) Extract(pdfPath string) (types.Document, error) {
	n, err := CountPages(pdfPath)
	if err != nil {
		return types.Document{}, err
	}
	if n == 0 {
		return types.Document{}, fmt.Errorf("%s has no pages", pdfPath)
	}
	return v.next.Extract(pdfPath)
}

type normalizing struct {
	next Extractor
}

// Normalizing applies NFKC to every page returned by next, folding
// full-width letters, digits, hyphens, and ideographic spaces to ASCII.
func Normalizing(next Extractor) Extractor {
	return &normalizing{next: next}
}

func (n *normalizing) Extract(pdfPath string) (types.Document, error) {
	doc, err := n.next.Extract(pdfPath)
	if err != nil {
		return doc, err
	}
	pages := make([]string, len(doc.Pages))
	for i, p := range doc.Pages {
		pages[i] = norm.NFKC.String(p)
	}
	doc.Pages = pages
	return doc, nil
}

// splitPages splits pdftotext output on form feeds. pdftotext ends every
// page with one, so a trailing empty piece is dropped. Whitespace-only
// pages become "".
func splitPages(out string) []string {
	pages := strings.Split(out, "\f")
	if len(pages) > 1 && pages[len(pages)-1] == "" {
		pages = pages[:len(pages)-1]
	}
	for i, p := range pages {
		if strings.TrimSpace(p) == "" {
			pages[i] = ""
		}
	}
	return pages
}
