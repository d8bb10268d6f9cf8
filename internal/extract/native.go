// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/pdiddy/beansplit/pkg/types"
)

// NativeExtractor reads PDFs in-process without external tools.
type NativeExtractor struct{}

// NewNativeExtractor returns the pure-Go extractor.
func NewNativeExtractor() *NativeExtractor {
	return &NativeExtractor{}
}

// Extract reads every page's plain text. The reader panics on some
// malformed inputs; those are reported as errors for this document only.
func (n *NativeExtractor) Extract(pdfPath string) (doc types.Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc = types.Document{}
			err = fmt.Errorf("parsing PDF %s: %v", pdfPath, r)
		}
	}()

	f, r, err := pdf.Open(pdfPath)
	if err != nil {
		return types.Document{}, fmt.Errorf("opening PDF %s: %w", pdfPath, err)
	}
	defer f.Close()

	total := r.NumPage()
	pages := make([]string, 0, total)
	for i := 1; i <= total; i++ {
		pages = append(pages, pageText(r.Page(i)))
	}
	return types.Document{Path: pdfPath, Pages: pages}, nil
}

// pageText returns "" for pages that are missing or whose content stream
// cannot be decoded.
func pageText(p pdf.Page) string {
	if p.V.IsNull() {
		return ""
	}
	text, err := p.GetPlainText(nil)
	if err != nil || strings.TrimSpace(text) == "" {
		return ""
	}
	return text
}
