// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strings"

// Document holds the per-page text extracted from one quotation PDF.
// Pages are in reading order; a page without extractable text is "".
type Document struct {
	// Path is the source PDF path.
	Path string `json:"path" yaml:"path"`

	// Pages holds the plain text of each page.
	Pages []string `json:"pages" yaml:"pages"`
}

// Text concatenates the pages, each followed by a newline. Empty pages
// contribute nothing.
func (d Document) Text() string {
	var b strings.Builder
	for _, p := range d.Pages {
		if p == "" {
			continue
		}
		b.WriteString(p)
		b.WriteByte('\n')
	}
	return b.String()
}

// EmptyPages returns the number of pages that yielded no text.
func (d Document) EmptyPages() int {
	n := 0
	for _, p := range d.Pages {
		if p == "" {
			n++
		}
	}
	return n
}
