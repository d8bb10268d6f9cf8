// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package split

import (
	"github.com/pdiddy/beansplit/pkg/types"
)

// SectionReport describes one section found in a document.
type SectionReport struct {
	Kind    types.SectionKind `json:"kind" yaml:"kind"`
	Start   int               `json:"start" yaml:"start"`
	End     int               `json:"end" yaml:"end"`
	Entries int               `json:"entries" yaml:"entries"`
	Codes   []string          `json:"codes,omitempty" yaml:"codes,omitempty"`
}

// Report describes how a document would be split, without writing files.
type Report struct {
	Path       string          `json:"path" yaml:"path"`
	Pages      int             `json:"pages" yaml:"pages"`
	EmptyPages int             `json:"empty_pages" yaml:"empty_pages"`
	Sections   []SectionReport `json:"sections" yaml:"sections"`
}

// Inspect segments doc and lists the entry codes of each section.
func (p *Pipeline) Inspect(doc types.Document) Report {
	r := Report{
		Path:       doc.Path,
		Pages:      len(doc.Pages),
		EmptyPages: doc.EmptyPages(),
		Sections:   []SectionReport{},
	}
	for _, sec := range p.segmenter.Segment(doc.Text()) {
		bs := p.delimiter.Boundaries(sec.Text)
		sr := SectionReport{Kind: sec.Kind, Start: sec.Start, End: sec.End, Entries: len(bs)}
		for _, b := range bs {
			sr.Codes = append(sr.Codes, b.Code)
		}
		r.Sections = append(r.Sections, sr)
	}
	return r
}

// InspectFile extracts path and inspects the result.
func (p *Pipeline) InspectFile(path string) (Report, error) {
	doc, err := p.extractor.Extract(path)
	if err != nil {
		return Report{}, err
	}
	return p.Inspect(doc), nil
}
