// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strings"

// SectionKind names a quotation section. It doubles as the output file
// suffix (<stem>_<kind>.txt).
type SectionKind string

const (
	SectionCommon  SectionKind = "common"
	SectionPremium SectionKind = "premium"
)

// Section is the span of document text between the end of one anchor match
// and the start of the next anchor match (or the end of the document).
type Section struct {
	Kind SectionKind `json:"kind" yaml:"kind"`

	// Start and End are byte offsets into the document text.
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`

	Text string `json:"-" yaml:"-"`
}

// Blank reports whether the section holds only whitespace.
func (s Section) Blank() bool {
	return strings.TrimSpace(s.Text) == ""
}

// Separator is the line written before each bean entry. Downstream parsers
// split on it, so its exact form must not change.
const Separator = "=========="

// Boundary marks the start of one bean entry inside a section's text.
type Boundary struct {
	// Offset is the byte offset of the code within the section text.
	Offset int `json:"offset" yaml:"offset"`

	// Code is the matched bean code, e.g. "S1-2" or "LA-1".
	Code string `json:"code" yaml:"code"`

	// Pattern names the code shape that matched.
	Pattern string `json:"pattern" yaml:"pattern"`
}
