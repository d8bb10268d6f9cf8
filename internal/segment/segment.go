// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package segment splits quotation text into named sections at anchor
// phrases.
package segment

import (
	"sort"

	"github.com/pdiddy/beansplit/internal/anchor"
	"github.com/pdiddy/beansplit/pkg/types"
)

// Segmenter slices document text into sections. It holds the anchors built
// for one run and carries no other state, so one Segmenter serves every
// file in a batch.
type Segmenter struct {
	anchors []*anchor.Anchor
}

// New returns a Segmenter over anchors. Anchor order breaks ties when two
// anchors match at the same offset.
func New(anchors []*anchor.Anchor) *Segmenter {
	return &Segmenter{anchors: anchors}
}

// Segment returns one section per anchor found in text, ordered by
// position in the text rather than by anchor order. A section runs from
// the end of its anchor match to the start of the next anchor match, or to
// the end of the text. An anchor that is not found yields no section.
//
// A match that starts inside an earlier match is degenerate input; its
// section is empty rather than inverted.
func (s *Segmenter) Segment(text string) []types.Section {
	matches := make([]anchor.Match, 0, len(s.anchors))
	for _, a := range s.anchors {
		if m, ok := a.Find(text); ok {
			matches = append(matches, m)
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Start < matches[j].Start
	})

	sections := make([]types.Section, 0, len(matches))
	covered := 0
	for i, m := range matches {
		if i > 0 && m.Start < covered {
			sections = append(sections, types.Section{Kind: m.Kind, Start: m.End, End: m.End})
			continue
		}
		covered = m.End

		end := len(text)
		for _, next := range matches[i+1:] {
			if next.Start >= m.End {
				end = next.Start
				break
			}
		}
		sections = append(sections, types.Section{
			Kind:  m.Kind,
			Start: m.End,
			End:   end,
			Text:  text[m.End:end],
		})
	}
	return sections
}

// Find returns the section of the given kind, if present.
func Find(sections []types.Section, kind types.SectionKind) (types.Section, bool) {
	for _, s := range sections {
		if s.Kind == kind {
			return s, true
		}
	}
	return types.Section{}, false
}
