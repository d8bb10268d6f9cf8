// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package anchor locates section header phrases in extracted PDF text.
// Extractors often emit header characters with spacing artifacts between
// them ("常用 生 豆 报价单", or one character per line), so an Anchor accepts
// any run of whitespace between any two consecutive runes of its phrase.
package anchor

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/beansplit/pkg/types"
)

// gap matches the spacing an extractor may insert between two characters:
// ASCII whitespace, line breaks, and Unicode space separators (U+3000, NBSP).
const gap = `[\s\p{Zs}]*`

// Match is the position of an anchor phrase in a text.
type Match struct {
	Kind types.SectionKind

	// Start and End are byte offsets; text[Start:End] is the matched phrase
	// including any interior spacing.
	Start int
	End   int
}

// Anchor matches one section header.
type Anchor struct {
	kind types.SectionKind
	re   *regexp.Regexp
}

// Spaced returns a regular expression source that matches phrase with
// optional whitespace between every pair of adjacent runes.
func Spaced(phrase string) string {
	parts := make([]string, 0, utf8.RuneCountInString(phrase))
	for _, r := range phrase {
		parts = append(parts, regexp.QuoteMeta(string(r)))
	}
	return strings.Join(parts, gap)
}

// New compiles an anchor for kind. When several phrases are given, the
// leftmost occurrence of any of them is the match; at the same offset the
// earlier phrase wins.
func New(kind types.SectionKind, phrases ...string) (*Anchor, error) {
	if kind == "" {
		return nil, errors.New("anchor section kind is empty")
	}
	alts := make([]string, 0, len(phrases))
	for _, p := range phrases {
		p = strings.Join(strings.Fields(p), "")
		if p == "" {
			continue
		}
		alts = append(alts, Spaced(p))
	}
	if len(alts) == 0 {
		return nil, fmt.Errorf("anchor %s has no phrases", kind)
	}
	re, err := regexp.Compile("(?:" + strings.Join(alts, "|") + ")")
	if err != nil {
		return nil, fmt.Errorf("compiling anchor %s: %w", kind, err)
	}
	return &Anchor{kind: kind, re: re}, nil
}

// FromConfig compiles one anchor per entry, preserving order.
func FromConfig(cfgs []types.AnchorConfig) ([]*Anchor, error) {
	anchors := make([]*Anchor, 0, len(cfgs))
	seen := make(map[types.SectionKind]bool, len(cfgs))
	for _, c := range cfgs {
		if seen[c.Section] {
			return nil, fmt.Errorf("duplicate anchor for section %s", c.Section)
		}
		seen[c.Section] = true
		a, err := New(c.Section, c.Phrases...)
		if err != nil {
			return nil, err
		}
		anchors = append(anchors, a)
	}
	return anchors, nil
}

// Kind returns the section this anchor opens.
func (a *Anchor) Kind() types.SectionKind { return a.kind }

// Find returns the first match of the anchor in text.
func (a *Anchor) Find(text string) (Match, bool) {
	loc := a.re.FindStringIndex(text)
	if loc == nil {
		return Match{}, false
	}
	return Match{Kind: a.kind, Start: loc[0], End: loc[1]}, true
}
