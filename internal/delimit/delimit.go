// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package delimit marks bean entries inside section text. Each entry starts
// with a bean code (S1-2, P-1, LA-1, S65); a separator line is inserted
// before every code that begins a word.
package delimit

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pdiddy/beansplit/pkg/types"
)

const separatorLine = types.Separator + "\n"

// Delimiter finds entry boundaries and inserts separators. It is built once
// per run from an explicit pattern set and holds no per-document state.
type Delimiter struct {
	patterns  []Pattern
	lineStart bool
}

// New returns a Delimiter over patterns. When lineStart is set, a code only
// counts at the start of the text or right after a newline; otherwise any
// code preceded by whitespace counts.
func New(patterns []Pattern, lineStart bool) *Delimiter {
	ps := make([]Pattern, len(patterns))
	copy(ps, patterns)
	sort.SliceStable(ps, func(i, j int) bool { return ps[i].Priority < ps[j].Priority })
	return &Delimiter{patterns: ps, lineStart: lineStart}
}

// Boundaries returns the entry boundaries in text, strictly increasing by
// offset. Scanning resumes after each recognized code, so matched text is
// never scanned twice.
func (d *Delimiter) Boundaries(text string) []types.Boundary {
	var out []types.Boundary
	for pos := 0; pos < len(text); {
		if !d.candidate(text, pos) {
			pos++
			continue
		}
		n, p := d.longest(text[pos:])
		if n == 0 {
			pos++
			continue
		}
		out = append(out, types.Boundary{Offset: pos, Code: text[pos : pos+n], Pattern: p.Name})
		pos += n
	}
	return out
}

// Count returns the number of entries in text.
func (d *Delimiter) Count(text string) int {
	return len(d.Boundaries(text))
}

// Delimit inserts a separator line before every entry boundary and returns
// the result along with the boundaries, whose offsets refer to text. No
// character of text is dropped.
//
// A boundary at offset 0 gets no separator. A boundary that already has a
// separator line right before it is left alone, so delimiting delimited
// text is a no-op.
func (d *Delimiter) Delimit(text string) (string, []types.Boundary) {
	bs := d.Boundaries(text)
	if len(bs) == 0 {
		return text, nil
	}

	var b strings.Builder
	b.Grow(len(text) + len(bs)*(len(separatorLine)+1))
	last := 0
	for _, bd := range bs {
		b.WriteString(text[last:bd.Offset])
		last = bd.Offset
		if bd.Offset == 0 || separated(b.String()) {
			continue
		}
		if !strings.HasSuffix(b.String(), "\n") {
			b.WriteByte('\n')
		}
		b.WriteString(separatorLine)
	}
	b.WriteString(text[last:])
	return b.String(), bs
}

// Chunk delimits text and splits it into pieces of at most max entries.
// Text before the first entry stays with the first piece. Every piece that
// starts at an entry begins with a separator line. max <= 0 returns a
// single piece.
func (d *Delimiter) Chunk(text string, max int) []string {
	bs := d.Boundaries(text)
	if max <= 0 || len(bs) <= max {
		out, _ := d.Delimit(text)
		return []string{out}
	}

	chunks := make([]string, 0, (len(bs)+max-1)/max)
	for i := 0; i < len(bs); i += max {
		from := bs[i].Offset
		if i == 0 {
			from = 0
		}
		to := len(text)
		if i+max < len(bs) {
			to = bs[i+max].Offset
		}
		piece, _ := d.Delimit(text[from:to])
		if !strings.HasPrefix(piece, separatorLine) && from == bs[i].Offset {
			piece = separatorLine + piece
		}
		chunks = append(chunks, piece)
	}
	return chunks
}

// candidate reports whether a code may start at pos.
func (d *Delimiter) candidate(text string, pos int) bool {
	if c := text[pos]; c < 'A' || c > 'Z' {
		return false
	}
	if pos == 0 {
		return true
	}
	if d.lineStart {
		return text[pos-1] == '\n'
	}
	r, _ := utf8.DecodeLastRuneInString(text[:pos])
	return unicode.IsSpace(r)
}

// longest evaluates every pattern at the start of rest and returns the
// longest match; equal lengths go to the higher-priority pattern.
func (d *Delimiter) longest(rest string) (int, Pattern) {
	best, bestP := 0, Pattern{}
	for _, p := range d.patterns {
		if n := p.match(rest); n > best {
			best, bestP = n, p
		}
	}
	return best, bestP
}

// separated reports whether out already ends with a separator line,
// ignoring trailing blanks.
func separated(out string) bool {
	return strings.HasSuffix(strings.TrimRight(out, " \t"), separatorLine)
}
