// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package delimit

import (
	"fmt"
	"regexp"
	"unicode"
	"unicode/utf8"
)

// Pattern is one bean-code shape. Priority ranks shapes that match the same
// text at the same offset: lower values are more specific and win ties.
type Pattern struct {
	Name     string
	Priority int

	re *regexp.Regexp
	// wordEnd requires whitespace or end of text right after the code.
	wordEnd bool
}

// NewPattern compiles expr as a code shape anchored at the candidate offset.
func NewPattern(name string, priority int, expr string, wordEnd bool) (Pattern, error) {
	re, err := regexp.Compile(`^(?:` + expr + `)`)
	if err != nil {
		return Pattern{}, fmt.Errorf("compiling pattern %s: %w", name, err)
	}
	return Pattern{Name: name, Priority: priority, re: re, wordEnd: wordEnd}, nil
}

// DefaultPatterns returns the code shapes seen in supplier quotations,
// most specific first:
//
//	S1-2   letters, number, hyphen, number
//	LA-1   two letters, hyphen, number
//	P-1    letters, hyphen, number
//	S65    letters, number (must end the word)
func DefaultPatterns() []Pattern {
	specs := []struct {
		name    string
		expr    string
		wordEnd bool
	}{
		{"letter-number-suffix", `[A-Z]+[0-9]+-[0-9]+`, false},
		{"pair-suffix", `[A-Z]{2}-[0-9]+`, false},
		{"letter-suffix", `[A-Z]+-[0-9]+`, false},
		{"letter-number", `[A-Z]+[0-9]+`, true},
	}
	patterns := make([]Pattern, 0, len(specs))
	for i, s := range specs {
		p, err := NewPattern(s.name, i+1, s.expr, s.wordEnd)
		if err != nil {
			panic(err)
		}
		patterns = append(patterns, p)
	}
	return patterns
}

// match returns the length of the code at the start of rest, or 0.
func (p Pattern) match(rest string) int {
	loc := p.re.FindStringIndex(rest)
	if loc == nil || loc[1] == 0 {
		return 0
	}
	n := loc[1]
	if p.wordEnd && n < len(rest) {
		r, _ := utf8.DecodeRuneInString(rest[n:])
		if !unicode.IsSpace(r) {
			return 0
		}
	}
	return n
}
