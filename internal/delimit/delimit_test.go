// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package delimit

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/beansplit/pkg/types"
)

const sep = types.Separator + "\n"

func codes(bs []types.Boundary) []string {
	out := make([]string, len(bs))
	for i, b := range bs {
		out[i] = b.Code
	}
	return out
}

func TestBoundaries(t *testing.T) {
	d := New(DefaultPatterns(), false)

	tests := []struct {
		name        string
		text        string
		wantCodes   []string
		wantPattern []string
	}{
		{
			name:        "hyphenated code beats bare letter-number",
			text:        "S1-2 Yirgacheffe",
			wantCodes:   []string{"S1-2"},
			wantPattern: []string{"letter-number-suffix"},
		},
		{
			name:        "prefix without digits",
			text:        "P-1 Bourbon",
			wantCodes:   []string{"P-1"},
			wantPattern: []string{"letter-suffix"},
		},
		{
			name:        "two-letter prefix",
			text:        "LA-1 Geisha",
			wantCodes:   []string{"LA-1"},
			wantPattern: []string{"pair-suffix"},
		},
		{
			name:        "three-letter prefix",
			text:        "ABC-12 Catuai",
			wantCodes:   []string{"ABC-12"},
			wantPattern: []string{"letter-suffix"},
		},
		{
			name:        "letter-number followed by whitespace",
			text:        "S65 Mandheling",
			wantCodes:   []string{"S65"},
			wantPattern: []string{"letter-number"},
		},
		{
			name:        "letter-number at end of text",
			text:        "see S65",
			wantCodes:   []string{"S65"},
			wantPattern: []string{"letter-number"},
		},
		{
			name: "letter-number glued to a longer token",
			text: "S65x Mandheling",
		},
		{
			name: "code suffix of a longer token",
			text: "批次ABCS1-2",
		},
		{
			name:      "code after whitespace inside a line",
			text:      "ABC S1-2",
			wantCodes: []string{"S1-2"},
		},
		{
			name:      "several entries",
			text:      "\nS1-2 Yirgacheffe\nP-1 Bourbon\nS66-1 Sidamo ￥84/KG\nS2\n",
			wantCodes: []string{"S1-2", "P-1", "S66-1", "S2"},
		},
		{
			name:      "ideographic space counts as word start",
			text:      "埃塞　S1-2",
			wantCodes: []string{"S1-2"},
		},
		{
			name: "lowercase is not a code",
			text: "s1-2 p-1",
		},
		{
			name: "no codes",
			text: "风味：柑橘 花香",
		},
		{
			name: "empty",
			text: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.Boundaries(tt.text)
			if len(tt.wantCodes) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.wantCodes, codes(got))
			for i, p := range tt.wantPattern {
				assert.Equal(t, p, got[i].Pattern)
			}
			for _, b := range got {
				assert.Equal(t, b.Code, tt.text[b.Offset:b.Offset+len(b.Code)])
			}
		})
	}
}

func TestBoundaries_WordStart(t *testing.T) {
	d := New(DefaultPatterns(), false)

	for _, b := range d.Boundaries("ABCS1-2") {
		assert.NotEqual(t, 3, b.Offset, "S1-2 registered inside ABCS1-2")
	}

	got := d.Boundaries("ABC S1-2")
	require.Len(t, got, 1)
	assert.Equal(t, 4, got[0].Offset)
	assert.Equal(t, "S1-2", got[0].Code)
}

func TestBoundaries_LineStart(t *testing.T) {
	text := "S1-2 曼特宁 G1 水洗\nP-1 Bourbon\n  S65 indented"

	word := New(DefaultPatterns(), false)
	assert.Equal(t, []string{"S1-2", "G1", "P-1", "S65"}, codes(word.Boundaries(text)))

	line := New(DefaultPatterns(), true)
	assert.Equal(t, []string{"S1-2", "P-1"}, codes(line.Boundaries(text)))
}

func TestBoundaries_StrictlyIncreasing(t *testing.T) {
	d := New(DefaultPatterns(), false)
	tokens := []string{
		"S1-2", "P-1", "LA-1", "S65", "G1", "AA", "-", "1", "S", "12-3",
		" ", "\n", "\t", "　", "哥伦比亚", "￥84/KG", "ABCS1-2", "S1-2-3", "==========",
	}
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		var b strings.Builder
		for n := rng.Intn(30); n > 0; n-- {
			b.WriteString(tokens[rng.Intn(len(tokens))])
		}
		text := b.String()

		got := d.Boundaries(text)
		for j := 1; j < len(got); j++ {
			prev, cur := got[j-1], got[j]
			require.Less(t, prev.Offset, cur.Offset, "text %q", text)
			require.LessOrEqual(t, prev.Offset+len(prev.Code), cur.Offset, "text %q", text)
		}
		for _, bd := range got {
			require.NotEmpty(t, strings.TrimSpace(bd.Code), "text %q", text)
		}
	}
}

func TestDelimit_Scenario(t *testing.T) {
	d := New(DefaultPatterns(), false)

	common, bs := d.Delimit("\nS1-2 Yirgacheffe\nP-1 Bourbon\n")
	assert.Equal(t, "\n"+sep+"S1-2 Yirgacheffe\n"+sep+"P-1 Bourbon\n", common)
	assert.Len(t, bs, 2)

	premium, bs := d.Delimit("\nLA-1 Geisha\n")
	assert.Equal(t, "\n"+sep+"LA-1 Geisha\n", premium)
	assert.Len(t, bs, 1)
}

func TestDelimit(t *testing.T) {
	d := New(DefaultPatterns(), false)

	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "entry at offset zero has no leading separator",
			text: "S1-2 Yirgacheffe\nP-1 Bourbon",
			want: "S1-2 Yirgacheffe\n" + sep + "P-1 Bourbon",
		},
		{
			name: "preamble gets a separator after it",
			text: "产地 价格\nS1-2 Yirgacheffe",
			want: "产地 价格\n" + sep + "S1-2 Yirgacheffe",
		},
		{
			name: "code inside a line starts a new line",
			text: "Yirgacheffe P-1 Bourbon",
			want: "Yirgacheffe \n" + sep + "P-1 Bourbon",
		},
		{
			name: "adjacent codes each get one separator",
			text: "S1-2 P-1",
			want: "S1-2 \n" + sep + "P-1",
		},
		{
			name: "no codes leaves text untouched",
			text: "\n风味：柑橘\n",
			want: "\n风味：柑橘\n",
		},
		{
			name: "existing separator is not duplicated",
			text: "intro\n" + sep + "S1-2 Yirgacheffe",
			want: "intro\n" + sep + "S1-2 Yirgacheffe",
		},
		{
			name: "existing separator followed by indentation",
			text: "intro\n" + sep + "  S1-2 Yirgacheffe",
			want: "intro\n" + sep + "  S1-2 Yirgacheffe",
		},
		{
			name: "empty",
			text: "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := d.Delimit(tt.text)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDelimit_Idempotent(t *testing.T) {
	d := New(DefaultPatterns(), false)
	texts := []string{
		"\nS1-2 Yirgacheffe\nP-1 Bourbon\n",
		"S1-2 P-1 LA-1 S65",
		"前言\n哥伦比亚 S66-1 慧兰 G1 水洗\nS2\n",
		"ABC S1-2 ABCS1-2",
	}
	for _, text := range texts {
		once, _ := d.Delimit(text)
		twice, _ := d.Delimit(once)
		assert.Equal(t, once, twice, "text %q", text)
	}
}

func TestDelimit_PreservesCharacters(t *testing.T) {
	d := New(DefaultPatterns(), false)
	text := "前言 S1-2 a\nP-1 b S65\tc"
	got, _ := d.Delimit(text)

	stripped := strings.ReplaceAll(got, sep, "")
	assert.Equal(t, strings.ReplaceAll(text, "\n", ""), strings.ReplaceAll(stripped, "\n", ""))
}

func TestCount(t *testing.T) {
	d := New(DefaultPatterns(), false)
	assert.Equal(t, 3, d.Count("S1-2 a\nP-1 b\nLA-1 c"))
	assert.Equal(t, 0, d.Count(""))
}

func TestChunk(t *testing.T) {
	d := New(DefaultPatterns(), true)

	var b strings.Builder
	b.WriteString("表头\n")
	for i := 1; i <= 5; i++ {
		b.WriteString("S")
		b.WriteString(strings.Repeat("1", i))
		b.WriteString(" bean\n")
	}
	text := b.String()

	chunks := d.Chunk(text, 2)
	require.Len(t, chunks, 3)

	assert.True(t, strings.HasPrefix(chunks[0], "表头\n"+sep+"S1 bean\n"))
	assert.True(t, strings.HasPrefix(chunks[1], sep+"S111 bean\n"))
	assert.True(t, strings.HasPrefix(chunks[2], sep+"S11111 bean\n"))

	for i, c := range chunks {
		assert.LessOrEqual(t, d.Count(c), 2, "chunk %d", i)
	}
	total := 0
	for _, c := range chunks {
		total += strings.Count(c, sep)
	}
	assert.Equal(t, 5, total)
}

func TestChunk_FirstEntryAtStart(t *testing.T) {
	d := New(DefaultPatterns(), true)
	chunks := d.Chunk("S1 a\nS2 b\nS3 c\n", 2)
	require.Len(t, chunks, 2)
	assert.Equal(t, sep+"S1 a\n"+sep+"S2 b\n", chunks[0])
	assert.Equal(t, sep+"S3 c\n", chunks[1])
}

func TestChunk_Disabled(t *testing.T) {
	d := New(DefaultPatterns(), false)
	chunks := d.Chunk("\nS1 a\nS2 b\nS3 c\n", 0)
	require.Len(t, chunks, 1)
	assert.Equal(t, 3, strings.Count(chunks[0], sep))
}

func TestNew_OrdersByPriority(t *testing.T) {
	generic, err := NewPattern("generic", 9, `[A-Z]+[0-9]+`, false)
	require.NoError(t, err)
	specific, err := NewPattern("specific", 1, `[A-Z]+[0-9]+`, false)
	require.NoError(t, err)

	d := New([]Pattern{generic, specific}, false)
	got := d.Boundaries("S1")
	require.Len(t, got, 1)
	assert.Equal(t, "specific", got[0].Pattern)
}

func TestNewPattern_InvalidExpression(t *testing.T) {
	_, err := NewPattern("broken", 1, `[A-Z`, false)
	assert.Error(t, err)
}
