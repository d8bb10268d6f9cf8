// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/beansplit/pkg/types"
)

// fakeExtractor returns canned pages and counts calls.
type fakeExtractor struct {
	pages []string
	err   error
	calls int
}

func (f *fakeExtractor) Extract(pdfPath string) (types.Document, error) {
	f.calls++
	if f.err != nil {
		return types.Document{}, f.err
	}
	return types.Document{Path: pdfPath, Pages: f.pages}, nil
}

// fakeRuntime implements container.Runtime.
type fakeRuntime struct {
	imageErr error
	output   string
	runErr   error
	gotImage string
	gotArgs  []string
	gotStdin string
}

func (f *fakeRuntime) Name() string                   { return "docker" }
func (f *fakeRuntime) Available() bool                { return true }
func (f *fakeRuntime) ImageExists(image string) error { return f.imageErr }

func (f *fakeRuntime) Run(image string, args []string, stdin io.Reader, stdout io.Writer) error {
	f.gotImage = image
	f.gotArgs = args
	data, _ := io.ReadAll(stdin)
	f.gotStdin = string(data)
	if f.runErr != nil {
		return f.runErr
	}
	_, err := io.WriteString(stdout, f.output)
	return err
}

func writePDF(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSplitPages(t *testing.T) {
	tests := []struct {
		name string
		out  string
		want []string
	}{
		{
			name: "one form feed per page",
			out:  "page one\fpage two\f",
			want: []string{"page one", "page two"},
		},
		{
			name: "blank page in the middle",
			out:  "常用生豆报价单\f  \n \f精品生豆报价单\f",
			want: []string{"常用生豆报价单", "", "精品生豆报价单"},
		},
		{
			name: "no trailing form feed",
			out:  "only page",
			want: []string{"only page"},
		},
		{
			name: "empty output",
			out:  "",
			want: []string{""},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitPages(tt.out))
		})
	}
}

func TestPdftotextExtractor(t *testing.T) {
	var gotName string
	var gotArgs []string
	p := &PdftotextExtractor{run: func(name string, args []string, stdout, _ io.Writer) error {
		gotName, gotArgs = name, args
		_, err := io.WriteString(stdout, "常用生豆报价单\nS1-2 Yirgacheffe\f\f精品生豆报价单\f")
		return err
	}}

	doc, err := p.Extract("quotes/Brand_202501.pdf")
	require.NoError(t, err)

	assert.Equal(t, "pdftotext", gotName)
	assert.Equal(t, []string{"-layout", "-enc", "UTF-8", "quotes/Brand_202501.pdf", "-"}, gotArgs)
	assert.Equal(t, "quotes/Brand_202501.pdf", doc.Path)
	assert.Equal(t, []string{"常用生豆报价单\nS1-2 Yirgacheffe", "", "精品生豆报价单"}, doc.Pages)
}

func TestPdftotextExtractor_Failure(t *testing.T) {
	p := &PdftotextExtractor{run: func(_ string, _ []string, _, stderr io.Writer) error {
		_, _ = io.WriteString(stderr, "Syntax Warning: May not be a PDF file\n")
		return errors.New("exit status 1")
	}}

	_, err := p.Extract("broken.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.pdf")
	assert.Contains(t, err.Error(), "May not be a PDF file")
}

func TestContainerExtractor(t *testing.T) {
	path := writePDF(t, "Brand_202501.pdf", "%PDF-1.7 fake")
	rt := &fakeRuntime{output: "page one\fpage two\f"}

	c, err := NewContainerExtractor(rt)
	require.NoError(t, err)

	doc, err := c.Extract(path)
	require.NoError(t, err)

	assert.Equal(t, "poppler-utils:latest", rt.gotImage)
	assert.Equal(t, []string{"pdftotext", "-layout", "-enc", "UTF-8", "-", "-"}, rt.gotArgs)
	assert.Equal(t, "%PDF-1.7 fake", rt.gotStdin)
	assert.Equal(t, []string{"page one", "page two"}, doc.Pages)
}

func TestContainerExtractor_Errors(t *testing.T) {
	_, err := NewContainerExtractor(&fakeRuntime{imageErr: errors.New("no such image")})
	assert.ErrorContains(t, err, "poppler image not available in docker")

	c, err := NewContainerExtractor(&fakeRuntime{runErr: errors.New("exit status 1")})
	require.NoError(t, err)

	_, err = c.Extract(filepath.Join(t.TempDir(), "missing.pdf"))
	assert.ErrorContains(t, err, "opening PDF")

	_, err = c.Extract(writePDF(t, "x.pdf", "%PDF"))
	assert.ErrorContains(t, err, "exit status 1")
}

func TestNormalizing(t *testing.T) {
	inner := &fakeExtractor{pages: []string{"常用生豆报价单\nＳ１－２　耶加雪菲", ""}}
	doc, err := Normalizing(inner).Extract("a.pdf")
	require.NoError(t, err)
	assert.Equal(t, []string{"常用生豆报价单\nS1-2 耶加雪菲", ""}, doc.Pages)
	assert.Equal(t, "Ｓ１－２　耶加雪菲", strings.Split(inner.pages[0], "\n")[1], "inner pages must not be modified")

	_, err = Normalizing(&fakeExtractor{err: errors.New("boom")}).Extract("a.pdf")
	assert.EqualError(t, err, "boom")
}

func TestValidating_RejectsUnreadableStructure(t *testing.T) {
	inner := &fakeExtractor{pages: []string{"text"}}
	path := writePDF(t, "corrupt.pdf", "this is not a pdf")

	_, err := Validating(inner).Extract(path)
	require.Error(t, err)
	assert.Equal(t, 0, inner.calls)

	_, err = Validating(inner).Extract(filepath.Join(t.TempDir(), "missing.pdf"))
	assert.ErrorContains(t, err, "opening PDF")
}

func TestNativeExtractor_CorruptFile(t *testing.T) {
	path := writePDF(t, "corrupt.pdf", "%PDF-1.4\n garbage without xref")
	assert.NotPanics(t, func() {
		_, err := NewNativeExtractor().Extract(path)
		assert.Error(t, err)
	})

	_, err := NewNativeExtractor().Extract(filepath.Join(t.TempDir(), "missing.pdf"))
	assert.Error(t, err)
}

func TestCheckPath(t *testing.T) {
	dir := t.TempDir()
	pdfPath := writePDF(t, "Brand_202501.PDF", "%PDF")
	txtPath := writePDF(t, "notes.txt", "text")
	dirPath := filepath.Join(dir, "folder.pdf")
	require.NoError(t, os.Mkdir(dirPath, 0o755))

	assert.NoError(t, CheckPath(pdfPath))
	assert.ErrorIs(t, CheckPath(txtPath), ErrNotPDF)
	assert.ErrorIs(t, CheckPath(dirPath), ErrNotPDF)
	assert.ErrorIs(t, CheckPath(filepath.Join(dir, "missing.pdf")), os.ErrNotExist)
}

func TestNew(t *testing.T) {
	_, err := New(types.ExtractionConfig{Backend: "ocr"})
	assert.ErrorIs(t, err, ErrUnknownBackend)

	ex, err := New(types.ExtractionConfig{Backend: types.BackendNative})
	require.NoError(t, err)
	assert.IsType(t, &NativeExtractor{}, ex)

	ex, err = New(types.ExtractionConfig{Normalize: true, Validate: true})
	require.NoError(t, err)
	v, ok := ex.(*validating)
	require.True(t, ok)
	assert.IsType(t, &normalizing{}, v.next)
}

func TestDocumentText_SkipsEmptyPages(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("a\n")
	buf.WriteString("b\n")
	doc := types.Document{Pages: []string{"a", "", "b"}}
	assert.Equal(t, buf.String(), doc.Text())
	assert.Equal(t, 1, doc.EmptyPages())
}
