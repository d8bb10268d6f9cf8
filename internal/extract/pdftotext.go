// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/pdiddy/beansplit/pkg/types"
)

const binPdftotext = "pdftotext"

// pdftotextArgs keeps the column layout, which holds table rows on one line.
var pdftotextArgs = []string{"-layout", "-enc", "UTF-8"}

// commandRunner abstracts running a host command for testing.
type commandRunner func(name string, args []string, stdout, stderr io.Writer) error

func runCommand(name string, args []string, stdout, stderr io.Writer) error {
	cmd := exec.Command(name, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

// PdftotextExtractor runs poppler's pdftotext on the host.
type PdftotextExtractor struct {
	run commandRunner
}

// NewPdftotextExtractor returns an extractor backed by pdftotext, which
// must be on PATH.
func NewPdftotextExtractor() (*PdftotextExtractor, error) {
	if _, err := exec.LookPath(binPdftotext); err != nil {
		return nil, fmt.Errorf("%s not found on PATH: %w", binPdftotext, err)
	}
	return &PdftotextExtractor{run: runCommand}, nil
}

// Extract writes the text to stdout and splits it into pages.
func (p *PdftotextExtractor) Extract(pdfPath string) (types.Document, error) {
	args := append(append([]string{}, pdftotextArgs...), pdfPath, "-")

	var out, stderr bytes.Buffer
	if err := p.run(binPdftotext, args, &out, &stderr); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return types.Document{}, fmt.Errorf("extracting %s with pdftotext: %w: %s", pdfPath, err, msg)
		}
		return types.Document{}, fmt.Errorf("extracting %s with pdftotext: %w", pdfPath, err)
	}
	return types.Document{Path: pdfPath, Pages: splitPages(out.String())}, nil
}
