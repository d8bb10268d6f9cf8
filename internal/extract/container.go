// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"fmt"
	"os"

	"github.com/pdiddy/beansplit/internal/container"
	"github.com/pdiddy/beansplit/pkg/types"
)

const imagePoppler = "poppler-utils:latest"

// ContainerExtractor pipes PDFs through pdftotext in the poppler-utils
// image. The container runtime (docker or podman) is injected.
type ContainerExtractor struct {
	runtime container.Runtime
}

// NewContainerExtractor verifies that the poppler-utils image exists in rt.
func NewContainerExtractor(rt container.Runtime) (*ContainerExtractor, error) {
	if err := rt.ImageExists(imagePoppler); err != nil {
		return nil, fmt.Errorf("poppler image not available in %s: %w", rt.Name(), err)
	}
	return &ContainerExtractor{runtime: rt}, nil
}

// Extract streams the PDF to the container on stdin and splits the text
// it writes into pages.
func (c *ContainerExtractor) Extract(pdfPath string) (types.Document, error) {
	f, err := os.Open(pdfPath)
	if err != nil {
		return types.Document{}, fmt.Errorf("opening PDF %s: %w", pdfPath, err)
	}
	defer f.Close()

	args := append(append([]string{binPdftotext}, pdftotextArgs...), "-", "-")

	var out bytes.Buffer
	if err := c.runtime.Run(imagePoppler, args, f, &out); err != nil {
		return types.Document{}, fmt.Errorf("extracting %s in %s: %w", pdfPath, c.runtime.Name(), err)
	}
	return types.Document{Path: pdfPath, Pages: splitPages(out.String())}, nil
}
