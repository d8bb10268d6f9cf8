// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ExtractionBackend identifies the PDF text extraction tool.
type ExtractionBackend string

const (
	BackendNative    ExtractionBackend = "native"
	BackendPdftotext ExtractionBackend = "pdftotext"
	BackendContainer ExtractionBackend = "container"
)

// AnchorConfig declares the header phrases that open one section. Any run
// of whitespace may appear between the characters of a phrase.
type AnchorConfig struct {
	Section SectionKind `json:"section" yaml:"section" mapstructure:"section"`
	Phrases []string    `json:"phrases" yaml:"phrases" mapstructure:"phrases"`
}

// DefaultAnchors returns the quotation headers used when the config file
// does not declare any. The second phrase of each pair is the shorter
// header some suppliers print.
func DefaultAnchors() []AnchorConfig {
	return []AnchorConfig{
		{Section: SectionCommon, Phrases: []string{"常用生豆报价单", "常用豆报价单"}},
		{Section: SectionPremium, Phrases: []string{"精品生豆报价单", "精品豆报价单"}},
	}
}

// ExtractionConfig holds settings for turning a PDF into page text.
type ExtractionConfig struct {
	// Backend selects the extraction tool: native, pdftotext, or container.
	Backend ExtractionBackend `json:"backend" yaml:"backend" mapstructure:"backend"`

	// Validate probes the PDF structure (page count) before extraction.
	Validate bool `json:"validate" yaml:"validate" mapstructure:"validate"`

	// Normalize applies NFKC to page text so full-width codes and
	// ideographic spaces become ASCII.
	Normalize bool `json:"normalize" yaml:"normalize" mapstructure:"normalize"`
}

// SplitConfig holds settings for the split stage.
type SplitConfig struct {
	ExtractionConfig `yaml:",inline" mapstructure:",squash"`

	// OutputDir receives <stem>_common.txt and <stem>_premium.txt.
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`

	// MaxEntries splits a section into numbered chunk files when it holds
	// more entries than this. Zero disables chunking.
	MaxEntries int `json:"max_entries" yaml:"max_entries" mapstructure:"max_entries"`

	// LineStart restricts entry codes to the start of a line instead of
	// the start of any word.
	LineStart bool `json:"line_start" yaml:"line_start" mapstructure:"line_start"`

	// LedgerPath is the SQLite ledger location. Empty disables the ledger.
	LedgerPath string `json:"ledger" yaml:"ledger" mapstructure:"ledger"`

	// Force re-splits inputs the ledger reports as unchanged.
	Force bool `json:"force" yaml:"force" mapstructure:"force"`

	Anchors []AnchorConfig `json:"anchors,omitempty" yaml:"anchors,omitempty" mapstructure:"anchors"`
}
