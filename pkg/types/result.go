// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// SplitStatus is the outcome of splitting one input file.
type SplitStatus string

const (
	// SplitDone means at least one section file was written.
	SplitDone SplitStatus = "split"
	// SplitEmpty means no anchor matched or every section was blank.
	SplitEmpty SplitStatus = "empty"
	// SplitSkipped means the ledger reported the input unchanged.
	SplitSkipped SplitStatus = "skipped"
	// SplitFailed means the input could not be read or written.
	SplitFailed SplitStatus = "failed"
)

// OutputFile describes one text file written for a section.
type OutputFile struct {
	Path    string      `json:"path" yaml:"path"`
	Section SectionKind `json:"section" yaml:"section"`
	Entries int         `json:"entries" yaml:"entries"`

	// Chunk is the 1-based chunk number, or 0 for an unchunked section.
	Chunk int `json:"chunk,omitempty" yaml:"chunk,omitempty"`
}

// FileResult records what happened to one input PDF.
type FileResult struct {
	Path        string       `json:"path" yaml:"path"`
	Brand       string       `json:"brand,omitempty" yaml:"brand,omitempty"`
	Period      string       `json:"period,omitempty" yaml:"period,omitempty"`
	ContentHash string       `json:"content_hash,omitempty" yaml:"content_hash,omitempty"`
	Status      SplitStatus  `json:"status" yaml:"status"`
	Outputs     []OutputFile `json:"outputs,omitempty" yaml:"outputs,omitempty"`
	Err         error        `json:"-" yaml:"-"`
}

// BatchResult holds the outcome counts of a batch split run.
type BatchResult struct {
	Split   int `json:"split" yaml:"split"`
	Empty   int `json:"empty" yaml:"empty"`
	Skipped int `json:"skipped" yaml:"skipped"`
	Failed  int `json:"failed" yaml:"failed"`
}

// Add counts one file outcome.
func (r *BatchResult) Add(status SplitStatus) {
	switch status {
	case SplitDone:
		r.Split++
	case SplitEmpty:
		r.Empty++
	case SplitSkipped:
		r.Skipped++
	case SplitFailed:
		r.Failed++
	}
}

// Total returns the number of files processed.
func (r BatchResult) Total() int {
	return r.Split + r.Empty + r.Skipped + r.Failed
}

// HasFailures reports whether any file failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// ProducedOutput reports whether any file has section output, either
// written in this run or left in place from an earlier one.
func (r BatchResult) ProducedOutput() bool {
	return r.Split+r.Skipped > 0
}
