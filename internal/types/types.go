// Package types defines every cross‑package data structure used by the repodump CLI.
package types

// Output formats accepted by --format.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatHTML = "html"
	FormatXML  = "xml"
)

// OmissionReason names why a path did not reach the final dump.
type OmissionReason string

const (
	OmittedBinary          OmissionReason = "binary"
	OmittedOversized       OmissionReason = "oversized"
	OmittedPatternExcluded OmissionReason = "pattern-excluded"
	OmittedOverBudget      OmissionReason = "over-budget"
	OmittedReadError       OmissionReason = "read-error"
)

// PathEntry is one traversal result: a slash-separated path relative to the root.
type PathEntry struct {
	Path string
	// SizeBytes is the size reported when the entry was listed.
	SizeBytes int64
}

// FileOutput is one file that survived filtering, with its final content.
type FileOutput struct {
	Path      string `json:"path" xml:"path,attr"`
	Content   string `json:"contents" xml:"contents"`
	Tokens    int    `json:"tokens" xml:"tokens,attr"`
	SizeBytes int64  `json:"-" xml:"-"`
	// Replaced reports that invalid UTF-8 bytes were substituted with U+FFFD.
	Replaced bool `json:"-" xml:"-"`
}

// Omission records a path left out of the dump and the reason.
type Omission struct {
	Path   string         `json:"path" xml:"path,attr"`
	Reason OmissionReason `json:"reason" xml:"reason,attr"`
	Detail string         `json:"detail,omitempty" xml:"detail,attr,omitempty"`
}

// Chunk is a group of whole files whose token sum fits a per-chunk budget,
// except a chunk holding a single oversized file.
type Chunk struct {
	Index  int          `json:"index"`
	Files  []FileOutput `json:"files"`
	Tokens int          `json:"tokens"`
}

// Dump is the complete result of one invocation handed to rendering.
type Dump struct {
	RepositoryName string
	Files          []FileOutput
	TotalTokens    int
	Omitted        []Omission
	Chunks         []Chunk
	Estimator      string
	BudgetExceeded bool
}

// OmittedCount returns how many omissions carry the provided reason.
func (dump Dump) OmittedCount(reason OmissionReason) int {
	count := 0
	for _, omission := range dump.Omitted {
		if omission.Reason == reason {
			count++
		}
	}
	return count
}
