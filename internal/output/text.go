package output

import (
	"fmt"
	"strings"

	"github.com/temirov/repodump/internal/types"
)

const (
	textTitleFormat   = "# repodump – %s – %s"
	textTokensFormat  = "# ≈ %d tokens"
	textOmittedFormat = "# %s"
	omittedSummaryFmt = "omitted %d files (%s)"
	textFileFormat    = "\n### %s"
)

// omissionOrder fixes the order of reasons in the omitted summary line.
var omissionOrder = []types.OmissionReason{
	types.OmittedBinary,
	types.OmittedOversized,
	types.OmittedPatternExcluded,
	types.OmittedOverBudget,
	types.OmittedReadError,
}

// RenderText renders the plain text dump: a two line header, an optional
// omitted summary, then every file under a "### path" heading.
func RenderText(dump types.Dump, timestamp string) string {
	lines := []string{
		fmt.Sprintf(textTitleFormat, dump.RepositoryName, timestamp),
		fmt.Sprintf(textTokensFormat, dump.TotalTokens),
	}
	if summary := omittedSummary(dump); summary != "" {
		lines = append(lines, fmt.Sprintf(textOmittedFormat, summary))
	}
	for _, file := range dump.Files {
		lines = append(lines, fmt.Sprintf(textFileFormat, file.Path), file.Content)
	}
	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func omittedSummary(dump types.Dump) string {
	if len(dump.Omitted) == 0 {
		return ""
	}
	var parts []string
	for _, reason := range omissionOrder {
		if count := dump.OmittedCount(reason); count > 0 {
			parts = append(parts, fmt.Sprintf("%s: %d", reason, count))
		}
	}
	return fmt.Sprintf(omittedSummaryFmt, len(dump.Omitted), strings.Join(parts, ", "))
}
