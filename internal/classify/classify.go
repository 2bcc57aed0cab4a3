// Package classify decides whether file content is text or binary.
package classify

import (
	"bytes"
	"mime"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"
)

// SampleSize is the number of leading bytes inspected per file.
const SampleSize = 8192

// nonPrintableThreshold is the fraction of non-printable runes above which a
// sample is binary in strict mode.
const nonPrintableThreshold = 0.30

// Reason names the rule that produced a classification.
type Reason string

const (
	ReasonNullByte            Reason = "null-byte"
	ReasonMimeGuess           Reason = "mime-guess"
	ReasonNonPrintableRatio   Reason = "non-printable-ratio"
	ReasonForcedTextExtension Reason = "forced-text-extension"
)

// Result is the outcome for one file. Reason is empty for text files that
// passed every heuristic.
type Result struct {
	IsBinary bool
	Reason   Reason
}

// Classifier applies the extension allowlist, null-byte, media-type and
// non-printable-ratio checks in that order.
type Classifier struct {
	strict         bool
	textExtensions map[string]struct{}
}

// New returns a Classifier. Strict enables the non-printable-ratio check.
func New(strict bool) *Classifier {
	extensions := make(map[string]struct{}, len(textExtensions))
	for _, extension := range textExtensions {
		extensions[extension] = struct{}{}
	}
	return &Classifier{strict: strict, textExtensions: extensions}
}

// Classify inspects the file name and a bounded content sample.
func (classifier *Classifier) Classify(path string, sample []byte) Result {
	extension := strings.ToLower(filepath.Ext(path))
	if _, ok := classifier.textExtensions[extension]; ok {
		return Result{Reason: ReasonForcedTextExtension}
	}
	if len(sample) > SampleSize {
		sample = sample[:SampleSize]
	}
	if bytes.IndexByte(sample, 0) >= 0 {
		return Result{IsBinary: true, Reason: ReasonNullByte}
	}
	if mediaType := mime.TypeByExtension(extension); mediaType != "" && !isTextMediaType(mediaType) {
		return Result{IsBinary: true, Reason: ReasonMimeGuess}
	}
	if classifier.strict && nonPrintableRatio(sample) > nonPrintableThreshold {
		return Result{IsBinary: true, Reason: ReasonNonPrintableRatio}
	}
	return Result{}
}

func isTextMediaType(mediaType string) bool {
	baseType, _, err := mime.ParseMediaType(mediaType)
	if err != nil {
		baseType = mediaType
	}
	if strings.HasPrefix(baseType, "text/") {
		return true
	}
	for _, suffix := range []string{"json", "xml", "javascript", "x-sh", "yaml", "toml", "sql"} {
		if strings.HasSuffix(baseType, suffix) {
			return true
		}
	}
	return false
}

// nonPrintableRatio decodes the sample as UTF-8, counting invalid bytes as
// non-printable. A rune cut off at the end of the sample is ignored.
func nonPrintableRatio(sample []byte) float64 {
	total := 0
	nonPrintable := 0
	for len(sample) > 0 {
		value, size := utf8.DecodeRune(sample)
		if value == utf8.RuneError && size <= 1 && !utf8.FullRune(sample) {
			break
		}
		sample = sample[size:]
		total++
		switch {
		case value == '\t' || value == '\n' || value == '\r':
		case value == utf8.RuneError && size == 1:
			nonPrintable++
		case !unicode.IsPrint(value):
			nonPrintable++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(nonPrintable) / float64(total)
}
