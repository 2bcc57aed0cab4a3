package classify_test

import (
	"bytes"
	"testing"

	"github.com/temirov/repodump/internal/classify"
)

// TestClassify verifies the order of classification rules.
func TestClassify(testingInstance *testing.T) {
	testCases := []struct {
		testName       string
		path           string
		sample         []byte
		strict         bool
		expectedBinary bool
		expectedReason classify.Reason
	}{
		{
			testName:       "allowlisted extension with null byte",
			path:           "main.go",
			sample:         []byte("package main\x00"),
			strict:         true,
			expectedReason: classify.ReasonForcedTextExtension,
		},
		{
			testName:       "null byte",
			path:           "blob.dat",
			sample:         []byte{'a', 0, 'b'},
			strict:         true,
			expectedBinary: true,
			expectedReason: classify.ReasonNullByte,
		},
		{
			testName:       "image media type",
			path:           "logo.png",
			sample:         []byte("not really a png"),
			strict:         true,
			expectedBinary: true,
			expectedReason: classify.ReasonMimeGuess,
		},
		{
			testName:       "non printable ratio",
			path:           "data.unknownext",
			sample:         bytes.Repeat([]byte{0x01, 0x02, 'a'}, 10),
			strict:         true,
			expectedBinary: true,
			expectedReason: classify.ReasonNonPrintableRatio,
		},
		{
			testName: "non printable ratio ignored when not strict",
			path:     "data.unknownext",
			sample:   bytes.Repeat([]byte{0x01, 0x02, 'a'}, 10),
			strict:   false,
		},
		{
			testName: "plain text without extension",
			path:     "LICENSE",
			sample:   []byte("Permission is hereby granted\n\tfree of charge\r\n"),
			strict:   true,
		},
		{
			testName: "multibyte text",
			path:     "notes.unknownext",
			sample:   []byte("naïve café Привет 日本語\n"),
			strict:   true,
		},
		{
			testName: "truncated trailing rune is ignored",
			path:     "notes.unknownext",
			sample:   []byte("ab\xe6\x97"),
			strict:   true,
		},
	}
	for index, testCase := range testCases {
		result := classify.New(testCase.strict).Classify(testCase.path, testCase.sample)
		if result.IsBinary != testCase.expectedBinary {
			testingInstance.Errorf("case %d (%s): expected binary %t, got %t", index, testCase.testName, testCase.expectedBinary, result.IsBinary)
		}
		if result.Reason != testCase.expectedReason {
			testingInstance.Errorf("case %d (%s): expected reason %q, got %q", index, testCase.testName, testCase.expectedReason, result.Reason)
		}
	}
}
