package utils_test

import (
	"errors"
	"testing"
	"time"

	"github.com/temirov/repodump/internal/utils"
)

func TestFormatFileSize(t *testing.T) {
	testCases := []struct {
		name     string
		bytes    int64
		expected string
	}{
		{name: "negative", bytes: -1, expected: "0b"},
		{name: "zero", bytes: 0, expected: "0b"},
		{name: "bytes", bytes: 512, expected: "512b"},
		{name: "one kilobyte", bytes: 1024, expected: "1kb"},
		{name: "fractional kilobyte", bytes: 1536, expected: "1.5kb"},
		{name: "ten megabytes", bytes: 10 * 1024 * 1024, expected: "10mb"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			result := utils.FormatFileSize(testCase.bytes)
			if result != testCase.expected {
				t.Fatalf("expected %s, got %s", testCase.expected, result)
			}
		})
	}
}

func TestParseFileSize(t *testing.T) {
	testCases := []struct {
		name     string
		value    string
		expected int64
	}{
		{name: "plain bytes", value: "1048576", expected: 1048576},
		{name: "kilobytes", value: "512kb", expected: 512 * 1024},
		{name: "megabytes upper case", value: "1MB", expected: 1024 * 1024},
		{name: "fractional", value: "1.5kb", expected: 1536},
		{name: "explicit bytes", value: "10 b", expected: 10},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			result, err := utils.ParseFileSize(testCase.value)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result != testCase.expected {
				t.Fatalf("expected %d, got %d", testCase.expected, result)
			}
		})
	}

	for _, invalid := range []string{"", "abc", "-5", "kb"} {
		if _, err := utils.ParseFileSize(invalid); !errors.Is(err, utils.ErrInvalidSize) {
			t.Fatalf("expected ErrInvalidSize for %q, got %v", invalid, err)
		}
	}
}

func TestFormatTimestamp(t *testing.T) {
	testCases := []struct {
		name     string
		value    time.Time
		expected string
	}{
		{
			name:     "zero time",
			value:    time.Time{},
			expected: "",
		},
		{
			name:     "converted to utc",
			value:    time.Date(2024, time.January, 2, 15, 4, 0, 0, time.FixedZone("plus2", 2*60*60)),
			expected: "2024-01-02T13:04:00Z",
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			result := utils.FormatTimestamp(testCase.value)
			if result != testCase.expected {
				t.Fatalf("expected %s, got %s", testCase.expected, result)
			}
		})
	}
}
