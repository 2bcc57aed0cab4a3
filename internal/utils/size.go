package utils

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var sizeUnits = []string{"b", "kb", "mb", "gb", "tb"}

// ErrInvalidSize reports a size value that cannot be parsed.
var ErrInvalidSize = errors.New("invalid size")

// FormatFileSize converts a byte length into a human-readable lower-case unit string.
func FormatFileSize(bytes int64) string {
	if bytes < 0 {
		return "0b"
	}
	value := float64(bytes)
	unitIndex := 0
	for value >= 1024 && unitIndex < len(sizeUnits)-1 {
		value /= 1024
		unitIndex++
	}
	if unitIndex == 0 {
		return fmt.Sprintf("%db", bytes)
	}
	if value < 10 {
		formatted := strings.TrimSuffix(fmt.Sprintf("%.1f", value), ".0")
		return formatted + sizeUnits[unitIndex]
	}
	return fmt.Sprintf("%.0f%s", value, sizeUnits[unitIndex])
}

// ParseFileSize accepts a plain byte count or a number followed by one of
// b, kb, mb, gb or tb (case-insensitive, 1024-based), such as "512kb".
func ParseFileSize(value string) (int64, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return 0, fmt.Errorf("%w: empty value", ErrInvalidSize)
	}
	multiplier := int64(1)
	for unitIndex := len(sizeUnits) - 1; unitIndex >= 0; unitIndex-- {
		if strings.HasSuffix(normalized, sizeUnits[unitIndex]) {
			normalized = strings.TrimSpace(strings.TrimSuffix(normalized, sizeUnits[unitIndex]))
			for step := 0; step < unitIndex; step++ {
				multiplier *= 1024
			}
			break
		}
	}
	number, err := strconv.ParseFloat(normalized, 64)
	if err != nil || number < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, value)
	}
	return int64(number * float64(multiplier)), nil
}
