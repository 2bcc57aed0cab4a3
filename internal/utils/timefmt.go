package utils

import (
	"time"
)

// FormatTimestamp returns the provided time in UTC using RFC 3339, the form
// written into dump headers.
func FormatTimestamp(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.UTC().Format(time.RFC3339)
}
