// Package output renders a types.Dump as text, JSON, XML or HTML.
package output

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/temirov/repodump/internal/types"
	"github.com/temirov/repodump/internal/utils"
)

const (
	indentPrefix = ""
	indentSpacer = "  "

	textExtension = "txt"
	jsonExtension = "json"
	xmlExtension  = "xml"
	htmlExtension = "html"
)

// ErrUnsupportedFormat reports a format name no renderer handles.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// Formats lists the accepted format names in help order.
var Formats = []string{types.FormatText, types.FormatJSON, types.FormatXML, types.FormatHTML}

// Render returns dump in the requested format. generatedAt is the timestamp
// written into the header.
func Render(format string, dump types.Dump, generatedAt time.Time) (string, error) {
	timestamp := utils.FormatTimestamp(generatedAt)
	switch strings.ToLower(format) {
	case types.FormatText:
		return RenderText(dump, timestamp), nil
	case types.FormatJSON:
		return RenderJSON(dump, timestamp)
	case types.FormatXML:
		return RenderXML(dump, timestamp)
	case types.FormatHTML:
		return RenderHTML(dump, timestamp)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// Extension returns the file extension used for format.
func Extension(format string) (string, error) {
	switch strings.ToLower(format) {
	case types.FormatText:
		return textExtension, nil
	case types.FormatJSON:
		return jsonExtension, nil
	case types.FormatXML:
		return xmlExtension, nil
	case types.FormatHTML:
		return htmlExtension, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// IsSupported reports whether format has a renderer.
func IsSupported(format string) bool {
	_, err := Extension(format)
	return err == nil
}
