// Package format provides input format detection for the pagelens library.
package format

import (
	"bytes"
	"path/filepath"
	"strings"
)

// Format represents a supported input format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// PDF indicates a source PDF document.
	PDF
	// JSON indicates an analysis output document.
	JSON
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case PDF:
		return "PDF"
	case JSON:
		return "JSON"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case PDF:
		return ".pdf"
	case JSON:
		return ".json"
	default:
		return ""
	}
}

// Detect determines file format from filename extension.
func Detect(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return PDF
	case ".json":
		return JSON
	default:
		return Unknown
	}
}

// DetectFromMagic checks leading bytes to determine format. This is
// more reliable than extension-based detection.
func DetectFromMagic(data []byte) Format {
	if len(data) >= 4 && bytes.HasPrefix(data, []byte("%PDF")) {
		return PDF
	}

	trimmed := bytes.TrimLeft(data, " \t\r\n\xef\xbb\xbf")
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return JSON
	}

	return Unknown
}
