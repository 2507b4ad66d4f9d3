package middleware

import (
	"path/filepath"
	"strings"
	"unicode"
)

// maxFilenameLength limits the sanitized name, keeping the extension
const maxFilenameLength = 255

// SanitizeFilename sanitizes an uploaded filename by:
// - Removing path components and traversal attempts
// - Removing null bytes and control characters
// - Truncating long names while keeping the extension
func SanitizeFilename(filename string) string {
	// Normalize Windows separators before taking the base name
	filename = strings.ReplaceAll(filename, "\\", "/")
	filename = filepath.Base(filename)

	filename = strings.ReplaceAll(filename, "\x00", "")
	filename = strings.ReplaceAll(filename, "..", "")
	filename = strings.ReplaceAll(filename, "/", "")

	filename = removeControlChars(filename)
	filename = strings.TrimSpace(filename)

	if len(filename) > maxFilenameLength {
		ext := filepath.Ext(filename)
		if len(ext) >= maxFilenameLength {
			ext = ""
		}
		filename = filename[:maxFilenameLength-len(ext)] + ext
	}

	// If filename is empty after sanitization, return a default
	if filename == "" || filename == "." {
		return "unnamed_file"
	}

	return filename
}

// removeControlChars removes control characters from a string
func removeControlChars(s string) string {
	var result strings.Builder
	for _, r := range s {
		if !unicode.IsControl(r) {
			result.WriteRune(r)
		}
	}
	return result.String()
}
