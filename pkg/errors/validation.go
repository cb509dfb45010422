package errors

import (
	"strings"
	"unicode"
)

const (
	maxNameLength = 256
	maxTextLength = 1024
)

// ValidateDocumentName validates a stored document name.
// Names become file names in the file store, so the rules are conservative:
//   - No empty names
//   - No control characters
//   - No path separators or traversal sequences
//   - Maximum length of 256 characters
func ValidateDocumentName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "document name cannot be empty")
	}
	if len(name) > maxNameLength {
		return New(ErrCodeInvalidInput, "document name too long (max %d characters)", maxNameLength)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "document name contains invalid control characters")
		}
	}
	for _, pattern := range []string{"..", "/", "\\"} {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidInput, "document name contains invalid characters: %q", pattern)
		}
	}
	return nil
}

// ValidateText validates a node label. Labels may repeat and may be empty,
// but control characters other than newline are rejected.
func ValidateText(text string) error {
	if len(text) > maxTextLength {
		return New(ErrCodeInvalidInput, "node text too long (max %d characters)", maxTextLength)
	}
	for _, r := range text {
		if r != '\n' && unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "node text contains invalid control characters")
		}
	}
	return nil
}
