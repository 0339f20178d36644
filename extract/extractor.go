package extract

import (
	"context"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Extractor converts uploaded document payloads to plain text.
// Dispatch is purely by file extension; unrecognized extensions fail
// with ErrUnsupportedFormat.
type Extractor struct {
	runner CommandRunner
}

// New creates an extractor using the default command runner for
// formats that shell out to external tools.
func New() *Extractor {
	return &Extractor{runner: execRunner{}}
}

// NewWithRunner creates an extractor with a custom command runner.
// Used in tests to avoid invoking external tools.
func NewWithRunner(runner CommandRunner) *Extractor {
	return &Extractor{runner: runner}
}

// ExtractText extracts plain text from content based on the extension
// of filename. Supports .pdf, .docx, .doc and .txt.
func (e *Extractor) ExtractText(ctx context.Context, content []byte, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".pdf":
		return e.extractPDF(ctx, content)
	case ".docx", ".doc":
		return extractDOCX(content)
	case ".txt":
		return extractPlainText(content)
	default:
		return "", &UnsupportedFormatError{Filename: filename, Extension: ext}
	}
}

// extractPlainText decodes a payload as UTF-8 text.
func extractPlainText(content []byte) (string, error) {
	if !utf8.Valid(content) {
		return "", ErrInvalidEncoding
	}
	return strings.TrimSpace(string(content)), nil
}
