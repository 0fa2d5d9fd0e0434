// Package parser turns uploaded documents into the plain, newline-joined
// text the section segmenter reads. Extractors keep the original line order
// and do no other normalization.
package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Extraction is the text pulled from one document.
type Extraction struct {
	Title string
	Text  string
}

// Extractor converts raw document bytes into text.
type Extractor interface {
	Extract(r io.Reader, filename string) (*Extraction, error)
}

// Options tune extractor construction.
type Options struct {
	PDFFallbackPdftotext bool
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// ForFile returns the appropriate extractor for a filename.
func ForFile(filename string, opts Options) (Extractor, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextExtractor{}, nil
	case ".md", ".markdown":
		return &MarkdownExtractor{}, nil
	case ".html", ".htm":
		return &HTMLExtractor{}, nil
	case ".pdf":
		return &PDFExtractor{FallbackPdftotext: opts.PDFFallbackPdftotext}, nil
	case ".docx":
		return &DOCXExtractor{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// baseTitle is the filename without directory or extension.
func baseTitle(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// joinLines joins lines with "\n", normalizing any CRLF inside them.
func joinLines(lines []string) string {
	return strings.ReplaceAll(strings.Join(lines, "\n"), "\r\n", "\n")
}
