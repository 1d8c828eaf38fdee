// Package extraction converts resume files into plain text and structured
// candidate records. PDF and DOCX containers are unpacked by an external
// Apache Tika server; plain text files are read directly.
package extraction

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// TextExtractor converts one resume file into plain text.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (string, error)
}

// supported resume file extensions, lower case.
var supportedExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".txt":  true,
}

// IsSupported reports whether the file name has a supported resume extension.
func IsSupported(name string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(name))]
}

// FileExtractor routes files to the right extraction path by extension:
// plain text is read directly, binary containers go through Tika.
type FileExtractor struct {
	tika *TikaExtractor
}

// NewFileExtractor creates the extraction adapter. tika may be nil, in which
// case only plain text resumes can be processed.
func NewFileExtractor(tika *TikaExtractor) *FileExtractor {
	return &FileExtractor{tika: tika}
}

// Extract returns the plain text content of the resume at path.
func (e *FileExtractor) Extract(ctx context.Context, path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read resume %s: %w", path, err)
		}
		return string(data), nil
	case ".pdf", ".docx":
		if e.tika == nil {
			return "", fmt.Errorf("no document extractor configured for %s", path)
		}
		return e.tika.ExtractFile(ctx, path)
	default:
		return "", &UnsupportedFileError{Path: path}
	}
}
