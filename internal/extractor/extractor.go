package extractor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// ErrUnsupportedFormat is returned for file types no extractor handles.
// Upload callers treat extraction failure as non-fatal.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Service extracts plain text from uploaded resume files.
type Service struct{}

func NewService() *Service {
	return &Service{}
}

// ExtractText reads the file and returns its text content. Only
// plain-text formats are handled natively; anything else yields
// ErrUnsupportedFormat so the caller can degrade gracefully.
func (s *Service) ExtractText(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".txt", ".text", ".md":
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: file is not valid UTF-8 text", ErrUnsupportedFormat)
	}

	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	text = strings.TrimSpace(text)
	if text == "" {
		return "", errors.New("file contains no text")
	}
	return text, nil
}
