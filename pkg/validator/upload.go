package validator

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// DefaultMaxImportSize caps import files when no limit is configured.
const DefaultMaxImportSize = 10 * 1024 * 1024 // 10MB

var (
	ErrFileTooLarge        = errors.New("import file exceeds the size limit")
	ErrUnsupportedFileType = errors.New("import file must be comma separated text")
)

// importMimeTypes are the sniffed content types accepted as CSV. Spreadsheet
// binaries sniff as application/zip or application/octet-stream and are refused.
var importMimeTypes = map[string]bool{
	"text/plain": true,
	"text/csv":   true,
}

// ImportFile defines constraints for uploaded import files.
type ImportFile struct {
	MaxFileSize int64
}

// NewImportFile returns the constraints for limit, falling back to
// DefaultMaxImportSize when limit is not positive.
func NewImportFile(limit int64) *ImportFile {
	if limit <= 0 {
		limit = DefaultMaxImportSize
	}
	return &ImportFile{MaxFileSize: limit}
}

// ValidateFileSize checks size against the limit. Empty files pass here and
// are rejected by the importer.
func (c *ImportFile) ValidateFileSize(size int64) error {
	if size > c.MaxFileSize {
		return fmt.Errorf("%w (%d bytes)", ErrFileTooLarge, c.MaxFileSize)
	}
	return nil
}

// DetectMimeType sniffs data and checks the result is text.
func (c *ImportFile) DetectMimeType(data []byte) (string, error) {
	detected := http.DetectContentType(data)
	if idx := strings.Index(detected, ";"); idx > 0 {
		detected = strings.TrimSpace(detected[:idx])
	}
	if !importMimeTypes[detected] {
		return detected, fmt.Errorf("%w: detected %s", ErrUnsupportedFileType, detected)
	}
	return detected, nil
}

// Validate performs size and content checks on an import file.
func (c *ImportFile) Validate(data []byte) error {
	if err := c.ValidateFileSize(int64(len(data))); err != nil {
		return err
	}
	_, err := c.DetectMimeType(data)
	return err
}
