package pdf

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrNotPDF is returned for paths without a .pdf extension.
var ErrNotPDF = errors.New("file is not a PDF")

// Validator checks that a path names a readable PDF within size limits.
type Validator struct {
	maxFileSize int64
}

// NewValidator creates a validator. A non-positive maxFileSize disables the
// size check.
func NewValidator(maxFileSize int64) *Validator {
	return &Validator{maxFileSize: maxFileSize}
}

// HasPDFExtension reports whether path ends in .pdf, ignoring case.
func HasPDFExtension(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".pdf")
}

// CheckFile validates path without keeping the document open.
func (v *Validator) CheckFile(path string) error {
	if err := v.CheckFileInfo(path); err != nil {
		return err
	}

	f, _, err := pdf.Open(path)
	if err != nil {
		return &DocumentError{Library: libLedongthuc, Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	return nil
}

// CheckFileInfo runs the checks that need only the file system.
func (v *Validator) CheckFileInfo(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}
	if !HasPDFExtension(path) {
		return fmt.Errorf("%w: %s", ErrNotPDF, path)
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("file does not exist: %s", path)
	}
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", path)
	}
	if info.Size() == 0 {
		return fmt.Errorf("file is empty: %s", path)
	}
	if v.maxFileSize > 0 && info.Size() > v.maxFileSize {
		return fmt.Errorf("file too large: %d bytes (max: %d bytes)", info.Size(), v.maxFileSize)
	}
	return nil
}
