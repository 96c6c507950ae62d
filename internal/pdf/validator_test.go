package pdf

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_CheckFileInfo(t *testing.T) {
	validator := NewValidator(1024 * 1024)
	tempDir := t.TempDir()

	validPDFPath := filepath.Join(tempDir, "valid.pdf")
	largePDFPath := filepath.Join(tempDir, "large.pdf")
	emptyPDFPath := filepath.Join(tempDir, "empty.pdf")
	nonPDFPath := filepath.Join(tempDir, "document.txt")

	require.NoError(t, os.WriteFile(validPDFPath, make([]byte, 1024), 0o644))
	require.NoError(t, os.WriteFile(largePDFPath, make([]byte, 2*1024*1024), 0o644))
	require.NoError(t, os.WriteFile(emptyPDFPath, []byte{}, 0o644))
	require.NoError(t, os.WriteFile(nonPDFPath, []byte("not a pdf"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(tempDir, "folder.pdf"), 0o755))

	tests := []struct {
		name     string
		filePath string
		errorMsg string
	}{
		{name: "sized PDF file", filePath: validPDFPath},
		{name: "empty path", filePath: "", errorMsg: "path cannot be empty"},
		{name: "large PDF file", filePath: largePDFPath, errorMsg: "file too large"},
		{name: "empty PDF file", filePath: emptyPDFPath, errorMsg: "file is empty"},
		{name: "non-PDF file", filePath: nonPDFPath, errorMsg: "file is not a PDF"},
		{name: "missing file", filePath: filepath.Join(tempDir, "missing.pdf"), errorMsg: "file does not exist"},
		{name: "directory instead of file", filePath: filepath.Join(tempDir, "folder.pdf"), errorMsg: "path is a directory"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.CheckFileInfo(tt.filePath)
			if tt.errorMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorMsg)
		})
	}
}

func TestValidator_CheckFile(t *testing.T) {
	tempDir := t.TempDir()
	validator := NewValidator(0)

	t.Run("readable document", func(t *testing.T) {
		path := writeTestPDF(t, tempDir, "schematic.pdf", []string{"R1 C2"})
		assert.NoError(t, validator.CheckFile(path))
	})

	t.Run("garbage bytes", func(t *testing.T) {
		path := filepath.Join(tempDir, "garbage.pdf")
		require.NoError(t, os.WriteFile(path, []byte("this is not a pdf document"), 0o644))

		err := validator.CheckFile(path)
		require.Error(t, err)
		var docErr *DocumentError
		assert.True(t, errors.As(err, &docErr))
		assert.Equal(t, "open", docErr.Op)
	})

	t.Run("wrong extension", func(t *testing.T) {
		err := validator.CheckFile(filepath.Join(tempDir, "parts.xlsx"))
		assert.ErrorIs(t, err, ErrNotPDF)
	})
}

func TestHasPDFExtension(t *testing.T) {
	assert.True(t, HasPDFExtension("board.pdf"))
	assert.True(t, HasPDFExtension("BOARD.PDF"))
	assert.False(t, HasPDFExtension("board.pdf.txt"))
	assert.False(t, HasPDFExtension("board"))
}
