package analyzer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/a3tai/component-analyzer/internal/component"
	"github.com/a3tai/component-analyzer/internal/pdf"
)

// File name suffixes of the three outputs.
const (
	ModifiedSuffix  = "_modified.xlsx"
	AnnotatedSuffix = "_combined.pdf"
	ReportSuffix    = "_detailed_report.xlsx"
)

const outputDirPerm = 0o750

// Options is the immutable configuration of one run.
type Options struct {
	SpreadsheetPath string
	DocumentPath    string
	Columns         []string
	Prefixes        *component.PrefixSet
	OutputDir       string
	MaxFileSize     int64
}

// Outputs are the paths a run writes.
type Outputs struct {
	ModifiedSpreadsheet string `json:"modified_spreadsheet"`
	AnnotatedDocument   string `json:"annotated_document"`
	Report              string `json:"report"`
}

// Outputs derives the output paths from the spreadsheet base name.
func (o Options) Outputs() Outputs {
	base := filepath.Base(o.SpreadsheetPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return Outputs{
		ModifiedSpreadsheet: filepath.Join(o.OutputDir, base+ModifiedSuffix),
		AnnotatedDocument:   filepath.Join(o.OutputDir, base+AnnotatedSuffix),
		Report:              filepath.Join(o.OutputDir, base+ReportSuffix),
	}
}

// HasSpreadsheetExtension reports whether path ends in .xlsx, ignoring case.
func HasSpreadsheetExtension(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".xlsx")
}

// Validate rejects options a run cannot start with.
func (o Options) Validate() error {
	if o.SpreadsheetPath == "" {
		return errors.New("spreadsheet file is required")
	}
	if o.DocumentPath == "" {
		return errors.New("document file is required")
	}
	if !HasSpreadsheetExtension(o.SpreadsheetPath) {
		return fmt.Errorf("spreadsheet must be an .xlsx file: %s", o.SpreadsheetPath)
	}
	if !pdf.HasPDFExtension(o.DocumentPath) {
		return fmt.Errorf("document must be a .pdf file: %s", o.DocumentPath)
	}

	info, err := os.Stat(o.SpreadsheetPath)
	if err != nil {
		return fmt.Errorf("cannot access spreadsheet %s: %w", o.SpreadsheetPath, err)
	}
	if info.IsDir() {
		return fmt.Errorf("spreadsheet path is a directory: %s", o.SpreadsheetPath)
	}
	if err := pdf.NewValidator(o.MaxFileSize).CheckFileInfo(o.DocumentPath); err != nil {
		return err
	}

	if len(o.Columns) == 0 {
		return errors.New("at least one component column must be selected")
	}
	if o.Prefixes == nil || len(o.Prefixes.Prefixes()) == 0 {
		return component.ErrNoPrefixes
	}
	if o.OutputDir == "" {
		return errors.New("output directory cannot be empty")
	}
	return nil
}
