package pdf

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

const (
	summaryFont     = "Helvetica"
	summaryFontSize = 10.0
	summaryMargin   = 50.0
	summaryLineHigh = 12.0
)

// WriteSummaryPage renders text as a standalone PDF at out.
func WriteSummaryPage(out, text string) error {
	doc := fpdf.New("P", "pt", "A4", "")
	doc.SetMargins(summaryMargin, summaryMargin, summaryMargin)
	doc.SetAutoPageBreak(true, summaryMargin)
	doc.AddPage()
	doc.SetFont(summaryFont, "", summaryFontSize)
	doc.SetTextColor(0, 0, 0)
	doc.SetXY(summaryMargin, summaryMargin)
	doc.MultiCell(0, summaryLineHigh, text, "", "L", false)

	if err := doc.OutputFileAndClose(out); err != nil {
		return &DocumentError{Library: libFPDF, Op: "write", Path: out, Err: err}
	}
	return nil
}

// AppendSummaryPage writes in followed by a rendered summary of text to out.
// The intermediate summary file lives in workDir and is removed afterwards.
func AppendSummaryPage(in, out, text, workDir string) error {
	summary := filepath.Join(workDir, fmt.Sprintf("summary-%s.pdf", uuid.NewString()))
	defer os.Remove(summary)

	if err := WriteSummaryPage(summary, text); err != nil {
		return err
	}

	if err := api.MergeCreateFile([]string{in, summary}, out, false, nil); err != nil {
		return &DocumentError{Library: libPDFCPU, Op: "merge", Path: out, Err: err}
	}
	return nil
}
