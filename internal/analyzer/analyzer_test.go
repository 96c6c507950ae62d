package analyzer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-pdf/fpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/a3tai/component-analyzer/internal/component"
	"github.com/a3tai/component-analyzer/internal/extract"
	"github.com/a3tai/component-analyzer/internal/pdf"
)

type fakeExtractor struct {
	outcome extract.Outcome
	paths   []string
}

func (f *fakeExtractor) Extract(path string, _ *component.PrefixSet) extract.Outcome {
	f.paths = append(f.paths, path)
	return f.outcome
}

func writeDocument(t *testing.T, dir string) string {
	t.Helper()
	doc := fpdf.New("P", "pt", "A4", "")
	doc.SetFont("Helvetica", "", 12)
	doc.AddPage()
	doc.Text(72, 72, "R1 R1 C3")
	path := filepath.Join(dir, "board.pdf")
	require.NoError(t, doc.OutputFileAndClose(path))
	return path
}

func writeSpreadsheet(t *testing.T, dir string) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	rows := [][]any{
		{"Item", "Designators"},
		{"Resistor", "r1"},
		{"Diode", "D5"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	path := filepath.Join(dir, "parts.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func box(x float64) *pdf.Rect {
	return &pdf.Rect{X0: x, Y0: 760, X1: x + 12, Y1: 772}
}

type fixture struct {
	opts     Options
	tempRoot string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	in := t.TempDir()
	return fixture{
		opts: Options{
			SpreadsheetPath: writeSpreadsheet(t, in),
			DocumentPath:    writeDocument(t, in),
			Columns:         []string{"Designators"},
			Prefixes:        component.MustPrefixSet("R", "C", "D"),
			OutputDir:       filepath.Join(t.TempDir(), "out"),
			MaxFileSize:     10 * 1024 * 1024,
		},
		tempRoot: t.TempDir(),
	}
}

func assertWorkspaceRemoved(t *testing.T, root string) {
	t.Helper()
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAnalyzer_Run(t *testing.T) {
	fx := newFixture(t)
	extractor := &fakeExtractor{outcome: extract.Outcome{
		Strategy: extract.StrategyTextLayer,
		Observations: []extract.Observation{
			{ID: "R1", Page: 1, Box: box(72)},
			{ID: "R1", Page: 1, Box: box(90)},
			{ID: "C3", Page: 1, Box: box(110)},
		},
	}}

	result, err := New(extractor, WithTempRoot(fx.tempRoot)).Run(context.Background(), fx.opts)
	require.NoError(t, err)

	assert.Equal(t, []ConditionCount{
		{Key: "repeated_pdf", Label: "Repeated in PDF", Count: 1},
		{Key: "repeated_excel", Label: "Repeated in Excel", Count: 0},
		{Key: "in_pdf_not_excel", Label: "In PDF, not in Excel", Count: 1},
		{Key: "in_excel_not_pdf", Label: "In Excel, not in PDF", Count: 1},
		{Key: "normal", Label: "Normal", Count: 0},
	}, result.Counts)
	assert.Equal(t, 3, result.Observations)
	assert.Equal(t, 3, result.Markers)
	assert.Equal(t, extract.StrategyTextLayer, result.Strategy)
	assert.Contains(t, result.Summary(), "Repeated in PDF: 1 components\n")

	outDir := fx.opts.OutputDir
	assert.Equal(t, Outputs{
		ModifiedSpreadsheet: filepath.Join(outDir, "parts_modified.xlsx"),
		AnnotatedDocument:   filepath.Join(outDir, "parts_combined.pdf"),
		Report:              filepath.Join(outDir, "parts_detailed_report.xlsx"),
	}, result.Outputs)

	pages, err := api.PageCountFile(result.Outputs.AnnotatedDocument)
	require.NoError(t, err)
	assert.Equal(t, 2, pages)

	modified, err := excelize.OpenFile(result.Outputs.ModifiedSpreadsheet)
	require.NoError(t, err)
	defer modified.Close()
	merged, err := modified.GetCellValue("Sheet1", "C2")
	require.NoError(t, err)
	assert.Equal(t, "R1", merged)

	rep, err := excelize.OpenFile(result.Outputs.Report)
	require.NoError(t, err)
	defer rep.Close()
	assert.Equal(t, []string{
		"Repeated in PDF", "Repeated in Excel", "In PDF, not in Excel", "In Excel, not in PDF", "Normal",
	}, rep.GetSheetList())
	count, err := rep.GetCellValue("Repeated in PDF", "C2")
	require.NoError(t, err)
	assert.Equal(t, "2", count)

	require.Len(t, extractor.paths, 1)
	assert.NotEqual(t, fx.opts.DocumentPath, extractor.paths[0])
	assertWorkspaceRemoved(t, fx.tempRoot)
}

func TestAnalyzer_Run_NoObservations(t *testing.T) {
	fx := newFixture(t)
	extractor := &fakeExtractor{outcome: extract.Outcome{
		Warnings: []extract.Warning{{Strategy: extract.StrategyOCR, Reason: "no language data"}},
	}}

	result, err := New(extractor, WithTempRoot(fx.tempRoot)).Run(context.Background(), fx.opts)
	require.NoError(t, err)

	assert.Zero(t, result.Markers)
	assert.Empty(t, result.Strategy)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, 2, result.Counts[3].Count)
}

func TestAnalyzer_Run_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Options)
		msg    string
	}{
		{name: "missing spreadsheet", mutate: func(o *Options) { o.SpreadsheetPath = "" }, msg: "spreadsheet file is required"},
		{name: "wrong spreadsheet extension", mutate: func(o *Options) { o.SpreadsheetPath = "parts.csv" }, msg: ".xlsx"},
		{name: "wrong document extension", mutate: func(o *Options) { o.DocumentPath = "board.png" }, msg: ".pdf"},
		{name: "document missing", mutate: func(o *Options) { o.DocumentPath = "/non/existent/board.pdf" }, msg: "file does not exist"},
		{name: "no columns", mutate: func(o *Options) { o.Columns = nil }, msg: "component column"},
		{name: "no prefixes", mutate: func(o *Options) { o.Prefixes = nil }, msg: "prefix"},
		{name: "document too large", mutate: func(o *Options) { o.MaxFileSize = 10 }, msg: "file too large"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newFixture(t)
			tt.mutate(&fx.opts)
			extractor := &fakeExtractor{}

			_, err := New(extractor, WithTempRoot(fx.tempRoot)).Run(context.Background(), fx.opts)

			var runErr *RunError
			require.ErrorAs(t, err, &runErr)
			assert.Equal(t, KindValidation, runErr.Kind)
			assert.Contains(t, err.Error(), tt.msg)
			assert.Empty(t, extractor.paths)
			assertWorkspaceRemoved(t, fx.tempRoot)
		})
	}
}

func TestAnalyzer_Run_ParseError(t *testing.T) {
	fx := newFixture(t)
	fx.opts.Columns = []string{"Refs"}

	_, err := New(&fakeExtractor{}, WithTempRoot(fx.tempRoot)).Run(context.Background(), fx.opts)

	var runErr *RunError
	require.ErrorAs(t, err, &runErr)
	assert.Equal(t, KindParse, runErr.Kind)
	assert.Equal(t, "spreadsheet", runErr.Stage)
	assertWorkspaceRemoved(t, fx.tempRoot)
}

func TestAnalyzer_Run_OutputError(t *testing.T) {
	fx := newFixture(t)
	outputs := fx.opts.Outputs()
	require.NoError(t, os.MkdirAll(outputs.Report, 0o755))

	_, err := New(&fakeExtractor{}, WithTempRoot(fx.tempRoot)).Run(context.Background(), fx.opts)

	var runErr *RunError
	require.ErrorAs(t, err, &runErr)
	assert.Equal(t, KindOutput, runErr.Kind)
	assert.Equal(t, "report", runErr.Stage)

	_, statErr := os.Stat(outputs.ModifiedSpreadsheet)
	assert.NoError(t, statErr, "earlier outputs are kept")
	assertWorkspaceRemoved(t, fx.tempRoot)
}

func TestAnalyzer_Run_Cancelled(t *testing.T) {
	fx := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(&fakeExtractor{}, WithTempRoot(fx.tempRoot)).Run(ctx, fx.opts)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "validation", KindValidation.String())
	assert.Equal(t, "parse", KindParse.String())
	assert.Equal(t, "output", KindOutput.String())
	assert.Equal(t, "unknown", Kind(0).String())
}
