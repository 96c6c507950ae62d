// Package analyzer runs one reconciliation of a component spreadsheet
// against a schematic document.
package analyzer

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/a3tai/component-analyzer/internal/component"
	"github.com/a3tai/component-analyzer/internal/extract"
	"github.com/a3tai/component-analyzer/internal/pdf"
	"github.com/a3tai/component-analyzer/internal/report"
	"github.com/a3tai/component-analyzer/internal/spreadsheet"
)

// Extractor finds identifier observations in a document.
type Extractor interface {
	Extract(path string, prefixes *component.PrefixSet) extract.Outcome
}

// Analyzer runs analyses. Runs share no mutable state.
type Analyzer struct {
	extractor Extractor
	tempRoot  string
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithTempRoot places per-run workspaces under dir instead of os.TempDir.
func WithTempRoot(dir string) Option {
	return func(a *Analyzer) { a.tempRoot = dir }
}

// New creates an analyzer that extracts identifiers with extractor.
func New(extractor Extractor, opts ...Option) *Analyzer {
	a := &Analyzer{extractor: extractor}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ConditionCount is the size of one condition set.
type ConditionCount struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Result summarizes a completed run.
type Result struct {
	Counts       []ConditionCount  `json:"counts"`
	Outputs      Outputs           `json:"outputs"`
	Strategy     string            `json:"strategy,omitempty"`
	Observations int               `json:"observations"`
	Markers      int               `json:"markers"`
	Warnings     []extract.Warning `json:"warnings,omitempty"`
}

// Summary renders the condition counts, one line each.
func (r *Result) Summary() string {
	var b strings.Builder
	for _, c := range r.Counts {
		fmt.Fprintf(&b, "%s: %d components\n", c.Label, c.Count)
	}
	return b.String()
}

// run carries the values produced by one stage to the next.
type run struct {
	opts    Options
	outputs Outputs
	ws      *workspace

	table *spreadsheet.Table
	sheet component.Counter
	doc   component.Counter

	outcome extract.Outcome
	classes component.Classification
}

// Run validates opts, then parses, extracts, classifies and writes the three
// outputs. Temporary copies of the inputs are removed on every path.
func (a *Analyzer) Run(ctx context.Context, opts Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, validationError("start", err)
	}
	if err := opts.Validate(); err != nil {
		return nil, validationError("inputs", err)
	}
	if err := os.MkdirAll(opts.OutputDir, outputDirPerm); err != nil {
		return nil, validationError("output directory", err)
	}

	ws, err := newWorkspace(a.tempRoot, opts)
	if err != nil {
		return nil, parseError("workspace", err)
	}
	defer ws.cleanup()

	r := &run{opts: opts, outputs: opts.Outputs(), ws: ws}

	if err := r.parse(); err != nil {
		return nil, err
	}
	if err := r.writeModified(); err != nil {
		return nil, err
	}

	r.outcome = a.extractor.Extract(ws.document, opts.Prefixes)
	r.doc = extract.Counter(r.outcome.Observations)
	r.classes = component.Classify(r.doc, r.sheet, opts.Prefixes)

	markers, err := r.annotate()
	if err != nil {
		return nil, err
	}
	if err := r.writeReport(); err != nil {
		return nil, err
	}

	result := &Result{
		Outputs:      r.outputs,
		Strategy:     r.outcome.Strategy,
		Observations: len(r.outcome.Observations),
		Markers:      markers,
		Warnings:     r.outcome.Warnings,
	}
	counts := r.classes.Counts()
	for _, cond := range component.ReportOrder {
		result.Counts = append(result.Counts, ConditionCount{Key: cond.Key(), Label: cond.Label(), Count: counts[cond]})
	}

	log.Printf("Analysis complete: %d observations via %q, %d markers", result.Observations, result.Strategy, markers)
	return result, nil
}

func (r *run) parse() error {
	table, err := spreadsheet.Read(r.ws.spreadsheet, spreadsheet.Schema{ComponentColumns: r.opts.Columns})
	if err != nil {
		return parseError("spreadsheet", err)
	}
	r.table = table

	if err := pdf.NewValidator(r.opts.MaxFileSize).CheckFile(r.ws.document); err != nil {
		return parseError("document", err)
	}
	return nil
}

func (r *run) writeModified() error {
	merged := spreadsheet.Expand(r.table)
	if err := spreadsheet.WriteModified(r.outputs.ModifiedSpreadsheet, r.table, merged); err != nil {
		return outputError("modified spreadsheet", err)
	}
	r.sheet = spreadsheet.Counter(merged)
	log.Printf("Spreadsheet: %d rows expanded to %d, %d distinct identifiers",
		len(r.table.Rows), len(merged), len(r.sheet.Keys()))
	return nil
}

func (r *run) annotate() (int, error) {
	markers := report.Markers(r.outcome.Observations, r.classes)

	highlighted := r.ws.path("highlighted.pdf")
	if err := pdf.WriteHighlights(r.ws.document, highlighted, markers); err != nil {
		return 0, outputError("annotated document", err)
	}

	summary := report.SummaryText(r.classes)
	if err := pdf.AppendSummaryPage(highlighted, r.outputs.AnnotatedDocument, summary, r.ws.dir); err != nil {
		return 0, outputError("summary page", err)
	}
	return len(markers), nil
}

func (r *run) writeReport() error {
	sheets := report.Sheets(r.classes, r.doc, r.sheet)
	if err := spreadsheet.WriteStyled(r.outputs.Report, sheets); err != nil {
		return outputError("report", err)
	}
	return nil
}
