// Package report turns a classification into document markers, report
// sheets and the summary text appended to the annotated document.
package report

import (
	"fmt"
	"strings"

	"github.com/a3tai/component-analyzer/internal/component"
	"github.com/a3tai/component-analyzer/internal/extract"
	"github.com/a3tai/component-analyzer/internal/pdf"
	"github.com/a3tai/component-analyzer/internal/spreadsheet"
)

// MarkerMargin is added to every side of an observation's region.
const MarkerMargin = 2.0

// SummaryTitle heads the summary page.
const SummaryTitle = "Component Analysis Summary (All Pages)"

// Header is the header row of every report sheet.
var Header = []string{"Condition", "Component", "Number of Times Repeated", "Highlight Color"}

// Markers returns one highlight per positioned observation, colored by the
// observation's resolved condition. Observations without a region are skipped.
func Markers(observations []extract.Observation, c component.Classification) []pdf.Highlight {
	var out []pdf.Highlight
	for _, o := range observations {
		if o.Box == nil {
			continue
		}
		cond, ok := c.ConditionOf(o.ID)
		if !ok {
			continue
		}
		color := cond.Color()
		out = append(out, pdf.Highlight{
			Page:     o.Page,
			Box:      o.Box.Expand(MarkerMargin),
			Color:    [3]float64{color.R, color.G, color.B},
			Contents: o.ID,
		})
	}
	return out
}

// RepeatCount is the count reported for id under cond: the document count
// for document-side conditions, the spreadsheet count for sheet-side ones,
// and the larger of both for normal.
func RepeatCount(cond component.Condition, id string, doc, sheet component.Counter) int {
	switch {
	case cond.DocumentSide():
		return doc.Count(id)
	case cond.SheetSide():
		return sheet.Count(id)
	default:
		return max(doc.Count(id), sheet.Count(id))
	}
}

// Sheets builds one report sheet per condition in component.ReportOrder.
// Each identifier appears on exactly one sheet.
func Sheets(c component.Classification, doc, sheet component.Counter) []spreadsheet.SheetData {
	resolved := c.Resolve()

	sheets := make([]spreadsheet.SheetData, 0, len(component.ReportOrder))
	for _, cond := range component.ReportOrder {
		data := spreadsheet.SheetData{Name: cond.Label(), Header: Header}
		color := cond.Color()
		for _, id := range resolved[cond] {
			data.Rows = append(data.Rows, spreadsheet.DataRow{
				Values: []any{cond.Label(), id, RepeatCount(cond, id, doc, sheet), color.Name},
				Fill:   color.Hex(),
			})
		}
		sheets = append(sheets, data)
	}
	return sheets
}

// SummaryText renders the per-condition counts and sorted identifier lists.
func SummaryText(c component.Classification) string {
	var b strings.Builder
	b.WriteString(SummaryTitle)
	for _, cond := range component.ReportOrder {
		set := c.Set(cond)
		list := "None"
		if set.Len() > 0 {
			list = strings.Join(set.Sorted(), ", ")
		}
		fmt.Fprintf(&b, "\n\n%s (%d):\n%s", cond.Label(), set.Len(), list)
	}
	return b.String()
}
