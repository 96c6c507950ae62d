package component

import "fmt"

// Condition is one of the five classification buckets.
type Condition int

const (
	RepeatedInDocument Condition = iota
	RepeatedInSheet
	OnlyInDocument
	OnlyInSheet
	Normal
)

// ReportOrder is the order in which conditions are reported.
var ReportOrder = []Condition{
	RepeatedInDocument,
	RepeatedInSheet,
	OnlyInDocument,
	OnlyInSheet,
	Normal,
}

// Priority is the tie-break order used when an identifier satisfies more
// than one condition. Presence mismatches win over duplication.
var Priority = []Condition{
	OnlyInDocument,
	OnlyInSheet,
	RepeatedInDocument,
	RepeatedInSheet,
	Normal,
}

// Color is a display color shared by the document markers and the report fills.
type Color struct {
	Name string  // human readable label, used in the report
	R    float64 // 0-1
	G    float64 // 0-1
	B    float64 // 0-1
}

// Hex returns the color as an RRGGBB string.
func (c Color) Hex() string {
	return fmt.Sprintf("%02X%02X%02X", channel(c.R), channel(c.G), channel(c.B))
}

func channel(v float64) int {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	default:
		return int(v*255 + 0.5)
	}
}

type style struct {
	key   string
	label string
	color Color
}

var styles = map[Condition]style{
	RepeatedInDocument: {key: "repeated_pdf", label: "Repeated in PDF", color: Color{Name: "Red", R: 1}},
	RepeatedInSheet:    {key: "repeated_excel", label: "Repeated in Excel", color: Color{Name: "Cyan", G: 1, B: 1}},
	OnlyInDocument:     {key: "in_pdf_not_excel", label: "In PDF, not in Excel", color: Color{Name: "Yellow", R: 1, G: 1}},
	OnlyInSheet:        {key: "in_excel_not_pdf", label: "In Excel, not in PDF", color: Color{Name: "Blue", B: 1}},
	Normal:             {key: "normal", label: "Normal", color: Color{Name: "Green", G: 1}},
}

// Key returns a stable machine-readable name.
func (c Condition) Key() string {
	if s, ok := styles[c]; ok {
		return s.key
	}
	return "unknown"
}

// Label returns the human readable condition name.
func (c Condition) Label() string {
	if s, ok := styles[c]; ok {
		return s.label
	}
	return "Unknown"
}

// Color returns the display color for the condition.
func (c Condition) Color() Color {
	return styles[c].color
}

// DocumentSide reports whether repeat counts for the condition come from the document.
func (c Condition) DocumentSide() bool {
	return c == RepeatedInDocument || c == OnlyInDocument
}

// SheetSide reports whether repeat counts for the condition come from the spreadsheet.
func (c Condition) SheetSide() bool {
	return c == RepeatedInSheet || c == OnlyInSheet
}

func (c Condition) String() string {
	return c.Key()
}
