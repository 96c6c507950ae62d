// Package spreadsheet reads the component list workbook and writes the
// modified workbook and styled report workbooks.
package spreadsheet

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/a3tai/component-analyzer/internal/component"
)

// MergedColumn is the column appended to the modified workbook with one
// identifier per row.
const MergedColumn = "Merged Components"

// ComponentDelimiter separates identifiers inside one cell.
const ComponentDelimiter = ","

var (
	// ErrNoHeader is returned for a workbook whose first sheet is empty.
	ErrNoHeader = errors.New("spreadsheet has no header row")

	// ErrMissingColumn is returned when a selected column is not in the header.
	ErrMissingColumn = errors.New("column not found")

	// ErrNoColumns is returned when no component column is selected.
	ErrNoColumns = errors.New("no component columns selected")
)

// Schema names the columns holding component identifiers.
type Schema struct {
	ComponentColumns []string
}

// Row is one data row of the first sheet. Components holds the raw text of
// each schema column in schema order; every other column is kept verbatim
// in Extra under its header name, which is unique within the table.
type Row struct {
	Line       int
	Components []string
	Extra      map[string]string
}

// Identifiers returns the distinct canonical identifiers of the row in
// ascending order. Cells are split on ComponentDelimiter.
func (r Row) Identifiers() []string {
	seen := component.NewSet()
	for _, cell := range r.Components {
		for _, raw := range strings.Split(cell, ComponentDelimiter) {
			if id := component.Normalize(raw); id != "" {
				seen[id] = struct{}{}
			}
		}
	}
	return seen.Sorted()
}

// Table is the typed view of the first sheet of a workbook.
type Table struct {
	Sheet  string
	Header []string
	Schema Schema
	Rows   []Row
}

// Value returns the raw text of column name in row r.
func (t *Table) Value(r Row, name string) string {
	for i, col := range t.Schema.ComponentColumns {
		if col == name {
			return r.Components[i]
		}
	}
	return r.Extra[name]
}

// Columns returns the header of the first sheet of the workbook at path.
func Columns(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	sheet, rows, err := firstSheetRows(f)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoHeader, sheet)
	}
	return headerNames(rows[0]), nil
}

// Read loads the first sheet of the workbook at path. The first row is the
// header; fully empty data rows are skipped.
func Read(path string, schema Schema) (*Table, error) {
	if len(schema.ComponentColumns) == 0 {
		return nil, ErrNoColumns
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	sheet, rows, err := firstSheetRows(f)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoHeader, sheet)
	}

	header := headerNames(rows[0])
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}

	selected := make([]int, len(schema.ComponentColumns))
	isSelected := make(map[int]bool, len(schema.ComponentColumns))
	for i, name := range schema.ComponentColumns {
		col, ok := index[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, name)
		}
		selected[i] = col
		isSelected[col] = true
	}

	table := &Table{Sheet: sheet, Header: header, Schema: schema}
	for n, cells := range rows[1:] {
		if blank(cells) {
			continue
		}

		row := Row{
			Line:       n + 2,
			Components: make([]string, len(selected)),
			Extra:      make(map[string]string, len(header)-len(selected)),
		}
		for i, col := range selected {
			row.Components[i] = cellAt(cells, col)
		}
		for col, name := range header {
			if !isSelected[col] {
				row.Extra[name] = cellAt(cells, col)
			}
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

func firstSheetRows(f *excelize.File) (string, [][]string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", nil, fmt.Errorf("spreadsheet has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return "", nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return sheets[0], rows, nil
}

// headerNames trims header cells, names empty ones after their column
// letter and suffixes repeated names with ".1", ".2" and so on, so every
// column has a distinct name.
func headerNames(cells []string) []string {
	names := make([]string, len(cells))
	used := make(map[string]bool, len(cells))
	next := make(map[string]int)
	for i, c := range cells {
		name := strings.TrimSpace(c)
		if name == "" {
			letter, _ := excelize.ColumnNumberToName(i + 1)
			name = "Column " + letter
		}
		if used[name] {
			base := name
			for used[name] {
				next[base]++
				name = fmt.Sprintf("%s.%d", base, next[base])
			}
		}
		used[name] = true
		names[i] = name
	}
	return names
}

func cellAt(cells []string, col int) string {
	if col < len(cells) {
		return cells[col]
	}
	return ""
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// MergedRow is a source row paired with one of its identifiers, or with an
// empty identifier when the row has none.
type MergedRow struct {
	Row    Row
	Merged string
}

// Expand emits one merged row per distinct identifier of each row, sorted
// ascending, and keeps rows without identifiers once with an empty value.
func Expand(t *Table) []MergedRow {
	var out []MergedRow
	for _, r := range t.Rows {
		ids := r.Identifiers()
		if len(ids) == 0 {
			out = append(out, MergedRow{Row: r})
			continue
		}
		for _, id := range ids {
			out = append(out, MergedRow{Row: r, Merged: id})
		}
	}
	return out
}

// Counter builds the spreadsheet identifier multiset from the merged column.
func Counter(merged []MergedRow) component.Counter {
	c := component.NewCounter()
	for _, m := range merged {
		if m.Merged != "" {
			c.Add(m.Merged)
		}
	}
	return c
}
