package spreadsheet

import (
	"fmt"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

// defaultSheet is the sheet every new workbook starts with.
const defaultSheet = "Sheet1"

// WriteModified writes the table with the merged column appended, one
// merged row per line, to path.
func WriteModified(path string, t *Table, merged []MergedRow) error {
	header := make([]string, 0, len(t.Header)+1)
	header = append(header, t.Header...)
	header = append(header, MergedColumn)

	data := SheetData{Name: t.Sheet, Header: header}
	for _, m := range merged {
		values := make([]any, 0, len(header))
		for _, name := range t.Header {
			values = append(values, t.Value(m.Row, name))
		}
		values = append(values, m.Merged)
		data.Rows = append(data.Rows, DataRow{Values: values})
	}

	return write(path, []SheetData{data}, false)
}

// SheetData is one sheet of a styled workbook.
type SheetData struct {
	Name   string
	Header []string
	Rows   []DataRow
}

// DataRow is one data row. Fill, when set, is an RRGGBB solid fill applied
// to every cell of the row.
type DataRow struct {
	Values []any
	Fill   string
}

// WriteStyled writes sheets in order with a bold, centered header row, row
// fills, and columns sized to their longest value plus two.
func WriteStyled(path string, sheets []SheetData) error {
	if len(sheets) == 0 {
		return fmt.Errorf("no sheets to write")
	}
	return write(path, sheets, true)
}

func write(path string, sheets []SheetData, styled bool) error {
	f := excelize.NewFile()
	defer f.Close()

	w := &workbook{file: f, fills: make(map[string]int)}
	for i, sheet := range sheets {
		name := sheet.Name
		if name == "" {
			name = fmt.Sprintf("Sheet%d", i+1)
		}

		if i == 0 {
			if err := f.SetSheetName(defaultSheet, name); err != nil {
				return fmt.Errorf("failed to name sheet %q: %w", name, err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create sheet %q: %w", name, err)
		}

		if err := w.writeSheet(name, sheet, styled); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save spreadsheet: %w", err)
	}
	return nil
}

type workbook struct {
	file   *excelize.File
	header int
	fills  map[string]int
}

func (w *workbook) writeSheet(name string, sheet SheetData, styled bool) error {
	header := make([]any, len(sheet.Header))
	widths := make([]int, len(sheet.Header))
	for i, h := range sheet.Header {
		header[i] = h
		widths[i] = utf8.RuneCountInString(h)
	}
	if err := w.file.SetSheetRow(name, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header of %q: %w", name, err)
	}

	for r, row := range sheet.Rows {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		values := row.Values
		if err := w.file.SetSheetRow(name, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d of %q: %w", r+2, name, err)
		}
		for c, v := range values {
			n := utf8.RuneCountInString(fmt.Sprint(v))
			for len(widths) <= c {
				widths = append(widths, 0)
			}
			if n > widths[c] {
				widths[c] = n
			}
		}

		if styled && row.Fill != "" && len(values) > 0 {
			if err := w.fillRow(name, r+2, len(values), row.Fill); err != nil {
				return err
			}
		}
	}

	if !styled || len(widths) == 0 {
		return nil
	}

	if len(sheet.Header) > 0 {
		if err := w.styleHeader(name, len(sheet.Header)); err != nil {
			return err
		}
	}
	for c, width := range widths {
		col, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			return err
		}
		if err := w.file.SetColWidth(name, col, col, float64(width+2)); err != nil {
			return fmt.Errorf("failed to size column %s of %q: %w", col, name, err)
		}
	}
	return nil
}

func (w *workbook) styleHeader(name string, columns int) error {
	if w.header == 0 {
		id, err := w.file.NewStyle(&excelize.Style{
			Font:      &excelize.Font{Bold: true},
			Alignment: &excelize.Alignment{Horizontal: "center"},
		})
		if err != nil {
			return fmt.Errorf("failed to create header style: %w", err)
		}
		w.header = id
	}

	last, err := excelize.CoordinatesToCellName(columns, 1)
	if err != nil {
		return err
	}
	return w.file.SetCellStyle(name, "A1", last, w.header)
}

func (w *workbook) fillRow(name string, row, columns int, hex string) error {
	id, ok := w.fills[hex]
	if !ok {
		var err error
		id, err = w.file.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Color: []string{hex}, Pattern: 1},
		})
		if err != nil {
			return fmt.Errorf("failed to create fill %s: %w", hex, err)
		}
		w.fills[hex] = id
	}

	first, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(columns, row)
	if err != nil {
		return err
	}
	return w.file.SetCellStyle(name, first, last, id)
}
