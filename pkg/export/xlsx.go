// Package export renders tabular report data as spreadsheet files.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ContentTypeXLSX is the MIME type of generated workbooks
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Table is a single worksheet: a header row followed by data rows
type Table struct {
	Sheet   string
	Headers []string
	Rows    [][]interface{}
	// Footer is appended after a blank row, e.g. totals
	Footer []interface{}
}

// WriteXLSX renders the tables into one workbook, one sheet per table
func WriteXLSX(tables ...Table) ([]byte, error) {
	if len(tables) == 0 {
		return nil, fmt.Errorf("export: no tables")
	}

	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("export: header style: %w", err)
	}

	for i, t := range tables {
		sheet := t.Sheet
		if sheet == "" {
			sheet = fmt.Sprintf("Sheet%d", i+1)
		}
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return nil, fmt.Errorf("export: rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return nil, fmt.Errorf("export: new sheet %q: %w", sheet, err)
		}

		if err := writeTable(f, sheet, t, bold); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("export: write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeTable(f *excelize.File, sheet string, t Table, headerStyle int) error {
	header := make([]interface{}, len(t.Headers))
	for i, h := range t.Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("export: header row: %w", err)
	}
	if err := f.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("export: header style: %w", err)
	}

	row := 2
	for _, r := range t.Rows {
		values := r
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("export: row %d: %w", row, err)
		}
		row++
	}

	if len(t.Footer) > 0 {
		row++
		footer := t.Footer
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(sheet, cell, &footer); err != nil {
			return fmt.Errorf("export: footer: %w", err)
		}
		if err := f.SetRowStyle(sheet, row, row, headerStyle); err != nil {
			return fmt.Errorf("export: footer style: %w", err)
		}
	}

	if n := len(t.Headers); n > 0 {
		last, _ := excelize.ColumnNumberToName(n)
		if err := f.SetColWidth(sheet, "A", last, 18); err != nil {
			return fmt.Errorf("export: column width: %w", err)
		}
	}
	return nil
}
