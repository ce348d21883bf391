package helpers

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/TomVdv187/CircusDailyVideoStats/engine"
)

// ParseXLSX decodes one sheet of a workbook. An empty sheet name selects the
// first sheet. Cells are read as raw values, so dates arrive as serial day
// numbers and numbers without display formatting; the engine coerces both.
func ParseXLSX(r io.Reader, sheet string) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	if sheet == "" {
		sheet = sheets[0]
	} else if !containsString(sheets, sheet) {
		return nil, fmt.Errorf("sheet %q not found (have %v)", sheet, sheets)
	}

	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	defer rows.Close()

	table := &Table{Sheet: sheet}
	var keys []string
	for rows.Next() {
		cells, err := rows.Columns(excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("failed to read row in %q: %w", sheet, err)
		}
		if keys == nil {
			if len(cells) == 0 {
				continue
			}
			table.Headers = cells
			keys = headerKeys(cells)
			continue
		}
		if row := buildRow(keys, cells); row != nil {
			table.Rows = append(table.Rows, row)
		}
	}
	if err := rows.Error(); err != nil {
		return nil, fmt.Errorf("failed to iterate sheet %q: %w", sheet, err)
	}
	if table.Rows == nil {
		table.Rows = []engine.RawRow{}
	}
	return table, nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
