package xlsx

import (
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// DefaultSheet is the sheet name used when reading and writing workbooks.
const DefaultSheet = "Sheet1"

// DecodeRows reads the first sheet of a workbook and returns one loosely-typed
// row per data line, keyed by the header row's column labels. Cells outside
// the header width are ignored; missing trailing cells are left absent.
func DecodeRows(r io.Reader) ([]map[string]any, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, errors.New("workbook has no sheets")
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, errors.New("sheet is empty")
	}

	headers := rows[0]
	out := make([]map[string]any, 0, len(rows)-1)
	for _, line := range rows[1:] {
		row := make(map[string]any, len(headers))
		empty := true
		for i, header := range headers {
			if header == "" || i >= len(line) {
				continue
			}
			row[header] = line[i]
			if line[i] != "" {
				empty = false
			}
		}
		if !empty {
			out = append(out, row)
		}
	}

	return out, nil
}

// EncodeRows writes rows as a single-sheet workbook. Columns appear in header
// order; rows missing a key get an empty cell.
func EncodeRows(w io.Writer, headers []string, rows []map[string]any) error {
	if len(headers) == 0 {
		return errors.New("headers are required")
	}

	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet(DefaultSheet); err != nil {
		return err
	}

	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(DefaultSheet, cell, header); err != nil {
			return err
		}
	}

	for rowIdx, row := range rows {
		for colIdx, header := range headers {
			value, ok := row[header]
			if !ok || value == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(DefaultSheet, cell, value); err != nil {
				return err
			}
		}
	}

	return f.Write(w)
}
