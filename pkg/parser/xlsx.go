package parser

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"voterroll/pkg/schema"
)

var dateCellLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseXLSX reads the first worksheet of an Office Open XML workbook. Cells
// are typed from the workbook: numbers (including date-formatted serials)
// come back as Number, ISO date cells as Date and everything else as Text.
func ParseXLSX(ctx context.Context, r io.Reader, name string) (*schema.Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", name, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &schema.EmptyInputError{Reason: "workbook has no sheets"}
	}
	sheetName := sheets[0]

	sheet := &schema.Sheet{Name: sheetName}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		sheet.Date1904 = *props.Date1904
	}

	rows, err := f.Rows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheetName, err)
	}
	defer rows.Close()

	rowNum := 0
	for rows.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rowNum++

		values, err := rows.Columns(excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", rowNum, err)
		}

		if sheet.Headers == nil {
			if allBlank(values) {
				continue
			}
			sheet.Headers = trimHeaders(values)
			continue
		}

		if len(values) > len(sheet.Headers) {
			sheet.Warnings = append(sheet.Warnings, schema.Warning{
				Kind:    schema.WarningRowShape,
				Row:     rowNum,
				Message: fmt.Sprintf("row has %d columns, expected %d; truncating extra columns", len(values), len(sheet.Headers)),
			})
			values = values[:len(sheet.Headers)]
		}

		cells := make([]schema.Cell, len(values))
		for i, raw := range values {
			cells[i], err = typedCell(f, sheetName, i+1, rowNum, raw)
			if err != nil {
				return nil, err
			}
		}
		if rec, ok := makeRow(sheet.Headers, cells); ok {
			sheet.AppendRow(rec, rowNum)
		}
	}
	if err := rows.Error(); err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheetName, err)
	}

	if err := finish(sheet); err != nil {
		return nil, err
	}
	return sheet, nil
}

// typedCell classifies a raw cell value. Only values that look numeric need
// the cell type lookup; text such as "007" stored as a string stays Text.
func typedCell(f *excelize.File, sheet string, col, row int, raw string) (schema.Cell, error) {
	if raw == "" {
		return schema.Cell{}, nil
	}

	num, numErr := strconv.ParseFloat(raw, 64)
	if numErr != nil && !looksLikeDate(raw) {
		return schema.TextCell(raw), nil
	}

	axis, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return schema.Cell{}, err
	}
	cellType, err := f.GetCellType(sheet, axis)
	if err != nil {
		return schema.Cell{}, fmt.Errorf("cell %s type: %w", axis, err)
	}

	switch cellType {
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		if numErr == nil {
			return schema.NumberCell(num), nil
		}
	case excelize.CellTypeDate:
		for _, layout := range dateCellLayouts {
			if t, err := time.Parse(layout, raw); err == nil {
				return schema.DateCell(t), nil
			}
		}
	}
	return schema.TextCell(raw), nil
}

func looksLikeDate(raw string) bool {
	return len(raw) >= len("2006-01-02") && raw[4] == '-' && raw[7] == '-'
}
