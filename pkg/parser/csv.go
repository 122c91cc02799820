package parser

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"voterroll/pkg/schema"
)

// ParseCSV reads a delimited text export. Every cell comes back as Text or
// Empty; rows whose field count differs from the header are padded or
// truncated and reported as RowShape warnings.
func ParseCSV(ctx context.Context, r io.Reader, name string) (*schema.Sheet, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	decoded, _, err := DetectAndDecode(data)
	if err != nil {
		return nil, fmt.Errorf("encoding detection failed: %w", err)
	}

	reader := csv.NewReader(bytes.NewReader(decoded))
	// Allow variable number of fields per record; padding/truncation is handled below.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	sheet := &schema.Sheet{Name: name}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		// The reader skips empty lines, so rows are numbered by the line
		// they start on rather than by count.
		var rowNum int
		if err != nil {
			if sheet.Headers == nil {
				return nil, fmt.Errorf("failed to read header row: %w", err)
			}
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				rowNum = perr.StartLine
			}
			sheet.Warnings = append(sheet.Warnings, schema.Warning{
				Kind:    schema.WarningRowShape,
				Row:     rowNum,
				Message: fmt.Sprintf("parse error: %v", err),
			})
			continue
		}
		rowNum, _ = reader.FieldPos(0)

		if sheet.Headers == nil {
			if allBlank(row) {
				continue
			}
			sheet.Headers = trimHeaders(row)
			continue
		}

		headerCount := len(sheet.Headers)
		if len(row) < headerCount {
			sheet.Warnings = append(sheet.Warnings, schema.Warning{
				Kind:    schema.WarningRowShape,
				Row:     rowNum,
				Message: fmt.Sprintf("row has %d columns, expected %d; padding with empty values", len(row), headerCount),
			})
			padded := make([]string, headerCount)
			copy(padded, row)
			row = padded
		} else if len(row) > headerCount {
			sheet.Warnings = append(sheet.Warnings, schema.Warning{
				Kind:    schema.WarningRowShape,
				Row:     rowNum,
				Message: fmt.Sprintf("row has %d columns, expected %d; truncating extra columns", len(row), headerCount),
			})
			row = row[:headerCount]
		}

		cells := make([]schema.Cell, len(row))
		for i, v := range row {
			cells[i] = schema.TextCell(v)
		}
		if rec, ok := makeRow(sheet.Headers, cells); ok {
			sheet.AppendRow(rec, rowNum)
		}
	}

	if err := finish(sheet); err != nil {
		return nil, err
	}
	return sheet, nil
}

func allBlank(values []string) bool {
	for _, v := range values {
		if trimSpace(v) != "" {
			return false
		}
	}
	return true
}
