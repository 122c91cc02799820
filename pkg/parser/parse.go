// Package parser reads uploaded spreadsheets into schema.Sheet values.
package parser

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode"

	"voterroll/pkg/schema"
)

// ErrUnsupportedFormat is returned for files that are neither xlsx nor csv.
var ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")

var zipMagic = []byte("PK\x03\x04")

// Parse reads the first worksheet of r. The format is chosen from the file
// extension of name, falling back to sniffing the zip signature of xlsx files.
func Parse(ctx context.Context, r io.Reader, name string) (*schema.Sheet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return ParseXLSX(ctx, r, name)
	case ".csv", ".txt":
		return ParseCSV(ctx, r, name)
	case ".xls":
		return nil, fmt.Errorf("%w: legacy .xls workbooks must be saved as .xlsx", ErrUnsupportedFormat)
	}

	br := bufio.NewReader(r)
	head, err := br.Peek(len(zipMagic))
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("sniff %s: %w", name, err)
	}
	if bytes.Equal(head, zipMagic) {
		return ParseXLSX(ctx, br, name)
	}
	return ParseCSV(ctx, br, name)
}

// makeRow pairs cells with their headers. Columns under a blank header are
// dropped and rows without any visible content are reported as not ok.
func makeRow(headers []string, cells []schema.Cell) (schema.Row, bool) {
	row := make(schema.Row, len(headers))
	visible := false
	for i, h := range headers {
		if h == "" {
			continue
		}
		var c schema.Cell
		if i < len(cells) {
			c = cells[i]
		}
		if !c.IsBlank() {
			visible = true
		}
		row[h] = c
	}
	return row, visible
}

func trimHeaders(values []string) []string {
	headers := make([]string, len(values))
	for i, v := range values {
		headers[i] = trimSpace(v)
	}
	return headers
}

func finish(sheet *schema.Sheet) error {
	if sheet.Headers == nil {
		return &schema.EmptyInputError{Reason: "no header row found"}
	}
	if len(sheet.Rows) == 0 {
		return &schema.EmptyInputError{Reason: "file contains no data rows"}
	}
	return nil
}

// trimSpace trims leading/trailing whitespace and stray BOM characters.
func trimSpace(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\uFEFF'
	})
}
