package parser

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"voterroll/pkg/schema"
)

func buildWorkbook(t *testing.T, date1904 bool, rows ...[]any) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if date1904 {
		require.NoError(t, f.SetWorkbookProps(&excelize.WorkbookPropsOptions{Date1904: &date1904}))
	}

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		axis, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, axis, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestParseXLSXTypedCells(t *testing.T) {
	data := buildWorkbook(t, false,
		[]any{" الرقم الترتيبي ", "تاريخ الازدياد", "الإسم الشخصي للناخب", "مكتب التصويت"},
		[]any{"007", 45001, "أحمد", 7},
		[]any{"10", "1990-05-12", "سعاد", 12.5},
	)

	sheet, err := ParseXLSX(context.Background(), bytes.NewReader(data), "registry.xlsx")
	require.NoError(t, err)

	assert.Equal(t, "Sheet1", sheet.Name)
	assert.False(t, sheet.Date1904)
	assert.Equal(t, "الرقم الترتيبي", sheet.Headers[0])
	require.Len(t, sheet.Rows, 2)

	first := sheet.Rows[0]
	assert.Equal(t, schema.TextCell("007"), first["الرقم الترتيبي"])
	assert.Equal(t, schema.NumberCell(45001), first["تاريخ الازدياد"])
	assert.Equal(t, schema.TextCell("أحمد"), first["الإسم الشخصي للناخب"])
	assert.Equal(t, schema.NumberCell(7), first["مكتب التصويت"])

	second := sheet.Rows[1]
	assert.Equal(t, schema.TextCell("10"), second["الرقم الترتيبي"])
	assert.Equal(t, schema.TextCell("1990-05-12"), second["تاريخ الازدياد"])
	assert.Equal(t, "12.5", second["مكتب التصويت"].String())
}

func TestParseXLSXSkipsEmptyRows(t *testing.T) {
	data := buildWorkbook(t, false,
		nil,
		[]any{"a", "b"},
		nil,
		[]any{"1", "2"},
		nil,
		[]any{"3"},
	)

	sheet, err := ParseXLSX(context.Background(), bytes.NewReader(data), "x.xlsx")
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, sheet.Headers)
	require.Len(t, sheet.Rows, 2)
	assert.Equal(t, schema.Cell{}, sheet.Rows[1]["b"])
	assert.Equal(t, []int{4, 6}, sheet.RowNumbers)
}

func TestParseXLSXDate1904(t *testing.T) {
	data := buildWorkbook(t, true, []any{"a"}, []any{1})

	sheet, err := ParseXLSX(context.Background(), bytes.NewReader(data), "x.xlsx")
	require.NoError(t, err)
	assert.True(t, sheet.Date1904)
}

func TestParseXLSXEmptyInput(t *testing.T) {
	tests := []struct {
		name string
		rows [][]any
	}{
		{name: "no rows"},
		{name: "header only", rows: [][]any{{"a", "b"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := buildWorkbook(t, false, tt.rows...)
			sheet, err := ParseXLSX(context.Background(), bytes.NewReader(data), "x.xlsx")
			assert.Nil(t, sheet)
			var empty *schema.EmptyInputError
			require.ErrorAs(t, err, &empty)
		})
	}
}

func TestParseXLSXCancelled(t *testing.T) {
	data := buildWorkbook(t, false, []any{"a"}, []any{"1"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sheet, err := ParseXLSX(ctx, bytes.NewReader(data), "x.xlsx")
	assert.Nil(t, sheet)
	require.ErrorIs(t, err, context.Canceled)
}

func TestParseDispatch(t *testing.T) {
	xlsx := buildWorkbook(t, false, []any{"a"}, []any{"1"})

	tests := []struct {
		name string
		file string
		data []byte
	}{
		{name: "xlsx extension", file: "r.xlsx", data: xlsx},
		{name: "sniffed workbook", file: "upload", data: xlsx},
		{name: "csv extension", file: "r.CSV", data: []byte("a\n1\n")},
		{name: "sniffed text", file: "upload", data: []byte("a\n1\n")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sheet, err := Parse(context.Background(), bytes.NewReader(tt.data), tt.file)
			require.NoError(t, err)
			assert.Equal(t, []string{"a"}, sheet.Headers)
			require.Len(t, sheet.Rows, 1)
			assert.Equal(t, "1", sheet.Rows[0]["a"].String())
		})
	}
}

func TestParseRejectsLegacyWorkbook(t *testing.T) {
	_, err := Parse(context.Background(), bytes.NewReader([]byte{0xD0, 0xCF}), "old.xls")
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}
