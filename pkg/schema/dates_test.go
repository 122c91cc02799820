package schema

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBirthDateText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "iso", input: "1990-05-12", expected: "1990-05-12"},
		{name: "month first", input: "5/12/1990", expected: "1990-05-12"},
		{name: "month first padded", input: "05/12/1990", expected: "1990-05-12"},
		{name: "day first when month overflows", input: "25/12/1990", expected: "1990-12-25"},
		{name: "dashes month first", input: "5-12-1990", expected: "1990-05-12"},
		{name: "dashes day first", input: "25-12-1990", expected: "1990-12-25"},
		{name: "slashed iso", input: "1990/05/12", expected: "1990-05-12"},
		{name: "iso with time", input: "1990-05-12 00:00:00", expected: "1990-05-12"},
		{name: "surrounding spaces", input: "  1990-05-12 ", expected: "1990-05-12"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, warn := ParseBirthDate(TextCell(tt.input), false)
			assert.Nil(t, warn)
			assert.Equal(t, DateValid, got.Status)
			assert.Equal(t, tt.expected, got.String())
		})
	}
}

func TestParseBirthDateCanonicalRoundTrip(t *testing.T) {
	start := time.Date(1920, 1, 1, 0, 0, 0, 0, time.UTC)
	for d := start; d.Year() < 2010; d = d.AddDate(0, 0, 97) {
		iso := d.Format("2006-01-02")
		got, warn := ParseBirthDate(TextCell(iso), false)
		require.Nil(t, warn, iso)
		require.Equal(t, iso, got.String())
	}
}

func TestParseBirthDateSerial(t *testing.T) {
	epoch := time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)
	expected := epoch.AddDate(0, 0, 45001).Format("2006-01-02")

	got, warn := ParseBirthDate(NumberCell(45001), false)
	assert.Nil(t, warn)
	assert.Equal(t, expected, got.String())
	assert.Equal(t, "2023-03-16", got.String())

	got, warn = ParseBirthDate(TextCell("45001"), false)
	assert.Nil(t, warn)
	assert.Equal(t, expected, got.String())
}

func TestParseBirthDateSentinels(t *testing.T) {
	got, warn := ParseBirthDate(TextCell("not-a-date"), false)
	require.NotNil(t, warn)
	assert.Equal(t, DateInvalid, got.Status)
	assert.Equal(t, Invalid, got.String())

	got, warn = ParseBirthDate(Cell{}, false)
	assert.Nil(t, warn)
	assert.Equal(t, DateMissing, got.Status)
	assert.Equal(t, NotAvailable, got.String())

	got, warn = ParseBirthDate(TextCell("   "), false)
	assert.Nil(t, warn)
	assert.Equal(t, NotAvailable, got.String())

	got, warn = ParseBirthDate(NumberCell(-4), false)
	require.NotNil(t, warn)
	assert.Equal(t, Invalid, got.String())

	got, warn = ParseBirthDate(TextCell("2/30/1990"), false)
	require.NotNil(t, warn)
	assert.Equal(t, Invalid, got.String())

	for _, raw := range []string{"NaN", "nan", "Inf", "-Inf", "0x1p-2", "1_000", "+45001", "1e4"} {
		got, warn = ParseBirthDate(TextCell(raw), false)
		require.NotNil(t, warn, raw)
		assert.Equal(t, DateInvalid, got.Status, raw)
		assert.Equal(t, Invalid, got.String(), raw)
	}

	got, warn = ParseBirthDate(NumberCell(math.NaN()), false)
	require.NotNil(t, warn)
	assert.Equal(t, DateInvalid, got.Status)
}

func TestParseBirthDateDateCell(t *testing.T) {
	got, warn := ParseBirthDate(DateCell(time.Date(1984, 2, 29, 13, 30, 0, 0, time.UTC)), false)
	assert.Nil(t, warn)
	assert.Equal(t, "1984-02-29", got.String())
}

func TestBirthDateJSON(t *testing.T) {
	tests := []struct {
		name string
		in   BirthDate
		json string
	}{
		{name: "valid", in: ValidDate(time.Date(1990, 5, 12, 0, 0, 0, 0, time.UTC)), json: `"1990-05-12"`},
		{name: "missing", in: BirthDate{Status: DateMissing}, json: `"` + NotAvailable + `"`},
		{name: "invalid", in: BirthDate{Status: DateInvalid}, json: `"` + Invalid + `"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := tt.in.MarshalJSON()
			require.NoError(t, err)
			assert.JSONEq(t, tt.json, string(data))

			var back BirthDate
			require.NoError(t, back.UnmarshalJSON(data))
			assert.Equal(t, tt.in, back)
		})
	}
}
