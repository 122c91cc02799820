package schema

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// birthDateLayouts are tried in order; the first strict match wins. "1/2/2006"
// accepts both single and zero-padded month/day, so it covers M/D/YYYY and MM/DD/YYYY.
var birthDateLayouts = []string{
	"1/2/2006",
	"2006-01-02",
	"02/01/2006",
	"1-2-2006",
	"02-01-2006",
	"2006/01/02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// serialRe accepts plain decimal text only; ParseFloat alone would also take
// "NaN", "Inf", hex floats and digit separators.
var serialRe = regexp.MustCompile(`^\d+(\.\d+)?$`)

// maxSerial is 9999-12-31 in the 1900 date system.
const maxSerial = 2958465

// DateParseWarning describes a birth date that could not be read.
type DateParseWarning struct {
	Value  string
	Reason string
}

func (w *DateParseWarning) Error() string {
	return fmt.Sprintf("invalid birth date %q: %s", w.Value, w.Reason)
}

// ParseBirthDate reads a birth date cell. Blank cells yield DateMissing,
// unreadable ones DateInvalid plus a warning. It never fails.
func ParseBirthDate(c Cell, date1904 bool) (BirthDate, *DateParseWarning) {
	switch c.Kind {
	case CellEmpty:
		return BirthDate{Status: DateMissing}, nil
	case CellDate:
		return ValidDate(c.Date), nil
	case CellNumber:
		if t, ok := fromSerial(c.Number, date1904); ok {
			return ValidDate(t), nil
		}
		return BirthDate{Status: DateInvalid}, &DateParseWarning{Value: c.String(), Reason: "serial out of range"}
	}

	raw := strings.TrimSpace(c.Text)
	if raw == "" || raw == NotAvailable {
		return BirthDate{Status: DateMissing}, nil
	}

	for _, layout := range birthDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return ValidDate(t), nil
		}
	}

	if !serialRe.MatchString(raw) {
		return BirthDate{Status: DateInvalid}, &DateParseWarning{Value: raw, Reason: "unrecognised format"}
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		if t, ok := fromSerial(f, date1904); ok {
			return ValidDate(t), nil
		}
		return BirthDate{Status: DateInvalid}, &DateParseWarning{Value: raw, Reason: "serial out of range"}
	}

	return BirthDate{Status: DateInvalid}, &DateParseWarning{Value: raw, Reason: "unrecognised format"}
}

func fromSerial(serial float64, date1904 bool) (time.Time, bool) {
	if math.IsNaN(serial) || serial <= 0 || serial > maxSerial {
		return time.Time{}, false
	}
	t, err := excelize.ExcelDateToTime(serial, date1904)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
