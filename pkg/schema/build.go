package schema

import (
	"fmt"
	"strings"
)

// BuildVoter turns one raw row into a Voter and its Placement. Missing or
// malformed cells degrade to sentinels and warnings; it never fails.
func BuildVoter(row Row, cm ColumnMap, date1904 bool) (Record, []Warning) {
	var warnings []Warning

	cell := func(f Field) Cell {
		header, ok := cm.Header(f)
		if !ok {
			return Cell{}
		}
		return row[header]
	}
	text := func(f Field) string {
		return strings.TrimSpace(cell(f).String())
	}

	birthDate, dateWarn := ParseBirthDate(cell(FieldBirthDate), date1904)
	if dateWarn != nil {
		warnings = append(warnings, Warning{
			Kind:    WarningDateParse,
			Field:   FieldBirthDate.Name,
			Value:   dateWarn.Value,
			Message: dateWarn.Error(),
		})
	}

	registration := text(FieldRegistrationNumber)
	if registration == "" {
		registration = NotAvailable
	}

	station := StandardizeStationName(text(FieldStationName))

	voter := Voter{
		FirstName:              orNotAvailable(text(FieldFirstName)),
		LastName:               orNotAvailable(text(FieldLastName)),
		Gender:                 NormalizeGender(text(FieldGender)),
		BirthDate:              birthDate,
		NationalID:             NormalizeValue(cell(FieldNationalID).String()),
		SerialNumber:           NormalizeValue(cell(FieldSerialNumber).String()),
		RegistrationNumber:     NormalizeValue(registration),
		Address:                orNotAvailable(text(FieldAddress)),
		PollingStationAddress:  orNotAvailable(text(FieldStationAddress)),
		PollingStationLocation: orNotAvailable(text(FieldStationLocation)),
		PollingStationName:     station,
	}

	placement := Placement{
		Region:   orUnknown(text(FieldRegion)),
		Commune:  orUnknown(text(FieldCommune)),
		District: orUnknown(text(FieldDistrict)),
		Station:  station,
	}

	var blank []string
	for _, f := range []Field{FieldRegion, FieldCommune, FieldDistrict, FieldStationName} {
		if text(f) == "" {
			blank = append(blank, f.Name)
		}
	}
	if len(blank) > 0 {
		warnings = append(warnings, Warning{
			Kind:    WarningAggregationIntegrity,
			Field:   strings.Join(blank, ","),
			Message: fmt.Sprintf("blank %s grouped under %q", strings.Join(blank, ", "), Unknown),
		})
	}

	return Record{Voter: voter, Placement: placement}, warnings
}

// BuildRecords builds every data row of the sheet in order. Warnings carry the
// spreadsheet row number (header is row 1).
func BuildRecords(sheet *Sheet, cm ColumnMap) ([]Record, []Warning) {
	records := make([]Record, 0, len(sheet.Rows))
	var warnings []Warning

	for i, row := range sheet.Rows {
		rec, rowWarnings := BuildVoter(row, cm, sheet.Date1904)
		rec.Row = sheet.RowNumber(i)
		for _, w := range rowWarnings {
			w.Row = rec.Row
			warnings = append(warnings, w)
		}
		records = append(records, rec)
	}

	return records, warnings
}
