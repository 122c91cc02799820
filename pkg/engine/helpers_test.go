package engine

import (
	"slices"
	"strings"

	"voterroll/pkg/schema"
)

func record(region, commune, district, station, serial, cin, reg string) schema.Record {
	st := schema.StandardizeStationName(station)
	return schema.Record{
		Voter: schema.Voter{
			FirstName:              "first-" + serial,
			LastName:               "last-" + serial,
			Gender:                 schema.MaleLabel,
			BirthDate:              schema.BirthDate{Status: schema.DateMissing},
			NationalID:             schema.NormalizeValue(cin),
			SerialNumber:           schema.NormalizeValue(serial),
			RegistrationNumber:     schema.NormalizeValue(reg),
			Address:                schema.NotAvailable,
			PollingStationAddress:  "addr-" + st,
			PollingStationLocation: "loc-" + st,
			PollingStationName:     st,
		},
		Placement: schema.Placement{Region: region, Commune: commune, District: district, Station: st},
	}
}

// sampleRecords spans two regions with a station name ("مكتب 7") repeated in
// two districts of the same commune.
func sampleRecords() []schema.Record {
	return []schema.Record{
		record("R1", "C1", "D1", "7", "10", "A1", "100"),
		record("R1", "C1", "D1", "7", "2", "A2", "101"),
		record("R1", "C1", "D1", "8", "1", "A3", "102"),
		record("R1", "C1", "D2", "9", "5", "A4", "103"),
		record("R2", "C2", "D1", "12", "3", "B1", "200"),
		record("R2", "C2", "D1", "12", "", "B2", "201"),
		record("R1", "C1", "D1", "7", "007", "A5", "104"),
	}
}

func voterKeys(h Hierarchy) []string {
	var keys []string
	h.Walk(func(_ schema.Placement, s *Station) bool {
		for _, v := range s.Voters {
			keys = append(keys, strings.Join([]string{v.NationalID, v.SerialNumber, schema.StationKey(s.Name)}, "|"))
		}
		return true
	})
	slices.Sort(keys)
	return keys
}

func serials(s *Station) []string {
	out := make([]string, len(s.Voters))
	for i, v := range s.Voters {
		out[i] = v.SerialNumber
	}
	return out
}

func findStation(h Hierarchy, region, commune, district, station string) *Station {
	var found *Station
	h.Walk(func(p schema.Placement, s *Station) bool {
		if p.Region == region && p.Commune == commune && p.District == district && p.Station == station {
			found = s
			return false
		}
		return true
	})
	return found
}

func sheetOf(headers []string, rows ...[]string) *schema.Sheet {
	sheet := &schema.Sheet{Name: "test", Headers: headers}
	for _, values := range rows {
		row := make(schema.Row, len(headers))
		for i, h := range headers {
			if i < len(values) {
				row[h] = schema.TextCell(values[i])
			}
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	return sheet
}
