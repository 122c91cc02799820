package report

import (
	"errors"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"voterroll/pkg/engine"
	"voterroll/pkg/schema"
)

// ErrNoVoters is returned when a roll-up selection contains no voters.
var ErrNoVoters = errors.New("no voters for the selected commune")

// DistrictListing is one district section of the printed election list.
type DistrictListing struct {
	District   string         `json:"district"`
	Voters     []schema.Voter `json:"voters"`
	Count      int            `json:"count"`
	CountWords string         `json:"countWords"`
}

// DistrictRollup gathers the voters of every district of commune, optionally
// limited to one station, each district sorted by serial. Districts without
// voters are left out and the rest are ordered by name with numbers compared
// by value, so "2" comes before "10".
func DistrictRollup(h engine.Hierarchy, commune, station string) ([]DistrictListing, error) {
	var listings []DistrictListing
	stationKey := ""
	if station != "" {
		stationKey = schema.StationKey(station)
	}

	for _, r := range h.Regions {
		for _, c := range r.Communes {
			if c.Name != commune {
				continue
			}
			for _, d := range c.Districts {
				var voters []schema.Voter
				for _, s := range d.Stations {
					if stationKey != "" && schema.StationKey(s.Name) != stationKey {
						continue
					}
					voters = append(voters, s.Voters...)
				}
				if len(voters) == 0 {
					continue
				}
				slices.SortStableFunc(voters, func(a, b schema.Voter) int {
					return engine.CompareSerials(a.SerialNumber, b.SerialNumber)
				})
				listings = append(listings, DistrictListing{
					District:   d.Name,
					Voters:     voters,
					Count:      len(voters),
					CountWords: ArabicWords(len(voters)),
				})
			}
		}
	}

	if len(listings) == 0 {
		return nil, ErrNoVoters
	}

	col := collate.New(language.Arabic, collate.Numeric)
	slices.SortStableFunc(listings, func(a, b DistrictListing) int {
		return col.CompareString(a.District, b.District)
	})

	return listings, nil
}
