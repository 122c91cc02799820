package report

import (
	"time"

	"voterroll/pkg/engine"
	"voterroll/pkg/schema"
)

// GenderCounts tallies voters by gender code.
type GenderCounts struct {
	Male    int `json:"male"`
	Female  int `json:"female"`
	Unknown int `json:"unknown"`
	Total   int `json:"total"`
}

func (g *GenderCounts) add(v schema.Voter) {
	switch v.GenderCode() {
	case schema.GenderMale:
		g.Male++
	case schema.GenderFemale:
		g.Female++
	default:
		g.Unknown++
	}
	g.Total++
}

// DistrictStats is the gender breakdown of one district.
type DistrictStats struct {
	District string `json:"district"`
	GenderCounts
}

// GenderReport breaks a commune down by district.
type GenderReport struct {
	Region    string          `json:"region,omitempty"`
	Commune   string          `json:"commune"`
	Districts []DistrictStats `json:"districts"`
	Totals    GenderCounts    `json:"totals"`
}

// DistrictGender counts voters by gender for every district of the commune.
// An empty region matches the commune in every region; districts sharing a
// name are merged.
func DistrictGender(h engine.Hierarchy, region, commune string) GenderReport {
	report := GenderReport{Region: region, Commune: commune, Districts: make([]DistrictStats, 0)}
	index := make(map[string]int)

	h.Walk(func(p schema.Placement, s *engine.Station) bool {
		if p.Commune != commune || (region != "" && p.Region != region) {
			return true
		}
		i, ok := index[p.District]
		if !ok {
			i = len(report.Districts)
			index[p.District] = i
			report.Districts = append(report.Districts, DistrictStats{District: p.District})
		}
		for _, v := range s.Voters {
			report.Districts[i].add(v)
			report.Totals.add(v)
		}
		return true
	})

	return report
}

// AgeGroup is a dashboard age bracket.
type AgeGroup string

const (
	Age18to25 AgeGroup = "18-25"
	Age26to35 AgeGroup = "26-35"
	Age36to50 AgeGroup = "36-50"
	Age51to65 AgeGroup = "51-65"
	AgeOver65 AgeGroup = "65+"
)

// AgeGroups lists the brackets in display order.
var AgeGroups = []AgeGroup{Age18to25, Age26to35, Age36to50, Age51to65, AgeOver65}

// AgeGroupCount is the number of voters in one bracket.
type AgeGroupCount struct {
	Group AgeGroup `json:"group"`
	Count int      `json:"count"`
}

// AgeDistribution counts voters per bracket as of now. Only valid birth dates
// count; voters younger than 18 fall outside every bracket.
func AgeDistribution(voters []schema.Voter, now time.Time) []AgeGroupCount {
	counts := make(map[AgeGroup]int, len(AgeGroups))
	for _, v := range voters {
		if !v.BirthDate.IsValid() {
			continue
		}
		if g, ok := ageGroupOf(age(v.BirthDate.Date, now)); ok {
			counts[g]++
		}
	}

	out := make([]AgeGroupCount, len(AgeGroups))
	for i, g := range AgeGroups {
		out[i] = AgeGroupCount{Group: g, Count: counts[g]}
	}
	return out
}

func ageGroupOf(years int) (AgeGroup, bool) {
	switch {
	case years >= 18 && years <= 25:
		return Age18to25, true
	case years >= 26 && years <= 35:
		return Age26to35, true
	case years >= 36 && years <= 50:
		return Age36to50, true
	case years >= 51 && years <= 65:
		return Age51to65, true
	case years > 65:
		return AgeOver65, true
	}
	return "", false
}

// age returns completed years between birth and now.
func age(birth, now time.Time) int {
	years := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		years--
	}
	return years
}
