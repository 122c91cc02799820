package engine

import (
	"voterroll/pkg/schema"
)

// Path selects a subtree. Empty components match any name; the station is
// compared through StationKey so "7" selects "مكتب 7".
type Path struct {
	Region   string `json:"region,omitempty"`
	Commune  string `json:"commune,omitempty"`
	District string `json:"district,omitempty"`
	Station  string `json:"station,omitempty"`
}

// Level names a tier of the hierarchy.
type Level int

const (
	LevelRegion Level = iota
	LevelCommune
	LevelDistrict
	LevelStation
)

func (p Path) matches(pl schema.Placement, upTo Level) bool {
	if p.Region != "" && p.Region != pl.Region {
		return false
	}
	if upTo >= LevelCommune && p.Commune != "" && p.Commune != pl.Commune {
		return false
	}
	if upTo >= LevelDistrict && p.District != "" && p.District != pl.District {
		return false
	}
	if upTo >= LevelStation && p.Station != "" && schema.StationKey(p.Station) != schema.StationKey(pl.Station) {
		return false
	}
	return true
}

// Filter returns the voters under p in traversal order.
func Filter(h Hierarchy, p Path) []schema.Voter {
	voters := make([]schema.Voter, 0)
	h.Walk(func(pl schema.Placement, s *Station) bool {
		if p.matches(pl, LevelStation) {
			voters = append(voters, s.Voters...)
		}
		return true
	})
	return voters
}

// Names lists the distinct node names at level under the part of p above
// that level, in order of first appearance.
func Names(h Hierarchy, p Path, level Level) []string {
	names := make([]string, 0)
	seen := make(map[string]bool)
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	for _, r := range h.Regions {
		if level == LevelRegion {
			add(r.Name)
			continue
		}
		if p.Region != "" && p.Region != r.Name {
			continue
		}
		for _, c := range r.Communes {
			if level == LevelCommune {
				add(c.Name)
				continue
			}
			if p.Commune != "" && p.Commune != c.Name {
				continue
			}
			for _, d := range c.Districts {
				if level == LevelDistrict {
					add(d.Name)
					continue
				}
				if p.District != "" && p.District != d.Name {
					continue
				}
				for _, s := range d.Stations {
					add(s.Name)
				}
			}
		}
	}

	return names
}
