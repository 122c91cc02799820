// Package engine folds voter records into the administrative hierarchy and
// reconciles the cancellation ledger against it. Every exported operation
// takes a State and returns a new one; inputs are never mutated.
package engine

import (
	"slices"

	"voterroll/pkg/schema"
)

// Station is a polling station with its voters sorted by serial number.
type Station struct {
	Name     string         `json:"name"`
	Address  string         `json:"address"`
	Location string         `json:"location"`
	Voters   []schema.Voter `json:"voters"`
}

// District groups polling stations.
type District struct {
	Name     string     `json:"name"`
	Stations []*Station `json:"stations"`
}

// Commune groups districts.
type Commune struct {
	Name      string      `json:"name"`
	Districts []*District `json:"districts"`
}

// Region is the top administrative level.
type Region struct {
	Name     string     `json:"name"`
	Communes []*Commune `json:"communes"`
}

// Hierarchy is the ordered list of regions. Nodes reachable from a Hierarchy
// are never modified once built, so hierarchies may share subtrees.
type Hierarchy struct {
	Regions []*Region `json:"regions"`
}

// HierarchyStats contains node counts per level.
type HierarchyStats struct {
	Regions   int `json:"regions"`
	Communes  int `json:"communes"`
	Districts int `json:"districts"`
	Stations  int `json:"stations"`
	Voters    int `json:"voters"`
}

type communeKey struct{ region, commune string }
type districtKey struct{ region, commune, district string }
type stationKey struct{ region, commune, district, station string }

// Aggregate folds records into a Hierarchy. Nodes are deduplicated by exact
// name within their parent and keep the order in which they first appeared.
// Station address and location come from the first voter seen there.
func Aggregate(records []schema.Record) Hierarchy {
	var h Hierarchy

	regions := make(map[string]*Region)
	communes := make(map[communeKey]*Commune)
	districts := make(map[districtKey]*District)
	stations := make(map[stationKey]*Station)

	for _, rec := range records {
		p := rec.Placement

		region, ok := regions[p.Region]
		if !ok {
			region = &Region{Name: p.Region}
			regions[p.Region] = region
			h.Regions = append(h.Regions, region)
		}

		ck := communeKey{p.Region, p.Commune}
		commune, ok := communes[ck]
		if !ok {
			commune = &Commune{Name: p.Commune}
			communes[ck] = commune
			region.Communes = append(region.Communes, commune)
		}

		dk := districtKey{p.Region, p.Commune, p.District}
		district, ok := districts[dk]
		if !ok {
			district = &District{Name: p.District}
			districts[dk] = district
			commune.Districts = append(commune.Districts, district)
		}

		sk := stationKey{p.Region, p.Commune, p.District, p.Station}
		station, ok := stations[sk]
		if !ok {
			station = &Station{
				Name:     p.Station,
				Address:  rec.Voter.PollingStationAddress,
				Location: rec.Voter.PollingStationLocation,
			}
			stations[sk] = station
			district.Stations = append(district.Stations, station)
		}

		station.Voters = append(station.Voters, rec.Voter)
	}

	for _, s := range stations {
		sortVoters(s.Voters)
	}

	return h
}

// Walk calls fn for every station in depth-first order until fn returns false.
func (h Hierarchy) Walk(fn func(p schema.Placement, s *Station) bool) {
	for _, r := range h.Regions {
		for _, c := range r.Communes {
			for _, d := range c.Districts {
				for _, s := range d.Stations {
					p := schema.Placement{Region: r.Name, Commune: c.Name, District: d.Name, Station: s.Name}
					if !fn(p, s) {
						return
					}
				}
			}
		}
	}
}

// VoterCount returns the number of voters across all stations.
func (h Hierarchy) VoterCount() int {
	n := 0
	h.Walk(func(_ schema.Placement, s *Station) bool {
		n += len(s.Voters)
		return true
	})
	return n
}

// Stats counts the nodes at every level.
func (h Hierarchy) Stats() HierarchyStats {
	stats := HierarchyStats{Regions: len(h.Regions)}
	for _, r := range h.Regions {
		stats.Communes += len(r.Communes)
		for _, c := range r.Communes {
			stats.Districts += len(c.Districts)
			for _, d := range c.Districts {
				stats.Stations += len(d.Stations)
				for _, s := range d.Stations {
					stats.Voters += len(s.Voters)
				}
			}
		}
	}
	return stats
}

// stationPath addresses a station by its position in the tree.
type stationPath struct {
	region, commune, district, station int
}

func (h Hierarchy) at(p stationPath) *Station {
	return h.Regions[p.region].Communes[p.commune].Districts[p.district].Stations[p.station]
}

func (h Hierarchy) placementOf(p stationPath) schema.Placement {
	r := h.Regions[p.region]
	c := r.Communes[p.commune]
	d := c.Districts[p.district]
	return schema.Placement{Region: r.Name, Commune: c.Name, District: d.Name, Station: d.Stations[p.station].Name}
}

// stationIndex maps a StationKey to the first station carrying it in
// traversal order. First occurrence wins for duplicates across districts.
func (h Hierarchy) stationIndex() map[string]stationPath {
	index := make(map[string]stationPath)
	for ri, r := range h.Regions {
		for ci, c := range r.Communes {
			for di, d := range c.Districts {
				for si, s := range d.Stations {
					key := schema.StationKey(s.Name)
					if _, exists := index[key]; !exists {
						index[key] = stationPath{ri, ci, di, si}
					}
				}
			}
		}
	}
	return index
}

// withStation returns a copy of h in which the station at p is replaced by
// the result of fn. Only the spine leading to p is copied.
func (h Hierarchy) withStation(p stationPath, fn func(Station) *Station) Hierarchy {
	oldRegion := h.Regions[p.region]
	oldCommune := oldRegion.Communes[p.commune]
	oldDistrict := oldCommune.Districts[p.district]

	district := &District{Name: oldDistrict.Name, Stations: slices.Clone(oldDistrict.Stations)}
	district.Stations[p.station] = fn(*oldDistrict.Stations[p.station])

	commune := &Commune{Name: oldCommune.Name, Districts: slices.Clone(oldCommune.Districts)}
	commune.Districts[p.district] = district

	region := &Region{Name: oldRegion.Name, Communes: slices.Clone(oldRegion.Communes)}
	region.Communes[p.commune] = commune

	out := Hierarchy{Regions: slices.Clone(h.Regions)}
	out.Regions[p.region] = region
	return out
}
