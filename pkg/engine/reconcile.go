package engine

import (
	"voterroll/pkg/schema"
)

// Reconciliation previews what ConfirmAll would do with the pending list.
type Reconciliation struct {
	Matched    []MatchedEntry `json:"matched"`
	Orphans    []schema.Voter `json:"orphans"`
	NearMisses []NearMiss     `json:"nearMisses"`
	Stats      ReconcileStats `json:"stats"`
}

// MatchedEntry is a pending entry together with the first registry voter it
// designates.
type MatchedEntry struct {
	Entry     schema.Voter     `json:"entry"`
	Voter     schema.Voter     `json:"voter"`
	Placement schema.Placement `json:"placement"`
	Conflicts []FieldConflict  `json:"conflicts"`
}

// ReconcileStats contains aggregate counts of a reconciliation.
type ReconcileStats struct {
	TotalProcessed int `json:"totalProcessed"`
	Matched        int `json:"matched"`
	Orphans        int `json:"orphans"`
	NearMisses     int `json:"nearMisses"`
	Conflicting    int `json:"conflicting"`
	VotersAffected int `json:"votersAffected"`
}

type locatedVoter struct {
	voter     schema.Voter
	placement schema.Placement
}

// Reconcile matches every pending entry against the hierarchy. Entries that
// designate no voter are orphans: confirming them removes nothing. Orphans
// that are one key part away from a voter of their station are also reported
// as near misses.
func Reconcile(st State) Reconciliation {
	byKey := make(map[Key][]locatedVoter)
	byStation := make(map[string][]locatedVoter)
	st.Hierarchy.Walk(func(p schema.Placement, s *Station) bool {
		for _, v := range s.Voters {
			k := KeyOf(v, s.Name)
			lv := locatedVoter{voter: v, placement: p}
			byKey[k] = append(byKey[k], lv)
			byStation[k.Station] = append(byStation[k.Station], lv)
		}
		return true
	})

	result := Reconciliation{
		Matched:    make([]MatchedEntry, 0),
		Orphans:    make([]schema.Voter, 0),
		NearMisses: make([]NearMiss, 0),
	}
	counted := make(map[Key]bool)

	for _, e := range st.Pending {
		result.Stats.TotalProcessed++
		key := EntryKey(e)

		hits := byKey[key]
		if len(hits) == 0 {
			result.Orphans = append(result.Orphans, e)
			result.Stats.Orphans++
			if nm, ok := findNearMiss(e, byStation[key.Station]); ok {
				result.NearMisses = append(result.NearMisses, nm)
				result.Stats.NearMisses++
			}
			continue
		}

		conflicts := DetectConflicts(hits[0].voter, e)
		result.Matched = append(result.Matched, MatchedEntry{
			Entry:     e,
			Voter:     hits[0].voter,
			Placement: hits[0].placement,
			Conflicts: conflicts,
		})
		result.Stats.Matched++
		if len(conflicts) > 0 {
			result.Stats.Conflicting++
		}
		if !counted[key] {
			counted[key] = true
			result.Stats.VotersAffected += len(hits)
		}
	}

	return result
}
