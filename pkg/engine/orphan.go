package engine

import (
	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"

	"voterroll/pkg/schema"
)

// NearMiss pairs an orphan entry with a voter of the same station whose key
// differs in exactly one part, which usually means a typo in the
// cancellation sheet.
type NearMiss struct {
	Entry         schema.Voter     `json:"entry"`
	Voter         schema.Voter     `json:"voter"`
	Placement     schema.Placement `json:"placement"`
	Field         string           `json:"field"`
	EntryValue    string           `json:"entryValue"`
	RegistryValue string           `json:"registryValue"`
	Similarity    float64          `json:"similarity"`
}

var keyPartFields = [3]string{"nationalId", "serialNumber", "registrationNumber"}

func keyParts(k Key) [3]string {
	return [3]string{k.NationalID, k.Serial, k.Registration}
}

// findNearMiss picks the candidate whose single differing key part is most
// similar to the entry's, by normalized Levenshtein distance. Earlier
// candidates win ties.
func findNearMiss(entry schema.Voter, candidates []locatedVoter) (NearMiss, bool) {
	lev := metrics.NewLevenshtein()
	entryParts := keyParts(EntryKey(entry))

	var (
		best  NearMiss
		found bool
	)
	for _, c := range candidates {
		voterParts := keyParts(KeyOf(c.voter, c.placement.Station))

		diff, differing := -1, 0
		for i := range entryParts {
			if entryParts[i] != voterParts[i] {
				diff = i
				differing++
			}
		}
		if differing != 1 {
			continue
		}

		score := strutil.Similarity(entryParts[diff], voterParts[diff], lev)
		if found && score <= best.Similarity {
			continue
		}
		best = NearMiss{
			Entry:         entry,
			Voter:         c.voter,
			Placement:     c.placement,
			Field:         keyPartFields[diff],
			EntryValue:    entryParts[diff],
			RegistryValue: voterParts[diff],
			Similarity:    score,
		}
		found = true
	}
	return best, found
}
