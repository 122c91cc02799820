package engine

import (
	"encoding/json"
	"fmt"

	"voterroll/pkg/schema"
)

// Snapshot is the persisted form of a State: three independent JSON values
// holding plain records only.
type Snapshot struct {
	Hierarchy json.RawMessage `json:"hierarchy"`
	Pending   json.RawMessage `json:"pending"`
	Confirmed json.RawMessage `json:"confirmed"`
}

// IsZero reports whether nothing was ever stored in the snapshot.
func (s Snapshot) IsZero() bool {
	return len(s.Hierarchy) == 0 && len(s.Pending) == 0 && len(s.Confirmed) == 0
}

// Encode serializes st. The hierarchy is written as the array of regions and
// empty lists are written as [] rather than null.
func Encode(st State) (Snapshot, error) {
	hierarchy, err := json.Marshal(nonNil(st.Hierarchy.Regions))
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to serialize hierarchy: %w", err)
	}
	pending, err := json.Marshal(nonNil(st.Pending))
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to serialize pending list: %w", err)
	}
	confirmed, err := json.Marshal(nonNil(st.Confirmed))
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to serialize confirmed list: %w", err)
	}
	return Snapshot{Hierarchy: hierarchy, Pending: pending, Confirmed: confirmed}, nil
}

// Decode rebuilds a State. Missing parts decode as empty.
func Decode(s Snapshot) (State, error) {
	var st State

	if len(s.Hierarchy) > 0 {
		if err := json.Unmarshal(s.Hierarchy, &st.Hierarchy.Regions); err != nil {
			return State{}, fmt.Errorf("failed to deserialize hierarchy: %w", err)
		}
	}
	if len(s.Pending) > 0 {
		if err := json.Unmarshal(s.Pending, &st.Pending); err != nil {
			return State{}, fmt.Errorf("failed to deserialize pending list: %w", err)
		}
	}
	if len(s.Confirmed) > 0 {
		if err := json.Unmarshal(s.Confirmed, &st.Confirmed); err != nil {
			return State{}, fmt.Errorf("failed to deserialize confirmed list: %w", err)
		}
	}

	if err := checkNodes(st.Hierarchy); err != nil {
		return State{}, fmt.Errorf("failed to deserialize hierarchy: %w", err)
	}

	// Aggregate always produces sorted stations; re-establish that for
	// snapshots written by other tools.
	st.Hierarchy.Walk(func(_ schema.Placement, s *Station) bool {
		sortVoters(s.Voters)
		return true
	})

	return st, nil
}

// checkNodes rejects null entries in any node list.
func checkNodes(h Hierarchy) error {
	for ri, r := range h.Regions {
		if r == nil {
			return fmt.Errorf("region %d is null", ri)
		}
		for ci, c := range r.Communes {
			if c == nil {
				return fmt.Errorf("region %q: commune %d is null", r.Name, ci)
			}
			for di, d := range c.Districts {
				if d == nil {
					return fmt.Errorf("commune %q: district %d is null", c.Name, di)
				}
				for si, st := range d.Stations {
					if st == nil {
						return fmt.Errorf("district %q: station %d is null", d.Name, si)
					}
				}
			}
		}
	}
	return nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
