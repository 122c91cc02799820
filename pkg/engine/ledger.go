package engine

import (
	"errors"
	"fmt"
	"slices"

	"voterroll/pkg/schema"
)

// State is the unit that is versioned and persisted: the hierarchy together
// with both cancellation lists.
type State struct {
	Hierarchy Hierarchy
	Pending   []schema.Voter
	Confirmed []Confirmation
}

// Confirmation is a confirmed ledger entry. Orphan marks an entry that
// matched no voter when it was confirmed, so restoring it must not add one.
type Confirmation struct {
	schema.Voter
	Orphan bool `json:"orphan,omitempty"`
}

// IsEmpty reports whether the state holds no voters and no ledger entries.
func (st State) IsEmpty() bool {
	return len(st.Hierarchy.Regions) == 0 && len(st.Pending) == 0 && len(st.Confirmed) == 0
}

// ErrNotInLedger is returned by Restore when no ledger entry matches.
var ErrNotInLedger = errors.New("entry not found in cancellation ledger")

// StationNotFoundError reports a restore whose polling station is no longer
// present anywhere in the hierarchy.
type StationNotFoundError struct {
	Station string
}

func (e *StationNotFoundError) Error() string {
	return fmt.Sprintf("polling station %q not found in hierarchy", e.Station)
}

// LoadResult describes a registry upload.
type LoadResult struct {
	Voters   int              `json:"voters"`
	Stats    HierarchyStats   `json:"stats"`
	Columns  schema.ColumnMap `json:"columns"`
	Warnings []schema.Warning `json:"warnings"`
}

// IngestResult describes a cancellation upload.
type IngestResult struct {
	Added    int              `json:"added"`
	Pending  int              `json:"pending"`
	Warnings []schema.Warning `json:"warnings"`
}

// ConfirmResult describes a confirm-all run.
type ConfirmResult struct {
	Removed  int              `json:"removed"`
	Moved    int              `json:"moved"`
	Warnings []schema.Warning `json:"warnings"`
}

// RestoreResult describes a single restoration.
type RestoreResult struct {
	Removed   int              `json:"removed"`
	Restored  bool             `json:"restored"`
	Placement schema.Placement `json:"placement"`
}

// RestoreAllResult describes a bulk restoration.
type RestoreAllResult struct {
	Restored   int            `json:"restored"`
	Duplicates int            `json:"duplicates"`
	Discarded  int            `json:"discarded"`
	Orphaned   int            `json:"orphaned"`
	Unplaced   []Confirmation `json:"unplaced"`
}

// LoadRegistry replaces the hierarchy with one built from a registry sheet.
// The cancellation ledger is carried over untouched.
func LoadRegistry(st State, sheet *schema.Sheet, opts ...schema.MapOption) (State, LoadResult, error) {
	if len(sheet.Rows) == 0 {
		return st, LoadResult{}, &schema.EmptyInputError{Reason: "file contains no data rows"}
	}

	cm, err := schema.MapColumns(sheet.Headers, opts...)
	if err != nil {
		return st, LoadResult{}, err
	}

	records, warnings := schema.BuildRecords(sheet, cm)
	h := Aggregate(records)

	next := State{Hierarchy: h, Pending: st.Pending, Confirmed: st.Confirmed}
	return next, LoadResult{
		Voters:   len(records),
		Stats:    h.Stats(),
		Columns:  cm,
		Warnings: slices.Concat(sheet.Warnings, warnings),
	}, nil
}

// IngestCancellations appends the rows of a cancellation sheet to the pending
// list. The national id, serial number and station name columns are required;
// if any is missing nothing is ingested.
func IngestCancellations(st State, sheet *schema.Sheet, opts ...schema.MapOption) (State, IngestResult, error) {
	if len(sheet.Rows) == 0 {
		return st, IngestResult{}, &schema.EmptyInputError{Reason: "file contains no data rows"}
	}

	cm, err := schema.MapColumns(sheet.Headers, opts...)
	if err != nil {
		return st, IngestResult{}, err
	}
	if missing := cm.Missing(schema.CancellationKeyColumns...); len(missing) > 0 {
		return st, IngestResult{}, &schema.MissingColumnsError{Missing: missing}
	}

	records, warnings := schema.BuildRecords(sheet, cm)
	entries := make([]schema.Voter, len(records))
	for i, rec := range records {
		entries[i] = rec.Voter
	}

	next := State{
		Hierarchy: st.Hierarchy,
		Pending:   slices.Concat(st.Pending, entries),
		Confirmed: st.Confirmed,
	}
	return next, IngestResult{
		Added:    len(entries),
		Pending:  len(next.Pending),
		Warnings: slices.Concat(sheet.Warnings, warnings),
	}, nil
}

// ConfirmAll removes every voter matching a pending entry from the hierarchy
// and moves the pending entries after the already confirmed ones. With
// nothing pending the state is returned as is along with a warning.
func ConfirmAll(st State) (State, ConfirmResult, error) {
	if len(st.Pending) == 0 {
		return st, ConfirmResult{Warnings: []schema.Warning{{
			Kind:    schema.WarningNoPending,
			Message: "no pending cancellations to confirm",
		}}}, nil
	}

	keys := make(map[Key]struct{}, len(st.Pending))
	for _, e := range st.Pending {
		keys[EntryKey(e)] = struct{}{}
	}

	h, hits := removeMatching(st.Hierarchy, keys)

	removed := 0
	for _, n := range hits {
		removed += n
	}

	confirmed := slices.Grow(slices.Clone(st.Confirmed), len(st.Pending))
	for _, e := range st.Pending {
		_, hit := hits[EntryKey(e)]
		confirmed = append(confirmed, Confirmation{Voter: e, Orphan: !hit})
	}

	next := State{Hierarchy: h, Pending: nil, Confirmed: confirmed}
	return next, ConfirmResult{Removed: removed, Moved: len(st.Pending)}, nil
}

// Restore drops every ledger entry matching entry and puts the stored voter
// back into the first station, in traversal order, whose name matches. Entries
// that were only pending, or confirmed as orphans, never removed a voter from
// the hierarchy, so they are dropped from the ledger without reinsertion.
func Restore(st State, entry schema.Voter) (State, RestoreResult, error) {
	key := EntryKey(entry)

	confirmed, fromConfirmed := partition(st.Confirmed, func(c Confirmation) Key { return EntryKey(c.Voter) }, key)
	pending, fromPending := partition(st.Pending, EntryKey, key)
	if len(fromConfirmed) == 0 && len(fromPending) == 0 {
		return st, RestoreResult{}, ErrNotInLedger
	}

	next := State{Hierarchy: st.Hierarchy, Pending: pending, Confirmed: confirmed}
	result := RestoreResult{Removed: len(fromConfirmed) + len(fromPending)}

	i := slices.IndexFunc(fromConfirmed, func(c Confirmation) bool { return !c.Orphan })
	if i >= 0 {
		path, ok := st.Hierarchy.stationIndex()[key.Station]
		if !ok {
			return st, RestoreResult{}, &StationNotFoundError{Station: entry.PollingStationName}
		}
		next.Hierarchy = insertVoters(st.Hierarchy, path, []schema.Voter{fromConfirmed[i].Voter})
		result.Restored = true
		result.Placement = st.Hierarchy.placementOf(path)
	}

	return next, result, nil
}

// RestoreAll puts every confirmed voter back into the hierarchy, at most once
// per national id, serial and station. The pending list is discarded as well,
// and so are orphan confirmations. Entries whose station no longer exists
// stay confirmed and are reported.
func RestoreAll(st State) (State, RestoreAllResult, error) {
	index := st.Hierarchy.stationIndex()
	seen := make(map[restoreKey]struct{}, len(st.Confirmed))
	additions := make(map[stationPath][]schema.Voter)
	var order []stationPath

	result := RestoreAllResult{Discarded: len(st.Pending)}
	for _, e := range st.Confirmed {
		if e.Orphan {
			result.Orphaned++
			continue
		}
		rk := restoreKeyOf(e.Voter)
		if _, dup := seen[rk]; dup {
			result.Duplicates++
			continue
		}
		path, ok := index[rk.station]
		if !ok {
			result.Unplaced = append(result.Unplaced, e)
			continue
		}
		seen[rk] = struct{}{}
		if _, ok := additions[path]; !ok {
			order = append(order, path)
		}
		additions[path] = append(additions[path], e.Voter)
		result.Restored++
	}

	h := st.Hierarchy
	for _, p := range order {
		h = insertVoters(h, p, additions[p])
	}

	next := State{Hierarchy: h, Confirmed: slices.Clone(result.Unplaced)}
	return next, result, nil
}

// Clear returns the empty state.
func Clear() State {
	return State{}
}

// partition splits entries into those not matching key and those matching it.
func partition[T any](entries []T, keyOf func(T) Key, key Key) (kept, matched []T) {
	for _, e := range entries {
		if keyOf(e) == key {
			matched = append(matched, e)
		} else {
			kept = append(kept, e)
		}
	}
	return kept, matched
}

func insertVoters(h Hierarchy, p stationPath, voters []schema.Voter) Hierarchy {
	return h.withStation(p, func(s Station) *Station {
		s.Voters = slices.Concat(s.Voters, voters)
		sortVoters(s.Voters)
		return &s
	})
}

// removeMatching builds a fresh hierarchy without the voters whose key is in
// keys and counts the removed voters per key. Stations left empty are kept.
func removeMatching(h Hierarchy, keys map[Key]struct{}) (Hierarchy, map[Key]int) {
	hits := make(map[Key]int)
	out := Hierarchy{Regions: make([]*Region, 0, len(h.Regions))}

	for _, r := range h.Regions {
		region := &Region{Name: r.Name, Communes: make([]*Commune, 0, len(r.Communes))}
		for _, c := range r.Communes {
			commune := &Commune{Name: c.Name, Districts: make([]*District, 0, len(c.Districts))}
			for _, d := range c.Districts {
				district := &District{Name: d.Name, Stations: make([]*Station, 0, len(d.Stations))}
				for _, s := range d.Stations {
					station := &Station{
						Name:     s.Name,
						Address:  s.Address,
						Location: s.Location,
						Voters:   make([]schema.Voter, 0, len(s.Voters)),
					}
					for _, v := range s.Voters {
						k := KeyOf(v, s.Name)
						if _, hit := keys[k]; hit {
							hits[k]++
							continue
						}
						station.Voters = append(station.Voters, v)
					}
					district.Stations = append(district.Stations, station)
				}
				commune.Districts = append(commune.Districts, district)
			}
			region.Communes = append(region.Communes, commune)
		}
		out.Regions = append(out.Regions, region)
	}

	return out, hits
}
