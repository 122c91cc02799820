// Package report derives display data from a State: the cancellation ledger
// listing, commune statistics and the per-district roll-up used for printed
// election lists.
package report

import (
	"voterroll/pkg/engine"
	"voterroll/pkg/schema"
)

// Status is the ledger state of a cancellation entry.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
)

// Label returns the Arabic label shown next to an entry.
func (s Status) Label() string {
	if s == StatusConfirmed {
		return "مشطوب"
	}
	return "معلق"
}

// LedgerEntry is one row of the cancellation list: the full voter plus status.
type LedgerEntry struct {
	schema.Voter
	Status      Status `json:"status"`
	StatusLabel string `json:"statusLabel"`
	// Orphan marks a confirmed entry that matched no registered voter.
	Orphan bool `json:"orphan,omitempty"`
}

// LedgerReport is the compiled cancellation list.
type LedgerReport struct {
	Entries        []LedgerEntry         `json:"entries"`
	TotalPending   int                   `json:"totalPending"`
	TotalConfirmed int                   `json:"totalConfirmed"`
	Reconciliation engine.ReconcileStats `json:"reconciliation"`
}

// LedgerView lists pending entries followed by confirmed ones and previews
// how the pending entries line up with the registry.
func LedgerView(st engine.State) LedgerReport {
	report := LedgerReport{
		Entries:        make([]LedgerEntry, 0, len(st.Pending)+len(st.Confirmed)),
		TotalPending:   len(st.Pending),
		TotalConfirmed: len(st.Confirmed),
		Reconciliation: engine.Reconcile(st).Stats,
	}

	for _, v := range st.Pending {
		report.Entries = append(report.Entries, newEntry(v, StatusPending))
	}
	for _, c := range st.Confirmed {
		e := newEntry(c.Voter, StatusConfirmed)
		e.Orphan = c.Orphan
		report.Entries = append(report.Entries, e)
	}

	return report
}

func newEntry(v schema.Voter, s Status) LedgerEntry {
	return LedgerEntry{Voter: v, Status: s, StatusLabel: s.Label()}
}
