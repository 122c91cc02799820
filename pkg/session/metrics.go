package session

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts committed session mutations.
type Metrics struct {
	VotersLoaded           prometheus.Counter
	CancellationsIngested  prometheus.Counter
	CancellationsConfirmed prometheus.Counter
	VotersRemoved          prometheus.Counter
	VotersRestored         prometheus.Counter
	Commits                *prometheus.CounterVec
	HierarchyVoters        prometheus.Gauge
}

// NewMetrics registers the session metrics on reg. A nil reg registers
// nothing, which keeps tests and the wasm build free of global state.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		VotersLoaded: factory.NewCounter(prometheus.CounterOpts{
			Name: "voterroll_voters_loaded_total",
			Help: "Voters loaded from registry uploads",
		}),
		CancellationsIngested: factory.NewCounter(prometheus.CounterOpts{
			Name: "voterroll_cancellations_ingested_total",
			Help: "Cancellation entries added to the pending list",
		}),
		CancellationsConfirmed: factory.NewCounter(prometheus.CounterOpts{
			Name: "voterroll_cancellations_confirmed_total",
			Help: "Pending entries moved to the confirmed list",
		}),
		VotersRemoved: factory.NewCounter(prometheus.CounterOpts{
			Name: "voterroll_voters_removed_total",
			Help: "Voters removed from the hierarchy by confirmation",
		}),
		VotersRestored: factory.NewCounter(prometheus.CounterOpts{
			Name: "voterroll_voters_restored_total",
			Help: "Voters reinserted into the hierarchy by restoration",
		}),
		Commits: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "voterroll_commits_total",
			Help: "Committed session mutations by operation and outcome",
		}, []string{"operation", "outcome"}),
		HierarchyVoters: factory.NewGauge(prometheus.GaugeOpts{
			Name: "voterroll_hierarchy_voters",
			Help: "Voters currently in the hierarchy",
		}),
	}
}
