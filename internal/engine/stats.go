package engine

import "sync/atomic"

// Stats counts pipeline outcomes. All counters are monotonic and safe for
// concurrent use; the health endpoint reads them.
type Stats struct {
	TurnsTotal          atomic.Int64
	ValidationRetries   atomic.Int64
	AcceptedWithIssues  atomic.Int64
	StateUpdateFailures atomic.Int64
	VersionConflicts    atomic.Int64
}

// Snapshot is a point-in-time copy for reporting.
type StatsSnapshot struct {
	TurnsTotal          int64 `json:"turns_total"`
	ValidationRetries   int64 `json:"validation_retries"`
	AcceptedWithIssues  int64 `json:"accepted_with_issues"`
	StateUpdateFailures int64 `json:"state_update_failures"`
	VersionConflicts    int64 `json:"version_conflicts"`
}

// Snapshot reads all counters at once.
func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		TurnsTotal:          s.TurnsTotal.Load(),
		ValidationRetries:   s.ValidationRetries.Load(),
		AcceptedWithIssues:  s.AcceptedWithIssues.Load(),
		StateUpdateFailures: s.StateUpdateFailures.Load(),
		VersionConflicts:    s.VersionConflicts.Load(),
	}
}
