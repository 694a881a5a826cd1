package scheduler

import (
	"mercator-hq/vesta/pkg/stats"
	"mercator-hq/vesta/pkg/symbol"
)

// nextReady selects the best runnable symbol, or nil when nothing is
// runnable right now. A symbol is runnable when it is still pending and all
// of its direct dependencies are done.
//
// Ranking among ready symbols: highest declared priority first; ties broken
// by ascending adaptive mean latency (prefer cheap checks), then by
// descending fire frequency (prefer checks likely to contribute signal
// early), then by ascending identifier for determinism. The ordering is
// policy, not a correctness requirement; only the dependency partial order
// is hard.
func (s *Scheduler) nextReady(exec *Execution) *symbol.Descriptor {
	var (
		best     *symbol.Descriptor
		bestSnap stats.Snapshot
	)

	for _, name := range exec.order {
		sl := exec.slots[name]
		if sl.state != statePending || !exec.depsSatisfied(name) {
			continue
		}

		snap := s.stats.Lookup(name)
		if best == nil || ranksBefore(sl.desc, snap, best, bestSnap) {
			best = sl.desc
			bestSnap = snap
		}
	}

	return best
}

// ranksBefore reports whether candidate a should be dispatched before the
// current best b. exec.order is iterated ascending by name, so strict
// comparisons keep the identifier tie-break implicit.
func ranksBefore(a *symbol.Descriptor, aSnap stats.Snapshot, b *symbol.Descriptor, bSnap stats.Snapshot) bool {
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	if aSnap.MeanLatency != bSnap.MeanLatency {
		return aSnap.MeanLatency < bSnap.MeanLatency
	}
	return aSnap.FireRate > bSnap.FireRate
}
