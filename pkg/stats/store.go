// Package stats maintains adaptive, exponentially-decayed per-symbol
// statistics: how often a symbol fires and how long it takes to run. The
// scheduler consults these estimates to order otherwise-equal ready
// symbols; they influence ordering heuristics only, never correctness, so
// approximate, eventually-consistent values are acceptable.
package stats

import (
	"math"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultAlpha is the default EWMA smoothing factor.
const DefaultAlpha = 0.1

// Snapshot is a point-in-time view of one symbol's estimates.
type Snapshot struct {
	// FireRate is the decayed fraction of observations in which the
	// symbol fired, in [0, 1].
	FireRate float64

	// MeanLatency is the decayed mean handler execution time.
	MeanLatency time.Duration

	// Observations counts the total observations folded in.
	Observations int64
}

// entry holds one symbol's running estimates. Floats are stored as bit
// patterns in atomics and updated with CAS loops so that readers never
// block writers and vice versa. A lost race skews an estimate by one
// sample, which is acceptable here.
type entry struct {
	fireRate  atomic.Uint64 // float64 bits
	latencyNS atomic.Uint64 // float64 bits, nanoseconds
	count     atomic.Int64
}

func loadFloat(a *atomic.Uint64) float64 {
	return math.Float64frombits(a.Load())
}

// blend folds sample into the EWMA held by a. When seed is true the sample
// replaces the current value outright (first observation).
func blend(a *atomic.Uint64, sample, alpha float64, seed bool) {
	for {
		oldBits := a.Load()
		var next float64
		if seed {
			next = sample
		} else {
			next = math.Float64frombits(oldBits)*(1-alpha) + sample*alpha
		}
		if a.CompareAndSwap(oldBits, math.Float64bits(next)) {
			return
		}
		seed = false
	}
}

// Store tracks estimates for the whole symbol population. Entries are
// created lazily on first observation and persist for the process lifetime.
// All methods are safe for concurrent use from many in-flight scans.
type Store struct {
	entries sync.Map // map[string]*entry
	alpha   float64
	mu      sync.Mutex // serializes Decay against itself only
}

// NewStore creates a store with the given EWMA smoothing factor. Alpha
// outside (0, 1] falls back to DefaultAlpha.
func NewStore(alpha float64) *Store {
	if alpha <= 0 || alpha > 1 {
		alpha = DefaultAlpha
	}
	return &Store{alpha: alpha}
}

func (s *Store) entryFor(name string) *entry {
	if v, ok := s.entries.Load(name); ok {
		return v.(*entry)
	}
	v, _ := s.entries.LoadOrStore(name, &entry{})
	return v.(*entry)
}

// Observe folds one execution outcome into the named symbol's estimates.
func (s *Store) Observe(name string, fired bool, elapsed time.Duration) {
	e := s.entryFor(name)
	seed := e.count.Add(1) == 1

	sample := 0.0
	if fired {
		sample = 1.0
	}
	blend(&e.fireRate, sample, s.alpha, seed)
	blend(&e.latencyNS, float64(elapsed.Nanoseconds()), s.alpha, seed)
}

// Lookup returns the current estimates for the named symbol. A symbol that
// has never been observed yields the zero snapshot.
func (s *Store) Lookup(name string) Snapshot {
	v, ok := s.entries.Load(name)
	if !ok {
		return Snapshot{}
	}
	e := v.(*entry)
	return Snapshot{
		FireRate:     loadFloat(&e.fireRate),
		MeanLatency:  time.Duration(loadFloat(&e.latencyNS)),
		Observations: e.count.Load(),
	}
}

// Export returns a copy of every entry, for persistence.
func (s *Store) Export() map[string]Snapshot {
	out := make(map[string]Snapshot)
	s.entries.Range(func(key, value any) bool {
		e := value.(*entry)
		out[key.(string)] = Snapshot{
			FireRate:     loadFloat(&e.fireRate),
			MeanLatency:  time.Duration(loadFloat(&e.latencyNS)),
			Observations: e.count.Load(),
		}
		return true
	})
	return out
}

// Restore seeds the store from persisted snapshots. Existing entries are
// overwritten; Restore is intended for startup, before scans begin.
func (s *Store) Restore(snapshots map[string]Snapshot) {
	for name, snap := range snapshots {
		e := s.entryFor(name)
		e.fireRate.Store(math.Float64bits(snap.FireRate))
		e.latencyNS.Store(math.Float64bits(float64(snap.MeanLatency.Nanoseconds())))
		e.count.Store(snap.Observations)
	}
}

// Decay ages every fire-rate estimate toward zero by the given factor in
// (0, 1). Idle symbols thus lose ordering bias over time instead of keeping
// stale signal forever. Latency estimates are left alone: an idle symbol's
// cost does not change by not running.
func (s *Store) Decay(factor float64) {
	if factor <= 0 || factor >= 1 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries.Range(func(_, value any) bool {
		e := value.(*entry)
		for {
			oldBits := e.fireRate.Load()
			next := math.Float64frombits(oldBits) * (1 - factor)
			if e.fireRate.CompareAndSwap(oldBits, math.Float64bits(next)) {
				break
			}
		}
		return true
	})
}
