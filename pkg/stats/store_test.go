package stats

import (
	"math"
	"sync"
	"testing"
	"time"
)

func TestStore_Observe_FirstSeedsOutright(t *testing.T) {
	s := NewStore(0.1)

	s.Observe("A", true, 100*time.Millisecond)

	snap := s.Lookup("A")
	if snap.FireRate != 1.0 {
		t.Errorf("First observation should seed fire rate, got %g", snap.FireRate)
	}
	if snap.MeanLatency != 100*time.Millisecond {
		t.Errorf("First observation should seed latency, got %v", snap.MeanLatency)
	}
	if snap.Observations != 1 {
		t.Errorf("Expected 1 observation, got %d", snap.Observations)
	}
}

func TestStore_Observe_Blends(t *testing.T) {
	s := NewStore(0.5)

	s.Observe("A", true, 100*time.Millisecond)
	s.Observe("A", false, 200*time.Millisecond)

	snap := s.Lookup("A")
	if math.Abs(snap.FireRate-0.5) > 1e-9 {
		t.Errorf("Expected blended fire rate 0.5, got %g", snap.FireRate)
	}
	if snap.MeanLatency != 150*time.Millisecond {
		t.Errorf("Expected blended latency 150ms, got %v", snap.MeanLatency)
	}
	if snap.Observations != 2 {
		t.Errorf("Expected 2 observations, got %d", snap.Observations)
	}
}

func TestStore_Lookup_Unknown(t *testing.T) {
	s := NewStore(DefaultAlpha)
	snap := s.Lookup("NEVER_SEEN")
	if snap.FireRate != 0 || snap.MeanLatency != 0 || snap.Observations != 0 {
		t.Errorf("Expected zero snapshot for unknown symbol, got %+v", snap)
	}
}

func TestNewStore_InvalidAlphaFallsBack(t *testing.T) {
	for _, alpha := range []float64{0, -1, 1.5} {
		s := NewStore(alpha)
		if s.alpha != DefaultAlpha {
			t.Errorf("Alpha %g should fall back to default, got %g", alpha, s.alpha)
		}
	}
}

func TestStore_ExportRestore(t *testing.T) {
	src := NewStore(0.1)
	src.Observe("A", true, 50*time.Millisecond)
	src.Observe("B", false, 10*time.Millisecond)

	exported := src.Export()
	if len(exported) != 2 {
		t.Fatalf("Expected 2 exported snapshots, got %d", len(exported))
	}

	dst := NewStore(0.1)
	dst.Restore(exported)

	for _, name := range []string{"A", "B"} {
		want := src.Lookup(name)
		got := dst.Lookup(name)
		if got != want {
			t.Errorf("Symbol %s: restored %+v, want %+v", name, got, want)
		}
	}
}

func TestStore_Decay(t *testing.T) {
	s := NewStore(0.1)
	s.Observe("A", true, 20*time.Millisecond)

	before := s.Lookup("A")
	s.Decay(0.5)
	after := s.Lookup("A")

	if math.Abs(after.FireRate-before.FireRate*0.5) > 1e-9 {
		t.Errorf("Expected fire rate halved, got %g from %g", after.FireRate, before.FireRate)
	}
	// Latency estimates are not aged: an idle symbol's cost is unchanged.
	if after.MeanLatency != before.MeanLatency {
		t.Errorf("Decay must not touch latency, got %v from %v", after.MeanLatency, before.MeanLatency)
	}
}

func TestStore_Decay_InvalidFactor(t *testing.T) {
	s := NewStore(0.1)
	s.Observe("A", true, time.Millisecond)
	before := s.Lookup("A")

	s.Decay(0)
	s.Decay(1)
	s.Decay(-0.5)

	if got := s.Lookup("A"); got != before {
		t.Errorf("Invalid decay factor must be a no-op, got %+v", got)
	}
}

func TestStore_ConcurrentObserve(t *testing.T) {
	s := NewStore(0.1)

	var wg sync.WaitGroup
	const workers = 8
	const perWorker = 500
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(fired bool) {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				s.Observe("SHARED", fired, time.Millisecond)
			}
		}(i%2 == 0)
	}
	wg.Wait()

	snap := s.Lookup("SHARED")
	if snap.Observations != workers*perWorker {
		t.Errorf("Expected %d observations, got %d", workers*perWorker, snap.Observations)
	}
	if snap.FireRate < 0 || snap.FireRate > 1 {
		t.Errorf("Fire rate out of range after concurrent updates: %g", snap.FireRate)
	}
}
