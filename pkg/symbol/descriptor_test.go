package symbol

import (
	"context"
	"testing"

	"mercator-hq/vesta/pkg/message"
)

func noopHandler() Handler {
	return SyncFunc(func(_ context.Context, _ *message.Message) (Response, error) {
		return Response{}, nil
	})
}

func TestDescriptor_Validate(t *testing.T) {
	tests := []struct {
		name    string
		desc    Descriptor
		wantErr bool
	}{
		{
			name: "valid synchronous",
			desc: Descriptor{Name: "TEST", Kind: KindSynchronous, Handler: noopHandler()},
		},
		{
			name: "valid with dependencies",
			desc: Descriptor{Name: "TEST", Kind: KindAsynchronous, DependsOn: []string{"A", "B"}, Handler: noopHandler()},
		},
		{
			name:    "empty name",
			desc:    Descriptor{Kind: KindSynchronous, Handler: noopHandler()},
			wantErr: true,
		},
		{
			name:    "nil handler",
			desc:    Descriptor{Name: "TEST", Kind: KindSynchronous},
			wantErr: true,
		},
		{
			name:    "invalid kind",
			desc:    Descriptor{Name: "TEST", Kind: Kind(99), Handler: noopHandler()},
			wantErr: true,
		},
		{
			name:    "self dependency",
			desc:    Descriptor{Name: "TEST", Kind: KindSynchronous, DependsOn: []string{"TEST"}, Handler: noopHandler()},
			wantErr: true,
		},
		{
			name:    "duplicate dependency",
			desc:    Descriptor{Name: "TEST", Kind: KindSynchronous, DependsOn: []string{"A", "A"}, Handler: noopHandler()},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.desc.Validate()
			if tt.wantErr && err == nil {
				t.Error("Expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Unexpected validation error: %v", err)
			}
		})
	}
}

func TestDescriptor_Clone_Independence(t *testing.T) {
	orig := &Descriptor{
		Name:           "TEST",
		Weight:         1.5,
		DependsOn:      []string{"A", "B"},
		SkipInSettings: []string{"minimal"},
		Kind:           KindSynchronous,
		Handler:        noopHandler(),
	}

	clone := orig.Clone()
	clone.DependsOn[0] = "MUTATED"
	clone.SkipInSettings[0] = "MUTATED"

	if orig.DependsOn[0] != "A" {
		t.Errorf("Clone shares DependsOn backing array: %v", orig.DependsOn)
	}
	if orig.SkipInSettings[0] != "minimal" {
		t.Errorf("Clone shares SkipInSettings backing array: %v", orig.SkipInSettings)
	}
}

func TestDescriptor_SkippedIn(t *testing.T) {
	d := &Descriptor{
		Name:           "TEST",
		SkipInSettings: []string{"minimal", "authenticated"},
	}

	if !d.SkippedIn("minimal") {
		t.Error("Expected symbol to be skipped in minimal profile")
	}
	if d.SkippedIn("full") {
		t.Error("Did not expect symbol to be skipped in full profile")
	}
	if d.SkippedIn("") {
		t.Error("Empty profile must never skip")
	}
}

func TestKind_String(t *testing.T) {
	if got := KindSynchronous.String(); got != "synchronous" {
		t.Errorf("KindSynchronous.String() = %q", got)
	}
	if got := KindAsynchronous.String(); got != "asynchronous" {
		t.Errorf("KindAsynchronous.String() = %q", got)
	}
	if KindSynchronous.Valid() != true || Kind(42).Valid() != false {
		t.Error("Kind.Valid() misclassified")
	}
}

func TestOutcome_String(t *testing.T) {
	tests := []struct {
		outcome Outcome
		want    string
	}{
		{OutcomeNoMatch, "no-match"},
		{OutcomeFired, "fired"},
		{OutcomeFailed, "failed"},
		{OutcomeTimeout, "timeout"},
		{OutcomeSkipped, "skipped"},
	}
	for _, tt := range tests {
		if got := tt.outcome.String(); got != tt.want {
			t.Errorf("Outcome(%d).String() = %q, want %q", int(tt.outcome), got, tt.want)
		}
	}
}

func TestResult_Ran(t *testing.T) {
	ran := []Outcome{OutcomeFired, OutcomeNoMatch, OutcomeFailed}
	for _, o := range ran {
		r := Result{Outcome: o}
		if !r.Ran() {
			t.Errorf("Expected %s to count as ran", o)
		}
	}
	synthetic := []Outcome{OutcomeTimeout, OutcomeSkipped}
	for _, o := range synthetic {
		r := Result{Outcome: o}
		if r.Ran() {
			t.Errorf("Expected %s to count as synthetic", o)
		}
	}

	fired := Result{Outcome: OutcomeFired}
	if !fired.Fired() {
		t.Error("Expected fired result to report Fired()")
	}
	noMatch := Result{Outcome: OutcomeNoMatch}
	if noMatch.Fired() {
		t.Error("Did not expect no-match result to report Fired()")
	}
}
