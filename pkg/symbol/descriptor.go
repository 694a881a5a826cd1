package symbol

import (
	"fmt"
	"sort"
)

// Kind distinguishes how a symbol's handler completes.
type Kind int

const (
	// KindSynchronous symbols return their final result before returning
	// control to the scheduler.
	KindSynchronous Kind = iota

	// KindAsynchronous symbols register a pending operation and deliver
	// their result later through a completion sink, exactly once.
	KindAsynchronous
)

// String returns the kind name used in logs and configuration.
func (k Kind) String() string {
	switch k {
	case KindSynchronous:
		return "synchronous"
	case KindAsynchronous:
		return "asynchronous"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Valid reports whether the kind is one of the declared constants.
func (k Kind) Valid() bool {
	return k == KindSynchronous || k == KindAsynchronous
}

// Descriptor is the registry entry for a single symbol. It is immutable
// after registration; the registry copies descriptors on the way in so a
// caller keeping a reference cannot mutate the catalogue.
type Descriptor struct {
	// Name uniquely identifies the symbol.
	Name string

	// Weight is the declared base score contribution when the symbol fires.
	// Negative weights push toward ham, positive toward spam. A settings
	// layer may override it per configuration generation.
	Weight float64

	// Priority orders otherwise-ready symbols; higher runs earlier.
	Priority int

	// DependsOn lists symbols that must have completed (successfully or
	// not) before this one may run.
	DependsOn []string

	// Kind declares the completion model of the handler.
	Kind Kind

	// Fatal short-circuits the scan: if this symbol fires, all remaining
	// pending symbols are skipped and the verdict is finalized.
	Fatal bool

	// IgnorePassthrough excludes this symbol's contribution from the
	// early-exit evaluation. It still counts toward the final score.
	IgnorePassthrough bool

	// SkipInSettings names settings profiles under which this symbol is
	// disabled for the scan.
	SkipInSettings []string

	// Handler is the symbol's entry point.
	Handler Handler
}

// Validate checks the structural invariants a descriptor must satisfy
// before registration. Dependency resolution is the graph's concern.
func (d *Descriptor) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("symbol name cannot be empty")
	}
	if d.Handler == nil {
		return fmt.Errorf("symbol %q: handler cannot be nil", d.Name)
	}
	if !d.Kind.Valid() {
		return fmt.Errorf("symbol %q: invalid kind %d", d.Name, int(d.Kind))
	}
	seen := make(map[string]struct{}, len(d.DependsOn))
	for _, dep := range d.DependsOn {
		if dep == d.Name {
			return fmt.Errorf("symbol %q: cannot depend on itself", d.Name)
		}
		if _, dup := seen[dep]; dup {
			return fmt.Errorf("symbol %q: duplicate dependency %q", d.Name, dep)
		}
		seen[dep] = struct{}{}
	}
	return nil
}

// Clone returns a deep copy of the descriptor.
func (d *Descriptor) Clone() *Descriptor {
	c := *d
	if len(d.DependsOn) > 0 {
		c.DependsOn = append([]string(nil), d.DependsOn...)
	}
	if len(d.SkipInSettings) > 0 {
		c.SkipInSettings = append([]string(nil), d.SkipInSettings...)
	}
	return &c
}

// SkippedIn reports whether the descriptor is disabled under the named
// settings profile.
func (d *Descriptor) SkippedIn(profile string) bool {
	if profile == "" {
		return false
	}
	for _, s := range d.SkipInSettings {
		if s == profile {
			return true
		}
	}
	return false
}

// SortByName orders descriptors by name in place, for deterministic
// iteration in tests and logs.
func SortByName(descs []*Descriptor) {
	sort.Slice(descs, func(i, j int) bool { return descs[i].Name < descs[j].Name })
}
