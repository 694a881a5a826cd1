// Package registry holds the immutable catalogue of known symbols for one
// configuration generation. Registration happens only during the build
// phase; once frozen the registry is read-only and safe for concurrent use
// without locking on the hot path.
package registry

import (
	"fmt"
	"sync"

	"mercator-hq/vesta/pkg/symbol"
)

// RegistryError describes a registration failure.
type RegistryError struct {
	// Operation is the registry operation that failed.
	Operation string

	// Symbol is the symbol name involved, if known.
	Symbol string

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *RegistryError) Error() string {
	if e.Symbol != "" {
		return fmt.Sprintf("registry %s: symbol %q: %s", e.Operation, e.Symbol, e.Message)
	}
	return fmt.Sprintf("registry %s: %s", e.Operation, e.Message)
}

// Registry is the catalogue of symbol descriptors for one configuration
// generation. It is mutable until Freeze is called, immutable afterward.
type Registry struct {
	mu      sync.RWMutex
	symbols map[string]*symbol.Descriptor
	frozen  bool
}

// New creates an empty, unfrozen registry.
func New() *Registry {
	return &Registry{
		symbols: make(map[string]*symbol.Descriptor),
	}
}

// Register adds a descriptor to the catalogue. It fails on nil or invalid
// descriptors, on duplicate names, and after the registry has been frozen.
// The descriptor is cloned on the way in; the caller's copy is not retained.
func (r *Registry) Register(d *symbol.Descriptor) error {
	if d == nil {
		return &RegistryError{Operation: "register", Message: "descriptor cannot be nil"}
	}
	if err := d.Validate(); err != nil {
		return &RegistryError{Operation: "register", Symbol: d.Name, Message: err.Error()}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return &RegistryError{Operation: "register", Symbol: d.Name, Message: "registry is frozen"}
	}
	if _, exists := r.symbols[d.Name]; exists {
		return &RegistryError{Operation: "register", Symbol: d.Name, Message: "already registered"}
	}

	r.symbols[d.Name] = d.Clone()
	return nil
}

// Freeze marks the registry read-only. Registration attempts after Freeze
// fail; Freeze is idempotent.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

// Frozen reports whether the registry has been frozen.
func (r *Registry) Frozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frozen
}

// Lookup returns a copy of the descriptor for the named symbol. Mutating
// the returned descriptor does not affect the catalogue.
func (r *Registry) Lookup(name string) (*symbol.Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.symbols[name]
	if !ok {
		return nil, false
	}
	return d.Clone(), true
}

// All returns a copy of every registered descriptor, sorted by name for
// deterministic iteration. Mutating the returned descriptors does not
// affect the catalogue.
func (r *Registry) All() []*symbol.Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	descs := make([]*symbol.Descriptor, 0, len(r.symbols))
	for _, d := range r.symbols {
		descs = append(descs, d.Clone())
	}
	symbol.SortByName(descs)
	return descs
}

// Len returns the number of registered symbols.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.symbols)
}
