package graph

import (
	"fmt"
	"strings"
)

// CycleError reports a dependency cycle found during graph construction.
// It names the symbols left with unresolved incoming edges after the
// topological feasibility check converged, all of which sit on (or behind)
// a cycle.
type CycleError struct {
	// Symbols are the identifiers involved, sorted.
	Symbols []string
}

// Error implements the error interface.
func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle involving symbols: %s", strings.Join(e.Symbols, ", "))
}

// UnknownDependencyError reports descriptors referencing symbols that were
// never registered. This is a build-time configuration error, not a runtime
// one.
type UnknownDependencyError struct {
	// Symbol is the descriptor declaring the dependency.
	Symbol string

	// Dependency is the unregistered identifier it references.
	Dependency string
}

// Error implements the error interface.
func (e *UnknownDependencyError) Error() string {
	return fmt.Sprintf("symbol %q depends on unknown symbol %q", e.Symbol, e.Dependency)
}
