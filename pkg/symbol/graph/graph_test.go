package graph

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"mercator-hq/vesta/pkg/message"
	"mercator-hq/vesta/pkg/symbol"
)

func desc(name string, deps ...string) *symbol.Descriptor {
	return &symbol.Descriptor{
		Name:      name,
		Kind:      symbol.KindSynchronous,
		DependsOn: deps,
		Handler: symbol.SyncFunc(func(_ context.Context, _ *message.Message) (symbol.Response, error) {
			return symbol.Response{}, nil
		}),
	}
}

func TestBuild_Diamond(t *testing.T) {
	g, err := Build([]*symbol.Descriptor{
		desc("A"),
		desc("B", "A"),
		desc("C", "A"),
		desc("D", "B", "C"),
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if g.Len() != 4 {
		t.Errorf("Expected 4 nodes, got %d", g.Len())
	}
	if !reflect.DeepEqual(g.Roots(), []string{"A"}) {
		t.Errorf("Expected roots [A], got %v", g.Roots())
	}
	if !reflect.DeepEqual(g.DirectDependencies("D"), []string{"B", "C"}) {
		t.Errorf("Expected D deps [B C], got %v", g.DirectDependencies("D"))
	}
	if !reflect.DeepEqual(g.Dependents("A"), []string{"B", "C"}) {
		t.Errorf("Expected A dependents [B C], got %v", g.Dependents("A"))
	}
	if !g.IsRoot("A") || g.IsRoot("D") {
		t.Error("Root classification wrong")
	}
	if !g.Contains("B") || g.Contains("MISSING") {
		t.Error("Contains misreported membership")
	}
}

func TestBuild_UnknownDependency(t *testing.T) {
	_, err := Build([]*symbol.Descriptor{
		desc("A", "MISSING"),
	})
	if err == nil {
		t.Fatal("Expected error for dangling dependency")
	}

	var unknownErr *UnknownDependencyError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("Expected UnknownDependencyError, got %T: %v", err, err)
	}
	if unknownErr.Symbol != "A" || unknownErr.Dependency != "MISSING" {
		t.Errorf("Error fields wrong: %+v", unknownErr)
	}
}

func TestBuild_Cycle(t *testing.T) {
	_, err := Build([]*symbol.Descriptor{
		desc("A", "C"),
		desc("B", "A"),
		desc("C", "B"),
	})
	if err == nil {
		t.Fatal("Expected error for dependency cycle")
	}

	var cycleErr *CycleError
	if !errors.As(err, &cycleErr) {
		t.Fatalf("Expected CycleError, got %T: %v", err, err)
	}
	if !reflect.DeepEqual(cycleErr.Symbols, []string{"A", "B", "C"}) {
		t.Errorf("Expected cycle members [A B C], got %v", cycleErr.Symbols)
	}
}

func TestBuild_CycleWithAcyclicPortion(t *testing.T) {
	// X and Y are fine; the A<->B cycle must still be detected and only
	// its members reported.
	_, err := Build([]*symbol.Descriptor{
		desc("X"),
		desc("Y", "X"),
		desc("A", "B"),
		desc("B", "A"),
	})
	if err == nil {
		t.Fatal("Expected error for dependency cycle")
	}

	var cycleErr *CycleError
	if !errors.As(err, &cycleErr) {
		t.Fatalf("Expected CycleError, got %T: %v", err, err)
	}
	if !reflect.DeepEqual(cycleErr.Symbols, []string{"A", "B"}) {
		t.Errorf("Expected cycle members [A B], got %v", cycleErr.Symbols)
	}
}

func TestBuild_Empty(t *testing.T) {
	g, err := Build(nil)
	if err != nil {
		t.Fatalf("Build of empty set failed: %v", err)
	}
	if g.Len() != 0 {
		t.Errorf("Expected empty graph, got %d nodes", g.Len())
	}
	if len(g.Roots()) != 0 {
		t.Errorf("Expected no roots, got %v", g.Roots())
	}
}

func TestBuild_IndependentSymbols(t *testing.T) {
	g, err := Build([]*symbol.Descriptor{
		desc("C"), desc("A"), desc("B"),
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if !reflect.DeepEqual(g.Roots(), []string{"A", "B", "C"}) {
		t.Errorf("Expected sorted roots [A B C], got %v", g.Roots())
	}
	if deps := g.DirectDependencies("A"); len(deps) != 0 {
		t.Errorf("Expected no deps for A, got %v", deps)
	}
}
