// Package graph derives the dependency DAG over symbol identifiers from a
// set of registered descriptors. The graph is built once per configuration
// generation and is read-only afterward; lookups are pure and need no
// locking.
package graph

import (
	"sort"

	"mercator-hq/vesta/pkg/symbol"
)

// node is a single vertex. Dependency and dependent sets are resolved to
// sorted slices at build time so lookups allocate nothing.
type node struct {
	name       string
	deps       []string
	dependents []string
	root       bool
}

// Graph is the directed acyclic dependency graph over symbol identifiers.
// Edges point from a symbol to the symbols that depend on it.
type Graph struct {
	nodes map[string]*node
	roots []string
}

// Build constructs a graph from the given descriptors. It fails with an
// UnknownDependencyError if a descriptor references an unregistered symbol
// and with a CycleError if the dependency relation is cyclic. No partial
// graph is produced on error.
func Build(descs []*symbol.Descriptor) (*Graph, error) {
	nodes := make(map[string]*node, len(descs))
	for _, d := range descs {
		nodes[d.Name] = &node{name: d.Name}
	}

	for _, d := range descs {
		n := nodes[d.Name]
		for _, dep := range d.DependsOn {
			parent, ok := nodes[dep]
			if !ok {
				return nil, &UnknownDependencyError{Symbol: d.Name, Dependency: dep}
			}
			n.deps = append(n.deps, dep)
			parent.dependents = append(parent.dependents, d.Name)
		}
	}

	if cyclic := checkAcyclic(nodes); len(cyclic) > 0 {
		sort.Strings(cyclic)
		return nil, &CycleError{Symbols: cyclic}
	}

	g := &Graph{nodes: nodes}
	for _, n := range nodes {
		sort.Strings(n.deps)
		sort.Strings(n.dependents)
		if len(n.deps) == 0 {
			n.root = true
			g.roots = append(g.roots, n.name)
		}
	}
	sort.Strings(g.roots)
	return g, nil
}

// checkAcyclic runs Kahn's algorithm over the dependency edges and returns
// the identifiers of nodes that never reached in-degree zero. An empty
// return means the relation is acyclic.
func checkAcyclic(nodes map[string]*node) []string {
	indegree := make(map[string]int, len(nodes))
	queue := make([]string, 0, len(nodes))
	for name, n := range nodes {
		indegree[name] = len(n.deps)
		if len(n.deps) == 0 {
			queue = append(queue, name)
		}
	}

	visited := 0
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		visited++
		for _, dep := range nodes[name].dependents {
			indegree[dep]--
			if indegree[dep] == 0 {
				queue = append(queue, dep)
			}
		}
	}

	if visited == len(nodes) {
		return nil
	}
	var cyclic []string
	for name, deg := range indegree {
		if deg > 0 {
			cyclic = append(cyclic, name)
		}
	}
	return cyclic
}

// DirectDependencies returns the sorted dependency set of the named symbol.
// The returned slice is shared and must not be modified.
func (g *Graph) DirectDependencies(name string) []string {
	if n, ok := g.nodes[name]; ok {
		return n.deps
	}
	return nil
}

// Dependents returns the sorted set of symbols that directly depend on the
// named symbol. The returned slice is shared and must not be modified.
func (g *Graph) Dependents(name string) []string {
	if n, ok := g.nodes[name]; ok {
		return n.dependents
	}
	return nil
}

// IsRoot reports whether the named symbol has no dependencies.
func (g *Graph) IsRoot(name string) bool {
	n, ok := g.nodes[name]
	return ok && n.root
}

// Roots returns the sorted identifiers of all symbols without dependencies.
// The returned slice is shared and must not be modified.
func (g *Graph) Roots() []string {
	return g.roots
}

// Contains reports whether the named symbol is part of the graph.
func (g *Graph) Contains(name string) bool {
	_, ok := g.nodes[name]
	return ok
}

// Len returns the number of symbols in the graph.
func (g *Graph) Len() int {
	return len(g.nodes)
}
