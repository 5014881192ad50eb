package dag

import (
	"fmt"
	"slices"

	"github.com/vk/netfab/internal/network"
)

// Graph maps every node with at least one incoming edge to those edges.
type Graph struct {
	// deps holds, per dependent node id, its incoming edges in declaration order.
	deps map[uint64][]network.Edge
}

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{
		deps: make(map[uint64][]network.Edge),
	}
}

// FromEdges builds a Graph from an edge list.
func FromEdges(edges []network.Edge) *Graph {
	g := New()
	for _, e := range edges {
		g.AddEdge(e)
	}
	return g
}

// AddEdge records e as a dependency of its end node.
func (g *Graph) AddEdge(e network.Edge) {
	g.deps[e.End()] = append(g.deps[e.End()], e)
}

// Len returns the number of nodes with unresolved dependencies.
func (g *Graph) Len() int {
	return len(g.deps)
}

// Empty reports whether every dependency has been resolved.
func (g *Graph) Empty() bool {
	return len(g.deps) == 0
}

// Pending returns the ids of all nodes still waiting on dependencies, sorted
// ascending so callers iterate in a reproducible order.
func (g *Graph) Pending() []uint64 {
	ids := make([]uint64, 0, len(g.deps))
	for id := range g.deps {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Dependencies returns the incoming edges of id.
func (g *Graph) Dependencies(id uint64) ([]network.Edge, error) {
	deps, ok := g.deps[id]
	if !ok {
		return nil, fmt.Errorf("node not found: %d", id)
	}
	return deps, nil
}

// Incoming returns the incoming edges of id, or nil when id is not pending.
func (g *Graph) Incoming(id uint64) []network.Edge {
	return g.deps[id]
}

// Remove drops id from the graph. It reports whether id was present.
func (g *Graph) Remove(id uint64) bool {
	if _, ok := g.deps[id]; !ok {
		return false
	}
	delete(g.deps, id)
	return true
}
