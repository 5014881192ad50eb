package dag

import (
	"slices"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/vk/netfab/internal/network"
)

// Cycles reports every directed cycle formed by the regular edges of n.
// Recurrent edges are ignored. Each cycle is returned as the sorted ids of its
// members; self-loops are single-element cycles. The result is sorted.
func Cycles(n network.Network) [][]uint64 {
	g := simple.NewDirectedGraph()
	var cycles [][]uint64

	ensure := func(id uint64) {
		if g.Node(int64(id)) == nil {
			g.AddNode(simple.Node(int64(id)))
		}
	}

	selfLoops := make(map[uint64]struct{})
	for _, e := range n.Edges() {
		if e.Start() == e.End() {
			selfLoops[e.Start()] = struct{}{}
			continue
		}
		ensure(e.Start())
		ensure(e.End())
		g.SetEdge(g.NewEdge(g.Node(int64(e.Start())), g.Node(int64(e.End()))))
	}
	for id := range selfLoops {
		cycles = append(cycles, []uint64{id})
	}

	for _, c := range topo.DirectedCyclesIn(g) {
		cycles = append(cycles, cycleIDs(c))
	}

	slices.SortFunc(cycles, func(a, b []uint64) int { return slices.Compare(a, b) })
	return slices.CompactFunc(cycles, func(a, b []uint64) bool { return slices.Equal(a, b) })
}

// Acyclic reports whether the regular edges of n form a DAG.
func Acyclic(n network.Network) bool {
	return len(Cycles(n)) == 0
}

// cycleIDs converts a gonum cycle path, whose first and last nodes are the
// same, into sorted distinct ids.
func cycleIDs(path []graph.Node) []uint64 {
	ids := make([]uint64, 0, len(path))
	for _, node := range path {
		ids = append(ids, uint64(node.ID()))
	}
	slices.Sort(ids)
	return slices.Compact(ids)
}
