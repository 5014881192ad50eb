package network

import (
	"fmt"

	"github.com/vk/netfab/internal/activation"
)

// NodeDef is the concrete Node used by Net.
type NodeDef struct {
	id   uint64
	kind activation.Kind
	fn   activation.Func
}

// NewNode creates a node whose activation comes from the catalog.
func NewNode(id uint64, kind activation.Kind) *NodeDef {
	return &NodeDef{id: id, kind: kind, fn: kind.Func()}
}

// NewCustomNode creates a node with a caller-supplied activation.
func NewCustomNode(id uint64, fn activation.Func) *NodeDef {
	if fn == nil {
		fn = activation.Identity
	}
	return &NodeDef{id: id, kind: activation.Custom, fn: fn}
}

func (n *NodeDef) ID() uint64                  { return n.id }
func (n *NodeDef) Activation() activation.Func { return n.fn }
func (n *NodeDef) Kind() activation.Kind       { return n.kind }

func (n *NodeDef) String() string {
	return fmt.Sprintf("%d(%s)", n.id, n.kind)
}

// EdgeDef is the concrete Edge used by Net.
type EdgeDef struct {
	start, end uint64
	weight     float32
}

// NewEdge creates an edge start -> end with the given weight.
func NewEdge(start, end uint64, weight float32) *EdgeDef {
	return &EdgeDef{start: start, end: end, weight: weight}
}

func (e *EdgeDef) Start() uint64   { return e.start }
func (e *EdgeDef) End() uint64     { return e.end }
func (e *EdgeDef) Weight() float32 { return e.weight }

func (e *EdgeDef) String() string {
	return fmt.Sprintf("%d--%g->%d", e.start, e.weight, e.end)
}

// Net is a concrete Recurrent network. Its zero value is an empty network.
type Net struct {
	inputs    []Node
	hidden    []Node
	outputs   []Node
	edges     []Edge
	recurrent []Edge
}

// New assembles a Net from an explicit partition.
func New(inputs, hidden, outputs []Node, edges []Edge) *Net {
	return &Net{inputs: inputs, hidden: hidden, outputs: outputs, edges: edges}
}

// FromCodes builds a Net whose node ids are 0..len(codes)-1, the first
// inputs nodes being inputs and the last outputs nodes being outputs. Each
// byte of codes selects an activation via activation.FromCode.
func FromCodes(inputs, outputs int, codes string, edges ...Edge) *Net {
	nodes := make([]Node, len(codes))
	for i := 0; i < len(codes); i++ {
		nodes[i] = NewNode(uint64(i), activation.FromCode(codes[i]))
	}
	return New(
		nodes[:inputs],
		nodes[inputs:len(nodes)-outputs],
		nodes[len(nodes)-outputs:],
		edges,
	)
}

// SetRecurrentEdges replaces the recurrent edge list.
func (n *Net) SetRecurrentEdges(edges []Edge) { n.recurrent = edges }

func (n *Net) Inputs() []Node         { return n.inputs }
func (n *Net) Hidden() []Node         { return n.hidden }
func (n *Net) Outputs() []Node        { return n.outputs }
func (n *Net) Edges() []Edge          { return n.edges }
func (n *Net) RecurrentEdges() []Edge { return n.recurrent }

// IsRecurrent reports whether the network has any recurrent edge.
func (n *Net) IsRecurrent() bool { return len(n.recurrent) > 0 }

func (n *Net) String() string {
	return fmt.Sprintf("net{in=%d hidden=%d out=%d edges=%d recurrent=%d}",
		len(n.inputs), len(n.hidden), len(n.outputs), len(n.edges), len(n.recurrent))
}

// Validate checks that node ids are unique across the partition and that
// every edge references a known node.
func (n *Net) Validate() error {
	seen := make(map[uint64]struct{})
	for _, node := range Nodes(n) {
		if _, dup := seen[node.ID()]; dup {
			return fmt.Errorf("duplicate node id %d", node.ID())
		}
		seen[node.ID()] = struct{}{}
	}
	check := func(kind string, edges []Edge) error {
		for _, e := range edges {
			if _, ok := seen[e.Start()]; !ok {
				return fmt.Errorf("%s edge %d -> %d references unknown node %d", kind, e.Start(), e.End(), e.Start())
			}
			if _, ok := seen[e.End()]; !ok {
				return fmt.Errorf("%s edge %d -> %d references unknown node %d", kind, e.Start(), e.End(), e.End())
			}
		}
		return nil
	}
	if err := check("edge", n.edges); err != nil {
		return err
	}
	return check("recurrent", n.recurrent)
}
