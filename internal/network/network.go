// Package network defines the graph contracts consumed by the fabricators,
// a concrete Net implementing them, and the Unroll rewrite that turns a
// recurrent network into an acyclic one.
//
// The fabricators only call through the Node, Edge, Network and Recurrent
// interfaces, so any caller-defined representation can be compiled as long
// as it exposes ids, activations, weights and the input/hidden/output
// partition.
package network

import (
	"github.com/vk/netfab/internal/activation"
)

// Node is an addressable computation unit. ID must be unique within a network.
type Node interface {
	ID() uint64
	Activation() activation.Func
}

// Edge is a directed, weighted connection between two node ids.
type Edge interface {
	Start() uint64
	End() uint64
	Weight() float32
}

// Network exposes a disjoint, exhaustive partition of nodes plus the edge list.
type Network interface {
	Inputs() []Node
	Hidden() []Node
	Outputs() []Node
	Edges() []Edge
}

// Recurrent is a Network with edges whose effect is deferred by one
// evaluation step.
type Recurrent interface {
	Network
	RecurrentEdges() []Edge
}

// Kinded is implemented by nodes whose activation comes from the catalog.
type Kinded interface {
	Kind() activation.Kind
}

// Nodes returns inputs, hidden and outputs of n in that order.
func Nodes(n Network) []Node {
	inputs, hidden, outputs := n.Inputs(), n.Hidden(), n.Outputs()
	all := make([]Node, 0, len(inputs)+len(hidden)+len(outputs))
	all = append(all, inputs...)
	all = append(all, hidden...)
	return append(all, outputs...)
}

// KindOf reports the catalog entry of a node, or activation.Custom when the
// node does not expose one.
func KindOf(n Node) activation.Kind {
	if k, ok := n.(Kinded); ok {
		return k.Kind()
	}
	return activation.Custom
}
