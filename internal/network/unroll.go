package network

import (
	"github.com/vk/netfab/internal/activation"
)

// Feedback pairs a wrapper input with the output whose value it receives on
// the next evaluation.
type Feedback struct {
	// Input is the synthetic wrapper input id.
	Input uint64
	// Source is the output id (original or wrapper output) feeding Input.
	Source uint64
}

// Unrolled is the acyclic rewrite of a recurrent network. It satisfies
// Network and can be handed to the feedforward fabricator directly.
type Unrolled struct {
	*Net
	// Feedback lists every wrapper input in allocation order.
	Feedback []Feedback
	// OriginalInputs and OriginalOutputs are the ids declared by the
	// recurrent network, in declaration order.
	OriginalInputs, OriginalOutputs []uint64
}

// Unroll rewrites r so that every recurrent edge is cut at a wrapper
// boundary.
//
// Every original output gets a wrapper input, whether or not a recurrent edge
// starts at it, giving a stateful evaluator one feedback slot per output.
// Every other recurrent source gets a wrapper input/output pair: the wrapper
// output captures the source through an identity edge and the wrapper input
// replaces the source on the recurrent edge.
//
// A recurrent edge that references an unknown node is a contract violation
// and is rewritten like any other.
func Unroll(r Recurrent) *Unrolled {
	ids := NewIDAllocator(r)

	inputs := append([]Node(nil), r.Inputs()...)
	outputs := append([]Node(nil), r.Outputs()...)
	hidden := append([]Node(nil), r.Hidden()...)
	edges := append([]Edge(nil), r.Edges()...)

	u := &Unrolled{}
	for _, n := range r.Inputs() {
		u.OriginalInputs = append(u.OriginalInputs, n.ID())
	}

	wrapped := make(map[uint64]uint64)

	for _, out := range r.Outputs() {
		u.OriginalOutputs = append(u.OriginalOutputs, out.ID())
		if _, ok := wrapped[out.ID()]; ok {
			continue
		}
		in := ids.Next()
		inputs = append(inputs, NewNode(in, activation.Linear))
		wrapped[out.ID()] = in
		u.Feedback = append(u.Feedback, Feedback{Input: in, Source: out.ID()})
	}

	for _, re := range r.RecurrentEdges() {
		in, ok := wrapped[re.Start()]
		if !ok {
			in = ids.Next()
			out := ids.Next()
			inputs = append(inputs, NewNode(in, activation.Linear))
			outputs = append(outputs, NewNode(out, activation.Linear))
			edges = append(edges, NewEdge(re.Start(), out, 1))
			wrapped[re.Start()] = in
			u.Feedback = append(u.Feedback, Feedback{Input: in, Source: out})
		}
		edges = append(edges, NewEdge(in, re.End(), re.Weight()))
	}

	u.Net = New(inputs, hidden, outputs, edges)
	return u
}
