// Package recurrent fabricates and evaluates networks with recurrent edges.
//
// A recurrent network is unrolled into an acyclic one and compiled with the
// feedforward fabricator. The resulting Evaluator keeps the value of every
// feedback source between calls and feeds it back through the matching
// wrapper input on the next call.
package recurrent

import (
	"context"
	"slices"

	"github.com/vk/netfab/internal/ctxlog"
	"github.com/vk/netfab/internal/feedforward"
	"github.com/vk/netfab/internal/network"
)

// Evaluator evaluates an unrolled recurrent network while carrying state
// between calls. It is not safe for concurrent use; callers that share one
// must synchronize externally.
type Evaluator struct {
	inner *feedforward.Evaluator

	width int
	// inputSlots maps caller input positions to full-row positions.
	inputSlots []int
	// outputSlots maps caller output positions to full-row positions.
	outputSlots []int
	// stateSlots and sourceSlots are parallel: the value at output position
	// sourceSlots[i] is stored in state[i] and replayed at input position
	// stateSlots[i] on the next call.
	stateSlots  []int
	sourceSlots []int
	state       []float32
}

// Fabricate unrolls r and compiles the result. It fails with the same errors
// as feedforward.Fabricate.
func Fabricate(ctx context.Context, r network.Recurrent) (*Evaluator, error) {
	logger := ctxlog.FromContext(ctx)

	unrolled := network.Unroll(r)
	logger.Debug("Recurrent network unrolled.",
		"inputs", len(unrolled.Inputs()),
		"outputs", len(unrolled.Outputs()),
		"edges", len(unrolled.Edges()),
		"feedback", len(unrolled.Feedback),
	)

	inner, err := feedforward.Fabricate(ctx, unrolled)
	if err != nil {
		return nil, err
	}
	return newEvaluator(inner, unrolled), nil
}

func newEvaluator(inner *feedforward.Evaluator, u *network.Unrolled) *Evaluator {
	inputs := positions(u.Inputs())
	outputs := positions(u.Outputs())

	e := &Evaluator{
		inner: inner,
		width: len(inputs),
	}

	for _, id := range sortedCopy(u.OriginalInputs) {
		e.inputSlots = append(e.inputSlots, inputs[id])
	}
	for _, id := range sortedCopy(u.OriginalOutputs) {
		e.outputSlots = append(e.outputSlots, outputs[id])
	}
	for _, fb := range u.Feedback {
		e.stateSlots = append(e.stateSlots, inputs[fb.Input])
		e.sourceSlots = append(e.sourceSlots, outputs[fb.Source])
	}
	e.state = make([]float32, len(u.Feedback))
	return e
}

// Evaluate runs one step. input holds one value per original input ordered by
// ascending id; the result holds one value per original output ordered by
// ascending id. The carried state is updated for the next call.
func (e *Evaluator) Evaluate(input []float32) []float32 {
	row := make([]float32, e.width)
	for i, slot := range e.inputSlots {
		row[slot] = input[i]
	}
	for i, slot := range e.stateSlots {
		row[slot] = e.state[i]
	}

	full := e.inner.Evaluate(row)

	for i, slot := range e.sourceSlots {
		e.state[i] = full[slot]
	}

	out := make([]float32, len(e.outputSlots))
	for i, slot := range e.outputSlots {
		out[i] = full[slot]
	}
	return out
}

// Reset zeroes the carried state.
func (e *Evaluator) Reset() {
	clear(e.state)
}

// State returns a copy of the carried values in feedback order.
func (e *Evaluator) State() []float32 {
	return slices.Clone(e.state)
}

// positions maps every distinct node id to its index in ascending id order,
// which is the row layout the feedforward evaluator uses.
func positions(nodes []network.Node) map[uint64]int {
	ids := make([]uint64, 0, len(nodes))
	for _, n := range nodes {
		ids = append(ids, n.ID())
	}
	ids = sortedCopy(ids)
	index := make(map[uint64]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}
	return index
}

func sortedCopy(ids []uint64) []uint64 {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}
