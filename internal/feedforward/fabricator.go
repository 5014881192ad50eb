// Package feedforward compiles an acyclic network into an ordered list of
// matrix stages and evaluates them.
//
// Fabricate walks the dependency graph in rounds. Each round produces one
// stage: nodes whose dependencies are all available are computed, values
// still needed later are carried with an identity transformation, and the
// ids produced by the round become the column layout the next round reads
// from. The terminal stage is permuted to the declared output order.
package feedforward

import (
	"context"
	"slices"

	"github.com/vk/netfab/internal/activation"
	"github.com/vk/netfab/internal/ctxlog"
	"github.com/vk/netfab/internal/dag"
	"github.com/vk/netfab/internal/network"
)

// Fabricate compiles net into an Evaluator. The context only carries the
// logger; compilation neither blocks nor observes cancellation.
//
// Compiling an unchanged network twice yields identical stages: inputs,
// outputs and pending nodes are always visited in ascending id order.
func Fabricate(ctx context.Context, net network.Network) (*Evaluator, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Fabricate: Starting stage compilation.")

	deps := dag.FromEdges(net.Edges())
	if deps.Empty() {
		return nil, ErrEmpty
	}

	activations := activationsOf(net)
	available := sortedIDs(net.Inputs())
	wanted := sortedIDs(net.Outputs())
	logger.Debug("Fabricate: Dependency graph built.", "pending", deps.Len(), "inputs", len(available), "outputs", len(wanted))

	var stages []Stage
	for round := 0; !deps.Empty(); round++ {
		b := newStageBuilder(available)

		var computed, blocked []uint64
		for _, id := range deps.Pending() {
			vec, ok := b.weights(deps.Incoming(id))
			if !ok {
				blocked = append(blocked, id)
				continue
			}
			fn, known := activations[id]
			if !known {
				logger.Warn("Node has incoming edges but is not part of the network, using identity.", "node_id", id)
				fn = activation.Identity
			}
			b.compute(id, vec, fn)
			computed = append(computed, id)
		}

		carried := 0
		for _, id := range blocked {
			for _, e := range deps.Incoming(id) {
				if b.carry(e.Start()) {
					carried++
				}
			}
		}
		for _, id := range wanted {
			if b.carry(id) {
				carried++
			}
		}

		if len(computed) == 0 {
			logger.Debug("Fabricate: No progress made.", "round", round, "pending", deps.Pending())
			return nil, ErrUnresolvable
		}
		for _, id := range computed {
			deps.Remove(id)
		}

		if deps.Empty() && !b.selectColumns(wanted) {
			logger.Debug("Fabricate: Terminal round misses outputs.", "round", round, "produced", b.ids, "wanted", wanted)
			return nil, ErrIncompleteOutputs
		}

		stage := b.stage()
		stages = append(stages, stage)
		available = b.ids

		logger.Debug("Fabricate: Round complete.",
			"round", round,
			"computed", len(computed),
			"carried", carried,
			"rows", stage.matrix.Rows,
			"cols", stage.matrix.Cols,
			"remaining", deps.Len(),
		)
	}

	logger.Debug("Fabricate: Stage compilation successful.", "stages", len(stages))
	return &Evaluator{stages: stages}, nil
}

// activationsOf indexes the activation of every node by id.
func activationsOf(net network.Network) map[uint64]activation.Func {
	nodes := network.Nodes(net)
	index := make(map[uint64]activation.Func, len(nodes))
	for _, n := range nodes {
		index[n.ID()] = n.Activation()
	}
	return index
}

// sortedIDs returns the distinct ids of nodes in ascending order.
func sortedIDs(nodes []network.Node) []uint64 {
	ids := make([]uint64, 0, len(nodes))
	for _, n := range nodes {
		ids = append(ids, n.ID())
	}
	slices.Sort(ids)
	return slices.Compact(ids)
}
