package feedforward

import "errors"

// Compilation failures. They are terminal for the given network: the caller
// has to repair the graph, or unroll recurrent edges first, and fabricate
// again. Messages are stable.
var (
	// ErrEmpty is returned for a network without edges.
	ErrEmpty = errors.New("no edges present, net invalid")
	// ErrUnresolvable is returned when a round makes no progress, which means
	// some dependency is unreachable or the edges contain a cycle.
	ErrUnresolvable = errors.New("can't resolve dependencies, net invalid")
	// ErrIncompleteOutputs is returned when every dependency resolved but some
	// declared output was never produced or carried.
	ErrIncompleteOutputs = errors.New("dependencies resolved but not all outputs computable, net invalid")
)
