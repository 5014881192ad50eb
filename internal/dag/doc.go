// Package dag holds the dependency graph the stage compiler consumes, a
// mapping from node id to the incoming edges that still have to be resolved,
// and cycle diagnostics over the regular edges of a network.
//
// A Graph is transient: it is built once per compilation, shrinks as nodes
// become computable and is discarded afterwards. It is not safe for
// concurrent use.
package dag
