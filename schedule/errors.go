// Package schedule drives message updates over an fgraph.Graph: a tree
// schedule (forward/backward depth-first) for exact inference on acyclic
// graphs, with a back-tracking pass for MAP assignments, and a flooding
// schedule for loopy/approximate inference. Neither schedule holds any
// state beyond one call — a Graph and its nodes carry all mutable state.
package schedule

import "errors"

var (
	// ErrGraphShape indicates the tree schedule's DFS observed a back-edge
	// — the graph is not a tree, so a single forward/backward pass would
	// not produce exact marginals. Resolves the source's "runs anyway"
	// behavior in favor of raising explicitly (spec Open Question 1).
	ErrGraphShape = errors.New("schedule: graph is not a tree")

	// ErrEmptyGraph indicates the query node has no neighbors to schedule from.
	ErrEmptyGraph = errors.New("schedule: graph has no edges reachable from query node")
)
