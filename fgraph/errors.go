// Package fgraph implements the bipartite graph model of a factor graph: a
// set of variable nodes and factor nodes (fgnode.VNode / fgnode.FNode)
// joined by edges, each edge carrying two directed message slots, one per
// direction. Message mutation and neighbor/incoming-message queries are the
// only operations a scheduler needs; construction (AddVNode/AddFNode/
// AddEdge) is expected to complete before any inference run begins.
package fgraph

import "errors"

// Sentinel errors for graph operations.
var (
	// ErrNilNode indicates a nil VNode/FNode pointer was passed.
	ErrNilNode = errors.New("fgraph: nil node")

	// ErrDuplicateNode indicates a node with this ID was already added.
	ErrDuplicateNode = errors.New("fgraph: duplicate node")

	// ErrVNodeNotFound indicates a referenced VNode is not in the graph.
	ErrVNodeNotFound = errors.New("fgraph: variable node not found")

	// ErrFNodeNotFound indicates a referenced FNode is not in the graph.
	ErrFNodeNotFound = errors.New("fgraph: factor node not found")

	// ErrEdgeNotFound indicates no edge exists between the given VNode and FNode.
	ErrEdgeNotFound = errors.New("fgraph: edge not found")

	// ErrUnknownNodeType indicates a fgnode.Node value is neither a *VNode
	// nor a *FNode — a caller/scheduler bug, since the graph is bipartite
	// by construction.
	ErrUnknownNodeType = errors.New("fgraph: node is neither VNode nor FNode")
)
