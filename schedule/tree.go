package schedule

import (
	"fmt"

	"github.com/danbar/fglib/fgnode"
	"github.com/danbar/fglib/fgraph"
	"github.com/danbar/fglib/rv"
)

// TreeResult is the outcome of a single tree-schedule run from one query
// node: its belief under alg, and — for MaxProduct/MaxSum — the full MAP
// assignment recovered by back-tracking.
type TreeResult struct {
	Belief rv.RandomVariable
	ArgMax map[*fgnode.VNode]int
}

// Tree runs the exact forward/backward message schedule rooted at query,
// under alg, then reads off query's belief. For MaxProduct and MaxSum it
// additionally back-tracks the per-factor recorded argmax trail into a full
// joint assignment.
//
// Errors: ErrGraphShape if the component reachable from query is not a
// tree; ErrEmptyGraph if query has no neighbors; propagates fgnode/fgraph
// errors from message computation.
func Tree(g *fgraph.Graph, query *fgnode.VNode, alg fgnode.Algorithm) (TreeResult, error) {
	edges, err := dfsTree(g, query)
	if err != nil {
		return TreeResult{}, err
	}

	// Forward phase: process edges in reverse discovery order, each time
	// computing the message from the DFS child toward its parent.
	for i := len(edges) - 1; i >= 0; i-- {
		e := edges[i]
		msg, err := computeMessage(g, alg, e.child, e.parent)
		if err != nil {
			return TreeResult{}, fmt.Errorf("schedule: Tree forward: %w", err)
		}
		if err := g.SetMessage(e.child, e.parent, msg); err != nil {
			return TreeResult{}, fmt.Errorf("schedule: Tree forward: %w", err)
		}
	}

	// Backward phase: process edges in discovery order, each time computing
	// the message from the DFS parent toward its child.
	for _, e := range edges {
		msg, err := computeMessage(g, alg, e.parent, e.child)
		if err != nil {
			return TreeResult{}, fmt.Errorf("schedule: Tree backward: %w", err)
		}
		if err := g.SetMessage(e.parent, e.child, msg); err != nil {
			return TreeResult{}, fmt.Errorf("schedule: Tree backward: %w", err)
		}
	}

	msgsIn, err := g.IncomingMessages(query, nil)
	if err != nil {
		return TreeResult{}, fmt.Errorf("schedule: Tree: %w", err)
	}

	normalize := alg == fgnode.SumProduct || alg == fgnode.MeanField
	logDomain := alg == fgnode.MaxSum
	belief, err := query.Belief(msgsIn, normalize, logDomain)
	if err != nil {
		return TreeResult{}, fmt.Errorf("schedule: Tree: %w", err)
	}

	result := TreeResult{Belief: belief}
	if alg == fgnode.MaxProduct || alg == fgnode.MaxSum {
		argmax, err := backTrack(g, query, edges, logDomain)
		if err != nil {
			return TreeResult{}, fmt.Errorf("schedule: Tree: %w", err)
		}
		result.ArgMax = argmax
	}
	return result, nil
}

// backTrack recovers the full joint MAP assignment: seed query's own value
// from its belief, then walk edges in discovery order and, for every edge
// whose child is an FNode, copy every entry of that FNode's Record[parent]
// — populated during the forward phase — into the assignment. By
// construction the parent of such an edge is always already assigned.
func backTrack(g *fgraph.Graph, query *fgnode.VNode, edges []treeEdge, logDomain bool) (map[*fgnode.VNode]int, error) {
	msgsIn, err := g.IncomingMessages(query, nil)
	if err != nil {
		return nil, fmt.Errorf("schedule: backTrack: %w", err)
	}
	belief, err := query.Belief(msgsIn, false, logDomain)
	if err != nil {
		return nil, fmt.Errorf("schedule: backTrack: %w", err)
	}
	disc, ok := belief.(*rv.Discrete)
	if !ok {
		return nil, fmt.Errorf("schedule: backTrack: %w", rv.ErrNotImplemented)
	}

	argmax := map[*fgnode.VNode]int{query: disc.ArgMax()[0]}
	for _, e := range edges {
		fn, ok := e.child.(*fgnode.FNode)
		if !ok {
			continue
		}
		parent, ok := e.parent.(*fgnode.VNode)
		if !ok {
			continue
		}
		for k, idx := range fn.Record[parent] {
			argmax[k] = idx
		}
	}
	return argmax, nil
}
