package schedule

import (
	"fmt"

	"github.com/danbar/fglib/fgnode"
	"github.com/danbar/fglib/fgraph"
	"github.com/danbar/fglib/rv"
)

// defaultOrder visits every FNode, then every VNode, both in creation-order
// ID — the teacher's deterministic default when no order is supplied.
func defaultOrder(g *fgraph.Graph) []fgnode.Node {
	var order []fgnode.Node
	for _, f := range g.FNodes() {
		order = append(order, f)
	}
	for _, v := range g.VNodes() {
		order = append(order, v)
	}
	return order
}

// Flood runs n Gauss-Seidel-style sweeps of alg over g: in each sweep,
// every node in order recomputes and stores its outgoing message toward
// every neighbor, immediately visible to later nodes in the same sweep. It
// is the only schedule applicable to loopy (non-tree) graphs. After each
// sweep it appends each query node's current belief to that node's entry in
// the returned history, so callers can inspect convergence.
//
// If order is nil, defaultOrder(g) is used.
//
// Errors: propagates fgnode/fgraph errors from message computation.
func Flood(g *fgraph.Graph, alg fgnode.Algorithm, n int, query []*fgnode.VNode, order []fgnode.Node) (map[*fgnode.VNode][]rv.RandomVariable, error) {
	if order == nil {
		order = defaultOrder(g)
	}

	normalize := alg == fgnode.SumProduct || alg == fgnode.MeanField
	logDomain := alg == fgnode.MaxSum

	history := make(map[*fgnode.VNode][]rv.RandomVariable, len(query))
	for i := 0; i < n; i++ {
		for _, node := range order {
			neighbors, err := g.Neighbors(node)
			if err != nil {
				return nil, fmt.Errorf("schedule: Flood: %w", err)
			}
			for _, nb := range neighbors {
				msg, err := computeMessage(g, alg, node, nb)
				if err != nil {
					return nil, fmt.Errorf("schedule: Flood: %w", err)
				}
				if err := g.SetMessage(node, nb, msg); err != nil {
					return nil, fmt.Errorf("schedule: Flood: %w", err)
				}
			}
		}

		for _, q := range query {
			msgsIn, err := g.IncomingMessages(q, nil)
			if err != nil {
				return nil, fmt.Errorf("schedule: Flood: %w", err)
			}
			belief, err := q.Belief(msgsIn, normalize, logDomain)
			if err != nil {
				return nil, fmt.Errorf("schedule: Flood: %w", err)
			}
			history[q] = append(history[q], belief)
		}
	}
	return history, nil
}
