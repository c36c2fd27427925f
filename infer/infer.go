package infer

import (
	"fmt"

	"github.com/danbar/fglib/fgnode"
	"github.com/danbar/fglib/fgraph"
	"github.com/danbar/fglib/rv"
	"github.com/danbar/fglib/schedule"
)

// DefaultQuery picks the variable node with the smallest creation-order ID.
// Resolves the spec's "pick a default query node" open question
// deterministically rather than at random, so repeated runs over the same
// graph are reproducible.
//
// Errors: ErrEmptyGraph.
func DefaultQuery(g *fgraph.Graph) (*fgnode.VNode, error) {
	vnodes := g.VNodes()
	if len(vnodes) == 0 {
		return nil, ErrEmptyGraph
	}
	return vnodes[0], nil
}

// SumProduct runs the exact tree schedule rooted at query and returns its
// normalized marginal belief.
//
// Errors: schedule.ErrGraphShape, schedule.ErrEmptyGraph, and propagated
// fgnode/rv errors.
func SumProduct(g *fgraph.Graph, query *fgnode.VNode) (rv.RandomVariable, error) {
	result, err := schedule.Tree(g, query, fgnode.SumProduct)
	if err != nil {
		return nil, fmt.Errorf("infer: SumProduct: %w", err)
	}
	return result.Belief, nil
}

// BeliefPropagation is an alias for SumProduct — the two names are used
// interchangeably in factor-graph literature for the exact tree schedule.
func BeliefPropagation(g *fgraph.Graph, query *fgnode.VNode) (rv.RandomVariable, error) {
	return SumProduct(g, query)
}

// MaxProduct runs the exact tree schedule under the max-product semiring,
// returning query's unnormalized maximum belief value together with the
// full joint MAP assignment recovered by back-tracking.
//
// Errors: schedule.ErrGraphShape, schedule.ErrEmptyGraph, and propagated
// fgnode/rv errors; rv.ErrNotImplemented if query's belief is not Discrete.
func MaxProduct(g *fgraph.Graph, query *fgnode.VNode) (float64, map[*fgnode.VNode]int, error) {
	result, err := schedule.Tree(g, query, fgnode.MaxProduct)
	if err != nil {
		return 0, nil, fmt.Errorf("infer: MaxProduct: %w", err)
	}
	disc, ok := result.Belief.(*rv.Discrete)
	if !ok {
		return 0, nil, fmt.Errorf("infer: MaxProduct: %w", rv.ErrNotImplemented)
	}
	best := disc.Values()[0]
	for _, v := range disc.Values() {
		if v > best {
			best = v
		}
	}
	return best, result.ArgMax, nil
}

// MaxSum is the log-domain analog of MaxProduct: the returned value is the
// maximum log-belief (not exponentiated back), with the same MAP assignment
// semantics (and the same known divergence on non-root variables the
// original back-tracking carries forward unmodified).
//
// Errors: as MaxProduct.
func MaxSum(g *fgraph.Graph, query *fgnode.VNode) (float64, map[*fgnode.VNode]int, error) {
	result, err := schedule.Tree(g, query, fgnode.MaxSum)
	if err != nil {
		return 0, nil, fmt.Errorf("infer: MaxSum: %w", err)
	}
	disc, ok := result.Belief.(*rv.Discrete)
	if !ok {
		return 0, nil, fmt.Errorf("infer: MaxSum: %w", rv.ErrNotImplemented)
	}
	best := disc.Values()[0]
	for _, v := range disc.Values() {
		if v > best {
			best = v
		}
	}
	return best, result.ArgMax, nil
}

// LoopyBeliefPropagation runs n flooding sweeps of sum-product over g
// (exact on a tree, approximate on a graph with cycles), returning each
// query node's belief history, one entry per sweep. If order is nil, the
// default FNodes-then-VNodes ID order is used.
func LoopyBeliefPropagation(g *fgraph.Graph, n int, query []*fgnode.VNode, order []fgnode.Node) (map[*fgnode.VNode][]rv.RandomVariable, error) {
	history, err := schedule.Flood(g, fgnode.SumProduct, n, query, order)
	if err != nil {
		return nil, fmt.Errorf("infer: LoopyBeliefPropagation: %w", err)
	}
	return history, nil
}

// MeanField runs n flooding sweeps of the mean-field operator over g,
// returning each query node's belief history, one entry per sweep.
//
// Errors: rv.ErrNotImplemented for any Gaussian factor in g (mean-field
// completion is defined for Discrete factors only).
func MeanField(g *fgraph.Graph, n int, query []*fgnode.VNode, order []fgnode.Node) (map[*fgnode.VNode][]rv.RandomVariable, error) {
	history, err := schedule.Flood(g, fgnode.MeanField, n, query, order)
	if err != nil {
		return nil, fmt.Errorf("infer: MeanField: %w", err)
	}
	return history, nil
}
