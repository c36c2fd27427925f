package schedule

import (
	"fmt"

	"github.com/danbar/fglib/fgnode"
	"github.com/danbar/fglib/fgraph"
	"github.com/danbar/fglib/rv"
)

// computeMessage invokes src's algorithm-appropriate operator to produce
// the outgoing message toward dst, gathering incoming messages at src from
// every neighbor except dst.
func computeMessage(g *fgraph.Graph, alg fgnode.Algorithm, src, dst fgnode.Node) (rv.RandomVariable, error) {
	msgsIn, err := g.IncomingMessages(src, dst)
	if err != nil {
		return nil, fmt.Errorf("schedule: computeMessage(%s->%s): %w", src.Label(), dst.Label(), err)
	}

	switch n := src.(type) {
	case *fgnode.VNode:
		switch alg {
		case fgnode.SumProduct:
			return n.Spa(msgsIn)
		case fgnode.MaxProduct:
			return n.Mpa(msgsIn)
		case fgnode.MaxSum:
			return n.Msa(msgsIn)
		case fgnode.MeanField:
			return n.Mf(msgsIn)
		}
	case *fgnode.FNode:
		target, ok := dst.(*fgnode.VNode)
		if !ok {
			return nil, fmt.Errorf("schedule: computeMessage(%s->%s): %w", src.Label(), dst.Label(), fgraph.ErrUnknownNodeType)
		}
		switch alg {
		case fgnode.SumProduct:
			return n.Spa(target, msgsIn)
		case fgnode.MaxProduct:
			return n.Mpa(target, msgsIn)
		case fgnode.MaxSum:
			return n.Msa(target, msgsIn)
		case fgnode.MeanField:
			return n.Mf(target, msgsIn)
		}
	}
	return nil, fmt.Errorf("schedule: computeMessage(%s->%s): %w", src.Label(), dst.Label(), fgraph.ErrUnknownNodeType)
}
