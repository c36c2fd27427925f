package schedule

import (
	"fmt"

	"github.com/danbar/fglib/fgnode"
	"github.com/danbar/fglib/fgraph"
)

// treeEdge is one edge of a rooted spanning walk, oriented parent->child in
// DFS discovery order.
type treeEdge struct {
	parent fgnode.Node
	child  fgnode.Node
}

const (
	white = iota // unvisited
	gray         // on the current DFS stack
	black        // fully explored
)

// dfsTree walks g from root, returning its edges in discovery order.
//
// Every vertex in an undirected tree has exactly one path to any other, so a
// second encounter of an already-gray (on-stack) or already-black (finished)
// neighbor — other than stepping back to the immediate parent — means the
// component g reaches from root is not a tree.
//
// Errors: ErrGraphShape, ErrEmptyGraph.
func dfsTree(g *fgraph.Graph, root fgnode.Node) ([]treeEdge, error) {
	color := make(map[int]int)
	var edges []treeEdge

	var visit func(n, parent fgnode.Node) error
	visit = func(n, parent fgnode.Node) error {
		color[n.NodeID()] = gray

		var exclude []fgnode.Node
		if parent != nil {
			exclude = []fgnode.Node{parent}
		}
		neighbors, err := g.Neighbors(n, exclude...)
		if err != nil {
			return fmt.Errorf("schedule: dfsTree: %w", err)
		}

		for _, nb := range neighbors {
			switch color[nb.NodeID()] {
			case white:
				edges = append(edges, treeEdge{parent: n, child: nb})
				if err := visit(nb, n); err != nil {
					return err
				}
			case gray, black:
				return fmt.Errorf("schedule: dfsTree(%s): %w", nb.Label(), ErrGraphShape)
			}
		}

		color[n.NodeID()] = black
		return nil
	}

	if err := visit(root, nil); err != nil {
		return nil, err
	}
	if len(edges) == 0 {
		neighbors, err := g.Neighbors(root)
		if err != nil {
			return nil, fmt.Errorf("schedule: dfsTree: %w", err)
		}
		if len(neighbors) == 0 {
			return nil, fmt.Errorf("schedule: dfsTree(%s): %w", root.Label(), ErrEmptyGraph)
		}
	}
	return edges, nil
}
