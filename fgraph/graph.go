package fgraph

import (
	"fmt"
	"sort"
	"sync"

	"github.com/danbar/fglib/fgnode"
	"github.com/danbar/fglib/rv"
)

type edgeKey struct {
	v, f int
}

// Graph is an undirected bipartite graph of VNodes and FNodes. Each edge
// carries two directed message slots (v->f and f->v), both initialized to
// the variable's unity element and overwritten by a scheduler.
//
// A single sync.RWMutex guards all state: unlike the teacher's two-lock
// split between vertex and edge state, here graph assembly (node/edge
// addition) and message mutation never overlap in time within one
// inference run (see SPEC_FULL.md §4.3), so there is no independent
// contention to justify a second lock.
type Graph struct {
	mu sync.RWMutex

	vnodes map[int]*fgnode.VNode
	fnodes map[int]*fgnode.FNode

	// adjacency: vnode id -> set of fnode ids, and the reverse.
	vAdj map[int]map[int]struct{}
	fAdj map[int]map[int]struct{}

	toFactor   map[edgeKey]rv.RandomVariable // msg[v->f]
	toVariable map[edgeKey]rv.RandomVariable // msg[f->v]
}

// New returns an empty Graph.
func New() *Graph {
	return &Graph{
		vnodes:     make(map[int]*fgnode.VNode),
		fnodes:     make(map[int]*fgnode.FNode),
		vAdj:       make(map[int]map[int]struct{}),
		fAdj:       make(map[int]map[int]struct{}),
		toFactor:   make(map[edgeKey]rv.RandomVariable),
		toVariable: make(map[edgeKey]rv.RandomVariable),
	}
}

// AddVNode registers a variable node.
//
// Errors: ErrNilNode, ErrDuplicateNode.
func (g *Graph) AddVNode(v *fgnode.VNode) error {
	if v == nil {
		return fmt.Errorf("fgraph: AddVNode: %w", ErrNilNode)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.vnodes[v.NodeID()]; ok {
		return fmt.Errorf("fgraph: AddVNode(%s): %w", v.Label(), ErrDuplicateNode)
	}
	g.vnodes[v.NodeID()] = v
	g.vAdj[v.NodeID()] = make(map[int]struct{})
	return nil
}

// AddFNode registers a factor node.
//
// Errors: ErrNilNode, ErrDuplicateNode.
func (g *Graph) AddFNode(f *fgnode.FNode) error {
	if f == nil {
		return fmt.Errorf("fgraph: AddFNode: %w", ErrNilNode)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.fnodes[f.NodeID()]; ok {
		return fmt.Errorf("fgraph: AddFNode(%s): %w", f.Label(), ErrDuplicateNode)
	}
	g.fnodes[f.NodeID()] = f
	g.fAdj[f.NodeID()] = make(map[int]struct{})
	return nil
}

// AddEdge joins v and f, initializing both message slots to v's unity
// element (or, for an observed v, leaves the scheduler to overwrite them on
// first write — the slot still starts from the same unity seed).
//
// Errors: ErrVNodeNotFound, ErrFNodeNotFound if either endpoint was not
// previously added via AddVNode/AddFNode.
func (g *Graph) AddEdge(v *fgnode.VNode, f *fgnode.FNode) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.vnodes[v.NodeID()]; !ok {
		return fmt.Errorf("fgraph: AddEdge(%s,%s): %w", v.Label(), f.Label(), ErrVNodeNotFound)
	}
	if _, ok := g.fnodes[f.NodeID()]; !ok {
		return fmt.Errorf("fgraph: AddEdge(%s,%s): %w", v.Label(), f.Label(), ErrFNodeNotFound)
	}

	unity, err := v.Kind().Unity(v)
	if err != nil {
		return fmt.Errorf("fgraph: AddEdge(%s,%s): %w", v.Label(), f.Label(), err)
	}

	g.vAdj[v.NodeID()][f.NodeID()] = struct{}{}
	g.fAdj[f.NodeID()][v.NodeID()] = struct{}{}
	key := edgeKey{v: v.NodeID(), f: f.NodeID()}
	g.toFactor[key] = unity
	g.toVariable[key] = unity
	return nil
}

// VNodes returns every variable node, sorted by creation-order ID.
func (g *Graph) VNodes() []*fgnode.VNode {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*fgnode.VNode, 0, len(g.vnodes))
	for _, v := range g.vnodes {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NodeID() < out[j].NodeID() })
	return out
}

// FNodes returns every factor node, sorted by creation-order ID.
func (g *Graph) FNodes() []*fgnode.FNode {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*fgnode.FNode, 0, len(g.fnodes))
	for _, f := range g.fnodes {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NodeID() < out[j].NodeID() })
	return out
}

// Neighbors returns the nodes adjacent to n (FNodes if n is a VNode, and
// vice versa, by bipartite construction), sorted by ID and excluding any
// node present in exclude.
//
// Errors: ErrVNodeNotFound / ErrFNodeNotFound if n is not in the graph;
// ErrUnknownNodeType if n is neither.
func (g *Graph) Neighbors(n fgnode.Node, exclude ...fgnode.Node) ([]fgnode.Node, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	excl := make(map[int]bool, len(exclude))
	for _, e := range exclude {
		excl[e.NodeID()] = true
	}

	switch t := n.(type) {
	case *fgnode.VNode:
		adj, ok := g.vAdj[t.NodeID()]
		if !ok {
			return nil, fmt.Errorf("fgraph: Neighbors(%s): %w", n.Label(), ErrVNodeNotFound)
		}
		var ids []int
		for id := range adj {
			if !excl[id] {
				ids = append(ids, id)
			}
		}
		sort.Ints(ids)
		out := make([]fgnode.Node, len(ids))
		for i, id := range ids {
			out[i] = g.fnodes[id]
		}
		return out, nil
	case *fgnode.FNode:
		adj, ok := g.fAdj[t.NodeID()]
		if !ok {
			return nil, fmt.Errorf("fgraph: Neighbors(%s): %w", n.Label(), ErrFNodeNotFound)
		}
		var ids []int
		for id := range adj {
			if !excl[id] {
				ids = append(ids, id)
			}
		}
		sort.Ints(ids)
		out := make([]fgnode.Node, len(ids))
		for i, id := range ids {
			out[i] = g.vnodes[id]
		}
		return out, nil
	default:
		return nil, fmt.Errorf("fgraph: Neighbors: %w", ErrUnknownNodeType)
	}
}

// GetMessage returns the message currently stored on the directed edge
// from u to v (exactly one of u,v must be a VNode and the other an FNode).
//
// Errors: ErrEdgeNotFound, ErrUnknownNodeType.
func (g *Graph) GetMessage(u, v fgnode.Node) (rv.RandomVariable, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	key, toFactor, err := g.resolveKey(u, v)
	if err != nil {
		return nil, fmt.Errorf("fgraph: GetMessage: %w", err)
	}
	table := g.toVariable
	if toFactor {
		table = g.toFactor
	}
	msg, ok := table[key]
	if !ok {
		return nil, fmt.Errorf("fgraph: GetMessage(%s->%s): %w", u.Label(), v.Label(), ErrEdgeNotFound)
	}
	return msg, nil
}

// SetMessage overwrites the message stored on the directed edge from u to v.
//
// Errors: ErrEdgeNotFound, ErrUnknownNodeType.
func (g *Graph) SetMessage(u, v fgnode.Node, msg rv.RandomVariable) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	key, toFactor, err := g.resolveKey(u, v)
	if err != nil {
		return fmt.Errorf("fgraph: SetMessage: %w", err)
	}
	table := g.toVariable
	if toFactor {
		table = g.toFactor
	}
	if _, ok := table[key]; !ok {
		return fmt.Errorf("fgraph: SetMessage(%s->%s): %w", u.Label(), v.Label(), ErrEdgeNotFound)
	}
	table[key] = msg
	return nil
}

// resolveKey normalizes (u,v) — in either VNode->FNode or FNode->VNode
// order — to the internal edgeKey plus a flag for which direction's table
// to use. Caller must hold g.mu.
func (g *Graph) resolveKey(u, v fgnode.Node) (edgeKey, bool, error) {
	if vn, ok := u.(*fgnode.VNode); ok {
		fn, ok := v.(*fgnode.FNode)
		if !ok {
			return edgeKey{}, false, ErrUnknownNodeType
		}
		return edgeKey{v: vn.NodeID(), f: fn.NodeID()}, true, nil
	}
	if fn, ok := u.(*fgnode.FNode); ok {
		vn, ok := v.(*fgnode.VNode)
		if !ok {
			return edgeKey{}, false, ErrUnknownNodeType
		}
		return edgeKey{v: vn.NodeID(), f: fn.NodeID()}, false, nil
	}
	return edgeKey{}, false, ErrUnknownNodeType
}

// IncomingMessages returns the messages currently on every edge into n,
// excluding the one from exclude (if exclude is non-nil).
//
// Errors: propagates Neighbors/GetMessage errors.
func (g *Graph) IncomingMessages(n fgnode.Node, exclude fgnode.Node) ([]rv.RandomVariable, error) {
	var excl []fgnode.Node
	if exclude != nil {
		excl = []fgnode.Node{exclude}
	}
	neighbors, err := g.Neighbors(n, excl...)
	if err != nil {
		return nil, fmt.Errorf("fgraph: IncomingMessages(%s): %w", n.Label(), err)
	}
	out := make([]rv.RandomVariable, 0, len(neighbors))
	for _, nb := range neighbors {
		msg, err := g.GetMessage(nb, n)
		if err != nil {
			return nil, fmt.Errorf("fgraph: IncomingMessages(%s): %w", n.Label(), err)
		}
		out = append(out, msg)
	}
	return out, nil
}
