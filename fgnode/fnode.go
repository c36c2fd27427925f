package fgnode

import (
	"fmt"
	"math"

	"github.com/danbar/fglib/rv"
)

// FNode is a factor node: its Factor is a random variable whose Dims() is
// exactly the set of VNodes adjacent to it. Record holds, per outgoing
// target and per incoming variable, the scalar index recorded during
// max-product/max-sum's sequential maximize-and-record pass — read by the
// scheduler's back-tracking phase and written only by Mpa/Msa.
type FNode struct {
	id     int
	label  string
	factor rv.RandomVariable
	Record map[*VNode]map[*VNode]int
}

// NewFNode constructs an FNode with the given local factor. The factor may
// be (re-)assigned via SetFactor until inference begins.
func NewFNode(label string, factor rv.RandomVariable) *FNode {
	return &FNode{id: allocID(), label: label, factor: factor, Record: make(map[*VNode]map[*VNode]int)}
}

// NodeID implements fgnode.Node.
func (f *FNode) NodeID() int { return f.id }

// Label implements fgnode.Node.
func (f *FNode) Label() string { return f.label }

// Factor returns the node's local factor.
func (f *FNode) Factor() rv.RandomVariable { return f.factor }

// SetFactor reassigns the local factor. Valid only before inference begins.
func (f *FNode) SetFactor(factor rv.RandomVariable) { f.factor = factor }

func (f *FNode) String() string {
	return fmt.Sprintf("FNode(%s)", f.label)
}

// othersOf returns the factor's own dims, in their original order, minus
// the given target — the dims that must be collapsed to produce a message
// toward target.
func othersOf(factor rv.RandomVariable, target *VNode) []rv.Dim {
	var others []rv.Dim
	for _, d := range factor.Dims() {
		if d.DimID() != target.DimID() {
			others = append(others, d)
		}
	}
	return others
}

// Spa is the sum-product operator: multiply the factor by every incoming
// message, then marginalize out every dim except target. Normalization is
// deferred to belief time.
func (f *FNode) Spa(target *VNode, msgsIn []rv.RandomVariable) (rv.RandomVariable, error) {
	cur := f.factor
	var err error
	for _, m := range msgsIn {
		cur, err = cur.Multiply(m)
		if err != nil {
			return nil, fmt.Errorf("fgnode: FNode.Spa(%s->%s): %w", f.label, target.label, err)
		}
	}
	others := othersOf(cur, target)
	out, err := cur.Marginalize(false, others...)
	if err != nil {
		return nil, fmt.Errorf("fgnode: FNode.Spa(%s->%s): %w", f.label, target.label, err)
	}
	return out, nil
}

// Mpa is the max-product operator: like Spa, but collapses each other dim
// one at a time via Maximize, recording the argmax along that dim into
// Record[target] before it is collapsed — the back-tracking trail.
func (f *FNode) Mpa(target *VNode, msgsIn []rv.RandomVariable) (rv.RandomVariable, error) {
	return f.maximizeAndRecord(target, msgsIn, false)
}

// Msa is the log-domain analog of Mpa: starts from factor.Log(), adds
// incoming log messages, then maximizes with recording exactly as Mpa.
func (f *FNode) Msa(target *VNode, msgsIn []rv.RandomVariable) (rv.RandomVariable, error) {
	return f.maximizeAndRecord(target, msgsIn, true)
}

func (f *FNode) maximizeAndRecord(target *VNode, msgsIn []rv.RandomVariable, log bool) (rv.RandomVariable, error) {
	cur := f.factor
	var err error
	if log {
		cur, err = cur.Log()
		if err != nil {
			return nil, fmt.Errorf("fgnode: FNode.maximizeAndRecord(%s->%s): %w", f.label, target.label, err)
		}
	}
	for _, m := range msgsIn {
		if log {
			// Log-domain product: broadcast m onto cur's dims, then add elementwise.
			var ones rv.RandomVariable
			if ones, err = rv.DiscreteKind.Unity(cur.Dims()...); err == nil {
				m, err = ones.Multiply(m)
			}
			if err == nil {
				a, b := cur.(*rv.Discrete).Values(), m.(*rv.Discrete).Values()
				if len(a) != len(b) {
					return nil, fmt.Errorf("fgnode: FNode.maximizeAndRecord(%s->%s): %w", f.label, target.label, rv.ErrShapeMismatch)
				}
				for i := range a {
					a[i] += b[i]
				}
				cur, err = rv.NewDiscrete(a, cur.(*rv.Discrete).Shape(), cur.Dims()...)
			}
		} else {
			cur, err = cur.Multiply(m)
		}
		if err != nil {
			return nil, fmt.Errorf("fgnode: FNode.maximizeAndRecord(%s->%s): %w", f.label, target.label, err)
		}
	}

	others := othersOf(cur, target)
	if len(others) > 0 {
		if f.Record[target] == nil {
			f.Record[target] = make(map[*VNode]int)
		}
	}
	for _, d := range others {
		vIn, ok := d.(*VNode)
		if !ok {
			return nil, fmt.Errorf("fgnode: FNode.maximizeAndRecord(%s->%s): %w", f.label, target.label, ErrWrongTarget)
		}
		disc, ok := cur.(*rv.Discrete)
		if ok {
			idx, err := disc.ArgMaxDim(d)
			if err != nil {
				return nil, fmt.Errorf("fgnode: FNode.maximizeAndRecord(%s->%s): %w", f.label, target.label, err)
			}
			f.Record[target][vIn] = idx
		}
		cur, err = cur.Maximize(false, d)
		if err != nil {
			return nil, fmt.Errorf("fgnode: FNode.maximizeAndRecord(%s->%s): %w", f.label, target.label, err)
		}
	}
	return cur, nil
}

// Mf is the mean-field operator. For a Discrete factor it completes the
// standard derivation outgoing = exp(E_q[log factor]), treating each
// incoming message as the current (normalized) belief of that neighbor
// variable and contracting it against the log-factor by multiply-then-sum.
// For a Gaussian factor, no closed-form completion is specified by this
// library and it surfaces rv.ErrNotImplemented rather than guess one.
func (f *FNode) Mf(target *VNode, msgsIn []rv.RandomVariable) (rv.RandomVariable, error) {
	disc, ok := f.factor.(*rv.Discrete)
	if !ok {
		return nil, fmt.Errorf("fgnode: FNode.Mf(%s->%s): %w", f.label, target.label, rv.ErrNotImplemented)
	}
	logF, err := disc.Log()
	if err != nil {
		return nil, fmt.Errorf("fgnode: FNode.Mf(%s->%s): %w", f.label, target.label, err)
	}
	cur := logF
	for _, m := range msgsIn {
		prod, err := cur.Multiply(m)
		if err != nil {
			return nil, fmt.Errorf("fgnode: FNode.Mf(%s->%s): %w", f.label, target.label, err)
		}
		cur, err = prod.Marginalize(false, m.Dims()...)
		if err != nil {
			return nil, fmt.Errorf("fgnode: FNode.Mf(%s->%s): %w", f.label, target.label, err)
		}
	}
	curDisc, ok := cur.(*rv.Discrete)
	if !ok {
		return nil, fmt.Errorf("fgnode: FNode.Mf(%s->%s): %w", f.label, target.label, rv.ErrNotImplemented)
	}
	vals := curDisc.Values()
	out := make([]float64, len(vals))
	for i, v := range vals {
		out[i] = math.Exp(v)
	}
	res, err := rv.NewDiscrete(out, curDisc.Shape(), curDisc.Dims()...)
	if err != nil {
		return nil, fmt.Errorf("fgnode: FNode.Mf(%s->%s): %w", f.label, target.label, err)
	}
	return res, nil
}
