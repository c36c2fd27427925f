package fgnode

import (
	"fmt"
	"sync/atomic"

	"github.com/danbar/fglib/rv"
)

var nextNodeID uint64

func allocID() int {
	return int(atomic.AddUint64(&nextNodeID, 1))
}

// VNode is a variable node: a dimension of the joint distribution. Its
// identity is a stable creation-order id (satisfying rv.Dim), its Kind
// selects Discrete or Gaussian algebra, and its Init is the node's unity
// element — or, for an observed node, a caller-supplied delta.
type VNode struct {
	id       int
	label    string
	kind     rv.Kind
	card     int
	observed bool
	init     rv.RandomVariable
}

// VNodeOption configures a VNode at construction.
type VNodeOption func(*vnodeConfig)

type vnodeConfig struct {
	observed bool
	init     rv.RandomVariable
}

// Observed marks the VNode as observed and supplies the delta distribution
// to report as every outgoing message. Per the resolved Open Question on
// observed-node initialization, there is no implicit unity-as-observed
// fallback: passing a nil init here is a construction error.
func Observed(init rv.RandomVariable) VNodeOption {
	return func(c *vnodeConfig) {
		c.observed = true
		c.init = init
	}
}

// NewVNode constructs a VNode of the given kind. card is the discrete
// cardinality (the number of states) and is ignored for GaussianKind
// (pass 0 or 1).
//
// Errors: ErrObservedNeedsInit if Observed(nil) is supplied (the node is
// marked observed but has no init distribution); propagates rv construction
// errors (e.g. ErrShapeMismatch from a bad card).
func NewVNode(label string, kind rv.Kind, card int, opts ...VNodeOption) (*VNode, error) {
	v := &VNode{id: allocID(), label: label, kind: kind, card: card}

	cfg := vnodeConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.observed {
		if cfg.init == nil {
			return nil, fmt.Errorf("fgnode: NewVNode(%q): %w", label, ErrObservedNeedsInit)
		}
		v.observed = true
		v.init = cfg.init
		return v, nil
	}

	init, err := kind.Unity(v)
	if err != nil {
		return nil, fmt.Errorf("fgnode: NewVNode(%q): %w", label, err)
	}
	v.init = init
	return v, nil
}

// NodeID implements fgnode.Node and rv.Dim.
func (v *VNode) NodeID() int { return v.id }

// DimID implements rv.Dim.
func (v *VNode) DimID() int { return v.id }

// Card implements rv.Dim: the discrete cardinality of this variable.
func (v *VNode) Card() int { return v.card }

// Label implements fgnode.Node.
func (v *VNode) Label() string { return v.label }

// Kind reports this variable's algebra kind.
func (v *VNode) Kind() rv.Kind { return v.kind }

// Observed reports whether this variable has been fixed to an observed value.
func (v *VNode) Observed() bool { return v.observed }

// Init returns the node's unity element, or its observed delta.
func (v *VNode) Init() rv.RandomVariable { return v.init }

func (v *VNode) String() string {
	return fmt.Sprintf("VNode(%s)", v.label)
}

// Spa is the sum-product operator. If observed, it returns the node's
// fixed init (a delta). Otherwise it starts from init (unity) and
// multiplies in every incoming message.
func (v *VNode) Spa(msgsIn []rv.RandomVariable) (rv.RandomVariable, error) {
	if v.observed {
		return v.init, nil
	}
	return v.combine(msgsIn, false)
}

// Mpa is the max-product operator for a VNode: identical to Spa, since the
// max-product message through a variable node is the product of incoming
// maximizations.
func (v *VNode) Mpa(msgsIn []rv.RandomVariable) (rv.RandomVariable, error) {
	if v.observed {
		return v.init, nil
	}
	return v.combine(msgsIn, false)
}

// Msa is the log-domain analog: start from init.Log(), add incoming
// (already log-domain) messages.
func (v *VNode) Msa(msgsIn []rv.RandomVariable) (rv.RandomVariable, error) {
	if v.observed {
		logInit, err := v.init.Log()
		if err != nil {
			return nil, fmt.Errorf("fgnode: VNode.Msa(%s): %w", v.label, err)
		}
		return logInit, nil
	}
	return v.combine(msgsIn, true)
}

// Mf is the mean-field operator: the node's current normalized belief.
func (v *VNode) Mf(msgsIn []rv.RandomVariable) (rv.RandomVariable, error) {
	return v.Belief(msgsIn, true, false)
}

func (v *VNode) combine(msgsIn []rv.RandomVariable, log bool) (rv.RandomVariable, error) {
	start := v.init
	var err error
	if log {
		start, err = start.Log()
		if err != nil {
			return nil, fmt.Errorf("fgnode: VNode.combine(%s): %w", v.label, err)
		}
	}
	for _, m := range msgsIn {
		if log {
			// Log-domain product: elementwise sum of the two value tensors.
			a, okA := start.(*rv.Discrete)
			b, okB := m.(*rv.Discrete)
			if !okA || !okB || len(a.Values()) != len(b.Values()) {
				return nil, fmt.Errorf("fgnode: VNode.combine(%s): %w", v.label, rv.ErrShapeMismatch)
			}
			sum := a.Values()
			for i, x := range b.Values() {
				sum[i] += x
			}
			start, err = rv.NewDiscrete(sum, a.Shape(), a.Dims()...)
		} else {
			start, err = start.Multiply(m)
		}
		if err != nil {
			return nil, fmt.Errorf("fgnode: VNode.combine(%s): %w", v.label, err)
		}
	}
	return start, nil
}

// Belief is the product (or, in log domain, sum) of init with every
// message in msgsIn, optionally normalized.
func (v *VNode) Belief(msgsIn []rv.RandomVariable, normalize, log bool) (rv.RandomVariable, error) {
	belief, err := v.combine(msgsIn, log)
	if err != nil {
		return nil, fmt.Errorf("fgnode: VNode.Belief(%s): %w", v.label, err)
	}
	if !normalize {
		return belief, nil
	}
	normed, err := belief.Normalize()
	if err != nil {
		return nil, fmt.Errorf("fgnode: VNode.Belief(%s): %w", v.label, err)
	}
	return normed, nil
}

// Max returns the maximum value of this node's (unnormalized) belief.
// Defined for Discrete beliefs only; Gaussian peak density is not exposed
// at the node level (no test scenario exercises it).
func (v *VNode) Max(msgsIn []rv.RandomVariable) (float64, error) {
	belief, err := v.combine(msgsIn, false)
	if err != nil {
		return 0, fmt.Errorf("fgnode: VNode.Max(%s): %w", v.label, err)
	}
	d, ok := belief.(*rv.Discrete)
	if !ok {
		return 0, fmt.Errorf("fgnode: VNode.Max(%s): %w", v.label, rv.ErrNotImplemented)
	}
	best := d.Values()[0]
	for _, x := range d.Values() {
		if x > best {
			best = x
		}
	}
	return best, nil
}

// ArgMax returns the mode of this node's belief as a discrete state index.
func (v *VNode) ArgMax(msgsIn []rv.RandomVariable) (int, error) {
	belief, err := v.combine(msgsIn, false)
	if err != nil {
		return 0, fmt.Errorf("fgnode: VNode.ArgMax(%s): %w", v.label, err)
	}
	d, ok := belief.(*rv.Discrete)
	if !ok {
		return 0, fmt.Errorf("fgnode: VNode.ArgMax(%s): %w", v.label, rv.ErrNotImplemented)
	}
	idx := d.ArgMax()
	return idx[0], nil
}
