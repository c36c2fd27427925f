package fgnode

import "errors"

var (
	// ErrObservedNeedsInit indicates a caller constructed an observed VNode
	// without supplying an explicit delta distribution via Observed(...).
	ErrObservedNeedsInit = errors.New("fgnode: observed VNode requires an explicit init distribution")

	// ErrWrongTarget indicates that a factor dim a max-product/max-sum
	// operator must record for back-tracking is not a *VNode, so it cannot
	// key the node's Record (a caller bug in building the factor).
	ErrWrongTarget = errors.New("fgnode: target is not a recognized neighbor dim")
)
