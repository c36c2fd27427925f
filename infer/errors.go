// Package infer is the inference façade: sum-product, max-product and
// max-sum over the exact tree schedule, sum-product (loopy belief
// propagation) and mean-field over the flooding schedule, plus a
// belief-propagation alias for tree sum-product matching common usage.
package infer

import "errors"

// ErrEmptyGraph indicates a query graph has no variable nodes to select a
// default query from.
var ErrEmptyGraph = errors.New("infer: graph has no variable nodes")
