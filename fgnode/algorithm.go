// Package fgnode implements the variable and factor node types of a factor
// graph and their per-node message operators (sum-product, max-product,
// max-sum, mean-field). Nodes hold no pointer back to their graph — per the
// arena discipline of the inference core, the graph passes incoming
// messages in; nodes never reach out to query it themselves.
package fgnode

// Algorithm selects which per-node operator a scheduler invokes when
// producing an outgoing message.
type Algorithm int

const (
	// SumProduct computes exact marginals via product-then-marginalize.
	SumProduct Algorithm = iota
	// MaxProduct computes MAP via product-then-maximize, recording argmax.
	MaxProduct
	// MaxSum is the log-domain analog of MaxProduct.
	MaxSum
	// MeanField drives the mean-field flooding schedule.
	MeanField
)

func (a Algorithm) String() string {
	switch a {
	case SumProduct:
		return "sum-product"
	case MaxProduct:
		return "max-product"
	case MaxSum:
		return "max-sum"
	case MeanField:
		return "mean-field"
	default:
		return "unknown"
	}
}

// Node is the identity shared by VNode and FNode: a stable integer id
// assigned at construction, used as the dim identity in rv.RandomVariable
// and as the vertex key in fgraph.Graph.
type Node interface {
	NodeID() int
	Label() string
}
