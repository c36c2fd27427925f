package rv

import "fmt"

// Kind identifies which variant a VNode's messages are carried in, and
// constructs that variant's multiplicative identity over a dim tuple.
type Kind interface {
	Unity(dims ...Dim) (RandomVariable, error)
	String() string
}

// DiscreteKind is the Kind for pmf-tensor variables.
var DiscreteKind Kind = discreteKind{}

// GaussianKind is the Kind for information-form Gaussian variables.
var GaussianKind Kind = gaussianKind{}

type discreteKind struct{}

func (discreteKind) String() string { return "discrete" }

// Unity returns an all-ones tensor shaped by each dim's cardinality — the
// multiplicative identity after the expand algorithm broadcasts it against
// any other Discrete over a superset of dims.
func (discreteKind) Unity(dims ...Dim) (RandomVariable, error) {
	shape := make([]int, len(dims))
	size := 1
	for i, d := range dims {
		card := d.Card()
		if card <= 0 {
			return nil, fmt.Errorf("rv: discreteKind.Unity: dim %d has non-positive cardinality %d: %w", d.DimID(), card, ErrShapeMismatch)
		}
		shape[i] = card
		size *= card
	}
	pmf := make([]float64, size)
	for i := range pmf {
		pmf[i] = 1
	}
	return NewDiscrete(pmf, shape, dims...)
}

type gaussianKind struct{}

func (gaussianKind) String() string { return "gaussian" }

// Unity returns the Gaussian multiplicative identity: zero precision-mean
// and zero precision matrix (infinite covariance, uninformative).
func (gaussianKind) Unity(dims ...Dim) (RandomVariable, error) {
	n := len(dims)
	w, err := zeroDense(n, n)
	if err != nil {
		return nil, fmt.Errorf("rv: gaussianKind.Unity: %w", err)
	}
	return NewGaussianInfo(w, make([]float64, n), dims...)
}
