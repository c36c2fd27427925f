// Package rv implements the random-variable algebra carried as messages and
// factors on a factor graph: a nonnegative Discrete pmf tensor and a
// Gaussian value stored in information form. Both satisfy RandomVariable,
// the capability set {Multiply, Add, Subtract, Marginalize, Maximize,
// Normalize, Log, Equal, Dims}. Each also has its own ArgMax and ArgMaxDim
// methods, which are not part of RandomVariable because their result types
// differ (state indices for Discrete, mean values for Gaussian).
//
// Neither variant requires a common base class at runtime; RandomVariable
// is a capability interface, and the two constructors (NewDiscrete,
// NewGaussianInfo/NewGaussianMoment) are the only way to obtain one.
package rv

import "errors"

// Sentinel errors, matching the taxonomy of the inference core.
var (
	// ErrShapeMismatch indicates a tensor rank disagreeing with its dim list,
	// or mean/covariance dimensions disagreeing with each other.
	ErrShapeMismatch = errors.New("rv: shape mismatch")

	// ErrUnknownDim indicates an operation referenced a dim not present in
	// the operand's dim tuple.
	ErrUnknownDim = errors.New("rv: unknown dim")

	// ErrZeroMass indicates normalization was requested on a zero-sum tensor.
	ErrZeroMass = errors.New("rv: zero mass")

	// ErrNotImplemented indicates an operation with no defined semantics for
	// this variant (Gaussian.Log, for instance).
	ErrNotImplemented = errors.New("rv: not implemented")
)
