// Package linalg provides small, dependency-free dense matrix primitives
// used by the information-form Gaussian arithmetic in package rv: addition,
// scaling, LU decomposition and inversion of the precision matrix.
//
// All operations are value-oriented: a *Dense owns its backing slice and no
// method mutates a receiver unless its name says so (Set in place; Scale,
// Transpose and friends return a new *Dense). There is no internal locking;
// callers that share a *Dense across goroutines must synchronize externally,
// same as any other plain value.
package linalg

import "errors"

// Sentinel errors for linalg operations.
var (
	// ErrBadShape indicates a requested matrix shape has a non-positive dimension.
	ErrBadShape = errors.New("linalg: bad shape")

	// ErrOutOfRange indicates a row/column index outside the matrix bounds.
	ErrOutOfRange = errors.New("linalg: index out of range")

	// ErrDimensionMismatch indicates two operands have incompatible shapes.
	ErrDimensionMismatch = errors.New("linalg: dimension mismatch")

	// ErrNonSquare indicates an operation that requires a square matrix received one that isn't.
	ErrNonSquare = errors.New("linalg: matrix is not square")

	// ErrSingular indicates a matrix has no inverse (a zero pivot survived partial pivoting).
	ErrSingular = errors.New("linalg: matrix is singular")

	// ErrNilMatrix indicates a nil *Dense was passed where a value was required.
	ErrNilMatrix = errors.New("linalg: nil matrix")
)
