package linalg

import "fmt"

// Inverse returns the inverse of m, computed by LU-decomposing m once and
// solving L*U*x = P*e_j for each standard basis column e_j.
//
// Errors: ErrNonSquare, ErrSingular.
func Inverse(m *Dense) (*Dense, error) {
	lu, err := LU(m)
	if err != nil {
		return nil, fmt.Errorf("linalg: Inverse: %w", err)
	}
	n := m.r
	out, _ := NewDense(n, n)

	for col := 0; col < n; col++ {
		// b = P * e_col: e_col permuted the same way the rows of m were.
		b := make([]float64, n)
		for i := 0; i < n; i++ {
			if lu.Perm[i] == col {
				b[i] = 1
			}
		}

		y := forwardSubst(lu.L, b)
		x := backSubst(lu.U, y)

		for row := 0; row < n; row++ {
			out.data[row*n+col] = x[row]
		}
	}
	return out, nil
}

// forwardSubst solves L*y = b for y, where L is unit lower-triangular.
func forwardSubst(l *Dense, b []float64) []float64 {
	n := l.r
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		sum := b[i]
		for j := 0; j < i; j++ {
			sum -= l.data[i*n+j] * y[j]
		}
		y[i] = sum / l.data[i*n+i]
	}
	return y
}

// backSubst solves U*x = y for x, where U is upper-triangular.
func backSubst(u *Dense, y []float64) []float64 {
	n := u.r
	x := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		sum := y[i]
		for j := i + 1; j < n; j++ {
			sum -= u.data[i*n+j] * x[j]
		}
		x[i] = sum / u.data[i*n+i]
	}
	return x
}

// SolveVec solves m*x = b for x via LU decomposition, without materializing
// m^-1. Used by rv.Gaussian.Mean to recover mu = W^-1 * Wm efficiently.
//
// Errors: ErrNonSquare, ErrSingular, ErrDimensionMismatch.
func SolveVec(m *Dense, b []float64) ([]float64, error) {
	if m.r != len(b) {
		return nil, fmt.Errorf("linalg: SolveVec: %dx%d vs len %d: %w", m.r, m.c, len(b), ErrDimensionMismatch)
	}
	lu, err := LU(m)
	if err != nil {
		return nil, fmt.Errorf("linalg: SolveVec: %w", err)
	}
	n := m.r
	pb := make([]float64, n)
	for i := 0; i < n; i++ {
		pb[i] = b[lu.Perm[i]]
	}
	y := forwardSubst(lu.L, pb)
	return backSubst(lu.U, y), nil
}
