package linalg

import (
	"fmt"
	"math"
)

// LUResult holds the decomposition of a square matrix A such that
// P*A = L*U, with L unit lower-triangular and U upper-triangular.
// Perm records the row permutation applied by partial pivoting:
// Perm[i] is the original row now sitting at row i.
type LUResult struct {
	L, U *Dense
	Perm []int
	// Sign is the determinant sign contributed by the row swaps (+1 or -1).
	Sign float64
}

// LU computes the LU decomposition of m with partial pivoting (Doolittle's
// method). m must be square.
//
// Errors: ErrNonSquare, ErrSingular if a zero pivot survives pivoting.
func LU(m *Dense) (*LUResult, error) {
	if m == nil {
		return nil, fmt.Errorf("linalg: LU: %w", ErrNilMatrix)
	}
	if m.r != m.c {
		return nil, fmt.Errorf("linalg: LU: %dx%d: %w", m.r, m.c, ErrNonSquare)
	}
	n := m.r

	a := m.Clone()
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	sign := 1.0

	l, _ := NewDense(n, n)
	u, _ := NewDense(n, n)

	for k := 0; k < n; k++ {
		// Partial pivot: choose the largest magnitude entry in column k at or below row k.
		pivotRow, pivotVal := k, math.Abs(a.data[k*n+k])
		for i := k + 1; i < n; i++ {
			if v := math.Abs(a.data[i*n+k]); v > pivotVal {
				pivotRow, pivotVal = i, v
			}
		}
		if pivotVal == 0 {
			return nil, fmt.Errorf("linalg: LU: pivot at column %d: %w", k, ErrSingular)
		}
		if pivotRow != k {
			swapRows(a, k, pivotRow)
			perm[k], perm[pivotRow] = perm[pivotRow], perm[k]
			sign = -sign
		}

		for i := k + 1; i < n; i++ {
			factor := a.data[i*n+k] / a.data[k*n+k]
			a.data[i*n+k] = factor
			for j := k + 1; j < n; j++ {
				a.data[i*n+j] -= factor * a.data[k*n+j]
			}
		}
	}

	for i := 0; i < n; i++ {
		l.data[i*n+i] = 1
		for j := 0; j < i; j++ {
			l.data[i*n+j] = a.data[i*n+j]
		}
		for j := i; j < n; j++ {
			u.data[i*n+j] = a.data[i*n+j]
		}
	}

	return &LUResult{L: l, U: u, Perm: perm, Sign: sign}, nil
}

func swapRows(m *Dense, i, j int) {
	if i == j {
		return
	}
	n := m.c
	for c := 0; c < n; c++ {
		m.data[i*n+c], m.data[j*n+c] = m.data[j*n+c], m.data[i*n+c]
	}
}

// Det returns the determinant of m, computed from its LU decomposition.
//
// Errors: ErrNonSquare, ErrSingular (a singular matrix has determinant 0,
// returned alongside the error rather than silently).
func Det(m *Dense) (float64, error) {
	lu, err := LU(m)
	if err != nil {
		return 0, err
	}
	det := lu.Sign
	n := lu.U.r
	for i := 0; i < n; i++ {
		det *= lu.U.data[i*n+i]
	}
	return det, nil
}
