package linalg

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewDenseRejectsBadShape(t *testing.T) {
	_, err := NewDense(0, 3)
	require.ErrorIs(t, err, ErrBadShape)

	_, err = NewDense(3, -1)
	require.ErrorIs(t, err, ErrBadShape)
}

func TestAtSetRoundTrip(t *testing.T) {
	m, err := NewDense(2, 2)
	require.NoError(t, err)

	require.NoError(t, m.Set(0, 1, 4.5))
	v, err := m.At(0, 1)
	require.NoError(t, err)
	require.Equal(t, 4.5, v)

	_, err = m.At(5, 0)
	require.ErrorIs(t, err, ErrOutOfRange)
}

func TestAddSubDimensionMismatch(t *testing.T) {
	a, _ := NewDense(2, 2)
	b, _ := NewDense(3, 3)

	_, err := Add(a, b)
	require.ErrorIs(t, err, ErrDimensionMismatch)

	_, err = Sub(a, b)
	require.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestMulIdentity(t *testing.T) {
	a, err := NewDenseFromRows([][]float64{{1, 2}, {3, 4}})
	require.NoError(t, err)
	id, err := Identity(2)
	require.NoError(t, err)

	out, err := Mul(a, id)
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			want, _ := a.At(i, j)
			got, _ := out.At(i, j)
			require.InDelta(t, want, got, 1e-9)
		}
	}
}

func TestMulVec(t *testing.T) {
	a, err := NewDenseFromRows([][]float64{{2, 0}, {0, 3}})
	require.NoError(t, err)
	out, err := a.MulVec([]float64{5, 7})
	require.NoError(t, err)
	require.InDeltaSlice(t, []float64{10, 21}, out, 1e-9)
}

func TestTranspose(t *testing.T) {
	a, err := NewDenseFromRows([][]float64{{1, 2, 3}, {4, 5, 6}})
	require.NoError(t, err)
	tr := a.Transpose()
	require.Equal(t, 3, tr.Rows())
	require.Equal(t, 2, tr.Cols())
	v, _ := tr.At(2, 1)
	require.Equal(t, 6.0, v)
}

func TestInverseOfDiagonal(t *testing.T) {
	a, err := NewDenseFromRows([][]float64{{2, 0}, {0, 4}})
	require.NoError(t, err)

	inv, err := Inverse(a)
	require.NoError(t, err)

	v00, _ := inv.At(0, 0)
	v11, _ := inv.At(1, 1)
	require.InDelta(t, 0.5, v00, 1e-9)
	require.InDelta(t, 0.25, v11, 1e-9)

	prod, err := Mul(a, inv)
	require.NoError(t, err)
	id, _ := Identity(2)
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			want, _ := id.At(i, j)
			got, _ := prod.At(i, j)
			require.InDelta(t, want, got, 1e-9)
		}
	}
}

func TestInverseSingularMatrix(t *testing.T) {
	a, err := NewDenseFromRows([][]float64{{1, 2}, {2, 4}})
	require.NoError(t, err)

	_, err = Inverse(a)
	require.ErrorIs(t, err, ErrSingular)
}

func TestInverseNonSquare(t *testing.T) {
	a, err := NewDense(2, 3)
	require.NoError(t, err)

	_, err = Inverse(a)
	require.ErrorIs(t, err, ErrNonSquare)
}

func TestSolveVecMatchesInverse(t *testing.T) {
	a, err := NewDenseFromRows([][]float64{{4, 1}, {2, 3}})
	require.NoError(t, err)
	b := []float64{1, 2}

	x, err := SolveVec(a, b)
	require.NoError(t, err)

	inv, err := Inverse(a)
	require.NoError(t, err)
	want, err := inv.MulVec(b)
	require.NoError(t, err)

	require.InDeltaSlice(t, want, x, 1e-9)
}

func TestSubmatrix(t *testing.T) {
	a, err := NewDenseFromRows([][]float64{
		{1, 2, 3},
		{4, 5, 6},
		{7, 8, 9},
	})
	require.NoError(t, err)

	sub, err := a.Submatrix([]int{0, 2})
	require.NoError(t, err)
	v00, _ := sub.At(0, 0)
	v01, _ := sub.At(0, 1)
	v10, _ := sub.At(1, 0)
	v11, _ := sub.At(1, 1)
	require.Equal(t, 1.0, v00)
	require.Equal(t, 3.0, v01)
	require.Equal(t, 7.0, v10)
	require.Equal(t, 9.0, v11)
}
