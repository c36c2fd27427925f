package rv

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewDiscreteShapeMismatch(t *testing.T) {
	d := dims(2)
	_, err := NewDiscrete([]float64{0.5, 0.5, 0.1}, []int{2}, d...)
	require.ErrorIs(t, err, ErrShapeMismatch)

	_, err = NewDiscrete([]float64{0.5, 0.5}, []int{2, 2}, d...)
	require.ErrorIs(t, err, ErrShapeMismatch)
}

func TestDiscreteUnityIsMultiplicativeIdentity(t *testing.T) {
	x := dims(2)
	d, err := NewDiscrete([]float64{0.3, 0.7}, []int{2}, x...)
	require.NoError(t, err)

	u, err := DiscreteKind.Unity(x...)
	require.NoError(t, err)

	prod, err := d.Multiply(u)
	require.NoError(t, err)
	require.True(t, prod.Equal(d))
}

func TestDiscreteSelfMultiplyNormalized(t *testing.T) {
	// S4: rv([0.6,0.4],x) * rv([0.6,0.4],x), normalized.
	x := dims(2)
	a, err := NewDiscrete([]float64{0.6, 0.4}, []int{2}, x...)
	require.NoError(t, err)

	prod, err := a.Multiply(a)
	require.NoError(t, err)
	norm, err := prod.Normalize()
	require.NoError(t, err)

	got := norm.(*Discrete).Values()
	require.InDelta(t, 0.36/0.52, got[0], 1e-9)
	require.InDelta(t, 0.16/0.52, got[1], 1e-9)
}

func TestDiscreteMarginalizeAndArgMax(t *testing.T) {
	// S4: rv([[0.1,0.2],[0.3,0.4]], x, y)
	x, y := testDim{id: 1, card: 2}, testDim{id: 2, card: 2}
	joint, err := NewDiscrete([]float64{0.1, 0.2, 0.3, 0.4}, []int{2, 2}, x, y)
	require.NoError(t, err)

	margX, err := joint.Marginalize(false, x)
	require.NoError(t, err)
	require.InDeltaSlice(t, []float64{0.4, 0.6}, margX.(*Discrete).Values(), 1e-9)

	idx := joint.ArgMax()
	require.Equal(t, []int{1, 1}, idx)

	am, err := joint.ArgMaxDim(x)
	require.NoError(t, err)
	require.Equal(t, 1, am)
}

func TestDiscreteMarginalizeUnknownDim(t *testing.T) {
	x := dims(2)
	a, err := NewDiscrete([]float64{0.5, 0.5}, []int{2}, x...)
	require.NoError(t, err)

	foreign := testDim{id: 99, card: 2}
	_, err = a.Marginalize(false, foreign)
	require.ErrorIs(t, err, ErrUnknownDim)
}

func TestDiscreteNormalizeZeroMass(t *testing.T) {
	x := dims(2)
	a, err := NewDiscrete([]float64{0, 0}, []int{2}, x...)
	require.NoError(t, err)

	_, err = a.Normalize()
	require.ErrorIs(t, err, ErrZeroMass)
}

func TestDiscreteMultiplyExpandsSmallerOperand(t *testing.T) {
	x := testDim{id: 1, card: 2}
	y := testDim{id: 2, card: 2}

	a, err := NewDiscrete([]float64{0.5, 0.5}, []int{2}, x)
	require.NoError(t, err)
	b, err := NewDiscrete([]float64{0.1, 0.2, 0.3, 0.4}, []int{2, 2}, x, y)
	require.NoError(t, err)

	prod, err := a.Multiply(b)
	require.NoError(t, err)
	pd := prod.(*Discrete)
	require.Equal(t, []int{2, 2}, pd.Shape())
	require.InDeltaSlice(t, []float64{0.05, 0.1, 0.15, 0.2}, pd.Values(), 1e-9)
}

func TestDiscreteCommutativeUpToDimOrder(t *testing.T) {
	x := testDim{id: 1, card: 2}
	y := testDim{id: 2, card: 2}
	a, err := NewDiscrete([]float64{0.2, 0.8}, []int{2}, x)
	require.NoError(t, err)
	b, err := NewDiscrete([]float64{0.1, 0.9}, []int{2}, y)
	require.NoError(t, err)

	ab, err := a.Multiply(b)
	require.NoError(t, err)
	ba, err := b.Multiply(a)
	require.NoError(t, err)

	normAB, err := ab.Normalize()
	require.NoError(t, err)
	normBA, err := ba.Normalize()
	require.NoError(t, err)

	// ab is dims (x,y); ba is dims (y,x). Transpose ba's values to compare.
	abVals := normAB.(*Discrete).Values()
	baVals := normBA.(*Discrete).Values()
	require.InDelta(t, abVals[0], baVals[0], 1e-9) // x0,y0
	require.InDelta(t, abVals[1], baVals[2], 1e-9) // x0,y1 vs y1,x0
	require.InDelta(t, abVals[2], baVals[1], 1e-9) // x1,y0 vs y0,x1
	require.InDelta(t, abVals[3], baVals[3], 1e-9) // x1,y1
}

func TestDiscreteLog(t *testing.T) {
	x := dims(2)
	a, err := NewDiscrete([]float64{1, 1}, []int{2}, x...)
	require.NoError(t, err)
	logged, err := a.Log()
	require.NoError(t, err)
	require.InDeltaSlice(t, []float64{0, 0}, logged.(*Discrete).Values(), 1e-9)
}

func TestDiscreteAddConvolvesForward(t *testing.T) {
	x := dims(2)
	a, err := NewDiscrete([]float64{0.2, 0.8}, []int{2}, x...)
	require.NoError(t, err)
	b, err := NewDiscrete([]float64{0.1, 0.9}, []int{2}, x...)
	require.NoError(t, err)

	sum, err := a.Add(b)
	require.NoError(t, err)
	require.InDeltaSlice(t, []float64{0.02, 0.26}, sum.(*Discrete).Values(), 1e-9)
}

func TestDiscreteSubtractConvolvesReversedReceiver(t *testing.T) {
	// a=[a0,a1]=[0.2,0.8], b=[b0,b1]=[0.1,0.9]: the "same"-mode convolution of
	// a reversed against b forward gives [a1*b0, a1*b1+a0*b0].
	x := dims(2)
	a, err := NewDiscrete([]float64{0.2, 0.8}, []int{2}, x...)
	require.NoError(t, err)
	b, err := NewDiscrete([]float64{0.1, 0.9}, []int{2}, x...)
	require.NoError(t, err)

	diff, err := a.Subtract(b)
	require.NoError(t, err)
	require.InDeltaSlice(t, []float64{0.08, 0.74}, diff.(*Discrete).Values(), 1e-9)
}

func TestDiscreteAddSubtractDimMismatch(t *testing.T) {
	x := testDim{id: 1, card: 2}
	y := testDim{id: 2, card: 2}
	a, err := NewDiscrete([]float64{0.2, 0.8}, []int{2}, x)
	require.NoError(t, err)
	b, err := NewDiscrete([]float64{0.1, 0.9}, []int{2}, y)
	require.NoError(t, err)

	_, err = a.Add(b)
	require.ErrorIs(t, err, ErrShapeMismatch)
	_, err = a.Subtract(b)
	require.ErrorIs(t, err, ErrShapeMismatch)
}

func TestDiscreteMarginalizeUnityIsUnity(t *testing.T) {
	x := testDim{id: 1, card: 2}
	y := testDim{id: 2, card: 3}
	u, err := DiscreteKind.Unity(x, y)
	require.NoError(t, err)

	marg, err := u.Marginalize(false, x)
	require.NoError(t, err)

	uy, err := DiscreteKind.Unity(y)
	require.NoError(t, err)
	require.True(t, marg.Equal(uy))
}
