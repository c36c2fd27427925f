package rv

import (
	"fmt"
	"math"

	"github.com/danbar/fglib/linalg"
)

// Gaussian is a multivariate normal stored in information form: precision
// matrix W (r x r) and precision-mean vector Wm (length r), over an ordered
// dim tuple of length r. mean = W^-1 * Wm; cov = W^-1.
type Gaussian struct {
	w    *linalg.Dense
	wm   []float64
	dims []Dim
}

func zeroDense(rows, cols int) (*linalg.Dense, error) {
	m, err := linalg.NewDense(rows, cols)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// NewGaussianInfo constructs a Gaussian directly from its information-form
// parameters.
//
// Errors: ErrShapeMismatch if W isn't square, or its size disagrees with
// len(Wm) or len(dims).
func NewGaussianInfo(w *linalg.Dense, wm []float64, dims ...Dim) (*Gaussian, error) {
	n := len(dims)
	if w.Rows() != n || w.Cols() != n || len(wm) != n {
		return nil, fmt.Errorf("rv: NewGaussianInfo: W is %dx%d, Wm has %d entries, dims has %d: %w",
			w.Rows(), w.Cols(), len(wm), n, ErrShapeMismatch)
	}
	wmCp := make([]float64, n)
	copy(wmCp, wm)
	dimsCp := make([]Dim, n)
	copy(dimsCp, dims)
	return &Gaussian{w: w.Clone(), wm: wmCp, dims: dimsCp}, nil
}

// NewGaussianMoment constructs a Gaussian from moment-form parameters
// (mean, covariance), converting to information form via W = cov^-1,
// Wm = W * mean.
//
// Errors: ErrShapeMismatch if cov isn't square or disagrees with len(mean)
// or len(dims); propagates linalg's singular-matrix error if cov isn't
// invertible.
func NewGaussianMoment(mean []float64, cov *linalg.Dense, dims ...Dim) (*Gaussian, error) {
	n := len(dims)
	if cov.Rows() != n || cov.Cols() != n || len(mean) != n {
		return nil, fmt.Errorf("rv: NewGaussianMoment: cov is %dx%d, mean has %d entries, dims has %d: %w",
			cov.Rows(), cov.Cols(), len(mean), n, ErrShapeMismatch)
	}
	w, err := linalg.Inverse(cov)
	if err != nil {
		return nil, fmt.Errorf("rv: NewGaussianMoment: %w", err)
	}
	wm, err := w.MulVec(mean)
	if err != nil {
		return nil, fmt.Errorf("rv: NewGaussianMoment: %w", err)
	}
	return NewGaussianInfo(w, wm, dims...)
}

// Dims returns the ordered dim tuple.
func (g *Gaussian) Dims() []Dim { return g.dims }

// W returns a copy of the precision matrix.
func (g *Gaussian) W() *linalg.Dense { return g.w.Clone() }

// Wm returns a copy of the precision-mean vector.
func (g *Gaussian) Wm() []float64 {
	cp := make([]float64, len(g.wm))
	copy(cp, g.wm)
	return cp
}

// Mean returns the moment-form mean, mu = W^-1 * Wm.
//
// Errors: propagates linalg's singular-matrix error if W isn't invertible
// (an uninformative/unity Gaussian has no finite mean).
func (g *Gaussian) Mean() ([]float64, error) {
	mu, err := linalg.SolveVec(g.w, g.wm)
	if err != nil {
		return nil, fmt.Errorf("rv: Gaussian.Mean: %w", err)
	}
	return mu, nil
}

// Cov returns the moment-form covariance, Sigma = W^-1.
//
// Errors: propagates linalg's singular-matrix error.
func (g *Gaussian) Cov() (*linalg.Dense, error) {
	cov, err := linalg.Inverse(g.w)
	if err != nil {
		return nil, fmt.Errorf("rv: Gaussian.Cov: %w", err)
	}
	return cov, nil
}

// Multiply combines two Gaussians over the same dim tuple by adding their
// information-form parameters: W <- Wa + Wb, Wm <- Wma + Wmb. This is the
// product of two densities in information form.
//
// Errors: ErrShapeMismatch if other is not a *Gaussian over the same dim
// tuple (same IDs, same order).
func (g *Gaussian) Multiply(other RandomVariable) (RandomVariable, error) {
	og, ok := other.(*Gaussian)
	if !ok || !sameDims(g.dims, og.dims) {
		return nil, fmt.Errorf("rv: Gaussian.Multiply: dim tuples must match: %w", ErrShapeMismatch)
	}
	w, err := linalg.Add(g.w, og.w)
	if err != nil {
		return nil, fmt.Errorf("rv: Gaussian.Multiply: %w", err)
	}
	wm := make([]float64, len(g.wm))
	for i := range wm {
		wm[i] = g.wm[i] + og.wm[i]
	}
	return &Gaussian{w: w, wm: wm, dims: g.dims}, nil
}

// Add returns the Gaussian of the sum of two independent variables: mean
// and covariance both add, computed in moment form.
//
// Errors: ErrShapeMismatch if dim tuples disagree; propagates linalg
// inversion errors.
func (g *Gaussian) Add(other RandomVariable) (RandomVariable, error) {
	return g.momentCombine(other, "Add", func(a, b float64) float64 { return a + b },
		func(a, b *linalg.Dense) (*linalg.Dense, error) { return linalg.Add(a, b) })
}

// Subtract returns the Gaussian of the difference of two independent
// variables: mean and covariance both subtract, computed in moment form.
func (g *Gaussian) Subtract(other RandomVariable) (RandomVariable, error) {
	return g.momentCombine(other, "Subtract", func(a, b float64) float64 { return a - b },
		func(a, b *linalg.Dense) (*linalg.Dense, error) { return linalg.Sub(a, b) })
}

func (g *Gaussian) momentCombine(other RandomVariable, op string, meanOp func(a, b float64) float64,
	covOp func(a, b *linalg.Dense) (*linalg.Dense, error)) (RandomVariable, error) {
	og, ok := other.(*Gaussian)
	if !ok || !sameDims(g.dims, og.dims) {
		return nil, fmt.Errorf("rv: Gaussian.%s: dim tuples must match: %w", op, ErrShapeMismatch)
	}
	ma, err := g.Mean()
	if err != nil {
		return nil, fmt.Errorf("rv: Gaussian.%s: %w", op, err)
	}
	mb, err := og.Mean()
	if err != nil {
		return nil, fmt.Errorf("rv: Gaussian.%s: %w", op, err)
	}
	ca, err := g.Cov()
	if err != nil {
		return nil, fmt.Errorf("rv: Gaussian.%s: %w", op, err)
	}
	cb, err := og.Cov()
	if err != nil {
		return nil, fmt.Errorf("rv: Gaussian.%s: %w", op, err)
	}
	mean := make([]float64, len(ma))
	for i := range mean {
		mean[i] = meanOp(ma[i], mb[i])
	}
	cov, err := covOp(ca, cb)
	if err != nil {
		return nil, fmt.Errorf("rv: Gaussian.%s: %w", op, err)
	}
	out, err := NewGaussianMoment(mean, cov, g.dims...)
	if err != nil {
		return nil, fmt.Errorf("rv: Gaussian.%s: %w", op, err)
	}
	return out, nil
}

func (g *Gaussian) axisOf(target Dim) (int, error) {
	for i, d := range g.dims {
		if d.DimID() == target.DimID() {
			return i, nil
		}
	}
	return 0, fmt.Errorf("rv: Gaussian: dim %d not in %v: %w", target.DimID(), dimIDs(g.dims), ErrUnknownDim)
}

// project slices mean and covariance down to the dims NOT in excluded,
// preserving their original relative order.
func (g *Gaussian) project(excluded []Dim) (*Gaussian, error) {
	remove := make(map[int]bool, len(excluded))
	for _, d := range excluded {
		if _, err := g.axisOf(d); err != nil {
			return nil, err
		}
		remove[d.DimID()] = true
	}
	keepIdx := make([]int, 0, len(g.dims))
	keepDims := make([]Dim, 0, len(g.dims))
	for i, d := range g.dims {
		if !remove[d.DimID()] {
			keepIdx = append(keepIdx, i)
			keepDims = append(keepDims, d)
		}
	}
	mean, err := g.Mean()
	if err != nil {
		return nil, err
	}
	cov, err := g.Cov()
	if err != nil {
		return nil, err
	}
	subMean := make([]float64, len(keepIdx))
	for i, idx := range keepIdx {
		subMean[i] = mean[idx]
	}
	subCov, err := cov.Submatrix(keepIdx)
	if err != nil {
		return nil, err
	}
	return NewGaussianMoment(subMean, subCov, keepDims...)
}

// Marginalize projects the joint onto the dims not in the given set,
// slicing mean and covariance to the retained axes. normalize has no
// effect (a Gaussian marginal is always a valid density).
//
// Errors: ErrUnknownDim; propagates linalg inversion errors.
func (g *Gaussian) Marginalize(normalize bool, dims ...Dim) (RandomVariable, error) {
	out, err := g.project(dims)
	if err != nil {
		return nil, fmt.Errorf("rv: Gaussian.Marginalize: %w", err)
	}
	return out, nil
}

// Maximize performs the identical shape transform as Marginalize: for a
// Gaussian, the argmax over the collapsed dims is the marginal's mean, so
// maximizing and marginalizing produce the same reduced value.
func (g *Gaussian) Maximize(normalize bool, dims ...Dim) (RandomVariable, error) {
	out, err := g.project(dims)
	if err != nil {
		return nil, fmt.Errorf("rv: Gaussian.Maximize: %w", err)
	}
	return out, nil
}

// ArgMax returns the mean vector, the Gaussian's mode.
func (g *Gaussian) ArgMax() ([]float64, error) {
	mean, err := g.Mean()
	if err != nil {
		return nil, fmt.Errorf("rv: Gaussian.ArgMax: %w", err)
	}
	return mean, nil
}

// ArgMaxDim returns the mean restricted to a single dim.
//
// Errors: ErrUnknownDim.
func (g *Gaussian) ArgMaxDim(dim Dim) (float64, error) {
	i, err := g.axisOf(dim)
	if err != nil {
		return 0, fmt.Errorf("rv: Gaussian.ArgMaxDim: %w", err)
	}
	mean, err := g.Mean()
	if err != nil {
		return 0, fmt.Errorf("rv: Gaussian.ArgMaxDim: %w", err)
	}
	return mean[i], nil
}

// Normalize is a no-op for Gaussian: information-form densities are always
// proper (given invertible W), so there is nothing to rescale.
func (g *Gaussian) Normalize() (RandomVariable, error) {
	return g, nil
}

// Log is unsupported for Gaussian.
func (g *Gaussian) Log() (RandomVariable, error) {
	return nil, fmt.Errorf("rv: Gaussian.Log: %w", ErrNotImplemented)
}

// Equal reports approximate equality of W, Wm, and dim tuple.
func (g *Gaussian) Equal(other RandomVariable) bool {
	og, ok := other.(*Gaussian)
	if !ok || !sameDims(g.dims, og.dims) {
		return false
	}
	n := len(g.dims)
	for i := 0; i < n; i++ {
		if math.Abs(g.wm[i]-og.wm[i]) > 1e-9 {
			return false
		}
		for j := 0; j < n; j++ {
			a, _ := g.w.At(i, j)
			b, _ := og.w.At(i, j)
			if math.Abs(a-b) > 1e-9 {
				return false
			}
		}
	}
	return true
}
