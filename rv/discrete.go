package rv

import (
	"fmt"
	"math"
)

// Discrete is a nonnegative real tensor pmf of rank len(dims), stored
// row-major and flattened, over an ordered dim tuple. The pmf need not sum
// to 1 during intermediate computation; Normalize enforces that.
type Discrete struct {
	pmf   []float64
	shape []int
	dims  []Dim
}

// NewDiscrete constructs a Discrete from a flattened row-major pmf, its
// shape, and one Dim per axis.
//
// Errors: ErrShapeMismatch if rank(shape) != len(dims), or if the product
// of shape doesn't match len(pmf).
func NewDiscrete(pmf []float64, shape []int, dims ...Dim) (*Discrete, error) {
	if len(shape) != len(dims) {
		return nil, fmt.Errorf("rv: NewDiscrete: rank %d != %d dims: %w", len(shape), len(dims), ErrShapeMismatch)
	}
	size := 1
	for _, s := range shape {
		size *= s
	}
	if size != len(pmf) {
		return nil, fmt.Errorf("rv: NewDiscrete: shape %v implies size %d, got %d values: %w", shape, size, len(pmf), ErrShapeMismatch)
	}
	cp := make([]float64, len(pmf))
	copy(cp, pmf)
	shCp := make([]int, len(shape))
	copy(shCp, shape)
	dimsCp := make([]Dim, len(dims))
	copy(dimsCp, dims)
	return &Discrete{pmf: cp, shape: shCp, dims: dimsCp}, nil
}

// Dims returns the ordered dim tuple.
func (d *Discrete) Dims() []Dim { return d.dims }

// Shape returns the per-axis cardinalities, in dim order.
func (d *Discrete) Shape() []int { return d.shape }

// Values returns a copy of the flattened row-major pmf.
func (d *Discrete) Values() []float64 {
	cp := make([]float64, len(d.pmf))
	copy(cp, d.pmf)
	return cp
}

func (d *Discrete) axisOf(target Dim) (int, error) {
	for i, dd := range d.dims {
		if dd.DimID() == target.DimID() {
			return i, nil
		}
	}
	return 0, fmt.Errorf("rv: Discrete: dim %d not in %v: %w", target.DimID(), dimIDs(d.dims), ErrUnknownDim)
}

func dimIDs(dims []Dim) []int {
	out := make([]int, len(dims))
	for i, d := range dims {
		out[i] = d.DimID()
	}
	return out
}

func strides(shape []int) []int {
	st := make([]int, len(shape))
	acc := 1
	for i := len(shape) - 1; i >= 0; i-- {
		st[i] = acc
		acc *= shape[i]
	}
	return st
}

// expandTo returns a copy of d reshaped/broadcast onto target's dim tuple
// and shape, per the expand algorithm (spec §4.1.3): every dim present in
// target but absent from d is inserted as a new, tiled axis, processed in
// ascending target-index order. d's own dims must all be present in target.
func (d *Discrete) expandTo(target []Dim, targetShape []int) (*Discrete, error) {
	size := 1
	for _, s := range targetShape {
		size *= s
	}
	out := make([]float64, size)
	outStrides := strides(targetShape)

	// Map each target axis to either a source axis (d) or "missing".
	srcAxis := make([]int, len(target))
	for i, td := range target {
		srcAxis[i] = -1
		for j, sd := range d.dims {
			if sd.DimID() == td.DimID() {
				srcAxis[i] = j
				break
			}
		}
	}
	srcStrides := strides(d.shape)

	idx := make([]int, len(target))
	var fill func(axis int)
	fill = func(axis int) {
		if axis == len(target) {
			srcFlat := 0
			for i, sa := range srcAxis {
				if sa >= 0 {
					srcFlat += idx[i] * srcStrides[sa]
				}
			}
			outFlat := 0
			for i, v := range idx {
				outFlat += v * outStrides[i]
			}
			out[outFlat] = d.pmf[srcFlat]
			return
		}
		for v := 0; v < targetShape[axis]; v++ {
			idx[axis] = v
			fill(axis + 1)
		}
	}
	fill(0)

	return &Discrete{pmf: out, shape: append([]int(nil), targetShape...), dims: append([]Dim(nil), target...)}, nil
}

// Multiply aligns dims so the result's dim tuple is the superset of a's and
// b's, expanding the shorter operand to match, then multiplies elementwise.
// When b has more dims the result takes b's dim order; otherwise it takes
// a's order followed by b's new dims. The result is not normalized.
//
// Errors: ErrShapeMismatch if other is not a *Discrete.
func (d *Discrete) Multiply(other RandomVariable) (RandomVariable, error) {
	ob, ok := other.(*Discrete)
	if !ok {
		return nil, fmt.Errorf("rv: Discrete.Multiply: operand is not Discrete: %w", ErrShapeMismatch)
	}

	a, b := d, ob
	// Tie-break: the longer operand's dim order wins; if equal length, the
	// left operand's (a's) order wins — so when b is longer, swap roles and
	// expand a onto b's tuple; otherwise expand b onto a's tuple (appending
	// b's genuinely new dims after a's).
	if len(b.dims) > len(a.dims) {
		ea, err := a.expandTo(b.dims, b.shape)
		if err != nil {
			return nil, fmt.Errorf("rv: Discrete.Multiply: %w", err)
		}
		return elementwiseMul(ea, b), nil
	}

	target, targetShape := unionDims(a, b)
	eb, err := b.expandTo(target, targetShape)
	if err != nil {
		return nil, fmt.Errorf("rv: Discrete.Multiply: %w", err)
	}
	ea, err := a.expandTo(target, targetShape)
	if err != nil {
		return nil, fmt.Errorf("rv: Discrete.Multiply: %w", err)
	}
	return elementwiseMul(ea, eb), nil
}

// unionDims builds a's dims followed by b's dims not already in a,
// preserving a's order and appending b's new dims in b's order.
func unionDims(a, b *Discrete) ([]Dim, []int) {
	seen := make(map[int]bool, len(a.dims))
	dims := append([]Dim(nil), a.dims...)
	shape := append([]int(nil), a.shape...)
	for _, d := range a.dims {
		seen[d.DimID()] = true
	}
	for i, d := range b.dims {
		if !seen[d.DimID()] {
			dims = append(dims, d)
			shape = append(shape, b.shape[i])
			seen[d.DimID()] = true
		}
	}
	return dims, shape
}

func elementwiseMul(a, b *Discrete) *Discrete {
	out := make([]float64, len(a.pmf))
	for i := range out {
		out[i] = a.pmf[i] * b.pmf[i]
	}
	return &Discrete{pmf: out, shape: a.shape, dims: a.dims}
}

func sameDims(a, b []Dim) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].DimID() != b[i].DimID() {
			return false
		}
	}
	return true
}

// conv1DSame convolves two equal-length real sequences and returns the
// central len(a) samples ("same" mode), matching the convolution-based
// sum/difference-of-independent-variables semantics. reverseA convolves
// a reversed against b forward — the difference-of-variables case.
func conv1DSame(a, b []float64, reverseA bool) []float64 {
	n, m := len(a), len(b)
	full := make([]float64, n+m-1)
	for i := 0; i < n; i++ {
		ai := a[i]
		if reverseA {
			ai = a[n-1-i]
		}
		for j := 0; j < m; j++ {
			full[i+j] += ai * b[j]
		}
	}
	// "same" mode keeps the central n samples of the n+m-1 full convolution.
	start := (m - 1) / 2
	out := make([]float64, n)
	copy(out, full[start:start+n])
	return out
}

// Add returns the distribution of the sum of independent variables
// represented by d and other, via 1-D convolution. Defined only when
// d.Dims() == other.Dims().
func (d *Discrete) Add(other RandomVariable) (RandomVariable, error) {
	ob, ok := other.(*Discrete)
	if !ok || !sameDims(d.dims, ob.dims) {
		return nil, fmt.Errorf("rv: Discrete.Add: dim tuples must match: %w", ErrShapeMismatch)
	}
	out := conv1DSame(d.pmf, ob.pmf, false)
	return &Discrete{pmf: out, shape: d.shape, dims: d.dims}, nil
}

// Subtract returns the distribution of the difference of independent
// variables, via 1-D convolution of the reversed receiver against other.
func (d *Discrete) Subtract(other RandomVariable) (RandomVariable, error) {
	ob, ok := other.(*Discrete)
	if !ok || !sameDims(d.dims, ob.dims) {
		return nil, fmt.Errorf("rv: Discrete.Subtract: dim tuples must match: %w", ErrShapeMismatch)
	}
	out := conv1DSame(d.pmf, ob.pmf, true)
	return &Discrete{pmf: out, shape: d.shape, dims: d.dims}, nil
}

// reduceAxes builds the retained dim/shape list (in original order) after
// removing the given target dims, and returns, for every flat pmf index,
// the flat index it maps onto in the reduced tensor.
func (d *Discrete) reduceAxes(targets []Dim) (retDims []Dim, retShape []int, mapping []int, err error) {
	remove := make(map[int]bool, len(targets))
	for _, t := range targets {
		if _, aerr := d.axisOf(t); aerr != nil {
			return nil, nil, nil, aerr
		}
		remove[t.DimID()] = true
	}
	for i, dd := range d.dims {
		if !remove[dd.DimID()] {
			retDims = append(retDims, dd)
			retShape = append(retShape, d.shape[i])
		}
	}
	retStrides := strides(retShape)
	srcStrides := strides(d.shape)

	mapping = make([]int, len(d.pmf))
	idx := make([]int, len(d.shape))
	var walk func(axis int)
	walk = func(axis int) {
		if axis == len(d.shape) {
			retFlat := 0
			ri := 0
			for i, dd := range d.dims {
				if !remove[dd.DimID()] {
					retFlat += idx[i] * retStrides[ri]
					ri++
				}
			}
			mapping[flatIndex(idx, srcStrides)] = retFlat
			return
		}
		for v := 0; v < d.shape[axis]; v++ {
			idx[axis] = v
			walk(axis + 1)
		}
	}
	walk(0)
	return retDims, retShape, mapping, nil
}

func flatIndex(idx, strides []int) int {
	f := 0
	for i, v := range idx {
		f += v * strides[i]
	}
	return f
}

// Marginalize sums d.pmf along the given dims' axes, optionally normalizing.
//
// Errors: ErrUnknownDim if any dim is not in d.Dims(); ErrZeroMass if
// normalize is requested and the result sums to 0.
func (d *Discrete) Marginalize(normalize bool, dims ...Dim) (RandomVariable, error) {
	retDims, retShape, mapping, err := d.reduceAxes(dims)
	if err != nil {
		return nil, fmt.Errorf("rv: Discrete.Marginalize: %w", err)
	}
	size := 1
	for _, s := range retShape {
		size *= s
	}
	out := make([]float64, size)
	for flat, v := range d.pmf {
		out[mapping[flat]] += v
	}
	res := &Discrete{pmf: out, shape: retShape, dims: retDims}
	if normalize {
		n, err := res.Normalize()
		if err != nil {
			return nil, fmt.Errorf("rv: Discrete.Marginalize: %w", err)
		}
		return n, nil
	}
	return res, nil
}

// Maximize is the max-analog of Marginalize: it takes the max over the
// collapsed axes instead of the sum.
func (d *Discrete) Maximize(normalize bool, dims ...Dim) (RandomVariable, error) {
	retDims, retShape, mapping, err := d.reduceAxes(dims)
	if err != nil {
		return nil, fmt.Errorf("rv: Discrete.Maximize: %w", err)
	}
	size := 1
	for _, s := range retShape {
		size *= s
	}
	out := make([]float64, size)
	for i := range out {
		out[i] = math.Inf(-1)
	}
	for flat, v := range d.pmf {
		if j := mapping[flat]; v > out[j] {
			out[j] = v
		}
	}
	res := &Discrete{pmf: out, shape: retShape, dims: retDims}
	if normalize {
		n, err := res.Normalize()
		if err != nil {
			return nil, fmt.Errorf("rv: Discrete.Maximize: %w", err)
		}
		return n, nil
	}
	return res, nil
}

// ArgMax returns the multi-index (in dim order) of the global maximum.
func (d *Discrete) ArgMax() []int {
	best, bestFlat := math.Inf(-1), 0
	for flat, v := range d.pmf {
		if v > best {
			best, bestFlat = v, flat
		}
	}
	idx := make([]int, len(d.shape))
	st := strides(d.shape)
	rem := bestFlat
	for i, s := range st {
		idx[i] = rem / s
		rem -= idx[i] * s
	}
	return idx
}

// ArgMaxDim returns the mode of the marginal over dim — the argmax along
// dim's axis after marginalizing out every other dim.
//
// Errors: ErrUnknownDim if dim is not in d.Dims().
func (d *Discrete) ArgMaxDim(dim Dim) (int, error) {
	if _, err := d.axisOf(dim); err != nil {
		return 0, fmt.Errorf("rv: Discrete.ArgMaxDim: %w", err)
	}
	others := make([]Dim, 0, len(d.dims)-1)
	for _, dd := range d.dims {
		if dd.DimID() != dim.DimID() {
			others = append(others, dd)
		}
	}
	marg, err := d.Marginalize(false, others...)
	if err != nil {
		return 0, fmt.Errorf("rv: Discrete.ArgMaxDim: %w", err)
	}
	idx := marg.(*Discrete).ArgMax()
	return idx[0], nil
}

// Normalize divides pmf by its sum.
//
// Errors: ErrZeroMass if the sum is 0.
func (d *Discrete) Normalize() (RandomVariable, error) {
	sum := 0.0
	for _, v := range d.pmf {
		sum += v
	}
	if sum == 0 {
		return nil, fmt.Errorf("rv: Discrete.Normalize: %w", ErrZeroMass)
	}
	out := make([]float64, len(d.pmf))
	for i, v := range d.pmf {
		out[i] = v / sum
	}
	return &Discrete{pmf: out, shape: d.shape, dims: d.dims}, nil
}

// Log returns a Discrete whose tensor is the natural log of pmf — no
// longer a pmf, but usable as a log-domain message.
func (d *Discrete) Log() (RandomVariable, error) {
	out := make([]float64, len(d.pmf))
	for i, v := range d.pmf {
		out[i] = math.Log(v)
	}
	return &Discrete{pmf: out, shape: d.shape, dims: d.dims}, nil
}

// Equal reports elementwise closeness of pmf (absolute tolerance 1e-9) and
// identical dim tuple (same IDs, same order).
func (d *Discrete) Equal(other RandomVariable) bool {
	ob, ok := other.(*Discrete)
	if !ok || !sameDims(d.dims, ob.dims) || len(d.pmf) != len(ob.pmf) {
		return false
	}
	for i := range d.pmf {
		if math.Abs(d.pmf[i]-ob.pmf[i]) > 1e-9 {
			return false
		}
	}
	return true
}
