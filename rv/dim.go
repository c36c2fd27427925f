package rv

// Dim is the identity a RandomVariable uses to tag one axis of its tensor
// (Discrete) or one component of its mean/precision vector (Gaussian).
//
// Per the arena/index discipline of the inference core: identity, not
// label equality, is what matters. DimID returns a stable integer assigned
// once at the dim's creation (typically a *fgnode.VNode's creation-order
// ID); two Dims are the same axis iff DimID matches. Card reports the
// discrete cardinality of the dim (ignored by Gaussian, which treats every
// dim as one scalar component).
type Dim interface {
	DimID() int
	Card() int
}

// RandomVariable is the capability set shared by Discrete and Gaussian.
// No method mutates the receiver.
type RandomVariable interface {
	// Dims returns the ordered dim tuple this value is defined over.
	Dims() []Dim

	// Multiply combines two values of the same kind. For Discrete this is
	// dimension-expanding elementwise product; for Gaussian it is addition
	// of (W, Wm) in information form.
	Multiply(other RandomVariable) (RandomVariable, error)

	// Add and Subtract require identical dim tuples.
	Add(other RandomVariable) (RandomVariable, error)
	Subtract(other RandomVariable) (RandomVariable, error)

	// Marginalize sums (Discrete) or projects (Gaussian) out the given
	// dims, optionally normalizing the result.
	Marginalize(normalize bool, dims ...Dim) (RandomVariable, error)

	// Maximize is the max-analog of Marginalize.
	Maximize(normalize bool, dims ...Dim) (RandomVariable, error)

	// Normalize divides by total mass.
	Normalize() (RandomVariable, error)

	// Log returns the log-domain value, or ErrNotImplemented (Gaussian).
	Log() (RandomVariable, error)

	// Equal reports approximate equality including dim-tuple identity.
	Equal(other RandomVariable) bool
}
