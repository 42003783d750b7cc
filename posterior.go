package carstan

// Variant names one of the two CAR formulations
type Variant string

const (
	//SparseVariant evaluates the spatial term from the edge list and the
	//precomputed eigenvalues, never forming a matrix
	SparseVariant Variant = "sparse"
	//DenseVariant builds the full precision matrix and factorizes it on
	//every call
	DenseVariant Variant = "dense"
)

// Posterior bundles the data, the precomputed spatial structure, the priors,
// and the model variant into one joint unnormalized log-density over the
// parameters. CUR and LAST cache the chain's current and previous values the
// way the sampler expects; everything else is read-only and shared.
type Posterior struct {
	Data    *Dataset
	Car     *CARData
	Priors  *Priors
	Variant Variant
	CUR     float64
	LAST    float64
}

// InitPosterior will wire the three read-only pieces together
func InitPosterior(ds *Dataset, car *CARData, pr *Priors, variant Variant) *Posterior {
	post := new(Posterior)
	post.Data = ds
	post.Car = car
	post.Priors = pr
	post.Variant = variant
	return post
}

// Calc evaluates the joint unnormalized log posterior at st. A -Inf from any
// term means st is outside the feasible region; the caller rejects it.
func (post *Posterior) Calc(st *ParamState) float64 {
	lp := post.Priors.LogDens(st)
	var spat float64
	if post.Variant == DenseVariant {
		spat = post.Car.SpatialLogDensDense(st.Phi, st.Tau, st.Rho)
	} else {
		spat = post.Car.SpatialLogDensSparse(st.Phi, st.Tau, st.Rho)
	}
	return lp + spat + post.Data.PoissonLogLike(st.Beta, st.Phi)
}

// Clone gives a chain its own CUR/LAST cache while sharing the read-only
// data, structure, and priors
func (post *Posterior) Clone() *Posterior {
	cp := *post
	cp.CUR = 0
	cp.LAST = 0
	return &cp
}
