package carstan

import (
	"gonum.org/v1/gonum/stat/distuv"
)

// InitPriors will initialize the prior densities for the regression, precision,
// and spatial correlation parameters. betaSigma is the scale of the normal
// prior on each regression coefficient; tauShape and tauRate parameterize the
// gamma prior on the precision; rho is uniform over (rhoMin, rhoMax). For a
// proper CAR prior the bounds come from the adjacency spectrum; restrict to
// (0, 1) to keep only positive spatial association.
func InitPriors(betaSigma, tauShape, tauRate, rhoMin, rhoMax float64) *Priors {
	pr := new(Priors)
	pr.Beta = distuv.Normal{Mu: 0, Sigma: betaSigma}
	pr.Tau = distuv.Gamma{Alpha: tauShape, Beta: tauRate}
	pr.Rho = distuv.Uniform{Min: rhoMin, Max: rhoMax}
	return pr
}

// DefaultPriors mirrors the usual lip cancer analysis: beta ~ N(0,5),
// tau ~ Gamma(2,2), rho uniform over the positive-definite support implied by
// the eigenvalues of the normalized adjacency.
func DefaultPriors(car *CARData) *Priors {
	return InitPriors(5, 2, 2, car.RhoMin, car.RhoMax)
}

// Priors is an object holding the independent priors on the model parameters
type Priors struct {
	Beta distuv.Normal
	Tau  distuv.Gamma
	Rho  distuv.Uniform
}

// LogDens will return the joint log prior density at the given state, -Inf
// outside the support of any component
func (pr *Priors) LogDens(st *ParamState) float64 {
	lp := 0.
	for _, b := range st.Beta {
		lp += pr.Beta.LogProb(b)
	}
	lp += pr.Tau.LogProb(st.Tau)
	lp += pr.Rho.LogProb(st.Rho)
	return lp
}
