package carstan

import "math"

// log1m computes log(1-x) through Log1p, which keeps precision when x is
// close to zero.
func log1m(x float64) float64 {
	return math.Log1p(-x)
}

// SpatialLogDensSparse evaluates the unnormalized log-density of the CAR
// prior on phi without forming any matrix:
//
//	(n/2)*log(tau) + (1/2)*sum_i log(1 - rho*lambda_i)
//	  - (tau/2)*[ sum_i m_i*phi_i^2 - 2*rho*sum_(i,j) phi_i*phi_j ]
//
// The determinant of D - rho*W factors into prod_i m_i * prod_i (1-rho*lambda_i),
// and the first factor is constant in the parameters, so it drops out. The
// quadratic form uses the diagonal term plus one pass over the unique edges;
// the factor 2 from W's symmetry cancels the 1/2 in the exponent. Returns
// -Inf when tau <= 0 or any 1-rho*lambda_i <= 0, which the sampler treats as
// an infeasible proposal rather than an error.
//
// Called once per proposal, so it stays allocation-free.
func (car *CARData) SpatialLogDensSparse(phi []float64, tau, rho float64) float64 {
	if tau <= 0 {
		return math.Inf(-1)
	}
	ldet := 0.
	for _, l := range car.Lambda {
		x := rho * l
		if x >= 1 {
			return math.Inf(-1)
		}
		ldet += log1m(x)
	}
	diag := 0.
	for i, p := range phi {
		diag += car.M[i] * p * p
	}
	cross := 0.
	for _, e := range car.Edges {
		cross += phi[e.A] * phi[e.B]
	}
	return 0.5*float64(car.N)*math.Log(tau) + 0.5*ldet - 0.5*tau*(diag-2.0*rho*cross)
}
