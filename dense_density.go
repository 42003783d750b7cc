package carstan

import (
	"math"

	"gonum.org/v1/gonum/stat/distmv"
)

// SpatialLogDensDense evaluates the CAR prior on phi the expensive way: build
// the full precision matrix tau*(D - rho*W) and hand it to the multivariate
// normal, which factorizes it and computes the determinant on every call.
// This is the baseline the sparse evaluator is compared against; the two
// differ by the constant (1/2)*sum_i log(m_i) - (n/2)*log(2*pi), which does
// not depend on phi, tau, or rho. Returns -Inf when the precision is not
// positive definite.
func (car *CARData) SpatialLogDensDense(phi []float64, tau, rho float64) float64 {
	if tau <= 0 {
		return math.Inf(-1)
	}
	prec := car.PrecisionMatrix(tau, rho)
	mvn, ok := distmv.NewNormalPrecision(make([]float64, car.N), prec, nil)
	if !ok {
		return math.Inf(-1)
	}
	return mvn.LogProb(phi)
}
