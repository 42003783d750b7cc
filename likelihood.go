package carstan

import "math"

// LinearPredictor fills dst with eta_i = X_i . beta + phi_i + log_offset_i
func (ds *Dataset) LinearPredictor(dst, beta, phi []float64) {
	for i := 0; i < ds.N; i++ {
		eta := ds.LogOffset[i] + phi[i]
		row := ds.X[i]
		for k, b := range beta {
			eta += row[k] * b
		}
		dst[i] = eta
	}
}

// PoissonLogLike computes the Poisson log-likelihood up to the constant
// -sum(log(y_i!)) term: sum_i y_i*eta_i - exp(eta_i). Overflow of exp for an
// extreme linear predictor yields -Inf, which rejects the proposal.
func (ds *Dataset) PoissonLogLike(beta, phi []float64) float64 {
	ll := 0.
	for i := 0; i < ds.N; i++ {
		eta := ds.LogOffset[i] + phi[i]
		row := ds.X[i]
		for k, b := range beta {
			eta += row[k] * b
		}
		ll += ds.Y[i]*eta - math.Exp(eta)
	}
	return ll
}
