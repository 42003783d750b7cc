package carstan

import "math/rand"

// ParamState holds one point in parameter space: regression coefficients,
// CAR precision, spatial correlation, and per-unit spatial effects.
type ParamState struct {
	Beta []float64
	Tau  float64
	Rho  float64
	Phi  []float64
}

// InitParamState will set up an overdispersed random starting point inside
// the support of the priors
func InitParamState(p, n int, rhoMin, rhoMax float64, rng *rand.Rand) *ParamState {
	st := new(ParamState)
	st.Beta = make([]float64, p)
	for k := range st.Beta {
		st.Beta[k] = 0.5 * rng.NormFloat64()
	}
	st.Tau = 0.5 + rng.Float64()
	// start rho in the middle of the positive half of its support
	st.Rho = 0.5 * rhoMax
	if st.Rho <= rhoMin {
		st.Rho = 0.5 * (rhoMin + rhoMax)
	}
	st.Phi = make([]float64, n)
	for i := range st.Phi {
		st.Phi[i] = 0.1 * rng.NormFloat64()
	}
	return st
}

// Clone returns a deep copy of the state
func (st *ParamState) Clone() *ParamState {
	cp := new(ParamState)
	cp.Beta = append([]float64(nil), st.Beta...)
	cp.Tau = st.Tau
	cp.Rho = st.Rho
	cp.Phi = append([]float64(nil), st.Phi...)
	return cp
}
