package carstan

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLog1m(t *testing.T) {
	for _, x := range []float64{-0.9, -0.5, 0, 0.1, 0.5, 0.9, 0.999} {
		assert.InDelta(t, math.Log(1-x), log1m(x), 1e-9)
	}
	// Near zero log(1-x) loses the leading digits; log1m must not.
	x := 1e-15
	assert.InDelta(t, -x, log1m(x), 1e-30)
}

func gridCARData(t *testing.T) *CARData {
	t.Helper()
	car, err := InitCAR(GridAdjacency(3, 3))
	require.NoError(t, err)
	return car
}

func testPhi(n int) []float64 {
	phi := make([]float64, n)
	for i := range phi {
		phi[i] = math.Sin(float64(i)+1.) * 0.5
	}
	return phi
}

// The sparse and dense evaluators must differ by a constant that does not
// depend on phi, tau, or rho: (1/2)*sum(log m_i) - (n/2)*log(2*pi).
func TestSparseMatchesDenseUpToConstant(t *testing.T) {
	car := gridCARData(t)
	phi := testPhi(car.N)

	wantConst := -0.5 * float64(car.N) * math.Log(2*math.Pi)
	for _, m := range car.M {
		wantConst += 0.5 * math.Log(m)
	}

	type params struct {
		tau, rho float64
		scale    float64
	}
	for _, p := range []params{
		{tau: 1, rho: 0.5, scale: 1},
		{tau: 3.7, rho: 0.9, scale: -0.4},
		{tau: 0.2, rho: -0.6, scale: 2},
		{tau: 2.5, rho: 0, scale: 0},
	} {
		scaled := make([]float64, car.N)
		for i := range phi {
			scaled[i] = p.scale * phi[i]
		}
		sparse := car.SpatialLogDensSparse(scaled, p.tau, p.rho)
		dense := car.SpatialLogDensDense(scaled, p.tau, p.rho)
		assert.InDelta(t, wantConst, dense-sparse, 1e-9)
	}
}

func TestSparseDomainViolation(t *testing.T) {
	car := gridCARData(t)
	phi := testPhi(car.N)

	// rho outside the PD support: 1 - rho*lambda_max <= 0.
	assert.True(t, math.IsInf(car.SpatialLogDensSparse(phi, 1, 1.000001/car.Lambda[car.N-1]), -1))
	assert.True(t, math.IsInf(car.SpatialLogDensSparse(phi, 1, 2), -1))
	assert.True(t, math.IsInf(car.SpatialLogDensSparse(phi, -1, 0.5), -1))
	assert.True(t, math.IsInf(car.SpatialLogDensDense(phi, 1, 2), -1))

	// Just inside the support both stay finite.
	rho := 0.999 * car.RhoMax
	assert.False(t, math.IsInf(car.SpatialLogDensSparse(phi, 1, rho), -1))
	assert.False(t, math.IsInf(car.SpatialLogDensDense(phi, 1, rho), -1))
}

// At rho=0 the log-determinant term vanishes and the quadratic form reduces
// to the diagonal D contribution alone.
func TestSparseRhoZero(t *testing.T) {
	car := gridCARData(t)
	phi := testPhi(car.N)
	tau := 1.7

	want := 0.5 * float64(car.N) * math.Log(tau)
	for i, p := range phi {
		want -= 0.5 * tau * car.M[i] * p * p
	}
	assert.InDelta(t, want, car.SpatialLogDensSparse(phi, tau, 0), 1e-12)
}

// With phi=0 the quadratic form drops out entirely, leaving only the log(tau)
// and log-determinant terms.
func TestSparsePhiZero(t *testing.T) {
	car, err := InitCAR(LineAdjacency(3))
	require.NoError(t, err)

	tau, rho := 2.0, 0.5
	want := 0.5 * 3 * math.Log(tau)
	for _, l := range car.Lambda {
		want += 0.5 * log1m(rho*l)
	}
	got := car.SpatialLogDensSparse(make([]float64, 3), tau, rho)
	assert.InDelta(t, want, got, 1e-12)
}

// The edge sum must still enter the quadratic form whenever rho is nonzero,
// so correlated neighbors are favored over anticorrelated ones.
func TestSparseEdgeTermSign(t *testing.T) {
	car, err := InitCAR(LineAdjacency(3))
	require.NoError(t, err)

	smooth := []float64{0.5, 0.5, 0.5}
	rough := []float64{0.5, -0.5, 0.5}
	rho := 0.9
	assert.Greater(t,
		car.SpatialLogDensSparse(smooth, 1, rho),
		car.SpatialLogDensSparse(rough, 1, rho))
}

func TestPoissonLogLike(t *testing.T) {
	ds := &Dataset{
		N:         2,
		P:         1,
		Y:         []float64{3, 0},
		LogOffset: []float64{0, math.Log(2)},
		X:         [][]float64{{1}, {1}},
	}
	beta := []float64{0.5}
	phi := []float64{0.2, -0.1}

	eta0 := 0.5 + 0.2
	eta1 := 0.5 - 0.1 + math.Log(2)
	want := 3*eta0 - math.Exp(eta0) + 0*eta1 - math.Exp(eta1)
	assert.InDelta(t, want, ds.PoissonLogLike(beta, phi), 1e-12)

	eta := make([]float64, 2)
	ds.LinearPredictor(eta, beta, phi)
	assert.InDelta(t, eta0, eta[0], 1e-12)
	assert.InDelta(t, eta1, eta[1], 1e-12)
}
