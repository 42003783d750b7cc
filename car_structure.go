package carstan

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

// CARData stores everything derived from the adjacency structure that the
// density evaluators need. It is computed once by InitCAR and never written
// to afterward, so it is safe to share across concurrent chains.
type CARData struct {
	N      int
	M      []float64 // neighbor counts, the diagonal of D
	Edges  []Edge    // unique neighbor pairs, i < j
	Lambda []float64 // eigenvalues of D^{-1/2} W D^{-1/2}, ascending
	RhoMin float64   // open support of rho: RhoMin < rho < RhoMax
	RhoMax float64
	adj    *Adjacency // retained for the dense evaluator
}

// InitCAR validates the adjacency matrix and precomputes the neighbor counts,
// the sparse edge list, and the eigenvalues of the symmetric normalized
// adjacency D^{-1/2} W D^{-1/2}. Run exactly once per dataset.
func InitCAR(adj *Adjacency) (*CARData, error) {
	if err := adj.Validate(); err != nil {
		return nil, err
	}
	car := new(CARData)
	car.N = adj.N
	car.M = adj.NeighborCounts()
	car.Edges = adj.EdgeList()
	car.adj = adj

	scaled := mat.NewSymDense(adj.N, nil)
	for _, e := range car.Edges {
		scaled.SetSym(e.A, e.B, 1.0/math.Sqrt(car.M[e.A]*car.M[e.B]))
	}
	var eig mat.EigenSym
	if ok := eig.Factorize(scaled, false); !ok {
		return nil, errors.New("carstan: eigendecomposition of normalized adjacency failed")
	}
	car.Lambda = eig.Values(nil)
	// The spectrum of the normalized adjacency lies in [-1, 1] with the top
	// eigenvalue exactly 1, so the PD support of rho is (1/min, 1/max).
	car.RhoMin = 1.0 / car.Lambda[0]
	car.RhoMax = 1.0 / car.Lambda[car.N-1]
	return car, nil
}

// PrecisionMatrix builds the full CAR precision tau*(D - rho*W) as a dense
// symmetric matrix. Only the dense model variant and tests ever call this.
func (car *CARData) PrecisionMatrix(tau, rho float64) *mat.SymDense {
	prec := mat.NewSymDense(car.N, nil)
	for i := 0; i < car.N; i++ {
		prec.SetSym(i, i, tau*car.M[i])
	}
	for _, e := range car.Edges {
		prec.SetSym(e.A, e.B, -tau*rho)
	}
	return prec
}
