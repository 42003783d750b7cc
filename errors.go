package carstan

import "errors"

// Setup-time validation failures. A bad adjacency matrix is fatal to
// precomputation; anything detected after setup (a non-positive-definite
// (rho, tau) proposal) is signaled with a -Inf log-density instead, so the
// sampler rejects the move and carries on.
var (
	ErrNotSquare         = errors.New("carstan: adjacency matrix is not square")
	ErrAsymmetric        = errors.New("carstan: adjacency matrix is not symmetric")
	ErrDiagonal          = errors.New("carstan: adjacency matrix has a nonzero diagonal entry")
	ErrBadEntry          = errors.New("carstan: adjacency entries must be 0 or 1")
	ErrIsolatedNode      = errors.New("carstan: adjacency contains a node with no neighbors")
	ErrDimensionMismatch = errors.New("carstan: dimension mismatch")
)
