/*
Package carstan fits conditional autoregressive (CAR) spatial models to areal
count data, such as the Scottish lip cancer dataset. The CAR prior on the
spatial effects phi can be evaluated two ways: a dense formulation that builds
the full precision matrix tau*(D - rho*W) and evaluates a multivariate normal
density through its Cholesky factorization, and a sparse formulation that uses
only the neighbor pair list, the neighbor counts, and the precomputed
eigenvalues of D^{-1/2} W D^{-1/2}, so no matrix is ever formed while
sampling. Both are plugged into the same Metropolis MCMC machinery, which
makes it easy to measure how much effective sample size per second the sparse
trick buys.

The adjacency structure is validated and factorized once by InitCAR; the
resulting CARData is read-only and shared across chains.
*/
package carstan
