package carstan

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Fixed 3x3 lattice dataset so the sampler tests are deterministic.
func testGridDataset(t *testing.T) (*Dataset, *CARData) {
	t.Helper()
	car, err := InitCAR(GridAdjacency(3, 3))
	require.NoError(t, err)
	ds := &Dataset{
		N:         9,
		P:         2,
		Y:         []float64{4, 2, 5, 1, 3, 6, 2, 4, 3},
		LogOffset: make([]float64, 9),
		X: [][]float64{
			{1, -0.6}, {1, 0.3}, {1, 1.1},
			{1, -1.2}, {1, 0.0}, {1, 0.8},
			{1, -0.3}, {1, 0.5}, {1, -0.9},
		},
	}
	require.NoError(t, ds.Validate(car))
	return ds, car
}

func testRunConfig() *RunConfig {
	cfg := DefaultRunConfig()
	cfg.Generations = 3000
	cfg.Burnin = 1000
	cfg.Thin = 2
	cfg.Chains = 2
	cfg.Seed = 42
	cfg.PrintFreq = 0
	cfg.WriteFreq = 500
	return cfg
}

func TestMCMCRunSparse(t *testing.T) {
	ds, car := testGridDataset(t)
	cfg := testRunConfig()
	post := InitPosterior(ds, car, cfg.MakePriors(car), SparseVariant)

	chain := InitMCMC(post, cfg, filepath.Join(t.TempDir(), "sparse.log"), cfg.Seed)
	tr, err := chain.Run()
	require.NoError(t, err)

	assert.Equal(t, (cfg.Generations-cfg.Burnin+cfg.Thin-1)/cfg.Thin, tr.Len())
	for _, lp := range tr.LogPost {
		assert.False(t, math.IsInf(lp, 0))
		assert.False(t, math.IsNaN(lp))
	}
	for _, tau := range tr.Draws["tau"] {
		assert.Greater(t, tau, 0.0)
	}
	for _, rho := range tr.Draws["rho"] {
		assert.Greater(t, rho, post.Priors.Rho.Min)
		assert.Less(t, rho, post.Priors.Rho.Max)
	}
}

// The two formulations describe the same posterior; with matched seeds their
// medians for the shared parameters must agree inside each other's 95%
// interval.
func TestSparseAndDenseAgree(t *testing.T) {
	ds, car := testGridDataset(t)
	cfg := testRunConfig()
	priors := cfg.MakePriors(car)

	run := func(variant Variant) *Trace {
		post := InitPosterior(ds, car, priors, variant)
		traces, err := RunChains(post, cfg, filepath.Join(t.TempDir(), string(variant)))
		require.NoError(t, err)
		return MergeTraces(traces)
	}
	sparse := run(SparseVariant)
	dense := run(DenseVariant)

	for _, name := range []string{"beta0", "beta1", "tau", "rho"} {
		s := sparse.Summarize(name)
		d := dense.Summarize(name)
		assert.GreaterOrEqual(t, s.Median, d.Lower, "parameter %s", name)
		assert.LessOrEqual(t, s.Median, d.Upper, "parameter %s", name)
		assert.GreaterOrEqual(t, d.Median, s.Lower, "parameter %s", name)
		assert.LessOrEqual(t, d.Median, s.Upper, "parameter %s", name)
	}
}

func TestRunChainsIndependentSeeds(t *testing.T) {
	ds, car := testGridDataset(t)
	cfg := testRunConfig()
	cfg.Generations = 600
	cfg.Burnin = 200
	post := InitPosterior(ds, car, cfg.MakePriors(car), SparseVariant)

	traces, err := RunChains(post, cfg, filepath.Join(t.TempDir(), "chains"))
	require.NoError(t, err)
	require.Len(t, traces, cfg.Chains)
	assert.NotEqual(t, traces[0].Draws["tau"], traces[1].Draws["tau"])

	merged := MergeTraces(traces)
	assert.Equal(t, traces[0].Len()+traces[1].Len(), merged.Len())
}

func TestSlidingWindowPropStaysInBounds(t *testing.T) {
	cfg := testRunConfig()
	ds, car := testGridDataset(t)
	post := InitPosterior(ds, car, cfg.MakePriors(car), SparseVariant)
	chain := InitMCMC(post, cfg, filepath.Join(t.TempDir(), "w.log"), 7)

	for i := 0; i < 2000; i++ {
		v := slidingWindowProp(0.5, 0.8, 0.0, 1.0, chain.RNG)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
}

func TestMultiplierPropRatio(t *testing.T) {
	cfg := testRunConfig()
	ds, car := testGridDataset(t)
	post := InitPosterior(ds, car, cfg.MakePriors(car), SparseVariant)
	chain := InitMCMC(post, cfg, filepath.Join(t.TempDir(), "m.log"), 7)

	theta := 2.0
	star, rat := multiplierProp(theta, 0.5, chain.RNG)
	assert.InDelta(t, star/theta, rat, 1e-12)
	assert.Greater(t, star, 0.0)
}

func TestAdjustStepLength(t *testing.T) {
	// Acceptance above target widens the step, below narrows it.
	assert.Greater(t, adjustStepLength(0.5, 0.8), 0.5)
	assert.Less(t, adjustStepLength(0.5, 0.1), 0.5)
	assert.InDelta(t, 0.5, adjustStepLength(0.5, 0.44), 1e-12)
	// Degenerate ratios stay finite and positive.
	assert.Greater(t, adjustStepLength(0.5, 0.0), 0.0)
	assert.Less(t, adjustStepLength(0.5, 1.0), math.Inf(1))
}
