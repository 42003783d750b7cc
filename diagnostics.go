package carstan

import (
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// Summary holds the posterior summary of one parameter
type Summary struct {
	Name   string
	Mean   float64
	Median float64
	Lower  float64 // 2.5% quantile
	Upper  float64 // 97.5% quantile
	ESS    float64
}

// Summarize computes the posterior summary of a single named parameter
func (tr *Trace) Summarize(name string) Summary {
	draws := tr.Draws[name]
	sorted := append([]float64(nil), draws...)
	sort.Float64s(sorted)
	return Summary{
		Name:   name,
		Mean:   stat.Mean(draws, nil),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		Lower:  stat.Quantile(0.025, stat.Empirical, sorted, nil),
		Upper:  stat.Quantile(0.975, stat.Empirical, sorted, nil),
		ESS:    ESS(draws),
	}
}

// ESS estimates the effective sample size of a sequence of correlated draws
// using the autocovariance function truncated by Geyer's initial positive
// sequence rule: sums of adjacent autocorrelation pairs are accumulated while
// they stay positive.
func ESS(draws []float64) float64 {
	n := len(draws)
	if n < 4 {
		return float64(n)
	}
	mean := stat.Mean(draws, nil)
	gamma0 := autocov(draws, mean, 0)
	if gamma0 <= 0 {
		return float64(n)
	}
	sum := 0.
	for k := 1; k+1 < n/2; k += 2 {
		pair := autocov(draws, mean, k) + autocov(draws, mean, k+1)
		if pair <= 0 {
			break
		}
		sum += pair
	}
	ess := float64(n) / (1. + 2.*sum/gamma0)
	if ess > float64(n) {
		ess = float64(n)
	}
	return ess
}

func autocov(x []float64, mean float64, lag int) float64 {
	n := len(x)
	s := 0.
	for i := 0; i+lag < n; i++ {
		s += (x[i] - mean) * (x[i+lag] - mean)
	}
	return s / float64(n)
}

// Benchmark is one row of the sparse-versus-dense efficiency comparison
type Benchmark struct {
	Variant    string
	Neff       float64
	ElapsedSec float64
	NeffPerSec float64
}

// Efficiency reports the chain's effective sample count (the smallest ESS
// over the shared parameters beta, tau, rho) against its wall time
func (tr *Trace) Efficiency() Benchmark {
	neff := float64(tr.Len())
	for _, name := range tr.Names {
		if strings.HasPrefix(name, "phi") {
			continue
		}
		if e := ESS(tr.Draws[name]); e < neff {
			neff = e
		}
	}
	sec := tr.Elapsed.Seconds()
	b := Benchmark{Variant: tr.Variant, Neff: neff, ElapsedSec: sec}
	if sec > 0 {
		b.NeffPerSec = neff / sec
	}
	return b
}

// FormatBenchmarks renders the efficiency table for a set of model runs
func FormatBenchmarks(rows []Benchmark) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%-8s %10s %12s %12s\n", "model", "n_eff", "elapsed_s", "n_eff/s")
	for _, r := range rows {
		fmt.Fprintf(&sb, "%-8s %10.1f %12.2f %12.1f\n", r.Variant, r.Neff, r.ElapsedSec, r.NeffPerSec)
	}
	return sb.String()
}
