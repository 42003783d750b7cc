package carstan

import (
	"fmt"
	"math"
	"math/rand"
	"os"
	"strconv"
	"strings"
)

// Dataset holds the observed counts and covariates for one analysis. Y are
// the observed disease counts, LogOffset is log(expected count), and X is the
// n x p design matrix (include a column of ones for an intercept).
type Dataset struct {
	N         int
	P         int
	Y         []float64
	LogOffset []float64
	X         [][]float64
}

// ReadDataset reads a whitespace-separated table with one row per areal unit:
//
//	y expected x1 ... xp
//
// where y is the observed count and expected is the expected count (its log
// becomes the offset). The covariate count is inferred from the first row.
func ReadDataset(path string) (*Dataset, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading data file %s: %w", path, err)
	}
	ds := new(Dataset)
	ds.P = -1
	for lnum, ln := range strings.Split(string(b), "\n") {
		fields := strings.Fields(ln)
		if len(fields) == 0 {
			continue
		}
		if ds.P == -1 {
			ds.P = len(fields) - 2
			if ds.P < 1 {
				return nil, fmt.Errorf("%s line %d: want \"y expected x1 ...\", got %q", path, lnum+1, ln)
			}
		} else if len(fields) != ds.P+2 {
			return nil, fmt.Errorf("%s line %d: want %d fields, got %d", path, lnum+1, ds.P+2, len(fields))
		}
		vals := make([]float64, len(fields))
		for k, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("%s line %d: bad number %q", path, lnum+1, f)
			}
			vals[k] = v
		}
		if vals[0] < 0 || vals[0] != math.Trunc(vals[0]) {
			return nil, fmt.Errorf("%s line %d: observed count must be a non-negative integer, got %v", path, lnum+1, vals[0])
		}
		if vals[1] <= 0 {
			return nil, fmt.Errorf("%s line %d: expected count must be positive, got %v", path, lnum+1, vals[1])
		}
		ds.Y = append(ds.Y, vals[0])
		ds.LogOffset = append(ds.LogOffset, math.Log(vals[1]))
		ds.X = append(ds.X, vals[2:])
	}
	ds.N = len(ds.Y)
	if ds.N == 0 {
		return nil, fmt.Errorf("%s: empty data file", path)
	}
	return ds, nil
}

// SimulateDataset generates Poisson counts over the given adjacency structure
// for demo runs: an intercept plus one standard-normal covariate, spatial
// effects drawn iid around zero, and a unit expected count everywhere.
func SimulateDataset(adj *Adjacency, beta []float64, phiSD float64, rng *rand.Rand) *Dataset {
	n := adj.N
	ds := new(Dataset)
	ds.N = n
	ds.P = len(beta)
	ds.Y = make([]float64, n)
	ds.LogOffset = make([]float64, n)
	ds.X = make([][]float64, n)
	for i := 0; i < n; i++ {
		row := make([]float64, ds.P)
		row[0] = 1
		for k := 1; k < ds.P; k++ {
			row[k] = rng.NormFloat64()
		}
		ds.X[i] = row
		eta := phiSD * rng.NormFloat64()
		for k := range row {
			eta += beta[k] * row[k]
		}
		ds.Y[i] = poissonDraw(math.Exp(eta), rng)
	}
	return ds
}

// poissonDraw samples a Poisson count by inversion; the demo means are small
// so the simple loop is fine.
func poissonDraw(mu float64, rng *rand.Rand) float64 {
	l := math.Exp(-mu)
	k := 0.
	p := 1.
	for {
		p *= rng.Float64()
		if p <= l {
			return k
		}
		k++
	}
}

// Validate checks the dataset dimensions against a CAR structure
func (ds *Dataset) Validate(car *CARData) error {
	if ds.N != car.N {
		return fmt.Errorf("%w: %d observations for %d areal units", ErrDimensionMismatch, ds.N, car.N)
	}
	for i, row := range ds.X {
		if len(row) != ds.P {
			return fmt.Errorf("%w: X row %d has %d columns, want %d", ErrDimensionMismatch, i, len(row), ds.P)
		}
	}
	return nil
}
