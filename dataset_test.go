package carstan

import (
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadDataset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "counts.txt")
	require.NoError(t, os.WriteFile(path, []byte(
		"9 1.4 1 16\n"+
			"39 8.7 1 16\n"+
			"11 3.0 1 10\n"), 0o644))

	ds, err := ReadDataset(path)
	require.NoError(t, err)
	assert.Equal(t, 3, ds.N)
	assert.Equal(t, 2, ds.P)
	assert.Equal(t, []float64{9, 39, 11}, ds.Y)
	assert.InDelta(t, math.Log(1.4), ds.LogOffset[0], 1e-12)
	assert.Equal(t, []float64{1, 16}, ds.X[0])
}

func TestReadDatasetErrors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
		return p
	}

	_, err := ReadDataset(filepath.Join(dir, "missing.txt"))
	assert.Error(t, err)

	_, err = ReadDataset(write("short.txt", "9 1.4\n"))
	assert.Error(t, err)

	_, err = ReadDataset(write("ragged.txt", "9 1.4 1 16\n3 2.0 1\n"))
	assert.Error(t, err)

	_, err = ReadDataset(write("negative.txt", "-2 1.4 1 16\n"))
	assert.Error(t, err)

	_, err = ReadDataset(write("fractional.txt", "2.5 1.4 1 16\n"))
	assert.Error(t, err)

	_, err = ReadDataset(write("badexp.txt", "2 0 1 16\n"))
	assert.Error(t, err)

	_, err = ReadDataset(write("empty.txt", "\n\n"))
	assert.Error(t, err)
}

func TestSimulateDataset(t *testing.T) {
	adj := GridAdjacency(4, 4)
	rng := rand.New(rand.NewSource(5))
	ds := SimulateDataset(adj, []float64{0.5, 1.0}, 0.2, rng)

	assert.Equal(t, 16, ds.N)
	assert.Equal(t, 2, ds.P)
	for i := 0; i < ds.N; i++ {
		assert.Equal(t, 1.0, ds.X[i][0])
		assert.GreaterOrEqual(t, ds.Y[i], 0.0)
		assert.Equal(t, math.Trunc(ds.Y[i]), ds.Y[i])
		assert.Equal(t, 0.0, ds.LogOffset[i])
	}

	car, err := InitCAR(adj)
	require.NoError(t, err)
	require.NoError(t, ds.Validate(car))
}

func TestDatasetValidate(t *testing.T) {
	car, err := InitCAR(LineAdjacency(3))
	require.NoError(t, err)

	ds := &Dataset{N: 2, P: 1, Y: []float64{1, 2}, LogOffset: []float64{0, 0}, X: [][]float64{{1}, {1}}}
	assert.ErrorIs(t, ds.Validate(car), ErrDimensionMismatch)

	ds = &Dataset{N: 3, P: 2, Y: []float64{1, 2, 3}, LogOffset: []float64{0, 0, 0},
		X: [][]float64{{1, 0}, {1}, {1, 0}}}
	assert.ErrorIs(t, ds.Validate(car), ErrDimensionMismatch)
}
