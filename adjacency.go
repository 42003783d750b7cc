package carstan

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Edge is a single undirected neighbor pair with A < B, 0-indexed.
type Edge struct {
	A int
	B int
}

// Adjacency holds the symmetric 0/1 neighbor matrix W for a set of areal units.
type Adjacency struct {
	N int
	W [][]float64
}

// NewAdjacency will allocate an empty n x n adjacency matrix
func NewAdjacency(n int) *Adjacency {
	adj := new(Adjacency)
	adj.N = n
	adj.W = make([][]float64, n)
	for i := range adj.W {
		adj.W[i] = make([]float64, n)
	}
	return adj
}

// AddEdge marks units i and j as neighbors, setting both symmetric entries
func (adj *Adjacency) AddEdge(i, j int) error {
	if i < 0 || j < 0 || i >= adj.N || j >= adj.N {
		return fmt.Errorf("%w: edge (%d,%d) outside 0..%d", ErrDimensionMismatch, i, j, adj.N-1)
	}
	if i == j {
		return fmt.Errorf("%w: self edge at node %d", ErrDiagonal, i)
	}
	adj.W[i][j] = 1
	adj.W[j][i] = 1
	return nil
}

// Validate checks that W is a usable CAR adjacency structure: square,
// symmetric, zero diagonal, 0/1 entries, and no isolated nodes.
func (adj *Adjacency) Validate() error {
	n := adj.N
	if len(adj.W) != n {
		return fmt.Errorf("%w: have %d rows for n=%d", ErrNotSquare, len(adj.W), n)
	}
	for i := 0; i < n; i++ {
		if len(adj.W[i]) != n {
			return fmt.Errorf("%w: row %d has %d columns", ErrNotSquare, i, len(adj.W[i]))
		}
		if adj.W[i][i] != 0 {
			return fmt.Errorf("%w: W[%d][%d]=%v", ErrDiagonal, i, i, adj.W[i][i])
		}
		rowsum := 0.
		for j := 0; j < n; j++ {
			w := adj.W[i][j]
			if w != 0 && w != 1 {
				return fmt.Errorf("%w: W[%d][%d]=%v", ErrBadEntry, i, j, w)
			}
			if w != adj.W[j][i] {
				return fmt.Errorf("%w: W[%d][%d] != W[%d][%d]", ErrAsymmetric, i, j, j, i)
			}
			rowsum += w
		}
		if rowsum == 0 {
			return fmt.Errorf("%w: node %d", ErrIsolatedNode, i)
		}
	}
	return nil
}

// NeighborCounts returns the row sums of W (the diagonal of D)
func (adj *Adjacency) NeighborCounts() []float64 {
	m := make([]float64, adj.N)
	for i := 0; i < adj.N; i++ {
		for j := 0; j < adj.N; j++ {
			m[i] += adj.W[i][j]
		}
	}
	return m
}

// EdgeList returns each undirected neighbor pair exactly once, with i < j,
// in row-major order
func (adj *Adjacency) EdgeList() []Edge {
	var edges []Edge
	for i := 0; i < adj.N; i++ {
		for j := i + 1; j < adj.N; j++ {
			if adj.W[i][j] == 1 {
				edges = append(edges, Edge{A: i, B: j})
			}
		}
	}
	return edges
}

// LineAdjacency builds a path graph on n nodes: node i adjacent to i+1
func LineAdjacency(n int) *Adjacency {
	adj := NewAdjacency(n)
	for i := 0; i < n-1; i++ {
		adj.W[i][i+1] = 1
		adj.W[i+1][i] = 1
	}
	return adj
}

// GridAdjacency builds a rows x cols lattice with rook (4-way) neighbors,
// a stand-in for a real county map in demos and tests
func GridAdjacency(rows, cols int) *Adjacency {
	adj := NewAdjacency(rows * cols)
	at := func(r, c int) int { return r*cols + c }
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if c+1 < cols {
				adj.W[at(r, c)][at(r, c+1)] = 1
				adj.W[at(r, c+1)][at(r, c)] = 1
			}
			if r+1 < rows {
				adj.W[at(r, c)][at(r+1, c)] = 1
				adj.W[at(r+1, c)][at(r, c)] = 1
			}
		}
	}
	return adj
}

// ReadAdjacency reads an adjacency structure from a text file. The first
// non-blank line holds the node count n; every following line holds one
// neighbor pair "i j" with 1-indexed node ids, each undirected pair listed
// once in either direction.
func ReadAdjacency(path string) (*Adjacency, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading adjacency file %s: %w", path, err)
	}
	var adj *Adjacency
	for lnum, ln := range strings.Split(string(b), "\n") {
		fields := strings.Fields(ln)
		if len(fields) == 0 {
			continue
		}
		if adj == nil {
			n, err := strconv.Atoi(fields[0])
			if err != nil || n <= 0 {
				return nil, fmt.Errorf("%s line %d: bad node count %q", path, lnum+1, fields[0])
			}
			adj = NewAdjacency(n)
			continue
		}
		if len(fields) != 2 {
			return nil, fmt.Errorf("%s line %d: want \"i j\", got %q", path, lnum+1, ln)
		}
		i, err1 := strconv.Atoi(fields[0])
		j, err2 := strconv.Atoi(fields[1])
		if err1 != nil || err2 != nil {
			return nil, fmt.Errorf("%s line %d: bad node id in %q", path, lnum+1, ln)
		}
		if err := adj.AddEdge(i-1, j-1); err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, lnum+1, err)
		}
	}
	if adj == nil {
		return nil, fmt.Errorf("%s: empty adjacency file", path)
	}
	return adj, nil
}
