// Package vectorizer converts labeled token documents into a sparse
// label×feature count matrix with deterministic label and feature indices.
package vectorizer

import (
	"errors"
	"fmt"
	"slices"
	"sort"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrDimensionMismatch is returned when a sparse vector's index and value
	// slices differ in length.
	ErrDimensionMismatch = errors.New("dimension mismatch")
	// ErrOutOfRange is returned for coordinates outside the matrix shape.
	ErrOutOfRange = errors.New("coordinate out of range")
)

// SparseVector represents a sparse float64 vector with ascending indices.
type SparseVector struct {
	Indices []int
	Values  []float64
	Dim     int
}

// NewSparseVector creates a sparse vector with given dimension.
func NewSparseVector(dim int) SparseVector {
	return SparseVector{Dim: dim}
}

// At returns the value at idx, or 0 when no entry is stored.
func (sv SparseVector) At(idx int) float64 {
	i, ok := slices.BinarySearch(sv.Indices, idx)
	if !ok {
		return 0
	}
	return sv.Values[i]
}

// ToDense converts to a dense float64 slice.
func (sv SparseVector) ToDense() []float64 {
	dense := make([]float64, sv.Dim)
	for i, idx := range sv.Indices {
		if idx < sv.Dim {
			dense[idx] = sv.Values[i]
		}
	}
	return dense
}

// Nnz returns the number of stored entries.
func (sv SparseVector) Nnz() int {
	return len(sv.Indices)
}

// Sum returns the sum of the stored values.
func (sv SparseVector) Sum() float64 {
	var sum float64
	for _, v := range sv.Values {
		sum += v
	}
	return sum
}

// Clone returns a deep copy.
func (sv SparseVector) Clone() SparseVector {
	return SparseVector{
		Indices: slices.Clone(sv.Indices),
		Values:  slices.Clone(sv.Values),
		Dim:     sv.Dim,
	}
}

// Triple is one coordinate entry of a matrix.
type Triple struct {
	Row, Col int
	Value    float64
}

// Matrix is an immutable row-compressed sparse matrix. Each row is a
// SparseVector whose indices are ascending and unique.
type Matrix struct {
	rows []SparseVector
	cols int
}

// NewMatrix returns an all-zero matrix of the given shape.
func NewMatrix(rows, cols int) *Matrix {
	m := &Matrix{rows: make([]SparseVector, rows), cols: cols}
	for i := range m.rows {
		m.rows[i] = NewSparseVector(cols)
	}
	return m
}

// FromTriples builds a matrix from coordinate entries. Duplicate coordinates
// are summed; coordinates whose sum is zero are not stored.
func FromTriples(rows, cols int, triples []Triple) (*Matrix, error) {
	perRow := make([]map[int]float64, rows)
	for _, t := range triples {
		if t.Row < 0 || t.Row >= rows || t.Col < 0 || t.Col >= cols {
			return nil, fmt.Errorf("%w: (%d, %d) in %dx%d", ErrOutOfRange, t.Row, t.Col, rows, cols)
		}
		if perRow[t.Row] == nil {
			perRow[t.Row] = make(map[int]float64)
		}
		perRow[t.Row][t.Col] += t.Value
	}

	m := NewMatrix(rows, cols)
	for i, entries := range perRow {
		if len(entries) == 0 {
			continue
		}
		indices := make([]int, 0, len(entries))
		for j, v := range entries {
			if v != 0 {
				indices = append(indices, j)
			}
		}
		sort.Ints(indices)
		values := make([]float64, len(indices))
		for k, j := range indices {
			values[k] = entries[j]
		}
		m.rows[i] = SparseVector{Indices: indices, Values: values, Dim: cols}
	}
	return m, nil
}

// FromRows builds a matrix from per-row sparse vectors. Each row must have
// ascending indices below cols; the vectors are copied.
func FromRows(cols int, rows []SparseVector) (*Matrix, error) {
	m := &Matrix{rows: make([]SparseVector, len(rows)), cols: cols}
	for i, row := range rows {
		if len(row.Indices) != len(row.Values) {
			return nil, fmt.Errorf("%w: row %d has %d indices, %d values",
				ErrDimensionMismatch, i, len(row.Indices), len(row.Values))
		}
		for k, j := range row.Indices {
			if j < 0 || j >= cols || (k > 0 && row.Indices[k-1] >= j) {
				return nil, fmt.Errorf("%w: row %d index %d", ErrOutOfRange, i, j)
			}
		}
		r := row.Clone()
		r.Dim = cols
		m.rows[i] = r
	}
	return m, nil
}

// Dims returns the number of rows and columns.
func (m *Matrix) Dims() (int, int) {
	return len(m.rows), m.cols
}

// At returns the entry at (i, j).
func (m *Matrix) At(i, j int) float64 {
	return m.rows[i].At(j)
}

// Row returns a copy of row i.
func (m *Matrix) Row(i int) SparseVector {
	return m.rows[i].Clone()
}

// Nnz returns the number of stored entries.
func (m *Matrix) Nnz() int {
	n := 0
	for _, r := range m.rows {
		n += r.Nnz()
	}
	return n
}

// Each calls f for every stored entry in row-major order.
func (m *Matrix) Each(f func(i, j int, v float64)) {
	for i, r := range m.rows {
		for k, j := range r.Indices {
			f(i, j, r.Values[k])
		}
	}
}

// Sum returns the sum of all entries.
func (m *Matrix) Sum() float64 {
	var sum float64
	for _, r := range m.rows {
		sum += r.Sum()
	}
	return sum
}

// RowSums returns the sum of each row.
func (m *Matrix) RowSums() []float64 {
	sums := make([]float64, len(m.rows))
	for i, r := range m.rows {
		sums[i] = r.Sum()
	}
	return sums
}

// ColSums returns the sum of each column.
func (m *Matrix) ColSums() []float64 {
	sums := make([]float64, m.cols)
	m.Each(func(_, j int, v float64) {
		sums[j] += v
	})
	return sums
}

// Dense materializes m as a gonum dense matrix. A matrix with a zero
// dimension yields an empty mat.Dense.
func (m *Matrix) Dense() *mat.Dense {
	rows, cols := m.Dims()
	if rows == 0 || cols == 0 {
		return &mat.Dense{}
	}
	d := mat.NewDense(rows, cols, nil)
	m.Each(func(i, j int, v float64) {
		d.Set(i, j, v)
	})
	return d
}
