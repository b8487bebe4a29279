// Package scoring computes label/feature association weights over a count matrix.
package scoring

import (
	"errors"
	"fmt"
	"math"

	"github.com/happyhackingspace/featsel/internal/parallel"
	"github.com/happyhackingspace/featsel/internal/vectorizer"
)

var (
	// ErrEmptyMatrix is returned when a count matrix holds no observations.
	ErrEmptyMatrix = errors.New("empty matrix")
	// ErrUnknownScorer is returned by New for unsupported scorer names.
	ErrUnknownScorer = errors.New("unknown scorer")
)

// Scorer turns a label×feature count matrix into a same-shaped matrix of
// association weights. Cells with a zero count score exactly 0.
type Scorer interface {
	Name() string
	Score(counts *vectorizer.Matrix) (*vectorizer.Matrix, error)
}

// New returns the scorer registered under name ("pmi" or "npmi").
func New(name string, parallelism int) (Scorer, error) {
	switch name {
	case "", "pmi":
		return PMI{Parallelism: parallelism}, nil
	case "npmi":
		return NPMI{Parallelism: parallelism}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownScorer, name)
}

// Names lists the registered scorer names.
func Names() []string {
	return []string{"pmi", "npmi"}
}

// marginals holds the totals a probability-based scorer needs.
type marginals struct {
	n    float64
	rows []float64
	cols []float64
}

func newMarginals(m *vectorizer.Matrix) (marginals, error) {
	n := m.Sum()
	if n == 0 {
		return marginals{}, ErrEmptyMatrix
	}
	return marginals{n: n, rows: m.RowSums(), cols: m.ColSums()}, nil
}

// pmi returns ln(P(l,f) / (P(l)·P(f))) for a non-zero count.
func (mg marginals) pmi(count float64, l, f int) float64 {
	return math.Log(count * mg.n / (mg.rows[l] * mg.cols[f]))
}

// scoreCells applies cellFn to every stored cell, one row per task. Zero
// counts never reach cellFn and stay 0.
func scoreCells(m *vectorizer.Matrix, parallelism int, cellFn func(count float64, l, f int) float64) (*vectorizer.Matrix, error) {
	rows, cols := m.Dims()
	cfg := parallel.Config{Workers: parallel.Workers(parallelism)}
	scored := parallel.Map(rows, func(l int) vectorizer.SparseVector {
		row := m.Row(l)
		for k, f := range row.Indices {
			if row.Values[k] == 0 {
				continue
			}
			row.Values[k] = cellFn(row.Values[k], l, f)
		}
		return row
	}, cfg)
	return vectorizer.FromRows(cols, scored)
}

// PMI scores cells with pointwise mutual information,
//
//	PMI(l,f) = ln( P(l,f) / (P(l)·P(f)) )
//
// where P(l,f) = M(l,f)/N, P(l) = row(l)/N and P(f) = col(f)/N.
type PMI struct {
	Parallelism int // rows scored concurrently; <= 0 uses every CPU
}

// Name implements Scorer.
func (PMI) Name() string { return "pmi" }

// Score implements Scorer.
func (s PMI) Score(counts *vectorizer.Matrix) (*vectorizer.Matrix, error) {
	mg, err := newMarginals(counts)
	if err != nil {
		return nil, err
	}
	return scoreCells(counts, s.Parallelism, mg.pmi)
}

// NPMI scores cells with normalized PMI, PMI(l,f) / -ln P(l,f), in [-1, 1].
// A cell holding the whole mass (P(l,f) = 1) scores 0.
type NPMI struct {
	Parallelism int
}

// Name implements Scorer.
func (NPMI) Name() string { return "npmi" }

// Score implements Scorer.
func (s NPMI) Score(counts *vectorizer.Matrix) (*vectorizer.Matrix, error) {
	mg, err := newMarginals(counts)
	if err != nil {
		return nil, err
	}
	return scoreCells(counts, s.Parallelism, func(count float64, l, f int) float64 {
		logP := math.Log(count / mg.n)
		if logP == 0 {
			return 0
		}
		return mg.pmi(count, l, f) / -logP
	})
}
