package vectorizer

import (
	"fmt"

	"github.com/happyhackingspace/featsel/internal/textutil"
)

type cell struct {
	label, feature int
}

// Counting selects what a count matrix cell measures.
type Counting int

const (
	// CountTerms counts every n-gram occurrence.
	CountTerms Counting = iota
	// CountDocuments counts the documents of a label containing the n-gram.
	CountDocuments
)

// ParseCounting parses "terms" or "documents".
func ParseCounting(s string) (Counting, error) {
	switch s {
	case "", "terms":
		return CountTerms, nil
	case "documents", "docs":
		return CountDocuments, nil
	}
	return CountTerms, fmt.Errorf("unknown counting mode %q", s)
}

// String implements fmt.Stringer.
func (c Counting) String() string {
	if c == CountDocuments {
		return "documents"
	}
	return "terms"
}

// Aggregator accumulates per-label n-gram counts for a run of documents using
// its own local label and feature indices.
type Aggregator struct {
	ngram     int
	separator string
	counting  Counting
	labels    *Index
	vocab     *Index
	counts    map[cell]int64
	total     int64
}

// NewAggregator creates an Aggregator extracting n-grams of size n joined by sep.
func NewAggregator(n int, sep string, counting Counting) *Aggregator {
	return &Aggregator{
		ngram:     n,
		separator: sep,
		counting:  counting,
		labels:    NewIndex(),
		vocab:     NewIndex(),
		counts:    make(map[cell]int64),
	}
}

// Add counts the n-grams of one document under label. The label is interned
// even when the document is too short to yield any n-gram.
func (a *Aggregator) Add(label string, tokens []string) {
	l := a.labels.Intern(label)
	var seen map[int]struct{}
	if a.counting == CountDocuments {
		seen = make(map[int]struct{})
	}
	for feature := range textutil.Ngrams(tokens, a.ngram, a.separator) {
		f := a.vocab.Intern(feature)
		if seen != nil {
			if _, ok := seen[f]; ok {
				continue
			}
			seen[f] = struct{}{}
		}
		a.counts[cell{label: l, feature: f}]++
		a.total++
	}
}

// Total returns the total count added so far; under CountTerms this is the
// number of n-grams seen.
func (a *Aggregator) Total() int64 {
	return a.total
}

// Accumulator collects counts at global coordinates during a merge.
type Accumulator struct {
	counts map[cell]int64
}

// NewAccumulator creates an empty Accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{counts: make(map[cell]int64)}
}

// Matrix builds the count matrix of the given shape. A non-nil colMap
// renumbers feature ids: column colMap[f] receives the counts of feature f.
func (acc *Accumulator) Matrix(rows, cols int, colMap []int) (*Matrix, error) {
	triples := make([]Triple, 0, len(acc.counts))
	for c, n := range acc.counts {
		col := c.feature
		if colMap != nil {
			col = colMap[col]
		}
		triples = append(triples, Triple{Row: c.label, Col: col, Value: float64(n)})
	}
	return FromTriples(rows, cols, triples)
}

// MergeInto interns the local labels and features into the global indices,
// in local id order, and adds the local counts to acc at global coordinates.
func (a *Aggregator) MergeInto(labels, vocab *Index, acc *Accumulator) {
	labelMap := make([]int, a.labels.Len())
	for id, key := range a.labels.keys {
		labelMap[id] = labels.Intern(key)
	}
	featureMap := make([]int, a.vocab.Len())
	for id, key := range a.vocab.keys {
		featureMap[id] = vocab.Intern(key)
	}
	for c, n := range a.counts {
		acc.counts[cell{label: labelMap[c.label], feature: featureMap[c.feature]}] += n
	}
}
