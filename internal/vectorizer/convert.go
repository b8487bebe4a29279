package vectorizer

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/happyhackingspace/featsel/internal/parallel"
	"github.com/happyhackingspace/featsel/internal/textutil"
)

var (
	// ErrEmptyCollection is returned when a collection holds no documents.
	ErrEmptyCollection = errors.New("empty collection")
	// ErrInvalidNgramSize is returned for n-gram sizes below 1.
	ErrInvalidNgramSize = errors.New("invalid n-gram size")
)

// VocabularyOrder selects how feature ids are numbered.
type VocabularyOrder int

const (
	// OrderFirstSeen numbers features by first occurrence in the canonical traversal.
	OrderFirstSeen VocabularyOrder = iota
	// OrderSorted numbers features by ascending byte order of their names.
	OrderSorted
)

// ParseVocabularyOrder parses "first-seen" or "sorted".
func ParseVocabularyOrder(s string) (VocabularyOrder, error) {
	switch s {
	case "", "first-seen":
		return OrderFirstSeen, nil
	case "sorted":
		return OrderSorted, nil
	}
	return OrderFirstSeen, fmt.Errorf("unknown vocabulary order %q", s)
}

// String implements fmt.Stringer.
func (o VocabularyOrder) String() string {
	if o == OrderSorted {
		return "sorted"
	}
	return "first-seen"
}

// ConvertOptions controls Convert.
type ConvertOptions struct {
	NgramSize   int
	Separator   string // defaults to textutil.DefaultSeparator
	Parallelism int    // <= 0 uses every CPU
	Counting    Counting
	Order       VocabularyOrder
}

// Conversion is the result of Convert: the label×feature count matrix and
// the indices naming its rows and columns.
type Conversion struct {
	Matrix     *Matrix
	Labels     *Index
	Vocabulary *Index
}

// Convert counts the n-grams of every document in c per label.
//
// The (label, document) pairs are split into contiguous chunks in canonical
// order, each chunk is aggregated on its own worker with private indices, and
// the partial results are merged in chunk order. Global ids therefore follow
// first occurrence in the canonical traversal and the result does not depend
// on the parallelism level.
func Convert(c *Collection, opts ConvertOptions) (*Conversion, error) {
	if opts.NgramSize < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidNgramSize, opts.NgramSize)
	}
	sep := opts.Separator
	if sep == "" {
		sep = textutil.DefaultSeparator
	}

	var docs []labeledDoc
	if c != nil {
		docs = c.pairs()
	}
	if len(docs) == 0 {
		return nil, ErrEmptyCollection
	}

	cfg := parallel.Config{Workers: parallel.Workers(opts.Parallelism)}
	chunks := parallel.Chunks(len(docs), cfg.Workers)
	partials := parallel.Map(len(chunks), func(i int) *Aggregator {
		agg := NewAggregator(opts.NgramSize, sep, opts.Counting)
		for _, d := range docs[chunks[i][0]:chunks[i][1]] {
			agg.Add(d.label, d.tokens)
		}
		return agg
	}, cfg)

	labels, vocab := NewIndex(), NewIndex()
	acc := NewAccumulator()
	var total int64
	for _, p := range partials {
		p.MergeInto(labels, vocab, acc)
		total += p.Total()
	}

	var colMap []int
	if opts.Order == OrderSorted {
		vocab, colMap = vocab.Sorted()
	}
	m, err := acc.Matrix(labels.Len(), vocab.Len(), colMap)
	if err != nil {
		return nil, err
	}
	slog.Debug("Converted collection",
		"documents", len(docs), "chunks", len(chunks),
		"labels", labels.Len(), "features", vocab.Len(), "mass", total)

	return &Conversion{Matrix: m, Labels: labels, Vocabulary: vocab}, nil
}
