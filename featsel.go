// Package featsel ranks the features of labeled documents by their
// association with each label.
//
// Documents are turned into n-gram counts per label, the counts are scored
// with pointwise mutual information, and the scores are read back as ranked
// per-label feature lists.
//
//	c := featsel.NewCollection()
//	c.Add("sport", []string{"goal", "match"}, []string{"match", "report"})
//	c.Add("news", []string{"election", "report"})
//	res, _ := featsel.Run(c, featsel.DefaultConfig())
//	for _, lf := range res.Labels {
//	    fmt.Println(lf.Label, lf.Features[0].Feature)
//	}
//
// Every stage runs in parallel and produces the same output for any worker
// count.
package featsel

import (
	"fmt"

	"github.com/happyhackingspace/featsel/internal/config"
	"github.com/happyhackingspace/featsel/internal/dictionary"
	"github.com/happyhackingspace/featsel/internal/scoring"
	"github.com/happyhackingspace/featsel/internal/vectorizer"
)

type (
	// Collection is an ordered set of labeled, tokenized documents.
	Collection = vectorizer.Collection
	// Matrix is a row-compressed label × feature matrix.
	Matrix = vectorizer.Matrix
	// Index is a bidirectional string ↔ dense id mapping.
	Index = vectorizer.Index
	// Conversion is the output of Convert.
	Conversion = vectorizer.Conversion
	// ConvertOptions controls ConvertWith.
	ConvertOptions = vectorizer.ConvertOptions
	// Counting selects what a count cell measures.
	Counting = vectorizer.Counting
	// VocabularyOrder selects how feature ids are numbered.
	VocabularyOrder = vectorizer.VocabularyOrder
	// Result is an extracted per-label feature listing.
	Result = dictionary.Result
	// Shape selects the Result layout.
	Shape = dictionary.Shape
	// Config holds every pipeline setting.
	Config = config.Config
)

const (
	ShapeGrouped = dictionary.ShapeGrouped
	ShapeFlat    = dictionary.ShapeFlat

	CountTerms     = vectorizer.CountTerms
	CountDocuments = vectorizer.CountDocuments

	OrderFirstSeen = vectorizer.OrderFirstSeen
	OrderSorted    = vectorizer.OrderSorted
)

var (
	ErrEmptyCollection   = vectorizer.ErrEmptyCollection
	ErrInvalidNgramSize  = vectorizer.ErrInvalidNgramSize
	ErrEmptyMatrix       = scoring.ErrEmptyMatrix
	ErrInconsistentIndex = dictionary.ErrInconsistentIndex
)

// NewCollection creates an empty collection.
func NewCollection() *Collection {
	return vectorizer.NewCollection()
}

// DefaultConfig returns the default pipeline settings.
func DefaultConfig() Config {
	return config.Default()
}

// Convert counts every n-gram occurrence per label, numbering features by
// first occurrence. parallelism <= 0 uses every CPU.
func Convert(c *Collection, ngramSize, parallelism int) (*Conversion, error) {
	return ConvertWith(c, ConvertOptions{NgramSize: ngramSize, Parallelism: parallelism})
}

// ConvertWith is Convert with every conversion option exposed, including
// document-frequency counting and a sorted vocabulary.
func ConvertWith(c *Collection, opts ConvertOptions) (*Conversion, error) {
	conv, err := vectorizer.Convert(c, opts)
	if err != nil {
		return nil, fmt.Errorf("featsel: %w", err)
	}
	return conv, nil
}

// Score returns the PMI matrix of a count matrix.
func Score(m *Matrix, parallelism int) (*Matrix, error) {
	scored, err := scoring.PMI{Parallelism: parallelism}.Score(m)
	if err != nil {
		return nil, fmt.Errorf("featsel: %w", err)
	}
	return scored, nil
}

// ExtractWeightedFeatures reads a scored matrix back as per-label feature
// lists.
func ExtractWeightedFeatures(scored *Matrix, labels, vocab *Index, sortDesc, cutZero bool, shape Shape, parallelism int) (*Result, error) {
	res, err := dictionary.Extract(scored, labels, vocab, dictionary.Options{
		SortDesc:    sortDesc,
		CutZero:     cutZero,
		Shape:       shape,
		Parallelism: parallelism,
	})
	if err != nil {
		return nil, fmt.Errorf("featsel: %w", err)
	}
	return res, nil
}

// Ranking holds every intermediate value of a pipeline run.
type Ranking struct {
	Conversion *Conversion
	Scorer     string
	Scored     *Matrix
	Result     *Result
}

// Rank runs convert, score and extract with cfg.
func Rank(c *Collection, cfg Config) (*Ranking, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("featsel: %w", err)
	}
	conv, err := vectorizer.Convert(c, cfg.ConvertOptions())
	if err != nil {
		return nil, fmt.Errorf("featsel: %w", err)
	}
	scorer, err := scoring.New(cfg.Scorer, cfg.Parallelism)
	if err != nil {
		return nil, fmt.Errorf("featsel: %w", err)
	}
	scored, err := scorer.Score(conv.Matrix)
	if err != nil {
		return nil, fmt.Errorf("featsel: %s: %w", scorer.Name(), err)
	}
	res, err := dictionary.Extract(scored, conv.Labels, conv.Vocabulary, cfg.ExtractOptions())
	if err != nil {
		return nil, fmt.Errorf("featsel: %w", err)
	}
	return &Ranking{Conversion: conv, Scorer: scorer.Name(), Scored: scored, Result: res}, nil
}

// Run is Rank returning only the extracted features.
func Run(c *Collection, cfg Config) (*Result, error) {
	r, err := Rank(c, cfg)
	if err != nil {
		return nil, err
	}
	return r.Result, nil
}
