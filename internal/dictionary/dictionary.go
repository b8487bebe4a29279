// Package dictionary extracts ranked per-label feature weights from a scored matrix.
package dictionary

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/happyhackingspace/featsel/internal/parallel"
	"github.com/happyhackingspace/featsel/internal/vectorizer"
)

var (
	// ErrInconsistentIndex is returned when the scored matrix shape does not
	// match the label and vocabulary index sizes.
	ErrInconsistentIndex = errors.New("inconsistent index")
	// ErrInvalidShape is returned for an unknown output shape.
	ErrInvalidShape = errors.New("invalid output shape")
)

// Shape selects the output layout.
type Shape string

const (
	// ShapeGrouped renders label → feature → weight.
	ShapeGrouped Shape = "grouped"
	// ShapeFlat renders one record per label holding its feature weights.
	ShapeFlat Shape = "flat"
)

// ParseShape validates s; the empty string selects ShapeGrouped.
func ParseShape(s string) (Shape, error) {
	switch Shape(s) {
	case "", ShapeGrouped:
		return ShapeGrouped, nil
	case ShapeFlat:
		return ShapeFlat, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidShape, s)
}

// Options controls Extract.
type Options struct {
	SortDesc    bool  // order by weight descending, ties by ascending feature id
	CutZero     bool  // drop features whose weight is exactly 0
	Shape       Shape // defaults to ShapeGrouped
	Parallelism int
}

// Feature is one weighted feature of a label.
type Feature struct {
	Feature string  `json:"feature"`
	Weight  float64 `json:"weight"`
}

// LabelFeatures holds the weighted features of one label.
type LabelFeatures struct {
	Label    string    `json:"label"`
	Features []Feature `json:"features"`
}

// Result is the extracted weighted dictionary, labels in label-id order.
type Result struct {
	Shape  Shape
	Labels []LabelFeatures
}

// Extract builds the weighted feature listing of every label in scored.
// Each label row is read over the whole vocabulary, so features without an
// entry appear with weight 0 unless CutZero is set. scored is not modified.
func Extract(scored *vectorizer.Matrix, labels, vocab *vectorizer.Index, opts Options) (*Result, error) {
	shape, err := ParseShape(string(opts.Shape))
	if err != nil {
		return nil, err
	}
	if scored == nil || labels == nil || vocab == nil {
		return nil, fmt.Errorf("%w: missing matrix, label or vocabulary index", ErrInconsistentIndex)
	}
	rows, cols := scored.Dims()
	if rows != labels.Len() || cols != vocab.Len() {
		return nil, fmt.Errorf("%w: matrix is %dx%d, indices are %dx%d",
			ErrInconsistentIndex, rows, cols, labels.Len(), vocab.Len())
	}

	cfg := parallel.Config{Workers: parallel.Workers(opts.Parallelism)}
	out := parallel.Map(rows, func(l int) LabelFeatures {
		return LabelFeatures{
			Label:    labels.Key(l),
			Features: rowFeatures(scored.Row(l), vocab, opts),
		}
	}, cfg)
	return &Result{Shape: shape, Labels: out}, nil
}

func rowFeatures(row vectorizer.SparseVector, vocab *vectorizer.Index, opts Options) []Feature {
	dense := row.ToDense()
	ids := make([]int, 0, len(dense))
	for f, w := range dense {
		if opts.CutZero && w == 0 {
			continue
		}
		ids = append(ids, f)
	}
	if opts.SortDesc {
		sort.SliceStable(ids, func(i, j int) bool {
			return dense[ids[i]] > dense[ids[j]]
		})
	}

	features := make([]Feature, len(ids))
	for i, f := range ids {
		features[i] = Feature{Feature: vocab.Key(f), Weight: dense[f]}
	}
	return features
}

// Grouped returns label → feature → weight.
func (r *Result) Grouped() map[string]map[string]float64 {
	out := make(map[string]map[string]float64, len(r.Labels))
	for _, lf := range r.Labels {
		m := make(map[string]float64, len(lf.Features))
		for _, f := range lf.Features {
			m[f.Feature] = f.Weight
		}
		out[lf.Label] = m
	}
	return out
}

// Records flattens the result into (label, feature, weight) triples in output order.
func (r *Result) Records() []Record {
	var out []Record
	for _, lf := range r.Labels {
		for _, f := range lf.Features {
			out = append(out, Record{Label: lf.Label, Feature: f.Feature, Weight: f.Weight})
		}
	}
	return out
}

// Record is a single weighted (label, feature) pair.
type Record struct {
	Label   string  `json:"label"`
	Feature string  `json:"feature"`
	Weight  float64 `json:"weight"`
}

// MarshalJSON renders the grouped shape as nested objects whose keys follow
// the extraction order, and the flat shape as an array of label records.
func (r *Result) MarshalJSON() ([]byte, error) {
	if r.Shape == ShapeFlat {
		labels := r.Labels
		if labels == nil {
			labels = []LabelFeatures{}
		}
		return json.Marshal(labels)
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, lf := range r.Labels {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKey(&buf, lf.Label); err != nil {
			return nil, err
		}
		buf.WriteByte('{')
		for j, f := range lf.Features {
			if j > 0 {
				buf.WriteByte(',')
			}
			if err := writeKey(&buf, f.Feature); err != nil {
				return nil, err
			}
			w, err := json.Marshal(f.Weight)
			if err != nil {
				return nil, fmt.Errorf("feature %q: %w", f.Feature, err)
			}
			buf.Write(w)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeKey(buf *bytes.Buffer, key string) error {
	k, err := json.Marshal(key)
	if err != nil {
		return err
	}
	buf.Write(k)
	buf.WriteByte(':')
	return nil
}
