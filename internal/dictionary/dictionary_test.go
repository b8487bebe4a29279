package dictionary

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/happyhackingspace/featsel/internal/scoring"
	"github.com/happyhackingspace/featsel/internal/vectorizer"
)

func sampleConversion(t *testing.T) *vectorizer.Conversion {
	t.Helper()
	c := vectorizer.NewCollection()
	c.Add("label_a",
		[]string{"I", "aa", "aa", "aa", "aa", "aa"},
		[]string{"bb", "aa", "aa", "aa", "aa", "aa"},
		[]string{"I", "aa", "hero", "some", "ok", "aa"},
	)
	c.Add("label_b",
		[]string{"bb", "bb", "bb"},
		[]string{"bb", "bb", "bb"},
		[]string{"hero", "ok", "bb"},
		[]string{"hero", "cc", "bb"},
	)
	c.Add("label_c",
		[]string{"cc", "cc", "cc"},
		[]string{"cc", "cc", "bb"},
		[]string{"xx", "xx", "cc"},
		[]string{"aa", "xx", "cc"},
	)
	conv, err := vectorizer.Convert(c, vectorizer.ConvertOptions{NgramSize: 1, Parallelism: 5})
	require.NoError(t, err)
	return conv
}

func sampleScored(t *testing.T) (*vectorizer.Matrix, *vectorizer.Conversion) {
	t.Helper()
	conv := sampleConversion(t)
	scored, err := scoring.PMI{Parallelism: 5}.Score(conv.Matrix)
	require.NoError(t, err)
	return scored, conv
}

func TestExtractSortedCutZero(t *testing.T) {
	scored, conv := sampleScored(t)
	res, err := Extract(scored, conv.Labels, conv.Vocabulary, Options{SortDesc: true, CutZero: true, Parallelism: 5})
	require.NoError(t, err)

	require.Len(t, res.Labels, 3)
	assert.Equal(t, "label_a", res.Labels[0].Label)
	assert.Equal(t, "label_c", res.Labels[2].Label)

	for _, lf := range res.Labels {
		for i, f := range lf.Features {
			assert.NotZero(t, f.Weight, "label %s feature %s", lf.Label, f.Feature)
			if i > 0 {
				assert.GreaterOrEqual(t, lf.Features[i-1].Weight, f.Weight, "label %s not sorted", lf.Label)
			}
		}
	}

	// label_c never sees "I", "hero", "some" or "ok"
	grouped := res.Grouped()
	assert.NotContains(t, grouped["label_c"], "hero")
	assert.Contains(t, grouped["label_c"], "xx")
	assert.Equal(t, "xx", res.Labels[2].Features[0].Feature)
}

func TestExtractKeepsZeros(t *testing.T) {
	scored, conv := sampleScored(t)
	res, err := Extract(scored, conv.Labels, conv.Vocabulary, Options{SortDesc: true, Parallelism: 1})
	require.NoError(t, err)

	for _, lf := range res.Labels {
		assert.Len(t, lf.Features, conv.Vocabulary.Len(), "label %s", lf.Label)
	}
	assert.Equal(t, 0.0, res.Grouped()["label_c"]["hero"])
}

func TestExtractUnsortedFollowsFeatureIDs(t *testing.T) {
	scored, conv := sampleScored(t)
	res, err := Extract(scored, conv.Labels, conv.Vocabulary, Options{})
	require.NoError(t, err)

	names := make([]string, 0)
	for _, f := range res.Labels[0].Features {
		names = append(names, f.Feature)
	}
	assert.Equal(t, conv.Vocabulary.Keys(), names)
}

func TestExtractTiesByFeatureID(t *testing.T) {
	m, err := vectorizer.FromTriples(1, 4, []vectorizer.Triple{
		{Row: 0, Col: 0, Value: 1}, {Row: 0, Col: 1, Value: 2}, {Row: 0, Col: 2, Value: 1}, {Row: 0, Col: 3, Value: 2},
	})
	require.NoError(t, err)
	labels, vocab := vectorizer.NewIndex(), vectorizer.NewIndex()
	labels.Intern("l")
	for _, k := range []string{"d", "c", "b", "a"} {
		vocab.Intern(k)
	}

	res, err := Extract(m, labels, vocab, Options{SortDesc: true})
	require.NoError(t, err)
	assert.Equal(t, []Feature{{"c", 2}, {"a", 2}, {"d", 1}, {"b", 1}}, res.Labels[0].Features)
}

func TestExtractDoesNotMutate(t *testing.T) {
	scored, conv := sampleScored(t)
	before := mat.DenseCopyOf(scored.Dense())
	_, err := Extract(scored, conv.Labels, conv.Vocabulary, Options{SortDesc: true, CutZero: true})
	require.NoError(t, err)
	assert.True(t, mat.Equal(before, scored.Dense()))
}

func TestExtractParallelismInvariant(t *testing.T) {
	scored, conv := sampleScored(t)
	base, err := Extract(scored, conv.Labels, conv.Vocabulary, Options{SortDesc: true, Parallelism: 1})
	require.NoError(t, err)
	for _, p := range []int{2, 5, 0} {
		got, err := Extract(scored, conv.Labels, conv.Vocabulary, Options{SortDesc: true, Parallelism: p})
		require.NoError(t, err)
		assert.Equal(t, base.Labels, got.Labels)
	}
}

func TestExtractInconsistentIndex(t *testing.T) {
	scored, conv := sampleScored(t)
	short := vectorizer.NewIndex()
	short.Intern("only")

	_, err := Extract(scored, short, conv.Vocabulary, Options{})
	assert.ErrorIs(t, err, ErrInconsistentIndex)
	_, err = Extract(scored, conv.Labels, short, Options{})
	assert.ErrorIs(t, err, ErrInconsistentIndex)
}

func TestExtractNilIndex(t *testing.T) {
	scored, conv := sampleScored(t)

	_, err := Extract(scored, nil, conv.Vocabulary, Options{})
	assert.ErrorIs(t, err, ErrInconsistentIndex)
	_, err = Extract(scored, conv.Labels, nil, Options{})
	assert.ErrorIs(t, err, ErrInconsistentIndex)
}

func TestExtractInvalidShape(t *testing.T) {
	scored, conv := sampleScored(t)
	_, err := Extract(scored, conv.Labels, conv.Vocabulary, Options{Shape: "table"})
	assert.ErrorIs(t, err, ErrInvalidShape)
}

func TestMarshalGroupedKeepsOrder(t *testing.T) {
	res := &Result{
		Shape: ShapeGrouped,
		Labels: []LabelFeatures{
			{Label: "b", Features: []Feature{{"z", 2}, {"a", 1}}},
			{Label: "a", Features: []Feature{{"q\"x", -0.5}}},
		},
	}
	data, err := json.Marshal(res)
	require.NoError(t, err)
	assert.Equal(t, `{"b":{"z":2,"a":1},"a":{"q\"x":-0.5}}`, string(data))

	var decoded map[string]map[string]float64
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, res.Grouped(), decoded)
}

func TestMarshalFlat(t *testing.T) {
	res := &Result{
		Shape:  ShapeFlat,
		Labels: []LabelFeatures{{Label: "a", Features: []Feature{{"x", 1.5}}}},
	}
	data, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"label":"a","features":[{"feature":"x","weight":1.5}]}]`, string(data))

	empty, err := json.Marshal(&Result{Shape: ShapeFlat})
	require.NoError(t, err)
	assert.Equal(t, "[]", string(empty))
}

func TestRecords(t *testing.T) {
	res := &Result{Labels: []LabelFeatures{
		{Label: "a", Features: []Feature{{"x", 1}, {"y", 2}}},
		{Label: "b", Features: []Feature{{"x", 3}}},
	}}
	assert.Equal(t, []Record{{"a", "x", 1}, {"a", "y", 2}, {"b", "x", 3}}, res.Records())
}

func TestParseShape(t *testing.T) {
	s, err := ParseShape("")
	require.NoError(t, err)
	assert.Equal(t, ShapeGrouped, s)
	s, err = ParseShape("flat")
	require.NoError(t, err)
	assert.Equal(t, ShapeFlat, s)
	_, err = ParseShape("dict")
	assert.ErrorIs(t, err, ErrInvalidShape)
}
