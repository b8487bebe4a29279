// Package config loads pipeline settings from YAML.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/happyhackingspace/featsel/internal/dictionary"
	"github.com/happyhackingspace/featsel/internal/scoring"
	"github.com/happyhackingspace/featsel/internal/textutil"
	"github.com/happyhackingspace/featsel/internal/vectorizer"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds every knob of the convert → score → extract pipeline.
type Config struct {
	Ngram       int    `yaml:"ngram"`
	Separator   string `yaml:"separator"`
	Parallelism int    `yaml:"parallelism"`
	Counting    string `yaml:"counting"`   // terms | documents
	Vocabulary  string `yaml:"vocabulary"` // first-seen | sorted
	Scorer      string `yaml:"scorer"`     // pmi | npmi
	SortDesc    bool   `yaml:"sort_desc"`
	CutZero     bool   `yaml:"cut_zero"`
	Shape       string `yaml:"shape"` // grouped | flat
	Lowercase   bool   `yaml:"lowercase"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		Ngram:      1,
		Separator:  textutil.DefaultSeparator,
		Counting:   "terms",
		Vocabulary: "first-seen",
		Scorer:     "pmi",
		SortDesc:   true,
		CutZero:    true,
		Shape:      string(dictionary.ShapeGrouped),
	}
}

// Load reads a YAML file on top of Default and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every field.
func (c Config) Validate() error {
	var errs []error
	if c.Ngram < 1 {
		errs = append(errs, fmt.Errorf("ngram must be >= 1, got %d", c.Ngram))
	}
	if _, err := vectorizer.ParseCounting(c.Counting); err != nil {
		errs = append(errs, err)
	}
	if _, err := vectorizer.ParseVocabularyOrder(c.Vocabulary); err != nil {
		errs = append(errs, err)
	}
	if _, err := scoring.New(c.Scorer, c.Parallelism); err != nil {
		errs = append(errs, err)
	}
	if _, err := dictionary.ParseShape(c.Shape); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// ConvertOptions maps the config onto vectorizer options. Call Validate first.
func (c Config) ConvertOptions() vectorizer.ConvertOptions {
	counting, _ := vectorizer.ParseCounting(c.Counting)
	order, _ := vectorizer.ParseVocabularyOrder(c.Vocabulary)
	return vectorizer.ConvertOptions{
		NgramSize:   c.Ngram,
		Separator:   c.Separator,
		Parallelism: c.Parallelism,
		Counting:    counting,
		Order:       order,
	}
}

// ExtractOptions maps the config onto dictionary options. Call Validate first.
func (c Config) ExtractOptions() dictionary.Options {
	shape, _ := dictionary.ParseShape(c.Shape)
	return dictionary.Options{
		SortDesc:    c.SortDesc,
		CutZero:     c.CutZero,
		Shape:       shape,
		Parallelism: c.Parallelism,
	}
}
