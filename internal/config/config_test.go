package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/happyhackingspace/featsel/internal/dictionary"
	"github.com/happyhackingspace/featsel/internal/vectorizer"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "featsel.yaml")

	content := `ngram: 2
separator: " "
parallelism: 4
counting: documents
vocabulary: sorted
scorer: npmi
cut_zero: false
shape: flat
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Ngram != 2 || cfg.Separator != " " || cfg.Parallelism != 4 {
		t.Errorf("unexpected numeric fields: %+v", cfg)
	}
	if cfg.Scorer != "npmi" || cfg.CutZero {
		t.Errorf("unexpected scorer fields: %+v", cfg)
	}
	if !cfg.SortDesc {
		t.Error("sort_desc should keep its default when omitted")
	}

	opts := cfg.ConvertOptions()
	if opts.Counting != vectorizer.CountDocuments || opts.Order != vectorizer.OrderSorted || opts.NgramSize != 2 {
		t.Errorf("ConvertOptions = %+v", opts)
	}
	ext := cfg.ExtractOptions()
	if ext.Shape != dictionary.ShapeFlat || ext.CutZero || !ext.SortDesc || ext.Parallelism != 4 {
		t.Errorf("ExtractOptions = %+v", ext)
	}
}

func TestLoadInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "bad.yaml")
	if err := os.WriteFile(path, []byte("ngram: 0\nscorer: chi2\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte("ngram: [1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestValidateShape(t *testing.T) {
	cfg := Default()
	cfg.Shape = "table"
	if err := cfg.Validate(); !errors.Is(err, dictionary.ErrInvalidShape) {
		t.Errorf("expected ErrInvalidShape in %v", err)
	}
}
