// Package storage loads labeled corpora from disk.
//
// A corpus is either a data folder with one sub-directory per label, or a
// single JSON/YAML file mapping labels to documents.
package storage

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/happyhackingspace/featsel/internal/htmlutil"
	"github.com/happyhackingspace/featsel/internal/textutil"
	"github.com/happyhackingspace/featsel/internal/vectorizer"
)

// ErrInvalidCorpus is returned when a corpus file is not a label mapping.
var ErrInvalidCorpus = errors.New("invalid corpus")

// Storage wraps a corpus data folder.
type Storage struct {
	Folder string
}

// NewStorage creates a Storage for the given data folder.
func NewStorage(folder string) *Storage {
	return &Storage{Folder: folder}
}

// LoadOptions controls how raw text becomes tokens.
type LoadOptions struct {
	Lowercase bool
}

func (o LoadOptions) tokenize(text string) []string {
	if o.Lowercase {
		text = textutil.Normalize(text)
	}
	return textutil.Tokenize(text)
}

// Load reads path as a data folder when it is a directory, and as a corpus
// file otherwise.
func Load(path string, opts LoadOptions) (*vectorizer.Collection, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return NewStorage(path).LoadCollection(opts)
	}
	return LoadFile(path, opts)
}

// LoadCollection reads every label sub-directory of the folder. Labels and
// files are visited in name order; hidden entries are skipped. Files that
// cannot be read are logged and skipped.
func (s *Storage) LoadCollection(opts LoadOptions) (*vectorizer.Collection, error) {
	entries, err := os.ReadDir(s.Folder)
	if err != nil {
		return nil, err
	}

	c := vectorizer.NewCollection()
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		label := e.Name()
		docs, err := s.loadLabel(label, opts)
		if err != nil {
			return nil, fmt.Errorf("label %s: %w", label, err)
		}
		c.Add(label, docs...)
	}
	slog.Debug("Loaded corpus folder", "folder", s.Folder, "labels", len(c.Groups), "documents", c.NumDocuments())
	return c, nil
}

func (s *Storage) loadLabel(label string, opts LoadOptions) ([][]string, error) {
	dir := filepath.Join(s.Folder, label)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var docs [][]string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		text, err := readDocument(path)
		if err != nil {
			slog.Warn("Cannot read corpus file", "path", path, "error", err)
			continue
		}
		docs = append(docs, opts.tokenize(text))
	}
	return docs, nil
}

// readDocument returns the text of a corpus file; HTML is reduced to its
// title and visible text.
func readDocument(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		f, err := os.Open(path)
		if err != nil {
			return "", err
		}
		defer func() { _ = f.Close() }()
		doc, err := htmlutil.LoadHTML(f)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(htmlutil.Title(doc) + " " + htmlutil.VisibleText(doc)), nil
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
}

// LoadFile reads a JSON or YAML mapping of label to documents. Each document
// is either a list of tokens, used as is, or a string that gets tokenized.
// Label order follows the file.
func LoadFile(path string, opts LoadOptions) (*vectorizer.Collection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := ParseCorpus(data, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// ParseCorpus decodes a JSON or YAML label mapping.
func ParseCorpus(data []byte, opts LoadOptions) (*vectorizer.Collection, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCorpus, err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidCorpus)
	}
	m := root.Content[0]
	if m.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: top level must be a label mapping", ErrInvalidCorpus)
	}

	c := vectorizer.NewCollection()
	for i := 0; i+1 < len(m.Content); i += 2 {
		label := m.Content[i].Value
		docs, err := decodeDocuments(m.Content[i+1], opts)
		if err != nil {
			return nil, fmt.Errorf("%w: label %q: %w", ErrInvalidCorpus, label, err)
		}
		c.Add(label, docs...)
	}
	return c, nil
}

func decodeDocuments(n *yaml.Node, opts LoadOptions) ([][]string, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("line %d: documents must be a list", n.Line)
	}
	docs := make([][]string, 0, len(n.Content))
	for _, d := range n.Content {
		switch d.Kind {
		case yaml.ScalarNode:
			docs = append(docs, opts.tokenize(d.Value))
		case yaml.SequenceNode:
			var tokens []string
			if err := d.Decode(&tokens); err != nil {
				return nil, fmt.Errorf("line %d: %w", d.Line, err)
			}
			if opts.Lowercase {
				for i, t := range tokens {
					tokens[i] = strings.ToLower(t)
				}
			}
			docs = append(docs, tokens)
		default:
			return nil, fmt.Errorf("line %d: document must be a string or a token list", d.Line)
		}
	}
	return docs, nil
}
