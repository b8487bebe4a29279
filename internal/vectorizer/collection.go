package vectorizer

// LabelGroup holds the documents filed under one label.
type LabelGroup struct {
	Label     string
	Documents [][]string
}

// Collection is an ordered set of labeled, tokenized documents. Label order
// and document order are preserved and define the canonical traversal.
type Collection struct {
	Groups []LabelGroup
	pos    map[string]int
}

// NewCollection creates an empty collection.
func NewCollection() *Collection {
	return &Collection{pos: make(map[string]int)}
}

// Add appends documents under label. Adding to an existing label extends its
// group instead of creating a second one.
func (c *Collection) Add(label string, docs ...[]string) {
	if c.pos == nil {
		c.pos = make(map[string]int, len(c.Groups))
		for i, g := range c.Groups {
			c.pos[g.Label] = i
		}
	}
	if i, ok := c.pos[label]; ok {
		c.Groups[i].Documents = append(c.Groups[i].Documents, docs...)
		return
	}
	c.pos[label] = len(c.Groups)
	c.Groups = append(c.Groups, LabelGroup{Label: label, Documents: docs})
}

// Labels returns the labels in insertion order.
func (c *Collection) Labels() []string {
	out := make([]string, len(c.Groups))
	for i, g := range c.Groups {
		out[i] = g.Label
	}
	return out
}

// NumDocuments returns the total number of documents across all labels.
func (c *Collection) NumDocuments() int {
	n := 0
	for _, g := range c.Groups {
		n += len(g.Documents)
	}
	return n
}

// labeledDoc is one (label, document) pair of the canonical traversal.
type labeledDoc struct {
	label  string
	tokens []string
}

func (c *Collection) pairs() []labeledDoc {
	out := make([]labeledDoc, 0, c.NumDocuments())
	for _, g := range c.Groups {
		for _, doc := range g.Documents {
			out = append(out, labeledDoc{label: g.Label, tokens: doc})
		}
	}
	return out
}
