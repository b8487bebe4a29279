package vectorizer

import (
	"maps"
	"slices"
)

// Index assigns dense integer ids to keys in first-interned order.
// It is not safe for concurrent use.
type Index struct {
	ids  map[string]int
	keys []string
}

// NewIndex creates an empty Index.
func NewIndex() *Index {
	return &Index{ids: make(map[string]int)}
}

// Intern returns the id of key, allocating the next id on first sight.
func (ix *Index) Intern(key string) int {
	if id, ok := ix.ids[key]; ok {
		return id
	}
	id := len(ix.keys)
	ix.ids[key] = id
	ix.keys = append(ix.keys, key)
	return id
}

// ID returns the id of key and whether it is present.
func (ix *Index) ID(key string) (int, bool) {
	id, ok := ix.ids[key]
	return id, ok
}

// Key returns the key with the given id.
func (ix *Index) Key(id int) string {
	return ix.keys[id]
}

// Len returns the number of interned keys.
func (ix *Index) Len() int {
	return len(ix.keys)
}

// Keys returns the keys ordered by id.
func (ix *Index) Keys() []string {
	out := make([]string, len(ix.keys))
	copy(out, ix.keys)
	return out
}

// Map returns a copy of the key → id mapping.
func (ix *Index) Map() map[string]int {
	return maps.Clone(ix.ids)
}

// Sorted returns a new Index holding the same keys renumbered in ascending
// byte order, and the mapping from old ids to new ids.
func (ix *Index) Sorted() (*Index, []int) {
	keys := ix.Keys()
	slices.Sort(keys)
	out := NewIndex()
	for _, k := range keys {
		out.Intern(k)
	}
	remap := make([]int, len(ix.keys))
	for old, k := range ix.keys {
		remap[old] = out.ids[k]
	}
	return out, remap
}
