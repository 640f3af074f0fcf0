package graph

import "github.com/tidwall/btree"

// WordTable holds every visual-word observation of one node, keyed by word
// id and ordered by it. A word id may hold several observations (repeated
// texture), so values are slices. The 2D keypoint and optional 3D point of
// each observation live in one WordRef record, so the two can never drift
// apart under removal or re-keying.
type WordTable struct {
	m btree.Map[int, []WordRef]
	n int
}

// NewWordTable creates an empty word table.
func NewWordTable() *WordTable {
	return &WordTable{}
}

// Add appends one observation under the given word id.
func (w *WordTable) Add(wordID int, ref WordRef) {
	refs, _ := w.m.Get(wordID)
	w.m.Set(wordID, append(refs, ref))
	w.n++
}

// Get returns the observations filed under wordID, or nil. The returned
// slice is owned by the table and must not be mutated.
func (w *WordTable) Get(wordID int) []WordRef {
	refs, _ := w.m.Get(wordID)
	return refs
}

// Remove erases every observation under wordID and returns how many were
// removed.
func (w *WordTable) Remove(wordID int) int {
	refs, ok := w.m.Delete(wordID)
	if !ok {
		return 0
	}
	w.n -= len(refs)
	return len(refs)
}

// Rename moves every observation under oldID to newID, preserving values
// and multiplicity and merging with any observations already filed under
// newID. It reports whether anything moved; an absent oldID is a no-op.
func (w *WordTable) Rename(oldID, newID int) bool {
	refs, ok := w.m.Delete(oldID)
	if !ok {
		return false
	}
	existing, _ := w.m.Get(newID)
	merged := make([]WordRef, 0, len(existing)+len(refs))
	merged = append(merged, existing...)
	merged = append(merged, refs...)
	w.m.Set(newID, merged)
	return true
}

// Clear removes all observations.
func (w *WordTable) Clear() {
	w.m.Clear()
	w.n = 0
}

// Len returns the total number of observations across all word ids.
func (w *WordTable) Len() int {
	return w.n
}

// WordCount returns the number of distinct word ids.
func (w *WordTable) WordCount() int {
	return w.m.Len()
}

// Empty reports whether the table holds no observations.
func (w *WordTable) Empty() bool {
	return w.n == 0
}

// Scan visits every word id in ascending order. Return false from fn to
// stop early. The refs slice must not be mutated.
func (w *WordTable) Scan(fn func(wordID int, refs []WordRef) bool) {
	w.m.Scan(fn)
}

// Clone returns an independent copy of the table.
func (w *WordTable) Clone() *WordTable {
	c := &WordTable{n: w.n}
	w.m.Scan(func(id int, refs []WordRef) bool {
		cp := make([]WordRef, len(refs))
		copy(cp, refs)
		c.m.Set(id, cp)
		return true
	})
	return c
}

// WordEntry is the serialized form of one word id and its observations.
type WordEntry struct {
	ID   int       `json:"id"`
	Refs []WordRef `json:"refs"`
}

// Entries returns the table contents in ascending word-id order.
func (w *WordTable) Entries() []WordEntry {
	out := make([]WordEntry, 0, w.m.Len())
	w.m.Scan(func(id int, refs []WordRef) bool {
		cp := make([]WordRef, len(refs))
		copy(cp, refs)
		out = append(out, WordEntry{ID: id, Refs: cp})
		return true
	})
	return out
}

// FromEntries rebuilds a word table from its serialized form.
func FromEntries(entries []WordEntry) *WordTable {
	w := NewWordTable()
	for _, e := range entries {
		for _, r := range e.Refs {
			w.Add(e.ID, r)
		}
	}
	return w
}
