package models

import "sort"

// IDSet is a set of entity ids. The in-memory representation is a true
// set; persistence adapters convert to and from sorted arrays at the
// serialization boundary, never inline in business logic.
type IDSet map[string]struct{}

// NewIDSet builds a set from the given ids.
func NewIDSet(ids ...string) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add inserts id into the set. Empty ids are ignored.
func (s IDSet) Add(id string) {
	if id == "" {
		return
	}
	s[id] = struct{}{}
}

// Remove deletes id from the set.
func (s IDSet) Remove(id string) {
	delete(s, id)
}

// Has reports whether id is in the set.
func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Sorted returns the ids in lexical order for deterministic output.
func (s IDSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Clone returns an independent copy of the set.
func (s IDSet) Clone() IDSet {
	out := make(IDSet, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}
