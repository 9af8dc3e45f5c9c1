package assets

// IDSet is an insertion-ordered set of asset identifiers.
// It is the accumulator threaded through a traversal and is not safe for
// concurrent use; callers sharing one set across goroutines must serialize.
type IDSet struct {
	order []string
	index map[string]struct{}
}

// NewIDSet creates a set seeded with ids. Duplicates in ids are collapsed.
func NewIDSet(ids ...string) *IDSet {
	s := &IDSet{index: make(map[string]struct{}, len(ids))}
	s.Add(ids...)
	return s
}

// Add inserts ids not already present and reports how many were new
func (s *IDSet) Add(ids ...string) int {
	if s.index == nil {
		s.index = make(map[string]struct{}, len(ids))
	}
	added := 0
	for _, id := range ids {
		if _, ok := s.index[id]; ok {
			continue
		}
		s.index[id] = struct{}{}
		s.order = append(s.order, id)
		added++
	}
	return added
}

// Has reports whether id is in the set
func (s *IDSet) Has(id string) bool {
	_, ok := s.index[id]
	return ok
}

// Len returns the number of identifiers in the set
func (s *IDSet) Len() int {
	return len(s.order)
}

// Slice returns a copy of the identifiers in insertion order
func (s *IDSet) Slice() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Difference returns the identifiers of s that are not in other, in s's order
func (s *IDSet) Difference(other *IDSet) []string {
	out := []string{}
	for _, id := range s.order {
		if other == nil || !other.Has(id) {
			out = append(out, id)
		}
	}
	return out
}
