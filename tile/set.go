package tile

// Set is the ordered list of definitions belonging to one layer. Source
// order is preserved: reverse lookups scan it front to back and the first
// match wins.
type Set struct {
	defs []Definition
	byID map[int]int
}

// NewSet returns a Set holding defs in the given order. When several
// definitions share an ID, lookups by ID return the first one.
func NewSet(defs []Definition) *Set {
	s := &Set{
		defs: defs,
		byID: make(map[int]int, len(defs)),
	}
	for i, d := range defs {
		if _, ok := s.byID[d.ID]; !ok {
			s.byID[d.ID] = i
		}
	}
	return s
}

// Len returns the number of definitions. A nil Set is empty.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.defs)
}

// Lookup returns the definition with the given ID.
func (s *Set) Lookup(id int) (Definition, bool) {
	if s == nil {
		return Definition{}, false
	}
	i, ok := s.byID[id]
	if !ok {
		return Definition{}, false
	}
	return s.defs[i], true
}

// First returns the first definition in source order.
func (s *Set) First() (Definition, bool) {
	if s.Len() == 0 {
		return Definition{}, false
	}
	return s.defs[0], true
}

// All returns the definitions in source order. The slice must not be modified.
func (s *Set) All() []Definition {
	if s == nil {
		return nil
	}
	return s.defs
}
