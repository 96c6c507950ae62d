package component

import "sort"

// Counter maps a canonical identifier to its number of occurrences.
type Counter map[string]int

// NewCounter builds a counter from a list of identifiers.
func NewCounter(ids ...string) Counter {
	c := make(Counter, len(ids))
	c.Add(ids...)
	return c
}

// Add records one occurrence for every id.
func (c Counter) Add(ids ...string) {
	for _, id := range ids {
		c[id]++
	}
}

// Count returns the number of occurrences of id.
func (c Counter) Count(id string) int {
	return c[id]
}

// Has reports whether id was seen at least once.
func (c Counter) Has(id string) bool {
	return c[id] > 0
}

// Keys returns the distinct identifiers in ascending order.
func (c Counter) Keys() []string {
	keys := make([]string, 0, len(c))
	for id, n := range c {
		if n > 0 {
			keys = append(keys, id)
		}
	}
	sort.Strings(keys)
	return keys
}

// Set is a set of canonical identifiers.
type Set map[string]struct{}

// NewSet builds a set from a list of identifiers.
func NewSet(ids ...string) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether id is in the set.
func (s Set) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of identifiers in the set.
func (s Set) Len() int {
	return len(s)
}

// Sorted returns the identifiers in ascending order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Filter returns the members for which keep returns true.
func (s Set) Filter(keep func(string) bool) Set {
	out := make(Set, len(s))
	for id := range s {
		if keep(id) {
			out[id] = struct{}{}
		}
	}
	return out
}
