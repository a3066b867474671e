package types

import (
	"sort"
	"strings"
)

// DefaultSeparator joins field, relation and lookup segments in filter expressions and predicate keys.
const DefaultSeparator = "__"

// Predicate is a single "field path, lookup, value" triple.
type Predicate struct {
	Path   []string
	Lookup string
	Value  interface{}
}

// Key joins the path and lookup with sep, e.g. "user__name__startswith".
func (p Predicate) Key(sep string) string {
	return strings.Join(append(append([]string{}, p.Path...), p.Lookup), sep)
}

// Field returns the first path segment.
func (p Predicate) Field() string {
	if len(p.Path) == 0 {
		return ""
	}
	return p.Path[0]
}

// Relations returns the path segments after the field.
func (p Predicate) Relations() []string {
	if len(p.Path) < 2 {
		return nil
	}
	return p.Path[1:]
}

// PredicateSet maps predicate keys to predicates. Writing an existing key replaces it.
type PredicateSet map[string]Predicate

func (s PredicateSet) Add(sep string, p Predicate) {
	s[p.Key(sep)] = p
}

// Keys returns the predicate keys in sorted order so consumers build deterministic queries.
func (s PredicateSet) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Sorted returns the predicates ordered by key.
func (s PredicateSet) Sorted() []Predicate {
	keys := s.Keys()
	predicates := make([]Predicate, len(keys))
	for i, k := range keys {
		predicates[i] = s[k]
	}
	return predicates
}

// Values flattens the set into key -> value, the shape handed to a conjunctive filter call.
func (s PredicateSet) Values() map[string]interface{} {
	values := make(map[string]interface{}, len(s))
	for k, p := range s {
		values[k] = p.Value
	}
	return values
}
