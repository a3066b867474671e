// Package memory implements an in-process queryset over rows held in memory. Relations are nested rows
// (to-one) or slices of rows (to-many).
package memory

import (
	"context"

	"github.com/datastax/data-api-filters/types"
)

var supportedTerms = types.NewTerms(
	types.LookupExact, types.LookupIExact, types.LookupContains, types.LookupIContains, types.LookupIn,
	types.LookupGt, types.LookupGte, types.LookupLt, types.LookupLte,
	types.LookupStartsWith, types.LookupIStartsWith, types.LookupEndsWith, types.LookupIEndsWith,
	types.LookupRange, types.LookupYear, types.LookupMonth, types.LookupDay, types.LookupWeekDay,
	types.LookupIsNull, types.LookupRegex, types.LookupIRegex,
)

type Queryset struct {
	rows []types.Row
}

func New(rows []types.Row) *Queryset {
	return &Queryset{rows: rows}
}

func (q *Queryset) QueryTerms() types.Terms {
	return supportedTerms
}

func (q *Queryset) All() types.Queryset {
	return &Queryset{rows: append([]types.Row(nil), q.rows...)}
}

// Filter keeps the rows matching every predicate. Values are converted to the type of the row value
// they are compared with; a value that cannot be converted fails the whole call.
func (q *Queryset) Filter(predicates types.PredicateSet) (types.Queryset, error) {
	return q.selectRows(predicates, true)
}

// Exclude drops the rows matching every predicate.
func (q *Queryset) Exclude(predicates types.PredicateSet) (types.Queryset, error) {
	return q.selectRows(predicates, false)
}

func (q *Queryset) Rows(ctx context.Context) ([]types.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]types.Row(nil), q.rows...), nil
}

func (q *Queryset) Len() int {
	return len(q.rows)
}

func (q *Queryset) selectRows(predicates types.PredicateSet, keep bool) (types.Queryset, error) {
	sorted := predicates.Sorted()
	rows := make([]types.Row, 0, len(q.rows))
	for _, row := range q.rows {
		matched, err := matchesAll(row, sorted)
		if err != nil {
			return nil, err
		}
		if matched == keep {
			rows = append(rows, row)
		}
	}
	return &Queryset{rows: rows}, nil
}

func matchesAll(row types.Row, predicates []types.Predicate) (bool, error) {
	for _, p := range predicates {
		matched, err := matches(row, p)
		if err != nil {
			return false, types.NewInvalidValueError(p.Key(types.DefaultSeparator), p.Value, err)
		}
		if !matched {
			return false, nil
		}
	}
	return true, nil
}

// matches evaluates p against row. A path crossing a to-many relation matches when any related row does.
func matches(row types.Row, p types.Predicate) (bool, error) {
	lookup, ok := lookups[p.Lookup]
	if !ok {
		return false, errUnsupportedLookup(p.Lookup)
	}

	for _, candidate := range resolve(row, p.Path) {
		matched, err := lookup(candidate, p.Value)
		if err != nil || matched {
			return matched, err
		}
	}
	return false, nil
}

// resolve follows path through row and returns every value found at its end. A missing key resolves
// to nil.
func resolve(row types.Row, path []string) []interface{} {
	var current interface{} = row
	candidates := []interface{}{current}

	for _, segment := range path {
		next := make([]interface{}, 0, len(candidates))
		for _, candidate := range candidates {
			next = append(next, children(candidate, segment)...)
		}
		candidates = next
	}

	for i, candidate := range candidates {
		// A relation compared directly stands for its primary key
		if related, ok := candidate.(types.Row); ok {
			candidates[i] = related["id"]
		}
	}
	return candidates
}

func children(value interface{}, segment string) []interface{} {
	switch value := value.(type) {
	case types.Row:
		return flatten(value[segment])
	case []types.Row:
		result := make([]interface{}, 0, len(value))
		for _, row := range value {
			result = append(result, flatten(row[segment])...)
		}
		return result
	}
	return []interface{}{nil}
}

func flatten(value interface{}) []interface{} {
	switch value := value.(type) {
	case []types.Row:
		if len(value) == 0 {
			return []interface{}{nil}
		}
		result := make([]interface{}, len(value))
		for i, row := range value {
			result[i] = row
		}
		return result
	}
	return []interface{}{value}
}
