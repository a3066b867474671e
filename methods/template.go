package methods

import (
	"fmt"
	"sort"

	"github.com/datastax/data-api-filters/filters"
	"github.com/datastax/data-api-filters/types"
)

// Template describes a method built from filter expressions rather than code: each positional
// argument is bound to the expression at the same index of Params, and Fixed expressions always apply.
// Expressions use storage field names, e.g. "activities" or "name__iexact".
type Template struct {
	Params    []string
	Fixed     map[string]interface{}
	Exclude   bool
	Separator string
}

// Method compiles the template. The expressions are parsed against the terms of the queryset the
// method is called on.
func (t Template) Method() (Method, error) {
	if len(t.Params) == 0 && len(t.Fixed) == 0 {
		return Method{}, fmt.Errorf("method template needs params or fixed values")
	}

	sep := t.Separator
	if sep == "" {
		sep = types.DefaultSeparator
	}

	fixed := make([]string, 0, len(t.Fixed))
	for key := range t.Fixed {
		fixed = append(fixed, key)
	}
	sort.Strings(fixed)

	params := append([]string(nil), t.Params...)
	values := t.Fixed
	exclude := t.Exclude

	fn := func(qs types.Queryset, args []string) (types.Queryset, error) {
		terms := qs.QueryTerms()
		predicates := types.PredicateSet{}
		add := func(raw string, value interface{}) {
			expr := filters.ParseExpression(raw, sep, terms)
			predicates.Add(sep, types.Predicate{
				Path:   append([]string{expr.Field}, expr.Relations...),
				Lookup: expr.Lookup,
				Value:  filters.Coerce(value, expr.Lookup, nil),
			})
		}

		for _, key := range fixed {
			add(key, values[key])
		}
		for i, raw := range params {
			add(raw, args[i])
		}

		if exclude {
			return qs.Exclude(predicates)
		}
		return qs.Filter(predicates)
	}

	return Method{Arity: len(params), Fn: fn}, nil
}
