package filters

import (
	"strings"

	"github.com/datastax/data-api-filters/types"
)

// Expression is a decomposed query parameter key, e.g. "author__id__in" is field "author", relations
// ["id"] and lookup "in".
type Expression struct {
	Raw       string
	Field     string
	Relations []string
	Lookup    string
}

// ParseExpression splits raw on sep. The last segment is taken as the lookup only when terms contains
// it, otherwise the lookup is exact and every segment after the field is a relation.
func ParseExpression(raw, sep string, terms types.Terms) Expression {
	bits := strings.Split(raw, sep)
	expr := Expression{
		Raw:    raw,
		Field:  bits[0],
		Lookup: types.LookupExact,
	}
	bits = bits[1:]

	if len(bits) > 0 && terms.Contains(bits[len(bits)-1]) {
		expr.Lookup = bits[len(bits)-1]
		bits = bits[:len(bits)-1]
	}
	if len(bits) > 0 {
		expr.Relations = bits
	}
	return expr
}
