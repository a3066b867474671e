// types package contains the public API types
// that are shared between the compiler, the backends and the REST layer
package types

import (
	"context"
	"net/http"
)

// Row is a single entity returned by a queryset, keyed by storage field name.
type Row = map[string]interface{}

// Queryset is a persistent handle to a collection of rows. Filtering returns a new Queryset and never
// changes the receiver.
type Queryset interface {
	// QueryTerms returns the lookups understood by this queryset
	QueryTerms() Terms

	// All returns an unfiltered copy of the queryset
	All() Queryset

	// Filter narrows the queryset to rows matching every predicate of the set
	Filter(predicates PredicateSet) (Queryset, error)

	// Exclude removes the rows matching every predicate of the set
	Exclude(predicates PredicateSet) (Queryset, error)

	// Rows evaluates the queryset
	Rows(ctx context.Context) ([]Row, error)
}

// Backend hands out querysets for storage tables.
type Backend interface {
	Queryset(ctx context.Context, table string) (Queryset, error)
}

// Route represents a request route to be served
type Route struct {
	Method  string
	Pattern string
	Handler http.Handler
}
