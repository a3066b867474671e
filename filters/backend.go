package filters

import (
	"net/url"

	"github.com/datastax/data-api-filters/log"
	"github.com/datastax/data-api-filters/types"
)

type Status int

const (
	// Disabled means the resource declares no whitelist and the queryset was returned unfiltered.
	Disabled Status = iota
	// Applied means the predicate set was applied to the queryset.
	Applied
	// FellBack means the data layer rejected a filter value and the unfiltered queryset was returned.
	FellBack
)

func (s Status) String() string {
	switch s {
	case Applied:
		return "applied"
	case FellBack:
		return "fell-back"
	}
	return "disabled"
}

// Outcome is the result of filtering a queryset.
type Outcome struct {
	Queryset   types.Queryset
	Predicates types.PredicateSet
	Status     Status
	// Cause is the data layer error behind a FellBack outcome.
	Cause error
}

// DictFilterBackend filters querysets from query parameters according to a resource whitelist.
//
// Invalid filter values fail open: when the data layer rejects a value the caller gets the whole
// unfiltered queryset with a FellBack status instead of an error. A client typo therefore returns
// more rows than asked for, never a server error.
type DictFilterBackend struct {
	compiler *Compiler
	logger   log.Logger
}

func NewDictFilterBackend(compiler *Compiler, logger log.Logger) *DictFilterBackend {
	return &DictFilterBackend{compiler: compiler, logger: logger}
}

// FilterQueryset applies the filters in params to qs. Only errors unrelated to filter values (e.g. a
// lost connection) are returned.
func (b *DictFilterBackend) FilterQueryset(params url.Values, resource Resource, qs types.Queryset) (Outcome, error) {
	if !resource.Filterable() {
		return Outcome{Queryset: qs.All(), Status: Disabled}, nil
	}

	predicates := b.compiler.Compile(params, resource, qs.QueryTerms())

	filtered, err := qs.Filter(predicates)
	if err == nil {
		return Outcome{Queryset: filtered, Predicates: predicates, Status: Applied}, nil
	}

	if !types.IsInvalidValue(err) {
		return Outcome{}, err
	}

	b.logger.Warn("invalid filter value, returning unfiltered results",
		"filters", predicates.Keys(),
		"error", err)
	return Outcome{Queryset: qs.All(), Predicates: predicates, Status: FellBack, Cause: err}, nil
}
