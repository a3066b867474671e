package types

import "sort"

const (
	LookupExact       = "exact"
	LookupIExact      = "iexact"
	LookupContains    = "contains"
	LookupIContains   = "icontains"
	LookupIn          = "in"
	LookupGt          = "gt"
	LookupGte         = "gte"
	LookupLt          = "lt"
	LookupLte         = "lte"
	LookupStartsWith  = "startswith"
	LookupIStartsWith = "istartswith"
	LookupEndsWith    = "endswith"
	LookupIEndsWith   = "iendswith"
	LookupRange       = "range"
	LookupYear        = "year"
	LookupMonth       = "month"
	LookupDay         = "day"
	LookupWeekDay     = "week_day"
	LookupIsNull      = "isnull"
	LookupSearch      = "search"
	LookupRegex       = "regex"
	LookupIRegex      = "iregex"
)

// AllLookups lists every lookup the filter compiler knows about.
var AllLookups = []string{
	LookupExact, LookupIExact, LookupContains, LookupIContains, LookupIn,
	LookupGt, LookupGte, LookupLt, LookupLte,
	LookupStartsWith, LookupIStartsWith, LookupEndsWith, LookupIEndsWith,
	LookupRange, LookupYear, LookupMonth, LookupDay, LookupWeekDay,
	LookupIsNull, LookupSearch, LookupRegex, LookupIRegex,
}

// Terms is the set of lookups a queryset can evaluate.
type Terms map[string]bool

func NewTerms(lookups ...string) Terms {
	terms := make(Terms, len(lookups))
	for _, lookup := range lookups {
		terms[lookup] = true
	}
	return terms
}

// AllTerms returns a set containing every known lookup.
func AllTerms() Terms {
	return NewTerms(AllLookups...)
}

func (t Terms) Contains(lookup string) bool {
	return t[lookup]
}

// Names returns the lookups sorted by name.
func (t Terms) Names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsKnownLookup reports whether lookup is one of AllLookups.
func IsKnownLookup(lookup string) bool {
	for _, known := range AllLookups {
		if known == lookup {
			return true
		}
	}
	return false
}
