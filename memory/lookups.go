package memory

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/datastax/data-api-filters/types"
	"github.com/spf13/cast"
)

type lookupFn func(candidate, value interface{}) (bool, error)

var lookups = map[string]lookupFn{
	types.LookupExact:       exact,
	types.LookupIExact:      textLookup(func(c, v string) bool { return strings.EqualFold(c, v) }),
	types.LookupContains:    contains(false),
	types.LookupIContains:   contains(true),
	types.LookupIn:          in,
	types.LookupGt:          ordered(func(cmp int) bool { return cmp > 0 }),
	types.LookupGte:         ordered(func(cmp int) bool { return cmp >= 0 }),
	types.LookupLt:          ordered(func(cmp int) bool { return cmp < 0 }),
	types.LookupLte:         ordered(func(cmp int) bool { return cmp <= 0 }),
	types.LookupStartsWith:  textLookup(strings.HasPrefix),
	types.LookupIStartsWith: textLookup(func(c, v string) bool { return strings.HasPrefix(strings.ToLower(c), strings.ToLower(v)) }),
	types.LookupEndsWith:    textLookup(strings.HasSuffix),
	types.LookupIEndsWith:   textLookup(func(c, v string) bool { return strings.HasSuffix(strings.ToLower(c), strings.ToLower(v)) }),
	types.LookupRange:       inRange,
	types.LookupYear:        datePart(func(t time.Time) int { return t.Year() }),
	types.LookupMonth:       datePart(func(t time.Time) int { return int(t.Month()) }),
	types.LookupDay:         datePart(func(t time.Time) int { return t.Day() }),
	// Sunday is 1, Saturday is 7
	types.LookupWeekDay: datePart(func(t time.Time) int { return int(t.Weekday()) + 1 }),
	types.LookupIsNull:  isNull,
	types.LookupRegex:   regex(""),
	types.LookupIRegex:  regex("(?i)"),
}

func errUnsupportedLookup(lookup string) error {
	return fmt.Errorf("lookup %s is not supported", lookup)
}

func exact(candidate, value interface{}) (bool, error) {
	if value == nil || candidate == nil {
		return value == nil && candidate == nil, nil
	}
	cmp, err := compare(candidate, value)
	return cmp == 0, err
}

func textLookup(match func(candidate, value string) bool) lookupFn {
	return func(candidate, value interface{}) (bool, error) {
		if candidate == nil {
			return false, nil
		}
		v, err := cast.ToStringE(value)
		if err != nil {
			return false, err
		}
		return match(cast.ToString(candidate), v), nil
	}
}

// contains matches substrings of text values and members of list values.
func contains(fold bool) lookupFn {
	return func(candidate, value interface{}) (bool, error) {
		switch c := candidate.(type) {
		case nil:
			return false, nil
		case []interface{}, []string, []int, []int64, []float64:
			for _, item := range toInterfaceSlice(c) {
				matched, err := exact(item, value)
				if err != nil || matched {
					return matched, err
				}
			}
			return false, nil
		}

		v, err := cast.ToStringE(value)
		if err != nil {
			return false, err
		}
		text := cast.ToString(candidate)
		if fold {
			return strings.Contains(strings.ToLower(text), strings.ToLower(v)), nil
		}
		return strings.Contains(text, v), nil
	}
}

func in(candidate, value interface{}) (bool, error) {
	for _, item := range toInterfaceSlice(value) {
		matched, err := exact(candidate, item)
		if err != nil || matched {
			return matched, err
		}
	}
	return false, nil
}

func ordered(accept func(cmp int) bool) lookupFn {
	return func(candidate, value interface{}) (bool, error) {
		if candidate == nil {
			return false, nil
		}
		cmp, err := compare(candidate, value)
		if err != nil {
			return false, err
		}
		return accept(cmp), nil
	}
}

func inRange(candidate, value interface{}) (bool, error) {
	bounds := toInterfaceSlice(value)
	if len(bounds) != 2 {
		return false, fmt.Errorf("range needs exactly two bounds, got %d", len(bounds))
	}
	if candidate == nil {
		return false, nil
	}
	low, err := compare(candidate, bounds[0])
	if err != nil {
		return false, err
	}
	high, err := compare(candidate, bounds[1])
	if err != nil {
		return false, err
	}
	return low >= 0 && high <= 0, nil
}

func datePart(part func(t time.Time) int) lookupFn {
	return func(candidate, value interface{}) (bool, error) {
		want, err := cast.ToIntE(value)
		if err != nil {
			return false, err
		}
		if candidate == nil {
			return false, nil
		}
		t, err := toTime(candidate)
		if err != nil {
			return false, err
		}
		return part(t) == want, nil
	}
}

func isNull(candidate, value interface{}) (bool, error) {
	want, err := cast.ToBoolE(value)
	if err != nil {
		return false, err
	}
	return (candidate == nil) == want, nil
}

func regex(flags string) lookupFn {
	return func(candidate, value interface{}) (bool, error) {
		pattern, err := cast.ToStringE(value)
		if err != nil {
			return false, err
		}
		re, err := regexp.Compile(flags + pattern)
		if err != nil {
			return false, err
		}
		if candidate == nil {
			return false, nil
		}
		return re.MatchString(cast.ToString(candidate)), nil
	}
}

// compare converts value to the type of candidate and orders the two.
func compare(candidate, value interface{}) (int, error) {
	switch c := candidate.(type) {
	case string:
		v, err := cast.ToStringE(value)
		if err != nil {
			return 0, err
		}
		return strings.Compare(c, v), nil
	case bool:
		v, err := cast.ToBoolE(value)
		if err != nil {
			return 0, err
		}
		return compareInt64(boolToInt64(c), boolToInt64(v)), nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32:
		v, err := cast.ToInt64E(value)
		if err != nil {
			return 0, err
		}
		return compareInt64(cast.ToInt64(c), v), nil
	case float32, float64:
		v, err := cast.ToFloat64E(value)
		if err != nil {
			return 0, err
		}
		f := cast.ToFloat64(c)
		switch {
		case f < v:
			return -1, nil
		case f > v:
			return 1, nil
		}
		return 0, nil
	case time.Time:
		v, err := toTime(value)
		if err != nil {
			return 0, err
		}
		switch {
		case c.Before(v):
			return -1, nil
		case c.After(v):
			return 1, nil
		}
		return 0, nil
	}
	return 0, fmt.Errorf("values of type %T cannot be compared", candidate)
}

func toTime(value interface{}) (time.Time, error) {
	if text, ok := value.(string); ok {
		return types.StringToTime(text)
	}
	return cast.ToTimeE(value)
}

func toInterfaceSlice(value interface{}) []interface{} {
	switch v := value.(type) {
	case []interface{}:
		return v
	case []string:
		result := make([]interface{}, len(v))
		for i, item := range v {
			result[i] = item
		}
		return result
	case []int:
		result := make([]interface{}, len(v))
		for i, item := range v {
			result[i] = item
		}
		return result
	case []int64:
		result := make([]interface{}, len(v))
		for i, item := range v {
			result[i] = item
		}
		return result
	case []float64:
		result := make([]interface{}, len(v))
		for i, item := range v {
			result[i] = item
		}
		return result
	}
	return []interface{}{value}
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func boolToInt64(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
