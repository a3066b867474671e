package filters

import (
	"strings"

	"github.com/datastax/data-api-filters/types"
)

const listSeparator = ","

// Coerce turns a raw query value into the predicate value: boolean and nil literals become true,
// false and nil; in and range values are split on commas. For those two lookups every occurrence of
// the parameter is split and concatenated, so "a=1,2&a=3" yields [1 2 3]. Anything else is passed
// through unchanged.
func Coerce(value interface{}, lookup string, occurrences []string) interface{} {
	switch value {
	case "true", "True", true:
		value = true
	case "false", "False", false:
		value = false
	case "nil", "none", "None", nil:
		value = nil
	}

	if lookup != types.LookupIn && lookup != types.LookupRange {
		return value
	}

	text, ok := value.(string)
	if !ok || text == "" {
		return value
	}

	if len(occurrences) == 0 {
		return strings.Split(text, listSeparator)
	}

	parts := make([]string, 0, len(occurrences))
	for _, occurrence := range occurrences {
		parts = append(parts, strings.Split(occurrence, listSeparator)...)
	}
	return parts
}
