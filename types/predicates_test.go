package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPredicateKey(t *testing.T) {
	p := Predicate{Path: []string{"user", "name"}, Lookup: LookupStartsWith, Value: "Ge"}
	assert.Equal(t, "user__name__startswith", p.Key(DefaultSeparator))
	assert.Equal(t, "user.name.startswith", p.Key("."))
	assert.Equal(t, "user", p.Field())
	assert.Equal(t, []string{"name"}, p.Relations())

	// Key must not alias the path backing array
	path := make([]string, 1, 4)
	path[0] = "id"
	p = Predicate{Path: path, Lookup: LookupExact}
	_ = p.Key("__")
	assert.Equal(t, []string{"id"}, p.Path)
}

func TestPredicateSetLastWriteWins(t *testing.T) {
	set := PredicateSet{}
	set.Add(DefaultSeparator, Predicate{Path: []string{"id"}, Lookup: LookupExact, Value: "1"})
	set.Add(DefaultSeparator, Predicate{Path: []string{"id"}, Lookup: LookupExact, Value: "2"})
	set.Add(DefaultSeparator, Predicate{Path: []string{"rating"}, Lookup: LookupIn, Value: []string{"1"}})

	assert.Len(t, set, 2)
	assert.Equal(t, []string{"id__exact", "rating__in"}, set.Keys())
	assert.Equal(t, map[string]interface{}{
		"id__exact":  "2",
		"rating__in": []string{"1"},
	}, set.Values())
	assert.Equal(t, "rating", set.Sorted()[1].Field())
}

func TestTerms(t *testing.T) {
	terms := NewTerms(LookupExact, LookupIn)
	assert.True(t, terms.Contains(LookupIn))
	assert.False(t, terms.Contains(LookupGte))
	assert.Equal(t, []string{"exact", "in"}, terms.Names())
	assert.Len(t, AllTerms(), len(AllLookups))
	assert.True(t, IsKnownLookup(LookupWeekDay))
	assert.False(t, IsKnownLookup("between"))
}

func TestInvalidValueError(t *testing.T) {
	cause := errors.New("strconv.ParseInt: parsing \"x\": invalid syntax")
	err := NewInvalidValueError("id__exact", "x", cause)

	assert.True(t, IsInvalidValue(err))
	assert.True(t, IsInvalidValue(fmt.Errorf("filter: %w", err)))
	assert.True(t, errors.Is(err, cause))
	assert.False(t, IsInvalidValue(cause))
	assert.Contains(t, err.Error(), "id__exact")
}
