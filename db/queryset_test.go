package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/datastax/data-api-filters/types"
	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newRatingsQueryset(t *testing.T, sessionMock *SessionMock) *TableQueryset {
	db := NewDbWithSession(sessionMock, "store", gocql.LocalQuorum)
	qs, err := db.Queryset(context.Background(), "ratings")
	assert.NoError(t, err)
	return qs.(*TableQueryset)
}

func predicates(list ...types.Predicate) types.PredicateSet {
	set := types.PredicateSet{}
	for _, p := range list {
		set.Add(types.DefaultSeparator, p)
	}
	return set
}

func TestTableQuerysetFilter(t *testing.T) {
	created := time.Date(2012, 12, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		predicates types.PredicateSet
		wantQuery  string
		wantValues []interface{}
	}{
		{
			name:       "exact int",
			predicates: predicates(types.Predicate{Path: []string{"id"}, Lookup: "exact", Value: "1"}),
			wantQuery:  "SELECT * FROM store.ratings WHERE id = ? ALLOW FILTERING",
			wantValues: []interface{}{1},
		},
		{
			name:       "in text",
			predicates: predicates(types.Predicate{Path: []string{"rating"}, Lookup: "in", Value: []string{"1", "2"}}),
			wantQuery:  "SELECT * FROM store.ratings WHERE rating IN ? ALLOW FILTERING",
			wantValues: []interface{}{[]interface{}{"1", "2"}},
		},
		{
			name:       "in single value",
			predicates: predicates(types.Predicate{Path: []string{"id"}, Lookup: "in", Value: "3"}),
			wantQuery:  "SELECT * FROM store.ratings WHERE id IN ? ALLOW FILTERING",
			wantValues: []interface{}{[]interface{}{3}},
		},
		{
			name: "range timestamp",
			predicates: predicates(types.Predicate{
				Path: []string{"created"}, Lookup: "range", Value: []string{"2012-12-01", "2012-12-31"}}),
			wantQuery:  "SELECT * FROM store.ratings WHERE created >= ? AND created <= ? ALLOW FILTERING",
			wantValues: []interface{}{created, created.AddDate(0, 0, 30)},
		},
		{
			name: "sorted conjunction",
			predicates: predicates(
				types.Predicate{Path: []string{"rating"}, Lookup: "gt", Value: "2"},
				types.Predicate{Path: []string{"is_moderated"}, Lookup: "exact", Value: true},
				types.Predicate{Path: []string{"tags"}, Lookup: "contains", Value: "funny"},
			),
			wantQuery: "SELECT * FROM store.ratings WHERE is_moderated = ? AND rating > ? AND tags CONTAINS ?" +
				" ALLOW FILTERING",
			wantValues: []interface{}{true, "2", "funny"},
		},
		{
			name:       "no predicates",
			predicates: types.PredicateSet{},
			wantQuery:  "SELECT * FROM store.ratings",
			wantValues: []interface{}{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessionMock := NewSessionMock()
			resultMock := &ResultMock{}
			resultMock.On("Values").Return([]map[string]interface{}{{"id": 1}})
			sessionMock.On("ExecuteIter", tt.wantQuery, mock.Anything, tt.wantValues).Return(resultMock, nil)

			filtered, err := newRatingsQueryset(t, sessionMock).Filter(tt.predicates)
			assert.NoError(t, err)

			rows, err := filtered.Rows(context.Background())
			assert.NoError(t, err)
			assert.Equal(t, []types.Row{{"id": 1}}, rows)
			sessionMock.AssertExpectations(t)
		})
	}
}

func TestTableQuerysetInvalidValues(t *testing.T) {
	tests := []struct {
		name      string
		predicate types.Predicate
	}{
		{"not an int", types.Predicate{Path: []string{"id"}, Lookup: "exact", Value: "abc"}},
		{"not a date", types.Predicate{Path: []string{"created"}, Lookup: "lte", Value: "not-a-date"}},
		{"unknown column", types.Predicate{Path: []string{"user"}, Lookup: "exact", Value: "1"}},
		{"relation", types.Predicate{Path: []string{"rating", "user"}, Lookup: "exact", Value: "1"}},
		{"null value", types.Predicate{Path: []string{"rating"}, Lookup: "exact", Value: nil}},
		{"range bounds", types.Predicate{Path: []string{"id"}, Lookup: "range", Value: []string{"1"}}},
		{"contains on scalar", types.Predicate{Path: []string{"rating"}, Lookup: "contains", Value: "1"}},
		{"unsupported lookup", types.Predicate{Path: []string{"rating"}, Lookup: "startswith", Value: "1"}},
		{"bool on int", types.Predicate{Path: []string{"id"}, Lookup: "exact", Value: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessionMock := NewSessionMock()
			_, err := newRatingsQueryset(t, sessionMock).Filter(predicates(tt.predicate))
			assert.True(t, types.IsInvalidValue(err), "expected invalid value error, got %v", err)
			sessionMock.AssertNotCalled(t, "ExecuteIter", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestTableQuerysetExclude(t *testing.T) {
	qs := newRatingsQueryset(t, NewSessionMock())

	_, err := qs.Exclude(predicates(types.Predicate{Path: []string{"id"}, Lookup: "exact", Value: "1"}))
	assert.True(t, types.IsInvalidValue(err))

	_, err = qs.Exclude(types.PredicateSet{})
	assert.NoError(t, err)
}

type invalidRequestError struct{}

func (invalidRequestError) Code() int       { return gocql.ErrCodeInvalid }
func (invalidRequestError) Message() string { return "Cannot execute this query" }
func (invalidRequestError) Error() string   { return "Cannot execute this query" }

func TestTableQuerysetRowsErrors(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantInvalid bool
	}{
		{"invalid request", invalidRequestError{}, true},
		{"unavailable", errors.New("no hosts available"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessionMock := NewSessionMock()
			sessionMock.On("ExecuteIter", mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.err)

			_, err := newRatingsQueryset(t, sessionMock).Rows(context.Background())
			assert.Error(t, err)
			assert.Equal(t, tt.wantInvalid, types.IsInvalidValue(err))
		})
	}
}

func TestTableQuerysetContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sessionMock := NewSessionMock()
	resultMock := &ResultMock{}
	resultMock.On("Values").Return([]map[string]interface{}{})
	sessionMock.On("ExecuteIter", "SELECT * FROM store.ratings", mock.Anything, mock.Anything).
		Return(resultMock, nil)

	qs := newRatingsQueryset(t, sessionMock)
	_, err := qs.All().Rows(ctx)
	assert.NoError(t, err)

	options := sessionMock.Calls[1].Arguments.Get(1).(*QueryOptions)
	assert.Equal(t, ctx, options.Context)
	assert.Equal(t, gocql.LocalQuorum, options.Consistency)
}

func TestQuerysetUnknownTable(t *testing.T) {
	db := NewDbWithSession(NewSessionMock(), "store", gocql.LocalQuorum)
	_, err := db.Queryset(context.Background(), "missing")
	assert.Error(t, err)
}
