package methods

import (
	"testing"

	"github.com/datastax/data-api-filters/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestTemplateMethod(t *testing.T) {
	template := Template{
		Params: []string{"name__iexact", "surname"},
		Fixed:  map[string]interface{}{"activities": "studying", "active": "True"},
	}
	method, err := template.Method()
	assert.NoError(t, err)
	assert.Equal(t, 2, method.Arity)

	result := types.NewQuerysetMock()
	qs := types.NewQuerysetMock()
	qs.On("QueryTerms").Return(types.NewTerms("exact", "iexact"))
	qs.On("Filter", types.PredicateSet{
		"active__exact":     {Path: []string{"active"}, Lookup: "exact", Value: true},
		"activities__exact": {Path: []string{"activities"}, Lookup: "exact", Value: "studying"},
		"name__iexact":      {Path: []string{"name"}, Lookup: "iexact", Value: "Gennady"},
		"surname__exact":    {Path: []string{"surname"}, Lookup: "exact", Value: "chibisov"},
	}).Return(result, nil)

	got, err := method.Fn(qs, []string{"Gennady", "chibisov"})
	assert.NoError(t, err)
	assert.Same(t, result, got)
	qs.AssertExpectations(t)
}

func TestTemplateExclude(t *testing.T) {
	method, err := Template{Fixed: map[string]interface{}{"activities": "studying"}, Exclude: true}.Method()
	assert.NoError(t, err)
	assert.Equal(t, 0, method.Arity)

	qs := types.NewQuerysetMock()
	qs.On("QueryTerms").Return(types.AllTerms())
	qs.On("Exclude", mock.Anything).Return(qs, nil)

	_, err = method.Fn(qs, nil)
	assert.NoError(t, err)
	qs.AssertNotCalled(t, "Filter", mock.Anything)
	qs.AssertExpectations(t)
}

func TestTemplateNeedsExpressions(t *testing.T) {
	_, err := Template{}.Method()
	assert.Error(t, err)
}
