package types

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type QuerysetMock struct {
	mock.Mock
}

func NewQuerysetMock() *QuerysetMock {
	return &QuerysetMock{}
}

func (o *QuerysetMock) QueryTerms() Terms {
	args := o.Called()
	return args.Get(0).(Terms)
}

func (o *QuerysetMock) All() Queryset {
	args := o.Called()
	return args.Get(0).(Queryset)
}

func (o *QuerysetMock) Filter(predicates PredicateSet) (Queryset, error) {
	args := o.Called(predicates)
	qs, _ := args.Get(0).(Queryset)
	return qs, args.Error(1)
}

func (o *QuerysetMock) Exclude(predicates PredicateSet) (Queryset, error) {
	args := o.Called(predicates)
	qs, _ := args.Get(0).(Queryset)
	return qs, args.Error(1)
}

func (o *QuerysetMock) Rows(ctx context.Context) ([]Row, error) {
	args := o.Called(ctx)
	rows, _ := args.Get(0).([]Row)
	return rows, args.Error(1)
}
