package methods

import (
	"errors"
	"fmt"
	"strings"

	"github.com/datastax/data-api-filters/filters"
	"github.com/datastax/data-api-filters/types"
)

const argumentSeparator = ","

// Adapter applies a single query parameter value to a queryset.
type Adapter interface {
	Apply(qs types.Queryset, value string) (types.Queryset, error)
}

// Dispatch passes the comma separated parameter value as positional arguments to a registry method.
type Dispatch struct {
	registry *Registry
	name     string
}

func NewDispatch(registry *Registry, name string) (*Dispatch, error) {
	if _, ok := registry.Lookup(name); !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMethod, name)
	}
	return &Dispatch{registry: registry, name: name}, nil
}

func (d *Dispatch) Method() string {
	return d.name
}

// Apply returns qs unchanged when value is empty, when the argument count does not match the method
// or when the method rejects the arguments as filter values.
func (d *Dispatch) Apply(qs types.Queryset, value string) (types.Queryset, error) {
	if value == "" {
		return qs, nil
	}
	return call(d.registry, d.name, qs, strings.Split(value, argumentSeparator))
}

// Boolean invokes one of two zero argument methods depending on the boolean value of the parameter.
type Boolean struct {
	registry  *Registry
	trueName  string
	falseName string
}

func NewBoolean(registry *Registry, trueName, falseName string) (*Boolean, error) {
	for _, name := range []string{trueName, falseName} {
		method, ok := registry.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownMethod, name)
		}
		if method.Arity != 0 && method.Arity != Variadic {
			return nil, fmt.Errorf("%w: %s must take no arguments", ErrArity, name)
		}
	}
	return &Boolean{registry: registry, trueName: trueName, falseName: falseName}, nil
}

// Apply calls the true method for true literals and the false method for false literals. Null and
// unrecognized values leave qs unchanged.
func (b *Boolean) Apply(qs types.Queryset, value string) (types.Queryset, error) {
	switch filters.Coerce(value, types.LookupExact, nil) {
	case true:
		return call(b.registry, b.trueName, qs, nil)
	case false:
		return call(b.registry, b.falseName, qs, nil)
	}
	return qs, nil
}

func call(registry *Registry, name string, qs types.Queryset, args []string) (types.Queryset, error) {
	result, err := registry.Call(name, qs, args)
	if err != nil {
		if errors.Is(err, ErrArity) || types.IsInvalidValue(err) {
			return qs, nil
		}
		return nil, err
	}
	return result, nil
}
